package services

// 撤销引擎：三种动作都以基线为依据，目标缺失时是空操作而非错误

// UndoCreate 撤销新建：记录存在则删除
func UndoCreate(store *FeatureStore, guid string) bool {
	return store.Remove(guid)
}

// UndoRemove 撤销删除：基线中有且当前没有时，按基线原序号插回
func UndoRemove(store *FeatureStore, baseline *BaselineSnapshot, guid string) bool {
	if store.Has(guid) {
		return false
	}
	base := baseline.Get(guid)
	if base == nil {
		return false
	}
	pos := baseline.IndexOf(guid)
	if pos > store.Len() {
		pos = store.Len()
	}
	return store.InsertAt(pos, base.Clone())
}

// UndoEdit 撤销编辑：两侧都存在时用基线值覆盖全部属性字段
func UndoEdit(store *FeatureStore, baseline *BaselineSnapshot, guid string) bool {
	rec := store.Get(guid)
	base := baseline.Get(guid)
	if rec == nil || base == nil {
		return false
	}
	rec.CopyAttributesFrom(base)
	return true
}
