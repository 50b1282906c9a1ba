package services

import (
	"github.com/LaneAtlas/CycleMap/models"
)

// FeatureStore 会话期间唯一的可变工作副本，按加载顺序保存记录
type FeatureStore struct {
	records []*models.RouteRecord
	byGUID  map[string]int
}

func NewFeatureStore(records []*models.RouteRecord) *FeatureStore {
	s := &FeatureStore{byGUID: make(map[string]int, len(records))}
	for _, rec := range records {
		s.records = append(s.records, rec)
		s.byGUID[rec.GUID] = len(s.records) - 1
	}
	return s
}

func (s *FeatureStore) Len() int {
	return len(s.records)
}

func (s *FeatureStore) Get(guid string) *models.RouteRecord {
	if idx, ok := s.byGUID[guid]; ok {
		return s.records[idx]
	}
	return nil
}

func (s *FeatureStore) Has(guid string) bool {
	_, ok := s.byGUID[guid]
	return ok
}

func (s *FeatureStore) IndexOf(guid string) int {
	if idx, ok := s.byGUID[guid]; ok {
		return idx
	}
	return -1
}

// Records 返回底层切片，调用方不得重排
func (s *FeatureStore) Records() []*models.RouteRecord {
	return s.records
}

// Append 末尾插入，guid已存在时不重复插入
func (s *FeatureStore) Append(rec *models.RouteRecord) bool {
	if s.Has(rec.GUID) {
		return false
	}
	s.records = append(s.records, rec)
	s.byGUID[rec.GUID] = len(s.records) - 1
	return true
}

// InsertAt 在指定序号插入并重建索引
func (s *FeatureStore) InsertAt(pos int, rec *models.RouteRecord) bool {
	if s.Has(rec.GUID) {
		return false
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.records) {
		pos = len(s.records)
	}
	s.records = append(s.records, nil)
	copy(s.records[pos+1:], s.records[pos:])
	s.records[pos] = rec
	s.reindex(pos)
	return true
}

// Remove 按guid删除，缺失时为空操作
func (s *FeatureStore) Remove(guid string) bool {
	idx, ok := s.byGUID[guid]
	if !ok {
		return false
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	delete(s.byGUID, guid)
	s.reindex(idx)
	return true
}

func (s *FeatureStore) reindex(from int) {
	for i := from; i < len(s.records); i++ {
		s.byGUID[s.records[i].GUID] = i
	}
}

// BaselineSnapshot 只读基线，整体替换、从不原地修改
type BaselineSnapshot struct {
	records []*models.RouteRecord
	byGUID  map[string]int
}

// Snapshot 深拷贝当前工作副本作为新基线
func Snapshot(store *FeatureStore) *BaselineSnapshot {
	b := &BaselineSnapshot{byGUID: make(map[string]int, store.Len())}
	for _, rec := range store.Records() {
		b.records = append(b.records, rec.Clone())
		b.byGUID[rec.GUID] = len(b.records) - 1
	}
	return b
}

func (b *BaselineSnapshot) Len() int {
	return len(b.records)
}

func (b *BaselineSnapshot) Get(guid string) *models.RouteRecord {
	if idx, ok := b.byGUID[guid]; ok {
		return b.records[idx]
	}
	return nil
}

func (b *BaselineSnapshot) Has(guid string) bool {
	_, ok := b.byGUID[guid]
	return ok
}

func (b *BaselineSnapshot) IndexOf(guid string) int {
	if idx, ok := b.byGUID[guid]; ok {
		return idx
	}
	return -1
}

func (b *BaselineSnapshot) Records() []*models.RouteRecord {
	return b.records
}
