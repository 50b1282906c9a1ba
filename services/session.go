package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/LaneAtlas/CycleMap/config"
	"github.com/LaneAtlas/CycleMap/geo"
	"github.com/LaneAtlas/CycleMap/models"
	"github.com/LaneAtlas/CycleMap/refnet"
	"github.com/LaneAtlas/CycleMap/sheetstore"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gorm.io/datatypes"
)

// ErrValidation 裁剪后几何为空：不改状态，提示用户
var ErrValidation = errors.New("geometry outside region boundary")

// 区域边界缓存：每区域一个多边形，只在裁剪时查询
var (
	boundaryOnce     sync.Once
	boundaryByRegion map[string]orb.Geometry
)

func regionBoundary(region string) orb.Geometry {
	boundaryOnce.Do(func() {
		boundaryByRegion = make(map[string]orb.Geometry)
		path := filepath.Join(config.HelpersDir, "boundaries.geojson")
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("区域边界文件读取失败 %s: %v", path, err)
			return
		}
		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			log.Printf("区域边界文件解析失败 %s: %v", path, err)
			return
		}
		for _, feat := range fc.Features {
			name, _ := feat.Properties["name"].(string)
			if name == "" || feat.Geometry == nil {
				continue
			}
			switch feat.Geometry.(type) {
			case orb.Polygon, orb.MultiPolygon:
				boundaryByRegion[name] = feat.Geometry
			}
		}
		log.Printf("区域边界加载完成: %d 个区域", len(boundaryByRegion))
	})
	return boundaryByRegion[region]
}

// Resolution 乐观创建的对账消息
type Resolution struct {
	TempID      string       `json:"temp_id"`
	GUID        string       `json:"guid"`
	Coords      [][2]float64 `json:"coords"`
	Name        string       `json:"name"`
	Designation string       `json:"Designation"`
	Ownership   string       `json:"Ownership"`
	OneWay      string       `json:"OneWay"`
	LengthM     int          `json:"Length_m"`
	Clipped     bool         `json:"clipped"`
}

// EditSession 单个区域的编辑会话
// 所有对工作副本和基线的修改都经过会话锁串行化；远端I/O和空间计算在锁外执行
type EditSession struct {
	mu       sync.Mutex
	client   *sheetstore.Client
	policy   sheetstore.RetryPolicy
	resolver *CreationResolver

	Region      string
	User        string
	epoch       uint64 // 请求纪元，过期的加载结果直接丢弃
	store       *FeatureStore
	baseline    *BaselineSnapshot
	changesMade bool
}

func NewEditSession(client *sheetstore.Client, user string) *EditSession {
	return &EditSession{
		client:   client,
		policy:   sheetstore.DefaultRetryPolicy(),
		resolver: NewCreationResolver(),
		User:     user,
		Region:   config.DefaultRegion, // 未显式加载时落在默认区域
		store:    NewFeatureStore(nil),
		baseline: Snapshot(NewFeatureStore(nil)),
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// updateHistory 追加溯源记录：历史行、最近编辑日期、创建日期回填
func (s *EditSession) updateHistory(rec *models.RouteRecord) {
	user := s.User
	if user == "" {
		user = "unknown"
	}
	line := fmt.Sprintf("%s: edited by %s", today(), user)
	if rec.History == "" {
		rec.History = line
	} else {
		rec.History = line + "\n" + rec.History
	}
	rec.LastEdited = today()
	if rec.WhenCreated == "" {
		rec.WhenCreated = today()
	}
}

// LoadRegion 拉取区域数据并整体替换工作副本与基线
// 新的加载请求会推进纪元，迟到的旧结果不落地
func (s *EditSession) LoadRegion(ctx context.Context, region string, onRetry sheetstore.RetryNotify) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	var rows []map[string]interface{}
	err := sheetstore.WithRetry(s.policy, onRetry, func() error {
		var opErr error
		rows, opErr = s.client.ReadRegion(ctx, region)
		return opErr
	})
	if err != nil {
		return err
	}
	records, err := sheetstore.DecodeRows(rows)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		log.Printf("区域 %s 的加载结果已过期，丢弃", region)
		return nil
	}
	s.store = NewFeatureStore(records)
	s.baseline = Snapshot(s.store)
	s.Region = region
	s.changesMade = false
	s.resolver.Reset()
	return nil
}

// Save 整表写回远端，成功后基线换为当前副本并留存一份本地快照
func (s *EditSession) Save(ctx context.Context, onRetry sheetstore.RetryNotify) error {
	s.mu.Lock()
	rows := sheetstore.EncodeRows(s.store.Records())
	region := s.Region
	s.mu.Unlock()

	err := sheetstore.WithRetry(s.policy, onRetry, func() error {
		return s.client.WriteRegion(ctx, region, rows)
	})
	if err != nil {
		return err
	}

	if models.DB != nil {
		if raw, err := json.Marshal(rows); err == nil {
			backup := models.RegionBackup{
				Region:   region,
				Username: s.User,
				Date:     time.Now().Format("2006-01-02 15:04:05"),
				Rows:     datatypes.JSON(raw),
			}
			if err := models.DB.Create(&backup).Error; err != nil {
				log.Printf("区域快照写入失败: %v", err)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = Snapshot(s.store)
	s.changesMade = false
	return nil
}

// Discard 放弃未保存修改，重新拉取当前区域
func (s *EditSession) Discard(ctx context.Context, onRetry sheetstore.RetryNotify) error {
	s.mu.Lock()
	region := s.Region
	s.mu.Unlock()
	return s.LoadRegion(ctx, region, onRetry)
}

// Regions 列出可编辑的区域
func (s *EditSession) Regions(ctx context.Context, onRetry sheetstore.RetryNotify) ([]string, error) {
	var regions []string
	err := sheetstore.WithRetry(s.policy, onRetry, func() error {
		var opErr error
		regions, opErr = s.client.ListRegions(ctx)
		return opErr
	})
	return regions, err
}

// EditGeometry 替换一条线路的几何，越界部分裁剪到区域边界
// 裁剪后为空时不改动任何状态；guid缺失为空操作
func (s *EditSession) EditGeometry(guid string, latlon [][2]float64) (*models.RouteRecord, bool, error) {
	coords := geo.LatLonToCoords(latlon)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.store.Get(guid)
	if rec == nil {
		return nil, false, nil
	}
	clippedCoords, clipped := geo.Clip(coords, regionBoundary(s.Region))
	if len(clippedCoords) == 0 {
		return nil, true, ErrValidation
	}
	rec.Coords = clippedCoords
	s.updateHistory(rec)
	s.changesMade = true
	s.logEdit(rec, "edit")
	return rec, clipped, nil
}

// EditField 修改单个属性字段，建议采纳也走这里
func (s *EditSession) EditField(guid, field, value string) (*models.RouteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.store.Get(guid)
	if rec == nil {
		return nil, nil
	}
	truthy := func() bool {
		switch value {
		case "true", "t", "yes", "y", "1":
			return true
		}
		return false
	}
	switch field {
	case "name":
		rec.Name = value
	case "id":
		rec.RouteID = value
	case "description":
		rec.Description = value
	case "Designation":
		rec.Designation = value
	case "OneWay":
		rec.OneWay = value
	case "Flow":
		rec.Flow = value
	case "Protection":
		rec.Protection = value
	case "Ownership":
		rec.Ownership = value
	case "YearBuilt":
		rec.YearBuilt = value
	case "YearBuildBeforeFlag":
		rec.YearBuiltBefore = truthy()
	case "AuditedStreetView":
		rec.AuditedOnline = truthy()
	case "AuditedInPerson":
		rec.AuditedInPerson = truthy()
	case "Rejected":
		rec.Rejected = truthy()
	default:
		return nil, fmt.Errorf("未知字段: %s", field)
	}
	s.updateHistory(rec)
	s.changesMade = true
	s.logEdit(rec, "edit")
	return rec, nil
}

// Delete 删除一条线路，缺失为空操作
func (s *EditSession) Delete(guid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.store.Get(guid)
	if rec == nil {
		return false
	}
	s.logEdit(rec, "remove")
	s.store.Remove(guid)
	s.changesMade = true
	return true
}

// CreateRoute 乐观创建的提交端
// 同一内容的重复提交幂等返回首次结果；裁剪为空时返回ErrValidation，调用方向客户端发废弃信号
func (s *EditSession) CreateRoute(tempID string, latlon [][2]float64) (*Resolution, error) {
	coords := geo.LatLonToCoords(latlon)

	s.mu.Lock()
	region := s.Region
	hash := ContentHash(region, coords)
	if guid, ok := s.resolver.Resolved(hash); ok {
		// 对账消息必须在锁内组装，记录可能正被并发编辑
		var res *Resolution
		if rec := s.store.Get(guid); rec != nil {
			res = s.resolution(tempID, rec, false)
		}
		s.mu.Unlock()
		return res, nil
	}
	s.mu.Unlock()

	// 空间计算在锁外
	clippedCoords, clipped := geo.Clip(coords, regionBoundary(region))
	if len(clippedCoords) == 0 {
		s.mu.Lock()
		s.resolver.Discard(tempID)
		s.mu.Unlock()
		return nil, ErrValidation
	}

	name := "New Route"
	if looked := reverseGeocodeName(clippedCoords); looked != "" {
		name = looked
	}
	designation := refnet.SuggestDesignation(clippedCoords)
	ownership := ""
	if refnet.SuggestOwnership(clippedCoords) {
		ownership = "TFL"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 锁外计算期间可能已有相同内容落地
	if guid, ok := s.resolver.Resolved(hash); ok {
		if rec := s.store.Get(guid); rec != nil {
			return s.resolution(tempID, rec, clipped), nil
		}
		return nil, nil
	}
	guid := uuid.New().String()
	s.resolver.Track(tempID, guid)
	user := s.User
	if user == "" {
		user = "unknown"
	}
	rec := &models.RouteRecord{
		GUID:        guid,
		Name:        name,
		RouteID:     GenerateRouteID(),
		OneWay:      "OneWay",
		Designation: designation,
		Ownership:   ownership,
		History:     fmt.Sprintf("%s: created by %s", today(), user),
		WhenCreated: today(),
		LastEdited:  today(),
		Coords:      clippedCoords,
	}
	s.store.Append(rec)
	s.resolver.Commit(tempID, hash, guid)
	s.changesMade = true
	s.logEdit(rec, "create")
	return s.resolution(tempID, rec, clipped), nil
}

func (s *EditSession) resolution(tempID string, rec *models.RouteRecord, clipped bool) *Resolution {
	return &Resolution{
		TempID:      tempID,
		GUID:        rec.GUID,
		Coords:      geo.CoordsToLatLon(rec.Coords),
		Name:        rec.Name,
		Designation: rec.Designation,
		Ownership:   rec.Ownership,
		OneWay:      rec.OneWay,
		LengthM:     int(geo.LineLengthM(rec.Coords) + 0.5),
		Clipped:     clipped,
	}
}

// Undo 撤销一条记录的创建/删除/编辑
func (s *EditSession) Undo(action, guid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := false
	switch action {
	case "undo_create":
		applied = UndoCreate(s.store, guid)
	case "undo_remove":
		applied = UndoRemove(s.store, s.baseline, guid)
	case "undo_edit":
		applied = UndoEdit(s.store, s.baseline, guid)
	}
	if applied {
		added, removed, changed := Summary(s.baseline, s.store)
		s.changesMade = added+removed+changed > 0
	}
	return applied
}

// ChangeEntry 变更清单中的一条
type ChangeEntry struct {
	GUID    string       `json:"guid"`
	Status  ChangeStatus `json:"status"`
	Name    string       `json:"name"`
	LengthM int          `json:"Length_m"`
	Diffs   []FieldDiff  `json:"diffs"`
}

// Changes 当前的逐记录状态、汇总和字段级差异
func (s *EditSession) Changes() (map[string]ChangeStatus, [3]int, []ChangeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	statuses := Status(s.baseline, s.store)
	added, removed, changed := Summary(s.baseline, s.store)

	var entries []ChangeEntry
	for _, rec := range s.store.Records() {
		status := statuses[rec.GUID]
		if status == StatusUnchanged {
			continue
		}
		entry := ChangeEntry{
			GUID:    rec.GUID,
			Status:  status,
			Name:    rec.Name,
			LengthM: int(geo.LineLengthM(rec.Coords) + 0.5),
		}
		if status == StatusEdited {
			entry.Diffs = DiffFields(s.baseline.Get(rec.GUID), rec)
		}
		entries = append(entries, entry)
	}
	for _, rec := range s.baseline.Records() {
		if statuses[rec.GUID] == StatusRemoved {
			entries = append(entries, ChangeEntry{
				GUID:    rec.GUID,
				Status:  StatusRemoved,
				Name:    rec.Name,
				LengthM: int(geo.LineLengthM(rec.Coords) + 0.5),
			})
		}
	}
	return statuses, [3]int{added, removed, changed}, entries
}

// Suggest 对已有线路做标注与权属推断
func (s *EditSession) Suggest(guid string) (designation string, ownership bool, ok bool) {
	s.mu.Lock()
	rec := s.store.Get(guid)
	var coords orb.LineString
	if rec != nil {
		coords = make(orb.LineString, len(rec.Coords))
		copy(coords, rec.Coords)
	}
	s.mu.Unlock()
	if rec == nil {
		return "", false, false
	}
	return refnet.SuggestDesignation(coords), refnet.SuggestOwnership(coords), true
}

// ChangesMade 是否有未保存修改
func (s *EditSession) ChangesMade() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changesMade
}

// Record 读取一条记录的拷贝
func (s *EditSession) Record(guid string) *models.RouteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.store.Get(guid); rec != nil {
		return rec.Clone()
	}
	return nil
}

// Records 读取全部记录的拷贝
func (s *EditSession) Records() []*models.RouteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.RouteRecord, 0, s.store.Len())
	for _, rec := range s.store.Records() {
		out = append(out, rec.Clone())
	}
	return out
}

func (s *EditSession) logEdit(rec *models.RouteRecord, kind string) {
	if models.DB == nil {
		return
	}
	raw, err := json.Marshal(sheetstore.EncodeRow(rec))
	if err != nil {
		return
	}
	entry := models.RouteEditLog{
		Region:   s.Region,
		GUID:     rec.GUID,
		Username: s.User,
		Type:     kind,
		Date:     time.Now().Format("2006-01-02 15:04:05"),
		NewRow:   datatypes.JSON(raw),
	}
	if err := models.DB.Create(&entry).Error; err != nil {
		log.Printf("编辑日志写入失败: %v", err)
	}
}
