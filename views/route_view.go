package views

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/LaneAtlas/CycleMap/config"
	"github.com/LaneAtlas/CycleMap/geo"
	"github.com/LaneAtlas/CycleMap/models"
	"github.com/LaneAtlas/CycleMap/services"
	"github.com/LaneAtlas/CycleMap/sheetstore"
	"github.com/gin-gonic/gin"
)

// 线路编辑接口

type RouteController struct {
	client *sheetstore.Client

	mu       sync.Mutex
	sessions map[string]*services.EditSession // 按用户名持有编辑会话
}

func NewRouteController() *RouteController {
	return &RouteController{
		client:   sheetstore.NewClient(),
		sessions: make(map[string]*services.EditSession),
	}
}

// sessionFor 取出或新建某用户的编辑会话
func (ctl *RouteController) sessionFor(username string) *services.EditSession {
	if username == "" {
		username = "unknown"
	}
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if session, ok := ctl.sessions[username]; ok {
		return session
	}
	session := services.NewEditSession(ctl.client, username)
	ctl.sessions[username] = session
	return session
}

// logRetry 远端限流重试时打一条日志
func logRetry(attempt int, delay time.Duration, elapsed time.Duration, cause error) {
	log.Printf("远端限流，第%d次重试，等待%.0f秒（已等待%.0f秒）: %v",
		attempt, delay.Seconds(), elapsed.Seconds(), cause)
}

// storeError 把远端错误映射为对应的HTTP状态码
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sheetstore.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "数据源限流，请稍后再试"})
	case errors.Is(err, sheetstore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "区域不存在"})
	case errors.Is(err, sheetstore.ErrRemoteUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "数据源不可用"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// routeColor 按审核状态决定前端展示颜色
func routeColor(rec *models.RouteRecord) string {
	switch {
	case rec.Rejected:
		return "#5c5555ff"
	case rec.AuditedOnline || rec.AuditedInPerson:
		return "#cd0002"
	default:
		return "#E76D02"
	}
}

func toPayload(rec *models.RouteRecord) RoutePayload {
	return RoutePayload{
		GUID:            rec.GUID,
		Name:            rec.Name,
		RouteID:         rec.RouteID,
		Description:     rec.Description,
		Designation:     rec.Designation,
		OneWay:          rec.OneWay,
		Flow:            rec.Flow,
		Protection:      rec.Protection,
		Ownership:       rec.Ownership,
		YearBuiltBefore: rec.YearBuiltBefore,
		YearBuilt:       rec.YearBuilt,
		AuditedOnline:   rec.AuditedOnline,
		AuditedInPerson: rec.AuditedInPerson,
		Rejected:        rec.Rejected,
		History:         rec.History,
		LastEdited:      rec.LastEdited,
		WhenCreated:     rec.WhenCreated,
		LengthM:         int(geo.LineLengthM(rec.Coords) + 0.5),
		Color:           routeColor(rec),
		Coords:          geo.CoordsToLatLon(rec.Coords),
	}
}

// GetRegions 列出可编辑区域
func (ctl *RouteController) GetRegions(c *gin.Context) {
	session := ctl.sessionFor(c.Query("username"))
	regions, err := session.Regions(c.Request.Context(), logRetry)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, regions)
}

// LoadRegion 加载一个区域到用户的编辑会话
func (ctl *RouteController) LoadRegion(c *gin.Context) {
	var req LoadRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Region == "" {
		req.Region = config.DefaultRegion
	}
	if req.Region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region required"})
		return
	}
	session := ctl.sessionFor(req.Username)
	if err := session.LoadRegion(c.Request.Context(), req.Region, logRetry); err != nil {
		storeError(c, err)
		return
	}
	records := session.Records()
	payloads := make([]RoutePayload, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, toPayload(rec))
	}
	c.JSON(http.StatusOK, gin.H{"region": req.Region, "routes": payloads})
}

// GetRoutes 当前会话的全部线路
func (ctl *RouteController) GetRoutes(c *gin.Context) {
	session := ctl.sessionFor(c.Query("username"))
	records := session.Records()
	payloads := make([]RoutePayload, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, toPayload(rec))
	}
	c.JSON(http.StatusOK, payloads)
}

// SaveRegion 写回远端并留存本地快照
func (ctl *RouteController) SaveRegion(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := ctl.sessionFor(req.Username)
	if err := session.Save(c.Request.Context(), logRetry); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// DiscardChanges 放弃未保存修改，重新拉取
func (ctl *RouteController) DiscardChanges(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := ctl.sessionFor(req.Username)
	if err := session.Discard(c.Request.Context(), logRetry); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discarded": true})
}

// EditGeometry 替换一条线路的几何
func (ctl *RouteController) EditGeometry(c *gin.Context) {
	var req GeometryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := ctl.sessionFor(req.Username)
	rec, clipped, err := session.EditGeometry(req.GUID, req.Coords)
	if errors.Is(err, services.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "线路完全在区域边界之外", "rejected": true})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{"applied": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": true, "clipped": clipped, "route": toPayload(rec)})
}

// CreateGeometry 乐观创建的提交端，返回temp_id到正式guid的对账消息
func (ctl *RouteController) CreateGeometry(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := ctl.sessionFor(req.Username)
	res, err := session.CreateRoute(req.TempID, req.Coords)
	if errors.Is(err, services.ErrValidation) {
		// 废弃信号：客户端据此移除temp_id对应的乐观要素
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "线路完全在区域边界之外",
			"discard": true,
			"temp_id": req.TempID,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if res == nil {
		c.JSON(http.StatusOK, gin.H{"applied": false})
		return
	}
	c.JSON(http.StatusOK, res)
}

// EditField 修改单个属性字段
func (ctl *RouteController) EditField(c *gin.Context) {
	var req FieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := ctl.sessionFor(req.Username)
	rec, err := session.EditField(req.GUID, req.Field, req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{"applied": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": true, "route": toPayload(rec)})
}

// DeleteRoute 删除一条线路
func (ctl *RouteController) DeleteRoute(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := ctl.sessionFor(req.Username)
	removed := session.Delete(req.GUID)
	c.JSON(http.StatusOK, gin.H{"applied": removed})
}

// Undo 撤销一条记录的创建、删除或编辑
func (ctl *RouteController) Undo(c *gin.Context) {
	var req UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Action {
	case "undo_create", "undo_remove", "undo_edit":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知撤销类型: " + req.Action})
		return
	}
	session := ctl.sessionFor(req.Username)
	applied := session.Undo(req.Action, req.GUID)
	resp := gin.H{"applied": applied}
	if applied {
		if rec := session.Record(req.GUID); rec != nil {
			resp["route"] = toPayload(rec)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetChanges 变更清单：逐记录状态、汇总和字段级差异
func (ctl *RouteController) GetChanges(c *gin.Context) {
	session := ctl.sessionFor(c.Query("username"))
	statuses, summary, entries := session.Changes()
	c.JSON(http.StatusOK, gin.H{
		"statuses": statuses,
		"added":    summary[0],
		"removed":  summary[1],
		"changed":  summary[2],
		"entries":  entries,
	})
}

// GetSuggestion 对已有线路做标注与权属推断
func (ctl *RouteController) GetSuggestion(c *gin.Context) {
	session := ctl.sessionFor(c.Query("username"))
	guid := c.Query("guid")
	designation, ownership, ok := session.Suggest(guid)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "记录不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"guid":        guid,
		"Designation": designation,
		"tfl_owned":   ownership,
	})
}
