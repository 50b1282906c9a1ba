package views

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/LaneAtlas/CycleMap/config"
	"github.com/LaneAtlas/CycleMap/sheetstore"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// 全区域批量拉取，WebSocket推送进度

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 生产环境需要严格检查
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsSink 带锁的websocket写出口：进度和重试回调来自不同goroutine
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSink) send(msg ProgressMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		log.Printf("进度消息发送失败: %v", err)
	}
}

// FetchAllRegions 并发拉取全部区域并通过WebSocket推送进度
// 任一区域不可恢复失败即中止整批
func (ctl *RouteController) FetchAllRegions(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to websocket: %v", err)
		return
	}
	defer conn.Close()
	sink := &wsSink{conn: conn}

	ctx := c.Request.Context()
	regions, err := ctl.client.ListRegions(ctx)
	if err != nil {
		sink.send(ProgressMessage{Type: "error", Message: err.Error()})
		return
	}
	sink.send(ProgressMessage{Type: "init", Total: len(regions)})

	onRetry := func(attempt int, delay time.Duration, elapsed time.Duration, cause error) {
		sink.send(ProgressMessage{
			Type:     "retry",
			Attempt:  attempt,
			DelayS:   delay.Seconds(),
			ElapsedS: elapsed.Seconds(),
			Message:  cause.Error(),
		})
	}
	onProgress := func(completed, total int) {
		sink.send(ProgressMessage{Type: "progress", Completed: completed, Total: total})
	}

	results, err := sheetstore.FetchAllRegions(
		ctx, ctl.client, regions,
		config.FetchWorkers,
		sheetstore.DefaultRetryPolicy(),
		onRetry, onProgress,
	)
	if err != nil {
		sink.send(ProgressMessage{Type: "error", Message: err.Error()})
		return
	}

	total := 0
	for _, rows := range results {
		total += len(rows)
	}
	sink.send(ProgressMessage{Type: "done", Completed: len(results), Total: total})
}
