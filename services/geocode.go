package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/LaneAtlas/CycleMap/config"
	"github.com/paulmach/orb"
)

var geocodeClient = &http.Client{Timeout: 5 * time.Second}

// reverseGeocodeName 对线路中点做反向地理编码取街道名
// 未配置服务地址或任何失败都返回空串，调用方用默认名
func reverseGeocodeName(line orb.LineString) string {
	if config.GeocodeURL == "" || len(line) == 0 {
		return ""
	}
	mid := line[len(line)/2]
	url := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f&zoom=17", config.GeocodeURL, mid[1], mid[0])
	resp, err := geocodeClient.Get(url)
	if err != nil {
		log.Printf("反向地理编码请求失败: %v", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var payload struct {
		Address struct {
			Road string `json:"road"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Address.Road
}
