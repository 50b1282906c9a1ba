package sheetstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/LaneAtlas/CycleMap/config"
)

// Client 远端表格存储的HTTP网关
// 读写按区域整表进行，限流和不可用分别用哨兵错误标记
type Client struct {
	BaseURL    string
	SheetID    string
	httpClient *http.Client
}

func NewClient() *Client {
	return NewClientWithBase(config.StoreURL, config.SheetID)
}

func NewClientWithBase(baseURL, sheetID string) *Client {
	return &Client{
		BaseURL: baseURL,
		SheetID: sheetID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) regionURL(region string) string {
	return fmt.Sprintf("%s/sheets/%s/regions/%s/rows", c.BaseURL, c.SheetID, url.PathEscape(region))
}

// ListRegions 列出工作簿中的全部区域
func (c *Client) ListRegions(ctx context.Context) ([]string, error) {
	target := fmt.Sprintf("%s/sheets/%s/regions", c.BaseURL, c.SheetID)
	body, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	var regions []string
	if err := json.Unmarshal(body, &regions); err != nil {
		return nil, fmt.Errorf("解析区域列表失败: %v", err)
	}
	return regions, nil
}

// ReadRegion 读取一个区域的全部行
func (c *Client) ReadRegion(ctx context.Context, region string) ([]map[string]interface{}, error) {
	body, err := c.do(ctx, http.MethodGet, c.regionURL(region), nil)
	if err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("解析区域 %s 数据失败: %v", region, err)
	}
	return rows, nil
}

// WriteRegion 原子替换一个区域的全部行
func (c *Client) WriteRegion(ctx context.Context, region string, rows []map[string]interface{}) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("序列化区域 %s 数据失败: %v", region, err)
	}
	_, err = c.do(ctx, http.MethodPut, c.regionURL(region), payload)
	return err
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, target)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	default:
		return nil, fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return data, nil
}
