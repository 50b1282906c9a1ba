package sheetstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStatusMapping(t *testing.T) {
	t.Run("429映射为限流", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()
		client := NewClientWithBase(srv.URL, "book1")
		_, err := client.ReadRegion(context.Background(), "camden")
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("404映射为不存在", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()
		client := NewClientWithBase(srv.URL, "book1")
		_, err := client.ReadRegion(context.Background(), "camden")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("5xx映射为不可用", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		client := NewClientWithBase(srv.URL, "book1")
		_, err := client.ReadRegion(context.Background(), "camden")
		assert.ErrorIs(t, err, ErrRemoteUnavailable)
	})

	t.Run("连接失败映射为不可用", func(t *testing.T) {
		client := NewClientWithBase("http://127.0.0.1:1", "book1")
		_, err := client.ReadRegion(context.Background(), "camden")
		assert.ErrorIs(t, err, ErrRemoteUnavailable)
	})
}

func TestClientReadWrite(t *testing.T) {
	rows := []map[string]interface{}{{"guid": "g-1", "name": "Route"}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sheets/book1/regions":
			json.NewEncoder(w).Encode([]string{"camden", "hackney"})
		case r.Method == http.MethodGet && r.URL.Path == "/sheets/book1/regions/camden/rows":
			json.NewEncoder(w).Encode(rows)
		case r.Method == http.MethodPut && r.URL.Path == "/sheets/book1/regions/camden/rows":
			var got []map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Len(t, got, 1)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClientWithBase(srv.URL, "book1")
	ctx := context.Background()

	regions, err := client.ListRegions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"camden", "hackney"}, regions)

	got, err := client.ReadRegion(ctx, "camden")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "g-1", got[0]["guid"])

	assert.NoError(t, client.WriteRegion(ctx, "camden", rows))
}

func TestDecodeRow(t *testing.T) {
	t.Run("缺guid时补发", func(t *testing.T) {
		rec, err := DecodeRow(map[string]interface{}{
			"name":        "Route",
			"text_coords": "SRID=4326;LINESTRING(-0.1 51.5, -0.2 51.6)",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, rec.GUID)
		assert.Len(t, rec.Coords, 2)
	})

	t.Run("方向默认双向", func(t *testing.T) {
		rec, err := DecodeRow(map[string]interface{}{"guid": "g-1"})
		require.NoError(t, err)
		assert.Equal(t, "TwoWay", rec.OneWay)
	})

	t.Run("换行归一化", func(t *testing.T) {
		rec, err := DecodeRow(map[string]interface{}{
			"guid":        "g-1",
			"description": "line1<br>line2\r\nline3",
		})
		require.NoError(t, err)
		assert.Equal(t, "line1\nline2\nline3", rec.Description)
	})

	t.Run("非法几何报错", func(t *testing.T) {
		_, err := DecodeRow(map[string]interface{}{
			"guid":        "g-1",
			"text_coords": "LINESTRING(bogus",
		})
		assert.Error(t, err)
	})

	t.Run("编码往返保持字段", func(t *testing.T) {
		rec, err := DecodeRow(map[string]interface{}{
			"guid":        "g-1",
			"name":        "Route",
			"Designation": "C27",
			"Rejected":    true,
			"text_coords": "SRID=4326;LINESTRING(-0.1 51.5, -0.2 51.6)",
		})
		require.NoError(t, err)
		row := EncodeRow(rec)
		back, err := DecodeRow(row)
		require.NoError(t, err)
		assert.Equal(t, rec.GUID, back.GUID)
		assert.Equal(t, "C27", back.Designation)
		assert.True(t, back.Rejected)
		assert.Equal(t, rec.Coords, back.Coords)
	})
}
