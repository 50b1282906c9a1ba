package sheetstore

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RegionReader 区域读取接口，便于编排器独立测试
type RegionReader interface {
	ReadRegion(ctx context.Context, region string) ([]map[string]interface{}, error)
}

// ProgressFunc 每完成一个区域回调(已完成, 总数)
type ProgressFunc func(completed, total int)

// FetchAllRegions 有界并发拉取全部区域
// 最多workers个请求同时在途；任一区域不可恢复失败即中止整批，不返回部分结果
func FetchAllRegions(
	ctx context.Context,
	reader RegionReader,
	regions []string,
	workers int,
	policy RetryPolicy,
	onRetry RetryNotify,
	onProgress ProgressFunc,
) (map[string][]map[string]interface{}, error) {
	if workers <= 0 {
		workers = 4
	}
	g, ctx := errgroup.WithContext(ctx)
	semaphore := make(chan struct{}, workers) // 限制并发数

	var mu sync.Mutex
	results := make(map[string][]map[string]interface{}, len(regions))
	completed := 0
	total := len(regions)

	for _, region := range regions {
		region := region
		g.Go(func() error {
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-semaphore }()

			var rows []map[string]interface{}
			err := WithRetry(policy, onRetry, func() error {
				var opErr error
				rows, opErr = reader.ReadRegion(ctx, region)
				return opErr
			})
			if err != nil {
				return err
			}

			// 回调在锁内执行，保证进度单调递增
			mu.Lock()
			results[region] = rows
			completed++
			if onProgress != nil {
				onProgress(completed, total)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
