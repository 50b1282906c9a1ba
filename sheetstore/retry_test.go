package sheetstore

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		BaseDelay: 2 * time.Millisecond,
		MaxDelay:  16 * time.Millisecond,
		MaxWait:   200 * time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("限流数次后成功", func(t *testing.T) {
		calls := 0
		var notices []int
		err := WithRetry(fastPolicy(), func(attempt int, delay, elapsed time.Duration, cause error) {
			notices = append(notices, attempt)
			assert.ErrorIs(t, cause, ErrRateLimited)
		}, func() error {
			calls++
			if calls <= 3 {
				return fmt.Errorf("read region: %w", ErrRateLimited)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 4, calls)
		assert.Equal(t, []int{1, 2, 3}, notices)
	})

	t.Run("延迟按次翻倍", func(t *testing.T) {
		var delays []time.Duration
		calls := 0
		_ = WithRetry(fastPolicy(), func(attempt int, delay, elapsed time.Duration, cause error) {
			delays = append(delays, delay)
		}, func() error {
			calls++
			if calls <= 3 {
				return ErrRateLimited
			}
			return nil
		})
		require.Len(t, delays, 3)
		assert.Equal(t, 2*time.Millisecond, delays[0])
		assert.Equal(t, 4*time.Millisecond, delays[1])
		assert.Equal(t, 8*time.Millisecond, delays[2])
	})

	t.Run("非限流错误立即传播", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		err := WithRetry(fastPolicy(), nil, func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("等满总预算才放弃", func(t *testing.T) {
		// 40ms+80ms的序列在100ms预算下应重试两次：
		// 第二次等待截断为剩余的60ms，累计等满100ms后才失败
		policy := RetryPolicy{
			BaseDelay: 40 * time.Millisecond,
			MaxDelay:  80 * time.Millisecond,
			MaxWait:   100 * time.Millisecond,
		}
		calls := 0
		var waits []time.Duration
		start := time.Now()
		err := WithRetry(policy, func(attempt int, wait, elapsed time.Duration, cause error) {
			waits = append(waits, wait)
		}, func() error {
			calls++
			return ErrRateLimited
		})
		elapsed := time.Since(start)
		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Equal(t, 3, calls)
		assert.GreaterOrEqual(t, elapsed, policy.MaxWait)
		assert.Less(t, elapsed, 400*time.Millisecond)
		require.Len(t, waits, 2)
		assert.Equal(t, 40*time.Millisecond, waits[0])
		assert.LessOrEqual(t, waits[1], 60*time.Millisecond)
	})

	t.Run("首次成功不回调", func(t *testing.T) {
		notified := false
		err := WithRetry(fastPolicy(), func(int, time.Duration, time.Duration, error) {
			notified = true
		}, func() error { return nil })
		require.NoError(t, err)
		assert.False(t, notified)
	})
}
