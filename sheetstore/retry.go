package sheetstore

import (
	"errors"
	"time"
)

// RetryPolicy 限流重试参数：基础延迟按次翻倍，单次延迟封顶，总等待封顶
type RetryPolicy struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	MaxWait   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		BaseDelay: 2 * time.Second,
		MaxDelay:  60 * time.Second,
		MaxWait:   5 * time.Minute,
	}
}

// RetryNotify 每次重试前回调(第几次, 即将等待, 已累计等待, 失败原因)
type RetryNotify func(attempt int, nextDelay time.Duration, elapsed time.Duration, cause error)

// WithRetry 只对限流错误按策略重试，其他错误立即传播
// 累计等待满MaxWait之前不放弃，最后一次等待截断到剩余预算
func WithRetry(policy RetryPolicy, onRetry RetryNotify, op func() error) error {
	start := time.Now()
	delay := policy.BaseDelay
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return err
		}
		elapsed := time.Since(start)
		if elapsed >= policy.MaxWait {
			return err
		}
		wait := delay
		if remaining := policy.MaxWait - elapsed; wait > remaining {
			wait = remaining
		}
		if onRetry != nil {
			onRetry(attempt, wait, elapsed, err)
		}
		time.Sleep(wait)
		delay *= 2
		if delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
}
