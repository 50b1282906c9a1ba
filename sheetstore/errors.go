package sheetstore

import "errors"

// ErrRateLimited 远端限流信号，按策略重试
var ErrRateLimited = errors.New("remote store rate limited")

// ErrRemoteUnavailable 传输或鉴权类失败，不重试
var ErrRemoteUnavailable = errors.New("remote store unavailable")

// ErrNotFound 区域不存在
var ErrNotFound = errors.New("region not found")
