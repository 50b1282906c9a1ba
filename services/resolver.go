package services

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/paulmach/orb"
)

// CreationResolver 乐观创建的对账表
// 客户端先用临时标识开始编辑，提交后换取服务端guid
// 以内容哈希识别客户端重试，保证同一提交最多产生一条记录
type CreationResolver struct {
	pending  map[string]string // temp_id -> guid，解决或废弃后移除
	resolved map[string]string // 内容哈希 -> guid
}

func NewCreationResolver() *CreationResolver {
	return &CreationResolver{
		pending:  make(map[string]string),
		resolved: make(map[string]string),
	}
}

// ContentHash 对区域和提交几何做内容哈希，temp_id不参与
func ContentHash(region string, coords orb.LineString) string {
	h := sha1.New()
	h.Write([]byte(region))
	var buf [16]byte
	for _, p := range coords {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(p[0]))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p[1]))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Resolved 查询该内容哈希是否已经产生过记录
func (r *CreationResolver) Resolved(hash string) (string, bool) {
	guid, ok := r.resolved[hash]
	return guid, ok
}

// Commit 登记已接受的创建并清理临时映射
func (r *CreationResolver) Commit(tempID, hash, guid string) {
	r.resolved[hash] = guid
	delete(r.pending, tempID)
}

// Track 记录在途的临时映射
func (r *CreationResolver) Track(tempID, guid string) {
	r.pending[tempID] = guid
}

// Discard 创建被拒绝时丢弃临时映射
func (r *CreationResolver) Discard(tempID string) {
	delete(r.pending, tempID)
}

// Reset 区域切换后对账表整体作废
func (r *CreationResolver) Reset() {
	r.pending = make(map[string]string)
	r.resolved = make(map[string]string)
}
