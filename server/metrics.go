package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	InputsAccepted    int64 // 被接受的输入数
	RateLimited       int64 // 因同帧限流被拒绝的输入数
	LateInputs        int64 // 已定稿、无法再回滚的输入数
	TooFarInputs      int64 // 超出预读窗口的输入数
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	Rollbacks         int64 // 回滚次数
	Resimulated       int64 // 回滚重算的帧数
	Rounds            int64
	Matches           int64
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
}

func (m *RoomMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncRateLimited()       { atomic.AddInt64(&m.RateLimited, 1) }
func (m *RoomMetrics) IncLate()              { atomic.AddInt64(&m.LateInputs, 1) }
func (m *RoomMetrics) IncTooFar()            { atomic.AddInt64(&m.TooFarInputs, 1) }
func (m *RoomMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RoomMetrics) IncRounds()            { atomic.AddInt64(&m.Rounds, 1) }
func (m *RoomMetrics) IncMatches()           { atomic.AddInt64(&m.Matches, 1) }
func (m *RoomMetrics) AddRollbacks(n, frames int) {
	atomic.AddInt64(&m.Rollbacks, int64(n))
	atomic.AddInt64(&m.Resimulated, int64(frames))
}
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"rate_limited":        atomic.LoadInt64(&m.RateLimited),
		"late_inputs":         atomic.LoadInt64(&m.LateInputs),
		"too_far_inputs":      atomic.LoadInt64(&m.TooFarInputs),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"rollbacks":           atomic.LoadInt64(&m.Rollbacks),
		"resimulated_frames":  atomic.LoadInt64(&m.Resimulated),
		"rounds":              atomic.LoadInt64(&m.Rounds),
		"matches":             atomic.LoadInt64(&m.Matches),
		"avg_tick_ms":         avgMs,
	}
}
