package server

import "time"

// DefaultTickRate 默认推进频率（与招式表的 60 帧/秒一致）
const DefaultTickRate = 60

// StartTicker 启动房间的 Tick 循环（单线程推进对局），直到 Stop
func (r *Room) StartTicker(rate int) {
	if r.tickerStarted {
		return
	}
	if rate <= 0 {
		rate = DefaultTickRate
	}
	r.tickerStarted = true
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()
		Log.Infow("room ticker started", "room", r.ID, "rate", rate)
		for {
			select {
			case <-r.stopChan:
				Log.Infow("room ticker stopped", "room", r.ID)
				return
			case <-ticker.C:
				// 核心循环：处理输入 → 推进对局 → 广播结果
				r.Tick()
			}
		}
	}()
}

// Stop 结束 Tick 循环；只能调用一次
func (r *Room) Stop() {
	close(r.stopChan)
}
