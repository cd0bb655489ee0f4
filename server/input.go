package server

import "footsies/fighter"

// CurrentFrame 输入未指定帧号时使用，由 Tick 线程换成当前帧
const CurrentFrame = -1

// Input 客户端输入，由 Tick 线程交给回滚会话
type Input struct {
	PlayerID PlayerID
	Frame    int // 负数表示当前帧
	Input    fighter.Input
}

// 入站输入的 JSON 结构（WebSocket 文本消息）
// 示例：{"type":"input","frame":120,"movement":1,"attack":true,"special":false}
type InputMessage struct {
	Type     string `json:"type"`
	Frame    *int   `json:"frame,omitempty"` // 缺省表示当前帧
	Movement int    `json:"movement"`
	Attack   bool   `json:"attack"`
	Special  bool   `json:"special"`
}

// toInput 方向限制在 -1..1 再交给核心
func (m InputMessage) toInput(id PlayerID) Input {
	frame := CurrentFrame
	if m.Frame != nil && *m.Frame >= 0 {
		frame = *m.Frame
	}
	return Input{
		PlayerID: id,
		Frame:    frame,
		Input: fighter.Input{
			Movement: int8(max(-1, min(1, m.Movement))),
			Attack:   m.Attack,
			Special:  m.Special,
		},
	}
}
