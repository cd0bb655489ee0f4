package server

import "footsies/fighter"

// PlayerID 表示玩家唯一标识
type PlayerID string

// Seat 房间里的一个座位（P1 或 P2）；空座位由中立输入驱动
type Seat struct {
	ID   PlayerID
	Bot  bool // 影响该角色的冲刺判定窗口
	Conn *ClientConn

	inputsThisTick int
}

// PlayerState 为广播给客户端的轻量状态
type PlayerState struct {
	ID       string `json:"id"`
	Position int16  `json:"position"`
	State    int64  `json:"state"`
	StateLen int64  `json:"stateLen"`
	Meter    uint16 `json:"meter"`
	Wins     uint8  `json:"wins"`
	Anim     string `json:"anim"`
	Audio    string `json:"audio,omitempty"`
}

func playerState(id PlayerID, p fighter.Player) PlayerState {
	s := PlayerState{
		ID:       string(id),
		Position: p.Position(),
		State:    p.StateInt(),
		StateLen: p.StateLen(),
		Meter:    p.Meter(),
		Wins:     p.Wins(),
		Anim:     p.GetMove().AnimationFrame,
	}
	if cue, ok := p.Audio(); ok {
		s.Audio = cue
	}
	return s
}
