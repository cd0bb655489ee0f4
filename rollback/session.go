package rollback

import (
	"errors"
	"fmt"

	"footsies/fighter"
	"footsies/match"
)

// Window 快照环的长度；输入只在当前帧前后半个窗口内被接受
const Window = 64

var (
	ErrInputTooOld = errors.New("rollback: input too old")
	ErrInputTooFar = errors.New("rollback: input too far ahead")
	ErrBadPlayer   = errors.New("rollback: bad player index")
)

// Frame 已定稿的一帧：此后不会再被修改
type Frame struct {
	Frame  int
	Inputs [2]fighter.Input
}

type slot struct {
	frame     int
	state     match.Match // 模拟该帧之前的状态
	inputs    [2]fighter.Input
	confirmed [2]bool
}

// Session 服务端的回滚会话：预测缺失输入，迟到输入与预测不符时回滚重算
type Session struct {
	cur  match.Match
	base int
	ring [Window]slot

	rollbackTo int
	finalized  int
	final      []Frame

	rollbacks   int
	resimulated int
}

// NewSession 从给定对局状态开始
func NewSession(m match.Match) *Session {
	s := &Session{cur: m, base: m.Frame(), finalized: m.Frame(), rollbackTo: -1}
	for i := range s.ring {
		s.ring[i].frame = -1
	}
	return s
}

func (s *Session) slot(f int) *slot { return &s.ring[f%Window] }

// AddInput 记录某名玩家在 frame 帧的确认输入；同一帧重复提交时以第一次为准
func (s *Session) AddInput(player, frame int, in fighter.Input) error {
	if player < 0 || player > 1 {
		return fmt.Errorf("%w: %d", ErrBadPlayer, player)
	}
	cur := s.Frame()
	if frame < s.finalized {
		return fmt.Errorf("%w: frame %d, current %d", ErrInputTooOld, frame, cur)
	}
	if frame >= cur+Window/2 {
		return fmt.Errorf("%w: frame %d, current %d", ErrInputTooFar, frame, cur)
	}

	sl := s.slot(frame)
	if sl.frame != frame {
		*sl = slot{frame: frame}
	}
	if sl.confirmed[player] {
		return nil
	}
	sl.confirmed[player] = true
	if frame < cur && sl.inputs[player] != in {
		if s.rollbackTo < 0 || frame < s.rollbackTo {
			s.rollbackTo = frame
		}
	}
	sl.inputs[player] = in
	return nil
}

// Advance 先处理待回滚的修正，再模拟下一帧
func (s *Session) Advance() {
	s.resolve()
	s.simulate(s.cur.Frame())
	s.finalize(s.cur.Frame() - Window/2)
}

func (s *Session) resolve() {
	if s.rollbackTo < 0 {
		return
	}
	from, to := s.rollbackTo, s.cur.Frame()
	s.rollbackTo = -1
	s.cur = s.slot(from).state
	for f := from; f < to; f++ {
		s.simulate(f)
	}
	s.rollbacks++
	s.resimulated += to - from
}

func (s *Session) simulate(f int) {
	sl := s.slot(f)
	if sl.frame != f {
		*sl = slot{frame: f}
	}
	sl.state = s.cur
	prev := s.used(f - 1)
	for p := range sl.inputs {
		if !sl.confirmed[p] {
			sl.inputs[p] = prev[p]
		}
	}
	s.cur.Step(sl.inputs)
}

// used 某帧实际使用的输入；窗口之外视为中立
func (s *Session) used(f int) [2]fighter.Input {
	if f < s.base {
		return [2]fighter.Input{}
	}
	sl := s.slot(f)
	if sl.frame != f {
		return [2]fighter.Input{}
	}
	return sl.inputs
}

func (s *Session) finalize(upTo int) {
	for ; s.finalized <= upTo; s.finalized++ {
		s.final = append(s.final, Frame{Frame: s.finalized, Inputs: s.slot(s.finalized).inputs})
	}
}

// TakeFinal 取走已定稿的帧（按帧号递增）
func (s *Session) TakeFinal() []Frame {
	out := s.final
	s.final = nil
	return out
}

// Flush 立即应用待回滚的修正，并把所有已模拟的帧视为定稿；对局结束时使用
func (s *Session) Flush() []Frame {
	s.resolve()
	s.finalize(s.cur.Frame() - 1)
	return s.TakeFinal()
}

// Frame 下一个待模拟的帧号
func (s *Session) Frame() int { return s.cur.Frame() }

// State 最近一次 Advance 之后的对局状态
func (s *Session) State() match.Match { return s.cur }

func (s *Session) Rollbacks() int   { return s.rollbacks }
func (s *Session) Resimulated() int { return s.resimulated }
