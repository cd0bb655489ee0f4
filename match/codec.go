package match

import (
	"fmt"
	"hash/fnv"

	"footsies/fighter"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

// State Match 的导出镜像，只在序列化边界使用；事件列表不参与编码
type State struct {
	Rules    Rules               `codec:"rules"`
	Frame    int                 `codec:"frame"`
	Round    uint16              `codec:"round"`
	Players  [2]fighter.Snapshot `codec:"players"`
	Ending   bool                `codec:"ending"`
	EndTimer uint16              `codec:"endTimer"`
	Over     bool                `codec:"over"`
	Winner   int8                `codec:"winner"`
}

var mh = &codec.MsgpackHandle{}

// State 导出当前对局状态
func (m *Match) State() State {
	s := State{
		Rules:    m.rules,
		Frame:    m.frame,
		Round:    m.round,
		Ending:   m.ending,
		EndTimer: m.endTimer,
		Over:     m.over,
		Winner:   m.winner,
	}
	for i := range m.players {
		s.Players[i] = m.players[i].Snapshot()
	}
	return s
}

// Match 从导出状态还原
func (s State) Match() Match {
	m := Match{
		rules:    s.Rules,
		frame:    s.Frame,
		round:    s.Round,
		ending:   s.Ending,
		endTimer: s.EndTimer,
		over:     s.Over,
		winner:   s.Winner,
	}
	if !m.over {
		m.winner = -1
	}
	for i := range m.players {
		m.players[i] = s.Players[i].Player()
	}
	return m
}

// Encode msgpack 编码
func Encode(m Match) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, mh).Encode(m.State()); err != nil {
		return nil, fmt.Errorf("match: encode: %w", err)
	}
	return b, nil
}

// Decode Encode 的逆操作
func Decode(b []byte) (Match, error) {
	var s State
	if err := codec.NewDecoderBytes(b, mh).Decode(&s); err != nil {
		return Match{}, fmt.Errorf("match: decode: %w", err)
	}
	return s.Match(), nil
}

// Checksum 编码结果的 FNV-64a，用于比对两端是否失步
func (m *Match) Checksum() uint64 {
	b, err := Encode(*m)
	if err != nil {
		// 纯值结构体编码不会失败
		panic(err)
	}
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}
