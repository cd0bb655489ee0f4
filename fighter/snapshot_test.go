package fighter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotRestoresPlayer(t *testing.T) {
	p := NewPlayer(700, true)
	for _, in := range []Input{{Movement: 1}, {}, {Movement: 1, Attack: true}, {Special: true}, {Movement: -1}} {
		p.Step(in)
	}
	p.SetHit()
	p.AddWin()

	s := p.Snapshot()
	assert.Equal(t, p, s.Player())
	assert.Equal(t, s, func() Snapshot { q := s.Player(); return q.Snapshot() }())
}

func TestSnapshotSanitizes(t *testing.T) {
	s := Snapshot{
		Kind:    kindCount + 3,
		Frame:   200,
		Flag:    true,
		Meter:   5000,
		Normal:  BufferSnapshot{Movement: 1, TTL: 0},
		Special: BufferSnapshot{Movement: 0, TTL: BufferTime + 1},
		Dash:    BufferSnapshot{Movement: -1, TTL: 2},
	}
	p := s.Player()
	assert.Equal(t, Idle, p.State().Kind())
	assert.Zero(t, p.State().Frame())
	assert.False(t, p.State().Hit())
	assert.Equal(t, MeterMax, p.Meter())

	got := p.Snapshot()
	assert.Zero(t, got.Normal.TTL)
	assert.Zero(t, got.Special.TTL)
	assert.Equal(t, BufferSnapshot{Movement: -1, TTL: 2}, got.Dash)

	dead := Snapshot{Kind: NormalDeath, Frame: 9, Flag: true}.Player()
	assert.Zero(t, dead.State().Frame())
	assert.True(t, dead.State().Played())

	atk := Snapshot{Kind: LightAttack, Frame: 30}.Player()
	assert.Zero(t, atk.State().Frame())
}
