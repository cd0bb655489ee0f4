package fighter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferAgesOut(t *testing.T) {
	b := NewBuffer(1, true)
	buf, ok := b.Get()
	require.True(t, ok)
	assert.Equal(t, uint8(4), buf.TTL())
	assert.Equal(t, int8(1), buf.Movement())

	for want := uint8(3); want >= 1; want-- {
		b = b.Age()
		buf, ok = b.Get()
		require.True(t, ok)
		assert.Equal(t, want, buf.TTL())
	}
	b = b.Age()
	assert.False(t, b.Present())
	assert.False(t, b.Age().Present())
}

func TestBufferNotPressed(t *testing.T) {
	assert.False(t, NewBuffer(0, false).Present())
	assert.False(t, NewBuffer(-1, false).Present())
}

func TestResolveLatestWins(t *testing.T) {
	none := Buffered{}
	neutral := NewBuffer(0, true)
	fwd := NewBuffer(1, true)
	back := NewBuffer(-1, true)

	assert.Equal(t, fwd, Resolve(neutral, fwd))
	assert.Equal(t, back, Resolve(fwd, back))
	assert.Equal(t, fwd, Resolve(fwd, none))
	assert.Equal(t, fwd, Resolve(fwd, NewBuffer(0, false)))
	assert.Equal(t, neutral, Resolve(none, neutral))
	assert.Equal(t, none, Resolve(none, none))

	// 新按键即使方向相同也会刷新存活时间
	aged := fwd.Age().Age()
	got, _ := Resolve(aged, NewBuffer(1, true)).Get()
	assert.Equal(t, BufferTime, got.TTL())
}

func TestInputBits(t *testing.T) {
	inputs := []Input{
		{},
		{Movement: 1},
		{Movement: -1, Attack: true},
		{Movement: 0, Special: true},
		{Movement: 1, Attack: true, Special: true},
	}
	for _, in := range inputs {
		assert.Equal(t, in, InputFromBits(in.Bits()), "%+v", in)
	}
	assert.Equal(t, Input{Movement: 1}, InputFromBits(Input{Movement: 5}.Bits()))
	assert.Equal(t, Input{Attack: true}, InputFromBits(bitBack|bitForward|bitAttack))
}

func TestInputMirror(t *testing.T) {
	in := Input{Movement: 1, Attack: true}
	assert.Equal(t, Input{Movement: -1, Attack: true}, in.Mirror())
	assert.Equal(t, in, in.Mirror().Mirror())
}
