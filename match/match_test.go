package match

import (
	"testing"

	"footsies/fighter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	idle  = fighter.Input{}
	right = fighter.Input{Movement: 1}
	left  = fighter.Input{Movement: -1}
	jab   = fighter.Input{Attack: true}
)

func run(m *Match, in [2]fighter.Input, n int) {
	for i := 0; i < n; i++ {
		m.Step(in)
	}
}

func distance(m *Match) int16 {
	p1, p2 := m.Player(0), m.Player(1)
	return p2.Position() - p1.Position()
}

func TestNew(t *testing.T) {
	m := New(DefaultRules(), [2]bool{false, true})
	p1, p2 := m.Player(0), m.Player(1)
	assert.Equal(t, int16(500), p1.Position())
	assert.Equal(t, int16(1000), p2.Position())
	assert.False(t, p1.Bot())
	assert.True(t, p2.Bot())
	assert.Equal(t, 1, m.Round())
	assert.Zero(t, m.Frame())
	assert.False(t, m.Over())
	_, ok := m.Winner()
	assert.False(t, ok)

	m = New(Rules{}, [2]bool{})
	assert.Equal(t, uint8(3), m.Rules().WinsToMatch)
}

func TestPlayerTwoInputIsMirrored(t *testing.T) {
	m := New(DefaultRules(), [2]bool{})
	m.Step([2]fighter.Input{right, left})

	p1, p2 := m.Player(0), m.Player(1)
	assert.Equal(t, fighter.ForwardWalk, p1.State().Kind())
	assert.Equal(t, fighter.ForwardWalk, p2.State().Kind())
	assert.Equal(t, int16(506), p1.Position())
	assert.Equal(t, int16(994), p2.Position())

	m.Step([2]fighter.Input{left, right})
	p1, p2 = m.Player(0), m.Player(1)
	assert.Equal(t, fighter.BackWalk, p1.State().Kind())
	assert.Equal(t, fighter.BackWalk, p2.State().Kind())
	assert.Equal(t, int16(501), p1.Position())
	assert.Equal(t, int16(999), p2.Position())
}

func TestStageBounds(t *testing.T) {
	m := New(DefaultRules(), [2]bool{})
	run(&m, [2]fighter.Input{left, right}, 200)
	p1, p2 := m.Player(0), m.Player(1)
	assert.Equal(t, int16(0), p1.Position())
	assert.Equal(t, StageLen, p2.Position())
}

func TestPushBackKeepsBodiesApart(t *testing.T) {
	m := New(DefaultRules(), [2]bool{})
	for i := 0; i < 80; i++ {
		m.Step([2]fighter.Input{right, left})
		require.GreaterOrEqual(t, distance(&m), int16(249), "tick %d", i)
		p1, p2 := m.Player(0), m.Player(1)
		require.Equal(t, int16(1500), p1.Position()+p2.Position(), "push-back is symmetric")
	}
	assert.Empty(t, m.Events())
}

// closeIn P1 向前走 8 tick，进入轻攻击距离
func closeIn(m *Match, p2 fighter.Input) {
	run(m, [2]fighter.Input{right, p2}, 8)
}

func TestLightAttackKO(t *testing.T) {
	m := New(Rules{WinsToMatch: 2, RoundEndFrames: 3}, [2]bool{})
	closeIn(&m, idle)
	require.Equal(t, int16(452), distance(&m))

	m.Step([2]fighter.Input{jab, idle})
	p1 := m.Player(0)
	require.Equal(t, fighter.LightAttack, p1.State().Kind())

	run(&m, [2]fighter.Input{}, 4)
	assert.Empty(t, m.Events())

	m.Step([2]fighter.Input{})
	assert.Equal(t, []Event{
		{Kind: EventHit, Player: 0},
		{Kind: EventKO, Player: 0},
	}, m.Events())

	p1, p2 := m.Player(0), m.Player(1)
	assert.True(t, p1.Hit())
	assert.Equal(t, uint8(1), p1.Wins())
	assert.Equal(t, fighter.NormalDeath, p2.State().Kind())
	assert.True(t, p2.NewlyDead())
	assert.True(t, m.RoundEnding())

	run(&m, [2]fighter.Input{}, 3)
	assert.True(t, m.RoundEnding())
	assert.Equal(t, 1, m.Round())
	p2 = m.Player(1)
	assert.False(t, p2.NewlyDead())

	m.Step([2]fighter.Input{})
	assert.False(t, m.RoundEnding())
	assert.Equal(t, 2, m.Round())
	p1, p2 = m.Player(0), m.Player(1)
	assert.Equal(t, int16(500), p1.Position())
	assert.Equal(t, int16(1000), p2.Position())
	assert.Equal(t, uint8(1), p1.Wins())
	assert.Equal(t, fighter.Idle, p2.State().Kind())
}

func TestMatchOver(t *testing.T) {
	m := New(Rules{WinsToMatch: 1, RoundEndFrames: 3}, [2]bool{})
	closeIn(&m, idle)
	m.Step([2]fighter.Input{jab, idle})
	run(&m, [2]fighter.Input{}, 5)

	require.True(t, m.Over())
	w, ok := m.Winner()
	require.True(t, ok)
	assert.Zero(t, w)
	assert.Contains(t, m.Events(), Event{Kind: EventMatchOver, Player: 0})

	before := m.State()
	run(&m, [2]fighter.Input{right, jab}, 10)
	after := m.State()
	assert.Equal(t, before.Frame+10, after.Frame)
	before.Frame = after.Frame
	assert.Equal(t, before, after)
}

func TestTradeIsDoubleKO(t *testing.T) {
	m := New(DefaultRules(), [2]bool{})
	run(&m, [2]fighter.Input{right, left}, 8)
	require.Equal(t, int16(404), distance(&m))

	m.Step([2]fighter.Input{jab, jab})
	run(&m, [2]fighter.Input{}, 5)

	assert.Contains(t, m.Events(), Event{Kind: EventDoubleKO, Player: -1})
	p1, p2 := m.Player(0), m.Player(1)
	assert.True(t, p1.IsDead())
	assert.True(t, p2.IsDead())
	assert.Zero(t, p1.Wins())
	assert.Zero(t, p2.Wins())
	assert.True(t, m.RoundEnding())
}

func TestSpecialKO(t *testing.T) {
	m := New(DefaultRules(), [2]bool{})
	s := m.State()
	s.Players[0].Meter = fighter.MeterMax
	m = s.Match()

	m.Step([2]fighter.Input{{Special: true}, idle})
	p1 := m.Player(0)
	require.Equal(t, fighter.LightSpecial, p1.State().Kind())
	assert.Zero(t, p1.Meter())

	var events []Event
	for i := 0; i < 30 && len(events) == 0; i++ {
		m.Step([2]fighter.Input{})
		events = m.Events()
	}
	require.NotEmpty(t, events)
	assert.Equal(t, Event{Kind: EventKO, Player: 0, Special: true}, events[len(events)-1])
	p2 := m.Player(1)
	assert.Equal(t, fighter.SpecialDeath, p2.State().Kind())
}

func TestDeadPlayersAreNotHitAgain(t *testing.T) {
	m := New(Rules{WinsToMatch: 3, RoundEndFrames: 30}, [2]bool{})
	closeIn(&m, idle)
	m.Step([2]fighter.Input{jab, idle})
	run(&m, [2]fighter.Input{}, 5)
	require.True(t, m.RoundEnding())

	for i := 0; i < 25; i++ {
		m.Step([2]fighter.Input{jab, idle})
		assert.Empty(t, m.Events())
	}
	p1 := m.Player(0)
	assert.Equal(t, uint8(1), p1.Wins())
}
