package replay

import (
	"testing"

	"footsies/fighter"
	"footsies/match"
	"footsies/rollback"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rules = match.Rules{WinsToMatch: 2, RoundEndFrames: 10}

// record 通过回滚会话跑一段对局并录制
func record(t *testing.T, frames int) (Replay, match.Match) {
	t.Helper()
	s := rollback.NewSession(match.New(rules, [2]bool{true, false}))
	rec := NewRecorder(rules, [2]bool{true, false})
	for f := 0; f < frames; f++ {
		require.NoError(t, s.AddInput(0, f, fighter.Input{Movement: 1, Attack: f%9 == 0}))
		if f >= 3 {
			// P2 的输入晚到 3 帧
			require.NoError(t, s.AddInput(1, f-3, fighter.Input{Movement: int8(f%3) - 1, Attack: f%11 == 0}))
		}
		s.Advance()
		require.NoError(t, rec.Add(s.TakeFinal()...))
	}
	require.NoError(t, rec.Add(s.Flush()...))
	require.Equal(t, frames, rec.Len())
	return rec.Finish(s.State()), s.State()
}

func TestPlayReproducesMatch(t *testing.T) {
	r, final := record(t, 300)
	assert.Equal(t, 300, r.Frames())
	assert.Equal(t, Version, r.Version)

	m, err := Play(r)
	require.NoError(t, err)
	assert.Equal(t, final.State(), m.State())
}

func TestPlayDetectsDesync(t *testing.T) {
	r, _ := record(t, 120)
	bad := r
	bad.Checksum ^= 1
	_, err := Play(bad)
	assert.ErrorIs(t, err, ErrDesync)

	short := r
	short.Inputs = r.Inputs[:len(r.Inputs)-2]
	_, err = Play(short)
	assert.ErrorIs(t, err, ErrDesync)

	r.Version = Version + 1
	_, err = Play(r)
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Play(Replay{Version: Version, Inputs: []byte{1, 2, 3}})
	assert.Error(t, err)
}

func TestRecorderRejectsGaps(t *testing.T) {
	rec := NewRecorder(rules, [2]bool{})
	require.NoError(t, rec.Add(rollback.Frame{Frame: 0}))
	assert.Error(t, rec.Add(rollback.Frame{Frame: 2}))
	assert.Equal(t, 1, rec.Len())
}

func TestEncodeDecode(t *testing.T) {
	r, _ := record(t, 60)
	b, err := Encode(r)
	require.NoError(t, err)
	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	_, err = Decode(b[:len(b)-5])
	assert.Error(t, err)
}

type memItems map[string][]byte

func (m memItems) SaveItem(key string, data []byte) error {
	m[key] = append([]byte(nil), data...)
	return nil
}

func (m memItems) LoadItem(key string) ([]byte, error) { return m[key], nil }

func TestStore(t *testing.T) {
	s := NewStore(memItems{})
	r, _ := record(t, 90)

	key := Key("room 1", "match/3")
	assert.Equal(t, "replay_room_1_match_3", key)

	require.NoError(t, s.Save(key, r))
	got, err := s.Load(key)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	_, err = s.Load(Key("missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}
