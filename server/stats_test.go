package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestStatsDocument(t *testing.T) {
	items := memItems{}
	s := NewStats("room.1", items)
	s.RecordRound("al.ice", false)
	s.RecordRound("al.ice", true)
	s.RecordRound("", false)
	s.RecordMatch("al.ice", 321, "replay_x")

	doc := s.Bytes()
	assert.Equal(t, int64(3), gjson.GetBytes(doc, "rounds").Int())
	assert.Equal(t, int64(1), gjson.GetBytes(doc, "doubleKOs").Int())
	assert.Equal(t, int64(2), gjson.GetBytes(doc, `players.al\.ice.rounds`).Int())
	assert.Equal(t, int64(1), gjson.GetBytes(doc, `players.al\.ice.specialKOs`).Int())
	assert.Equal(t, int64(321), gjson.GetBytes(doc, "lastMatch.frames").Int())
	assert.Equal(t, "replay_x", gjson.GetBytes(doc, "lastMatch.replay").String())

	saved, ok := items["stats_room_1"]
	assert.True(t, ok)
	assert.JSONEq(t, string(doc), string(saved))

	// 重新打开时读取已保存的战绩
	again := NewStats("room.1", items)
	again.RecordMatch("", 10, "")
	doc = again.Bytes()
	assert.Equal(t, int64(2), gjson.GetBytes(doc, "matches").Int())
	assert.False(t, gjson.GetBytes(doc, "lastMatch.replay").Exists())
}

func TestStatsWithoutStorage(t *testing.T) {
	s := NewStats("r", nil)
	s.RecordMatch("bob", 1, "")
	assert.Equal(t, int64(1), gjson.GetBytes(s.Bytes(), "players.bob.matches").Int())
}

func TestStatsNumericPlayerName(t *testing.T) {
	s := NewStats("room-2", nil)
	s.RecordRound("3", false)
	s.RecordRound("bob", false)
	s.RecordRound("1000000000", true)
	s.RecordMatch("3", 50, "")

	doc := s.Bytes()
	assert.True(t, gjson.GetBytes(doc, "players").IsObject())
	assert.Equal(t, int64(1), gjson.GetBytes(doc, "players.3.rounds").Int())
	assert.Equal(t, int64(1), gjson.GetBytes(doc, "players.3.matches").Int())
	assert.Equal(t, int64(1), gjson.GetBytes(doc, "players.bob.rounds").Int())
	assert.Equal(t, int64(1), gjson.GetBytes(doc, "players.1000000000.specialKOs").Int())
	assert.Less(t, len(doc), 512)
}

func TestStatsDistinctPlayerNames(t *testing.T) {
	s := NewStats("r", nil)
	s.RecordRound("al.ice", false)
	s.RecordRound("al_ice", false)
	s.RecordRound("al_ice", false)
	s.RecordRound("a*b|c", false)

	doc := s.Bytes()
	assert.Equal(t, int64(1), gjson.GetBytes(doc, gjson.Escape("players")+"."+gjson.Escape("al.ice")+".rounds").Int())
	assert.Equal(t, int64(2), gjson.GetBytes(doc, "players.al_ice.rounds").Int())
	assert.Equal(t, int64(1), gjson.GetBytes(doc, "players."+gjson.Escape("a*b|c")+".rounds").Int())
	assert.Len(t, gjson.GetBytes(doc, "players").Map(), 3)
}
