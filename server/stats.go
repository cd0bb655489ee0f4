package server

import (
	"sync"

	"footsies/replay"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Stats 房间的累计战绩，以 JSON 文档维护；配置了存储时每场结束后落盘
type Stats struct {
	mu    sync.Mutex
	key   string
	doc   []byte
	items replay.Items
}

// NewStats 读取已保存的战绩（如果有）
func NewStats(roomID string, items replay.Items) *Stats {
	s := &Stats{key: "stats_" + replay.SafeName(roomID), doc: []byte(`{}`), items: items}
	if items == nil {
		return s
	}
	data, err := items.LoadItem(s.key)
	if err != nil {
		Log.Warnw("load stats failed", "room", roomID, "err", err)
		return s
	}
	if len(data) > 0 && gjson.ValidBytes(data) {
		s.doc = data
	}
	return s
}

// statPath 一条统计字段的路径：读取用 gjson 路径，写入用 sjson 路径
type statPath struct {
	get, set string
}

func field(name string) statPath { return statPath{get: name, set: name} }

// playerField 玩家名原样作为对象键：转义路径语法字符，写入时加 ':' 防止纯数字名被当成数组下标
func playerField(id PlayerID, name string) statPath {
	key := gjson.Escape(string(id))
	return statPath{
		get: "players." + key + "." + name,
		set: "players.:" + key + "." + name,
	}
}

// setValue 写入失败时保留原文档
func (s *Stats) setValue(p statPath, v any) {
	doc, err := sjson.SetBytes(s.doc, p.set, v)
	if err != nil {
		Log.Warnw("update stats failed", "key", s.key, "path", p.set, "err", err)
		return
	}
	s.doc = doc
}

func (s *Stats) incr(p statPath) {
	s.setValue(p, gjson.GetBytes(s.doc, p.get).Int()+1)
}

// RecordRound 记一个回合；winner 为空表示双杀
func (s *Stats) RecordRound(winner PlayerID, special bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incr(field("rounds"))
	if winner == "" {
		s.incr(field("doubleKOs"))
		return
	}
	s.incr(playerField(winner, "rounds"))
	if special {
		s.incr(playerField(winner, "specialKOs"))
	}
}

// RecordMatch 记一场对局并落盘；replayKey 为空表示未保存回放
func (s *Stats) RecordMatch(winner PlayerID, frames int, replayKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incr(field("matches"))
	if winner != "" {
		s.incr(playerField(winner, "matches"))
	}
	s.setValue(field("lastMatch.frames"), frames)
	s.setValue(field("lastMatch.winner"), string(winner))
	if replayKey != "" {
		s.setValue(field("lastMatch.replay"), replayKey)
	} else if doc, err := sjson.DeleteBytes(s.doc, "lastMatch.replay"); err == nil {
		s.doc = doc
	}
	if s.items == nil {
		return
	}
	if err := s.items.SaveItem(s.key, s.doc); err != nil {
		Log.Warnw("save stats failed", "key", s.key, "err", err)
	}
}

// Bytes 文档副本
func (s *Stats) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.doc...)
}
