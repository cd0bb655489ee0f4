package server

import (
	"sort"
	"sync"

	"footsies/match"
	"footsies/replay"
)

// RoomManager 管理多个房间的生命周期
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg   Config
	store *replay.Store
	items replay.Items
}

var (
	defaultManager *RoomManager
	once           sync.Once
)

// GetRoomManager 单例房间管理器
func GetRoomManager() *RoomManager {
	once.Do(func() {
		defaultManager = NewRoomManager()
	})
	return defaultManager
}

// NewRoomManager 使用内置默认配置
func NewRoomManager() *RoomManager {
	m := &RoomManager{rooms: make(map[string]*Room)}
	m.cfg.Server.TickRate = DefaultTickRate
	m.cfg.Server.MaxInputsPerTick = 4
	rules := match.DefaultRules()
	m.cfg.Match.WinsToMatch = int(rules.WinsToMatch)
	m.cfg.Match.RoundEndFrames = int(rules.RoundEndFrames)
	return m
}

// Configure 设置之后新建房间使用的配置；items 为空时不保存回放与战绩
func (m *RoomManager) Configure(cfg Config, items replay.Items) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	m.items = items
	m.store = nil
	if items != nil {
		m.store = replay.NewStore(items)
	}
}

func (m *RoomManager) options() RoomOptions {
	return RoomOptions{
		Rules: m.cfg.Rules(),
		Settings: RoomSettings{
			MaxInputsPerTick: m.cfg.Server.MaxInputsPerTick,
			RecordReplays:    m.cfg.Replay.Enabled,
		},
		Store: m.store,
		Items: m.items,
	}
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		r = NewRoom(id, m.options())
		m.rooms[id] = r
		r.StartTicker(m.cfg.Server.TickRate)
	}
	return r
}

// GetRoom 只查找，不创建
func (m *RoomManager) GetRoom(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// RoomIDs 按字典序返回所有房间
func (m *RoomManager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StopAll 停止所有房间的 Tick（退出时调用）
func (m *RoomManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rooms {
		if r.tickerStarted {
			r.Stop()
		}
		delete(m.rooms, id)
	}
}
