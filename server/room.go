package server

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"footsies/fighter"
	"footsies/match"
	"footsies/replay"
	"footsies/rollback"
)

var (
	ErrRoomFull  = errors.New("room is full")
	ErrNameTaken = errors.New("player name already in room")
)

// RoomSettings 可通过 /admin/config 热更新的房间设置
type RoomSettings struct {
	MaxInputsPerTick int
	RecordReplays    bool
	WinsToMatch      uint8 // 下一场对局生效
}

// RoomOptions 创建房间时的依赖与初始设置
type RoomOptions struct {
	Rules    match.Rules
	Settings RoomSettings
	Store    *replay.Store // 为空时不保存回放
	Items    replay.Items  // 战绩落盘，可为空
}

// Room 一个对战房间：两个座位，权威状态由回滚会话维护，单线程 Tick 推进
type Room struct {
	ID string

	mu        sync.Mutex // 保护座位与对局；Tick 全程持有
	seats     [2]*Seat
	inputChan chan Input
	leaveChan chan PlayerID

	setMu    sync.RWMutex
	settings RoomSettings
	rules    match.Rules

	session   *rollback.Session
	confirmed match.Match // 只用定稿帧推进，事件可信
	recorder  *replay.Recorder
	matchSeq  int
	tickSeq   int64

	store   *replay.Store
	metrics *RoomMetrics
	stats   *Stats

	stopChan      chan struct{}
	tickerStarted bool
}

// NewRoom 创建房间，初始化数据结构并开始第一场对局
func NewRoom(id string, opts RoomOptions) *Room {
	if opts.Settings.MaxInputsPerTick <= 0 {
		opts.Settings.MaxInputsPerTick = 4
	}
	if opts.Settings.WinsToMatch == 0 {
		opts.Settings.WinsToMatch = opts.Rules.WinsToMatch
	}
	r := &Room{
		ID:        id,
		inputChan: make(chan Input, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		leaveChan: make(chan PlayerID, 64),
		settings:  opts.Settings,
		rules:     opts.Rules,
		store:     opts.Store,
		metrics:   &RoomMetrics{},
		stats:     NewStats(id, opts.Items),
		stopChan:  make(chan struct{}),
	}
	r.newMatch()
	return r
}

// Settings 当前设置的副本
func (r *Room) Settings() RoomSettings {
	r.setMu.RLock()
	defer r.setMu.RUnlock()
	return r.settings
}

// UpdateSettings 在写锁内修改设置
func (r *Room) UpdateSettings(fn func(*RoomSettings)) RoomSettings {
	r.setMu.Lock()
	defer r.setMu.Unlock()
	fn(&r.settings)
	return r.settings
}

func (r *Room) Metrics() *RoomMetrics { return r.metrics }
func (r *Room) Stats() *Stats         { return r.stats }

// newMatch 用当前座位与设置开始新的一场
func (r *Room) newMatch() {
	rules := r.rules
	rules.WinsToMatch = r.Settings().WinsToMatch
	var bots [2]bool
	for i, s := range r.seats {
		bots[i] = s != nil && s.Bot
	}
	m := match.New(rules, bots)
	r.session = rollback.NewSession(m)
	r.confirmed = m
	r.recorder = replay.NewRecorder(m.Rules(), bots)
	r.matchSeq++
}

// JoinPlayer 占用第一个空座位；座位变化后重新开始对局，使机器人标记立即生效
func (r *Room) JoinPlayer(id PlayerID, bot bool, conn *ClientConn) (*Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// 先处理已排队的离开请求，断线重连时不会误报重名
	r.drainLeaves()
	free := -1
	for i, s := range r.seats {
		switch {
		case s != nil && s.ID == id:
			return nil, ErrNameTaken
		case s == nil && free < 0:
			free = i
		}
	}
	if free < 0 {
		return nil, ErrRoomFull
	}
	seat := &Seat{ID: id, Bot: bot, Conn: conn}
	r.seats[free] = seat
	r.newMatch()
	Log.Infow("player joined", "room", r.ID, "player", id, "seat", free, "bot", bot)
	return seat, nil
}

// Attach 连接升级完成后绑定发送端
func (r *Room) Attach(seat *Seat, conn *ClientConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat.Conn = conn
}

// LeavePlayer 将玩家移出房间（调用方持有 r.mu）
func (r *Room) LeavePlayer(id PlayerID) {
	for i, s := range r.seats {
		if s == nil || s.ID != id {
			continue
		}
		if s.Conn != nil {
			s.Conn.Close()
		}
		r.seats[i] = nil
		Log.Infow("player left", "room", r.ID, "player", id, "seat", i)
	}
}

func (r *Room) drainLeaves() {
	for {
		select {
		case pid := <-r.leaveChan:
			r.LeavePlayer(pid)
		default:
			return
		}
	}
}

// seatOf 玩家所在座位，不在房间时返回 -1
func (r *Room) seatOf(id PlayerID) int {
	for i, s := range r.seats {
		if s != nil && s.ID == id {
			return i
		}
	}
	return -1
}

// OnInput 入站输入（不立即生效），等下一次 Tick 处理
func (r *Room) OnInput(in Input) {
	// 不阻塞：输入拥塞时丢弃，保证 Tick 准时
	select {
	case r.inputChan <- in:
	default:
		r.metrics.IncChanFullDiscarded()
	}
}

// RequestLeave 请求在 Tick 线程中移除玩家，避免并发改动房间状态
func (r *Room) RequestLeave(pid PlayerID) {
	// 为保证移除一定生效，这里采用阻塞式写入（通道有容量，避免死锁）
	r.leaveChan <- pid
}

// Tick 一次完整的推进：处理输入 → 推进对局 → 广播结果
func (r *Room) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := time.Now()
	r.BeginTick()
	r.ProcessInputs()
	r.UpdateWorld()
	r.Broadcast()
	r.metrics.AddTick(time.Since(start).Nanoseconds())
}

// BeginTick 重置帧内状态
func (r *Room) BeginTick() {
	r.tickSeq++
	for _, s := range r.seats {
		if s != nil {
			s.inputsThisTick = 0
		}
	}
}

// ProcessInputs 把本帧收到的输入交给回滚会话（非阻塞 drain）
func (r *Room) ProcessInputs() {
	limit := r.Settings().MaxInputsPerTick
	for {
		select {
		case pid := <-r.leaveChan:
			r.LeavePlayer(pid)
		case in := <-r.inputChan:
			r.addInput(in, limit)
		default:
			// 空座位由中立输入驱动
			for i, s := range r.seats {
				if s == nil {
					_ = r.session.AddInput(i, r.session.Frame(), fighter.Input{})
				}
			}
			return
		}
	}
}

func (r *Room) addInput(in Input, limit int) {
	i := r.seatOf(in.PlayerID)
	if i < 0 {
		return
	}
	seat := r.seats[i]
	if seat.inputsThisTick >= limit {
		r.metrics.IncRateLimited()
		return
	}
	seat.inputsThisTick++

	frame := in.Frame
	if frame < 0 {
		frame = r.session.Frame()
	}
	err := r.session.AddInput(i, frame, in.Input)
	switch {
	case err == nil:
		r.metrics.IncAccepted()
	case errors.Is(err, rollback.ErrInputTooOld):
		r.metrics.IncLate()
		Log.Debugw("late input dropped", "room", r.ID, "player", in.PlayerID, "err", err)
	case errors.Is(err, rollback.ErrInputTooFar):
		r.metrics.IncTooFar()
		Log.Debugw("input too far ahead", "room", r.ID, "player", in.PlayerID, "err", err)
	default:
		Log.Warnw("input rejected", "room", r.ID, "player", in.PlayerID, "err", err)
	}
}

// UpdateWorld 推进一帧，收集定稿帧；对局结束时保存回放并开始下一场
func (r *Room) UpdateWorld() {
	rb, rs := r.session.Rollbacks(), r.session.Resimulated()
	r.session.Advance()
	r.confirm(r.session.TakeFinal())

	cur := r.session.State()
	if cur.Over() {
		r.confirm(r.session.Flush())
	}
	r.metrics.AddRollbacks(r.session.Rollbacks()-rb, r.session.Resimulated()-rs)

	if r.confirmed.Over() {
		r.finishMatch()
	}
}

// confirm 用定稿帧推进确认状态并记录回放
func (r *Room) confirm(frames []rollback.Frame) {
	if len(frames) == 0 {
		return
	}
	if err := r.recorder.Add(frames...); err != nil {
		Log.Errorw("record frames failed", "room", r.ID, "err", err)
	}
	for _, f := range frames {
		r.confirmed.Step(f.Inputs)
		for _, e := range r.confirmed.Events() {
			switch e.Kind {
			case match.EventKO:
				r.metrics.IncRounds()
				r.stats.RecordRound(r.seatLabel(e.Player), e.Special)
			case match.EventDoubleKO:
				r.metrics.IncRounds()
				r.stats.RecordRound("", false)
			}
		}
	}
}

func (r *Room) seatName(i int) PlayerID {
	if i < 0 || i > 1 || r.seats[i] == nil {
		return ""
	}
	return r.seats[i].ID
}

// seatLabel 战绩用的名字；空座位记为 p1/p2
func (r *Room) seatLabel(i int) PlayerID {
	if id := r.seatName(i); id != "" {
		return id
	}
	return PlayerID("p" + strconv.Itoa(i+1))
}

func (r *Room) finishMatch() {
	var winner PlayerID
	if w, ok := r.confirmed.Winner(); ok {
		winner = r.seatLabel(w)
	}
	r.metrics.IncMatches()
	Log.Infow("match over", "room", r.ID, "match", r.matchSeq, "winner", winner, "frames", r.confirmed.Frame())

	var key string
	if r.store != nil && r.Settings().RecordReplays {
		key = replay.Key(r.ID, strconv.Itoa(r.matchSeq), time.Now().UTC().Format("20060102T150405"))
		if err := r.store.Save(key, r.recorder.Finish(r.confirmed)); err != nil {
			Log.Errorw("save replay failed", "room", r.ID, "key", key, "err", err)
			key = ""
		} else {
			Log.Infow("replay saved", "room", r.ID, "key", key)
		}
	}
	r.stats.RecordMatch(winner, r.confirmed.Frame(), key)

	r.broadcast(struct {
		Type   string `json:"type"`
		Winner string `json:"winner"`
	}{Type: "match_over", Winner: string(winner)})
	r.newMatch()
}

// Broadcast 将当前对局状态广播给房间内所有玩家（文本 JSON）
func (r *Room) Broadcast() {
	m := r.session.State()
	players := make([]PlayerState, 0, 2)
	for i := range r.seats {
		players = append(players, playerState(r.seatName(i), m.Player(i)))
	}
	r.broadcast(struct {
		Type    string        `json:"type"`
		Frame   int           `json:"frame"`
		Round   int           `json:"round"`
		Players []PlayerState `json:"players"`
	}{Type: "state", Frame: m.Frame(), Round: m.Round(), Players: players})
}

func (r *Room) broadcast(payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		Log.Errorw("marshal broadcast failed", "room", r.ID, "err", err)
		return
	}
	for _, s := range r.seats {
		if s != nil && s.Conn != nil {
			s.Conn.Enqueue(b)
		}
	}
}

// Frame 当前帧号与回合
func (r *Room) Frame() (frame, round int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.session.State()
	return m.Frame(), m.Round()
}

func (r *Room) TickSeq() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tickSeq
}
