package match

import "footsies/fighter"

// StageLen 场地宽度（子像素单位），两名角色的位置都被限制在 [0, StageLen]
const StageLen int16 = 1500

var startPos = [2]int16{500, 1000}

// Rules 对局规则
type Rules struct {
	WinsToMatch    uint8  `codec:"wins"`
	RoundEndFrames uint16 `codec:"end"`
}

// DefaultRules 先拿 3 分获胜，回合结束停顿 60 tick
func DefaultRules() Rules {
	return Rules{WinsToMatch: 3, RoundEndFrames: 60}
}

// EventKind 单 tick 内发生的事件类型
type EventKind uint8

const (
	EventHit EventKind = iota + 1
	EventKO
	EventDoubleKO
	EventMatchOver
)

func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventKO:
		return "ko"
	case EventDoubleKO:
		return "double_ko"
	case EventMatchOver:
		return "match_over"
	}
	return "none"
}

// Event 事件；Player 为攻击方/胜者序号，双杀时为 -1
type Event struct {
	Kind    EventKind
	Player  int
	Special bool
}

const maxEvents = 4

// Match 两名角色的一场对局；全部为值类型，直接复制即为快照
type Match struct {
	rules   Rules
	frame   int
	round   uint16
	players [2]fighter.Player

	ending   bool
	endTimer uint16
	over     bool
	winner   int8

	events  [maxEvents]Event
	nEvents uint8
}

// New 开始新的对局；bots 决定各自的冲刺判定窗口
func New(rules Rules, bots [2]bool) Match {
	if rules.WinsToMatch == 0 {
		rules.WinsToMatch = DefaultRules().WinsToMatch
	}
	m := Match{rules: rules, round: 1, winner: -1}
	for i := range m.players {
		m.players[i] = fighter.NewPlayer(startPos[i], bots[i])
	}
	return m
}

// Step 推进一个 tick；顺序固定为 P1 → P2，P2 的输入先做镜像
func (m *Match) Step(in [2]fighter.Input) {
	m.frame++
	m.nEvents = 0
	if m.over {
		return
	}
	if m.ending {
		if m.endTimer == 0 {
			m.nextRound()
			return
		}
		m.endTimer--
	}

	m.players[0].Step(in[0])
	m.players[1].Step(in[1].Mirror())

	m.move()
	m.pushBack()
	m.resolveHits()
}

func (m *Match) nextRound() {
	for i := range m.players {
		m.players[i].Reset(startPos[i])
	}
	m.round++
	m.ending = false
	m.endTimer = 0
}

// sign P1 面朝右为正，P2 面朝左为负
func sign(i int) int16 {
	if i == 0 {
		return 1
	}
	return -1
}

func (m *Match) move() {
	for i := range m.players {
		p := &m.players[i]
		p.MovePosition(sign(i)*p.GetMove().Data.Speed, StageLen)
	}
}

func (m *Match) pushBack() {
	p1, p2 := &m.players[0], &m.players[1]
	b1 := p1.GetMove().Data.Collision
	b2 := p2.GetMove().Data.Collision.Neg()
	if !b1.Overlap(p1.Position(), b2, p2.Position()) {
		return
	}
	amount := b1.OverlapAmount(p1.Position(), b2, p2.Position())
	p1.MovePosition(-amount, StageLen)
	p2.MovePosition(amount, StageLen)
}

// hits 判断第 a 名角色本 tick 是否打中第 d 名角色
func (m *Match) hits(a, d int) bool {
	att, def := &m.players[a], &m.players[d]
	if att.IsDead() || def.IsDead() || att.Hit() {
		return false
	}
	hit, ok := att.GetMove().Data.Hitbox.Get()
	if !ok {
		return false
	}
	hit = hit.Mul(sign(a))
	for _, h := range def.GetMove().Data.Hurtbox {
		hurt, ok := h.Get()
		if !ok {
			continue
		}
		if hit.Overlap(att.Position(), hurt.Mul(sign(d)), def.Position()) {
			return true
		}
	}
	return false
}

// resolveHits 双方命中先全部判定再统一结算，互打同时生效
func (m *Match) resolveHits() {
	landed := [2]bool{m.hits(0, 1), m.hits(1, 0)}
	special := [2]bool{m.players[0].IsSpecial(), m.players[1].IsSpecial()}
	for a, ok := range landed {
		if !ok {
			continue
		}
		m.players[a].SetHit()
		m.players[1-a].GetAttacked(special[a])
		m.push(Event{Kind: EventHit, Player: a, Special: special[a]})
	}

	switch {
	case landed[0] && landed[1]:
		m.push(Event{Kind: EventDoubleKO, Player: -1})
		m.endRound()
	case landed[0] || landed[1]:
		w := 0
		if landed[1] {
			w = 1
		}
		m.players[w].AddWin()
		m.push(Event{Kind: EventKO, Player: w, Special: special[w]})
		if m.players[w].Wins() >= m.rules.WinsToMatch {
			m.over = true
			m.winner = int8(w)
			m.push(Event{Kind: EventMatchOver, Player: w})
			return
		}
		m.endRound()
	}
}

func (m *Match) endRound() {
	m.ending = true
	m.endTimer = m.rules.RoundEndFrames
}

func (m *Match) push(e Event) {
	if int(m.nEvents) < maxEvents {
		m.events[m.nEvents] = e
		m.nEvents++
	}
}

func (m *Match) Rules() Rules { return m.rules }
func (m *Match) Frame() int   { return m.frame }
func (m *Match) Round() int   { return int(m.round) }
func (m *Match) Over() bool   { return m.over }

// RoundEnding 回合已分出胜负、正在停顿
func (m *Match) RoundEnding() bool { return m.ending }

// Player 第 i 名角色（0 或 1）的副本
func (m *Match) Player(i int) fighter.Player { return m.players[i] }

// Winner 对局结束时的胜者序号
func (m *Match) Winner() (int, bool) {
	if !m.over || m.winner < 0 {
		return 0, false
	}
	return int(m.winner), true
}

// Events 上一个 tick 发生的事件
func (m *Match) Events() []Event {
	out := make([]Event, m.nEvents)
	copy(out, m.events[:m.nEvents])
	return out
}
