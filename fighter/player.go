package fighter

const (
	// MeterMax 能量槽上限；满槽时才允许放必杀技
	MeterMax uint16 = 1000

	playerDashTime uint8 = 10
	botDashTime    uint8 = 3
)

// Player 单个角色的确定性状态机；全部字段为值类型，直接复制即为快照
type Player struct {
	position int16
	wins     uint8
	meter    uint16
	filled   bool // 本 tick 能量刚好涨满

	state State

	normalBuf  Buffered
	specialBuf Buffered
	dashBuf    Buffered

	fdashTimer uint8
	bdashTimer uint8
	movement   int8

	bot bool
}

// NewPlayer 在 startPos 处创建角色；bot 只影响冲刺判定窗口
func NewPlayer(startPos int16, bot bool) Player {
	return Player{position: startPos, bot: bot}
}

// Reset 回合之间重置：保留胜场，能量减半带入下一回合，其余临时状态清空
func (p *Player) Reset(startPos int16) {
	*p = Player{
		position: startPos,
		wins:     p.wins,
		meter:    p.meter / 2,
		bot:      p.bot,
	}
}

// Step 推进一个 tick：输入 → 缓冲老化 → 帧号递增 → 站姿 → 出招 → 查表
func (p *Player) Step(in Input) {
	p.setInput(in)
	p.updateBuffers()
	p.state = p.state.advance()
	p.updateStance()
	p.updateAction()

	data := p.UpdateMove()
	p.gainMeter(data.Data.MeterGain)
}

func (p *Player) setInput(in Input) {
	// 只有方向变化才算一次“按下”，持续按住不会重复触发冲刺判定
	var press int8
	if in.Movement != p.movement {
		press = in.Movement
	}
	p.movement = in.Movement
	p.normalBuf = Resolve(p.normalBuf, in.attackBuffer())
	p.specialBuf = Resolve(p.specialBuf, in.specialBuffer())

	switch {
	case press > 0 && p.fdashTimer > 0:
		p.dashBuf = NewBuffer(1, true)
		p.resetDashTimer()
	case press > 0:
		p.resetDashTimer()
		p.fdashTimer = p.dashTime()
	case press < 0 && p.bdashTimer > 0:
		p.dashBuf = NewBuffer(-1, true)
		p.resetDashTimer()
	case press < 0:
		p.resetDashTimer()
		p.bdashTimer = p.dashTime()
	default:
		p.fdashTimer = satSub(p.fdashTimer)
		p.bdashTimer = satSub(p.bdashTimer)
	}
}

func (p *Player) updateBuffers() {
	p.normalBuf = p.normalBuf.Age()
	p.specialBuf = p.specialBuf.Age()
	p.dashBuf = p.dashBuf.Age()
}

// updateStance 站立/行走之间按当前方向切换；保持原站姿时帧号不变
func (p *Player) updateStance() {
	if !p.state.kind.Neutral() {
		return
	}
	var want Kind
	switch {
	case p.movement > 0:
		want = ForwardWalk
	case p.movement < 0:
		want = BackWalk
	default:
		want = Idle
	}
	if want != p.state.kind {
		p.state = Enter(want)
	}
}

func (p *Player) updateAction() {
	if !p.state.kind.Neutral() {
		return
	}
	next, ok := p.whichAction()
	if !ok {
		return
	}
	if next == LightSpecial || next == HeavySpecial {
		p.meter = 0
	}
	p.resetInput()
	p.state = Enter(next)
}

// whichAction 按优先级检查缓冲：满槽必杀 > 普通攻击 > 冲刺
func (p *Player) whichAction() (Kind, bool) {
	if b, ok := p.specialBuf.Get(); ok && p.meter == MeterMax {
		if b.movement == 0 {
			return LightSpecial, true
		}
		return HeavySpecial, true
	}
	if b, ok := p.normalBuf.Get(); ok {
		if b.movement == 0 {
			return LightAttack, true
		}
		return HeavyAttack, true
	}
	if b, ok := p.dashBuf.Get(); ok {
		if b.movement > 0 {
			return ForwardDash, true
		}
		return BackDash, true
	}
	return 0, false
}

// UpdateMove 查当前帧的数据；招式播完时回到 Idle(0)，站立/行走则从头循环
func (p *Player) UpdateMove() MoveData {
	k := p.state.kind
	if k.Dead() {
		d, _ := DeathTable.Lookup(0)
		return d
	}
	if d, ok := k.Table().Lookup(p.state.frame); ok {
		return d
	}
	if k.Neutral() {
		p.state = Enter(k)
	} else {
		p.state = Enter(Idle)
	}
	d, _ := p.state.kind.Table().Lookup(0)
	return d
}

// GetMove 只读地取当前帧数据，不做回落处理
func (p *Player) GetMove() MoveData {
	d, ok := p.state.kind.Table().Lookup(p.state.frame)
	if !ok {
		d, _ = IdleTable.Lookup(0)
	}
	return d
}

func (p *Player) gainMeter(gain uint16) {
	p.filled = false
	if gain == 0 || p.meter == MeterMax {
		return
	}
	p.meter = min(MeterMax, p.meter+gain)
	p.filled = p.meter == MeterMax
}

// MovePosition 加上位移并限制在 [0, stageLen]
func (p *Player) MovePosition(delta, stageLen int16) {
	pos := int32(p.position) + int32(delta)
	p.position = int16(max(0, min(int32(stageLen), pos)))
}

// GetAttacked 被命中：按攻击类型进入对应死亡状态
func (p *Player) GetAttacked(bySpecial bool) {
	if bySpecial {
		p.state = Enter(SpecialDeath)
		return
	}
	p.state = Enter(NormalDeath)
}

// SetHit 当前攻击标记为已命中（由对局判定后回调）
func (p *Player) SetHit() { p.state = p.state.withHit() }

// AddWin 胜场加一
func (p *Player) AddWin() { p.wins++ }

func (p *Player) resetInput() {
	p.normalBuf = Buffered{}
	p.specialBuf = Buffered{}
}

func (p *Player) resetDashTimer() {
	p.fdashTimer = 0
	p.bdashTimer = 0
}

func (p *Player) dashTime() uint8 {
	if p.bot {
		return botDashTime
	}
	return playerDashTime
}

func satSub(v uint8) uint8 {
	if v == 0 {
		return 0
	}
	return v - 1
}

func (p *Player) Position() int16 { return p.position }
func (p *Player) Wins() uint8     { return p.wins }
func (p *Player) Meter() uint16   { return p.meter }
func (p *Player) State() State    { return p.state }
func (p *Player) Bot() bool       { return p.bot }
func (p *Player) CanAttack() bool { return p.state.kind.Neutral() }
func (p *Player) IsDead() bool    { return p.state.kind.Dead() }
func (p *Player) Hit() bool       { return p.state.Hit() }

// NewlyDead 死亡状态的第一个 tick
func (p *Player) NewlyDead() bool { return p.state.kind.Dead() && !p.state.flag }

// IsSpecial 是否处于必杀技中
func (p *Player) IsSpecial() bool {
	k := p.state.kind
	return k == LightSpecial || k == HeavySpecial
}

// Punishable 可被确反的剩余帧数（含当前帧）；后冲刺不计
func (p *Player) Punishable() uint8 {
	switch p.state.kind {
	case LightAttack, HeavyAttack, LightSpecial, HeavySpecial, ForwardDash:
		return p.remaining()
	}
	return 0
}

// Recovery 当前招式剩余帧数（含当前帧）；站立/行走/死亡为 0
func (p *Player) Recovery() uint8 {
	k := p.state.kind
	if k.Neutral() || k.Dead() {
		return 0
	}
	return p.remaining()
}

func (p *Player) remaining() uint8 {
	n := p.state.kind.Table().Len()
	if p.state.frame >= n {
		return 0
	}
	return n - p.state.frame - 1
}

// BufferTime 普通攻击缓冲的剩余时间，没有缓冲时为 0
func (p *Player) BufferTime() uint8 {
	if b, ok := p.normalBuf.Get(); ok {
		return b.ttl
	}
	return 0
}

var actionCues = map[Kind]string{
	ForwardDash:  "fdash",
	BackDash:     "bdash",
	LightAttack:  "lattack",
	HeavyAttack:  "hattack",
	LightSpecial: "lspecial",
	HeavySpecial: "hspecial",
}

// Audio 本 tick 需要播放的音效键
func (p *Player) Audio() (string, bool) {
	s := p.state
	switch {
	case s.kind == NormalDeath && !s.flag:
		return "hit", true
	case s.kind == SpecialDeath && !s.flag:
		return "ender_hit", true
	case s.frame == 0 && !s.kind.Neutral() && !s.kind.Dead():
		return actionCues[s.kind], true
	case p.filled:
		return "meter_full", true
	}
	return "", false
}

// StateInt 宿主侧诊断用的状态编号
func (p *Player) StateInt() int64 { return p.state.Int() }

// StateLen 当前状态内的原始帧号
func (p *Player) StateLen() int64 {
	if p.state.kind.Dead() {
		return 0
	}
	return int64(p.state.frame)
}
