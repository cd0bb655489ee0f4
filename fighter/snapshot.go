package fighter

// BufferSnapshot 缓冲的线上表示；TTL 为 0 表示不存在（只在序列化边界使用）
type BufferSnapshot struct {
	Movement int8  `codec:"m"`
	TTL      uint8 `codec:"t"`
}

// Snapshot Player 的导出镜像，用于回滚快照、回放与网络传输
type Snapshot struct {
	Position   int16          `codec:"pos"`
	Wins       uint8          `codec:"wins"`
	Meter      uint16         `codec:"meter"`
	Filled     bool           `codec:"filled"`
	Kind       Kind           `codec:"kind"`
	Frame      uint8          `codec:"frame"`
	Flag       bool           `codec:"flag"`
	Normal     BufferSnapshot `codec:"nbuf"`
	Special    BufferSnapshot `codec:"sbuf"`
	Dash       BufferSnapshot `codec:"dbuf"`
	FDashTimer uint8          `codec:"fdt"`
	BDashTimer uint8          `codec:"bdt"`
	Movement   int8           `codec:"mv"`
	Bot        bool           `codec:"bot"`
}

func snapBuffer(b Buffered) BufferSnapshot {
	if buf, ok := b.Get(); ok {
		return BufferSnapshot{Movement: buf.movement, TTL: buf.ttl}
	}
	return BufferSnapshot{}
}

func (b BufferSnapshot) buffered() Buffered {
	if b.TTL == 0 || b.TTL > BufferTime {
		return Buffered{}
	}
	return Buffered{buf: ActionBuffer{movement: b.Movement, ttl: b.TTL}, ok: true}
}

// Snapshot 导出当前全部状态
func (p *Player) Snapshot() Snapshot {
	return Snapshot{
		Position:   p.position,
		Wins:       p.wins,
		Meter:      p.meter,
		Filled:     p.filled,
		Kind:       p.state.kind,
		Frame:      p.state.frame,
		Flag:       p.state.flag,
		Normal:     snapBuffer(p.normalBuf),
		Special:    snapBuffer(p.specialBuf),
		Dash:       snapBuffer(p.dashBuf),
		FDashTimer: p.fdashTimer,
		BDashTimer: p.bdashTimer,
		Movement:   p.movement,
		Bot:        p.bot,
	}
}

// Player 从快照还原；越界的标签/存活时间/能量会被规整
func (s Snapshot) Player() Player {
	kind := s.Kind
	if kind >= kindCount {
		kind = Idle
	}
	frame := s.Frame
	if !kind.Dead() && frame > kind.Table().Len() {
		frame = 0
	}
	return Player{
		position:   s.Position,
		wins:       s.Wins,
		meter:      min(s.Meter, MeterMax),
		filled:     s.Filled,
		state:      StateAt(kind, frame, s.Flag),
		normalBuf:  s.Normal.buffered(),
		specialBuf: s.Special.buffered(),
		dashBuf:    s.Dash.buffered(),
		fdashTimer: s.FDashTimer,
		bdashTimer: s.BDashTimer,
		movement:   s.Movement,
		bot:        s.Bot,
	}
}
