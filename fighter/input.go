package fighter

// BufferTime 缓冲输入的存活 tick 数（实际窗口为 BufferTime-1）
const BufferTime uint8 = 4

// Input 每 tick 采样到的原始输入（方向以角色朝向为准：正为前、负为后）
type Input struct {
	Movement int8
	Attack   bool
	Special  bool
}

const (
	bitBack uint8 = 1 << iota
	bitForward
	bitAttack
	bitSpecial
)

// Bits 打包为单字节，用于回放记录
func (in Input) Bits() uint8 {
	var b uint8
	switch {
	case in.Movement < 0:
		b |= bitBack
	case in.Movement > 0:
		b |= bitForward
	}
	if in.Attack {
		b |= bitAttack
	}
	if in.Special {
		b |= bitSpecial
	}
	return b
}

// InputFromBits Bits 的逆操作；前后同时按下视为中立
func InputFromBits(b uint8) Input {
	var in Input
	switch b & (bitBack | bitForward) {
	case bitBack:
		in.Movement = -1
	case bitForward:
		in.Movement = 1
	}
	in.Attack = b&bitAttack != 0
	in.Special = b&bitSpecial != 0
	return in
}

// Mirror 方向取反（右侧角色的“前”是屏幕左方）
func (in Input) Mirror() Input {
	in.Movement = -in.Movement
	return in
}

func (in Input) attackBuffer() Buffered  { return NewBuffer(in.Movement, in.Attack) }
func (in Input) specialBuffer() Buffered { return NewBuffer(in.Movement, in.Special) }

// ActionBuffer 一次被记住的按键：方向 + 剩余存活时间（存在期间恒大于 0）
type ActionBuffer struct {
	movement int8
	ttl      uint8
}

// Movement 按下时的方向
func (a ActionBuffer) Movement() int8 { return a.movement }

// TTL 剩余存活 tick 数
func (a ActionBuffer) TTL() uint8 { return a.ttl }

// Buffered 可选的 ActionBuffer；零值表示不存在
type Buffered struct {
	buf ActionBuffer
	ok  bool
}

// NewBuffer 仅在 pressed 时产生一条存活 BufferTime 的缓冲
func NewBuffer(movement int8, pressed bool) Buffered {
	if !pressed {
		return Buffered{}
	}
	return Buffered{buf: ActionBuffer{movement: movement, ttl: BufferTime}, ok: true}
}

// Get 取出缓冲；不存在时 ok=false
func (b Buffered) Get() (ActionBuffer, bool) { return b.buf, b.ok }

// Present 缓冲是否存在
func (b Buffered) Present() bool { return b.ok }

// Age 存活时间减一，减到 0 即消失
func (b Buffered) Age() Buffered {
	if !b.ok || b.buf.ttl <= 1 {
		return Buffered{}
	}
	b.buf.ttl--
	return b
}

// Resolve 新的按键总是覆盖旧的；没有新按键时保留旧的
func Resolve(old, latest Buffered) Buffered {
	if latest.ok {
		return latest
	}
	return old
}
