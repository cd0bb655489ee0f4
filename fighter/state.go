package fighter

import "fmt"

// Kind 逻辑状态的标签
type Kind uint8

const (
	Idle Kind = iota
	ForwardWalk
	BackWalk
	ForwardDash
	BackDash
	LightAttack
	HeavyAttack
	LightSpecial
	HeavySpecial
	NormalDeath
	SpecialDeath
	kindCount
)

var kindNames = [kindCount]string{
	"Idle", "ForwardWalk", "BackWalk", "ForwardDash", "BackDash",
	"LightAttack", "HeavyAttack", "LightSpecial", "HeavySpecial",
	"NormalDeath", "SpecialDeath",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// 宿主侧诊断用的编号，与动画/UI 约定保持一致
var kindInts = [kindCount]int64{0, 1, 2, 3, 4, 8, 9, 10, 11, 12, 13}

var kindTables = [kindCount]Table{
	Idle:         IdleTable,
	ForwardWalk:  ForwardWalkTable,
	BackWalk:     BackWalkTable,
	ForwardDash:  ForwardDashTable,
	BackDash:     BackDashTable,
	LightAttack:  LightAttackTable,
	HeavyAttack:  HeavyAttackTable,
	LightSpecial: LightSpecialTable,
	HeavySpecial: HeavySpecialTable,
	NormalDeath:  DeathTable,
	SpecialDeath: DeathTable,
}

// Table 该状态对应的招式表
func (k Kind) Table() Table { return kindTables[k] }

// Neutral 站立/行走：可以被方向切换、可以出招
func (k Kind) Neutral() bool { return k <= BackWalk }

// Attacking 普通攻击或必杀技（携带命中标记）
func (k Kind) Attacking() bool { return k >= LightAttack && k <= HeavySpecial }

// Dead 两种死亡状态
func (k Kind) Dead() bool { return k == NormalDeath || k == SpecialDeath }

// State 带载荷的逻辑状态；帧号、命中/已播放标记与标签放在同一个值里，
// 只能通过 Enter 进入新状态，因此切换状态必然把帧号归零
type State struct {
	kind  Kind
	frame uint8
	flag  bool // 攻击：已命中；死亡：已播放
}

// Enter 进入新状态，帧号为 0
func Enter(k Kind) State { return State{kind: k} }

// StateAt 构造指定帧的状态（回滚快照与测试使用）
func StateAt(k Kind, frame uint8, flag bool) State {
	if k.Dead() {
		frame = 0
	}
	if !k.Attacking() && !k.Dead() {
		flag = false
	}
	return State{kind: k, frame: frame, flag: flag}
}

func (s State) Kind() Kind     { return s.kind }
func (s State) Frame() uint8   { return s.frame }
func (s State) Hit() bool      { return s.kind.Attacking() && s.flag }
func (s State) Played() bool   { return s.kind.Dead() && s.flag }
func (s State) Int() int64     { return kindInts[s.kind] }
func (s State) String() string { return fmt.Sprintf("%s(%d)", s.kind, s.frame) }

// advance 当前状态内帧号加一；死亡状态改为翻转“已播放”标记
func (s State) advance() State {
	if s.kind.Dead() {
		s.flag = true
		return s
	}
	s.frame++
	return s
}

// withHit 攻击状态标记为已命中，其余状态不变
func (s State) withHit() State {
	if s.kind.Attacking() {
		s.flag = true
	}
	return s
}
