package fighter

import "fmt"

// FrameData 单帧招式快照，所有数值均为整数以保证跨机器确定性
type FrameData struct {
	Speed     int16  // 推进速度（朝向为正）
	MeterGain uint16 // 每 tick 获得的能量
	Collision CBox
	Hitbox    Box
	Hurtbox   [2]Box
}

// defaultFrame 无攻击、仅本体受击盒
func defaultFrame() FrameData {
	return FrameData{
		Collision: Collision(),
		Hurtbox:   [2]Box{some(BaseHurtbox()), {}},
	}
}

func withSpeed(speed int16) FrameData {
	d := defaultFrame()
	d.Speed = speed
	return d
}

// extended 本体受击盒之外追加一段（出招时伸出的手脚）
func extended(hurt int16) FrameData {
	d := defaultFrame()
	d.Hurtbox[1] = some(CBox{X: hurt})
	return d
}

// MoveData 招式表中的一项：快照 + 动画帧标签 + 持续 tick 数
type MoveData struct {
	Data           FrameData
	AnimationFrame string
	Duration       uint8
}

// Table 招式类别，每个类别对应一张只读的帧数据表
type Table uint8

const (
	IdleTable Table = iota
	ForwardWalkTable
	BackWalkTable
	ForwardDashTable
	BackDashTable
	LightAttackTable
	HeavyAttackTable
	LightSpecialTable
	HeavySpecialTable
	DeathTable
	tableCount
)

var tableNames = [tableCount]string{
	"idle", "fwalk", "bwalk", "fdash", "bdash",
	"lattack", "hattack", "lspecial", "hspecial", "death",
}

func (t Table) String() string {
	if t < tableCount {
		return tableNames[t]
	}
	return "unknown"
}

// Lookup 按帧号取该类别的快照；超出总时长时 ok=false
func (t Table) Lookup(frame uint8) (MoveData, bool) {
	return lookup(frame, tables[t])
}

// Len 该类别总时长（各项 Duration 之和）
func (t Table) Len() uint8 {
	return tableLens[t]
}

// lookup 所有类别共用的逐帧解引用：从 frame+1 开始逐项做饱和减法，恰好减到 0 的那一项即为当前帧
func lookup(frame uint8, table []MoveData) (MoveData, bool) {
	left := int(frame) + 1
	for _, d := range table {
		left -= int(d.Duration)
		if left <= 0 {
			return d, true
		}
	}
	return MoveData{}, false
}

// tableLength 求和；初始化时调用一次
func tableLength(table []MoveData) (uint8, error) {
	if len(table) == 0 {
		return 0, fmt.Errorf("empty table")
	}
	total := 0
	for i, d := range table {
		if d.Duration == 0 {
			return 0, fmt.Errorf("entry %d has zero duration", i)
		}
		total += int(d.Duration)
	}
	if total > 255 {
		return 0, fmt.Errorf("total duration %d exceeds frame counter range", total)
	}
	return uint8(total), nil
}

var (
	tables    [tableCount][]MoveData
	tableLens [tableCount]uint8
)

func init() {
	tables = [tableCount][]MoveData{
		IdleTable:         idleData,
		ForwardWalkTable:  fwalkData,
		BackWalkTable:     bwalkData,
		ForwardDashTable:  fdashData,
		BackDashTable:     bdashData,
		LightAttackTable:  lattackData,
		HeavyAttackTable:  hattackData,
		LightSpecialTable: lspecialData,
		HeavySpecialTable: hspecialData,
		DeathTable:        deathData,
	}
	for t := Table(0); t < tableCount; t++ {
		n, err := tableLength(tables[t])
		if err != nil {
			panic(fmt.Sprintf("fighter: %s table: %v", t, err))
		}
		tableLens[t] = n
	}
}

var idleData = []MoveData{
	{Data: defaultFrame(), AnimationFrame: "idle_0", Duration: 6},
	{Data: defaultFrame(), AnimationFrame: "idle_1", Duration: 3},
	{Data: defaultFrame(), AnimationFrame: "idle_2", Duration: 6},
	{Data: defaultFrame(), AnimationFrame: "idle_3", Duration: 6},
	{Data: defaultFrame(), AnimationFrame: "idle_4", Duration: 3},
}

var fwalkData = func() []MoveData {
	out := make([]MoveData, 6)
	for i := range out {
		d := withSpeed(6)
		d.MeterGain = 1
		out[i] = MoveData{Data: d, AnimationFrame: fmt.Sprintf("fwalk_%d", i), Duration: 4}
	}
	return out
}()

var bwalkData = func() []MoveData {
	out := make([]MoveData, 6)
	for i := range out {
		out[i] = MoveData{Data: withSpeed(-5), AnimationFrame: fmt.Sprintf("bwalk_%d", i), Duration: 4}
	}
	return out
}()

var fdashData = func() []MoveData {
	d := func(speed int16, gain uint16) FrameData {
		f := withSpeed(speed)
		f.MeterGain = gain
		return f
	}
	return []MoveData{
		{Data: d(13, 2), AnimationFrame: "fdash_0", Duration: 3},
		{Data: d(18, 2), AnimationFrame: "fdash_0", Duration: 5},
		{Data: d(18, 0), AnimationFrame: "fdash_1", Duration: 1},
		{Data: d(12, 0), AnimationFrame: "fdash_1", Duration: 2},
		{Data: d(12, 0), AnimationFrame: "fdash_2", Duration: 1},
		{Data: d(5, 0), AnimationFrame: "fdash_2", Duration: 1},
		{Data: d(5, 0), AnimationFrame: "fdash_3", Duration: 1},
		{Data: d(3, 0), AnimationFrame: "fdash_3", Duration: 1},
		{Data: d(0, 0), AnimationFrame: "fdash_4", Duration: 1},
	}
}()

var bdashData = []MoveData{
	{Data: withSpeed(-26), AnimationFrame: "bdash_0", Duration: 3},
	{Data: withSpeed(-12), AnimationFrame: "bdash_0", Duration: 6},
	{Data: withSpeed(-8), AnimationFrame: "bdash_0", Duration: 2},
	{Data: withSpeed(-8), AnimationFrame: "bdash_1", Duration: 2},
	{Data: withSpeed(-3), AnimationFrame: "bdash_1", Duration: 2},
	{Data: defaultFrame(), AnimationFrame: "bdash_1", Duration: 2},
	{Data: defaultFrame(), AnimationFrame: "bdash_2", Duration: 4},
	{Data: defaultFrame(), AnimationFrame: "bdash_3", Duration: 1},
}

// attack 出招帧：攻击盒 + 伸出的受击盒
func attack(hit, hurt int16, gain uint16) FrameData {
	d := extended(hurt)
	d.Hitbox = some(CBox{X: hit})
	d.MeterGain = gain
	return d
}

func recovering(hurt int16, gain uint16) FrameData {
	d := extended(hurt)
	d.MeterGain = gain
	return d
}

var lattackData = []MoveData{
	{Data: defaultFrame(), AnimationFrame: "lattack_0", Duration: 2},
	{Data: defaultFrame(), AnimationFrame: "lattack_1", Duration: 3},
	{Data: attack(299, 324, 15), AnimationFrame: "lattack_2", Duration: 2},
	{Data: recovering(324, 2), AnimationFrame: "lattack_2", Duration: 10},
	{Data: extended(237), AnimationFrame: "lattack_3", Duration: 4},
	{Data: defaultFrame(), AnimationFrame: "lattack_4", Duration: 2},
}

var hattackData = []MoveData{
	{Data: defaultFrame(), AnimationFrame: "hattack_0", Duration: 2},
	{Data: defaultFrame(), AnimationFrame: "hattack_1", Duration: 2},
	{Data: attack(130+130, 260, 20), AnimationFrame: "hattack_2", Duration: 2},
	{Data: recovering(260, 3), AnimationFrame: "hattack_2", Duration: 10},
	{Data: extended(222), AnimationFrame: "hattack_3", Duration: 4},
	{Data: defaultFrame(), AnimationFrame: "hattack_4", Duration: 2},
}

// 必杀技不积攒能量：刚花光的能量槽在出招期间保持为 0
var lspecialData = func() []MoveData {
	moving := func(speed, hurt int16) FrameData {
		d := withSpeed(speed)
		if hurt != 0 {
			d.Hurtbox[1] = some(CBox{X: hurt})
		}
		return d
	}
	active := moving(16, 254)
	active.Hitbox = some(CBox{X: 158 + 158})
	return []MoveData{
		{Data: moving(10, 0), AnimationFrame: "lspecial_0", Duration: 3},
		{Data: moving(13, 0), AnimationFrame: "lspecial_1", Duration: 2},
		{Data: moving(16, 0), AnimationFrame: "lspecial_2", Duration: 3},
		{Data: moving(16, 0), AnimationFrame: "lspecial_3", Duration: 2},
		{Data: moving(16, 0), AnimationFrame: "lspecial_4", Duration: 1},
		{Data: active, AnimationFrame: "lspecial_5", Duration: 4},
		{Data: moving(6, 254), AnimationFrame: "lspecial_5", Duration: 2},
		{Data: moving(3, 254), AnimationFrame: "lspecial_5", Duration: 2},
		{Data: moving(0, 254), AnimationFrame: "lspecial_5", Duration: 7},
		{Data: moving(0, 240), AnimationFrame: "lspecial_6", Duration: 3},
		{Data: defaultFrame(), AnimationFrame: "lspecial_6", Duration: 12},
		{Data: defaultFrame(), AnimationFrame: "lspecial_7", Duration: 2},
	}
}()

var hspecialData = func() []MoveData {
	// 前四项无受击盒：起手无敌
	invuln := func(speed int16, hit bool) FrameData {
		d := withSpeed(speed)
		d.Hurtbox = [2]Box{}
		if hit {
			d.Hitbox = some(CBox{X: 190})
		}
		return d
	}
	swing := withSpeed(5)
	swing.Hitbox = some(CBox{X: 190})
	return []MoveData{
		{Data: invuln(8, false), AnimationFrame: "hspecial_0", Duration: 1},
		{Data: invuln(8, false), AnimationFrame: "hspecial_1", Duration: 1},
		{Data: invuln(7, true), AnimationFrame: "hspecial_2", Duration: 1},
		{Data: invuln(5, true), AnimationFrame: "hspecial_2", Duration: 3},
		{Data: swing, AnimationFrame: "hspecial_3", Duration: 2},
		{Data: withSpeed(5), AnimationFrame: "hspecial_3", Duration: 3},
		{Data: withSpeed(3), AnimationFrame: "hspecial_3", Duration: 5},
		{Data: defaultFrame(), AnimationFrame: "hspecial_3", Duration: 20},
		{Data: defaultFrame(), AnimationFrame: "hspecial_4", Duration: 10},
		{Data: defaultFrame(), AnimationFrame: "hspecial_5", Duration: 7},
		{Data: defaultFrame(), AnimationFrame: "hspecial_6", Duration: 2},
	}
}()

var deathData = []MoveData{
	{Data: defaultFrame(), AnimationFrame: "dead_0", Duration: 1},
}
