package fighter

const (
	collisionExtent   = 125
	baseHurtboxExtent = 158
)

// CBox 一维碰撞区间：从偏移点出发延伸 X 个子像素单位（X 可为负，表示朝向镜像）
type CBox struct {
	X int16
}

// Collision 角色本体的推挤盒
func Collision() CBox { return CBox{X: collisionExtent} }

// BaseHurtbox 角色默认受击盒
func BaseHurtbox() CBox { return CBox{X: baseHurtboxExtent} }

// edges 返回在 offset 处展开后的 [min, max]，先规整顺序再比较
func (c CBox) edges(offset int16) (int16, int16) {
	a, b := offset, offset+c.X
	return min(a, b), max(a, b)
}

// Overlap 判断两个区间是否相交；边缘恰好相接不算重叠
func (c CBox) Overlap(offset int16, other CBox, otherOffset int16) bool {
	lo1, hi1 := c.edges(offset)
	lo2, hi2 := other.edges(otherOffset)
	if lo1 >= hi2 || lo2 >= hi1 {
		return false
	}
	return true
}

// OverlapAmount 两个远端边缘差值的一半，用于对称推开
func (c CBox) OverlapAmount(offset int16, other CBox, otherOffset int16) int16 {
	return ((c.X + offset) - (other.X + otherOffset)) / 2
}

// Mul 按有符号整数缩放
func (c CBox) Mul(k int16) CBox { return CBox{X: c.X * k} }

// Neg 镜像翻转（面朝另一侧的角色使用）
func (c CBox) Neg() CBox { return CBox{X: -c.X} }

// Box 可选的碰撞区间（攻击盒/受击盒槽位）
type Box struct {
	CBox
	Active bool
}

// some 构造一个启用的槽位
func some(c CBox) Box { return Box{CBox: c, Active: true} }

// Get 返回区间及是否启用
func (b Box) Get() (CBox, bool) { return b.CBox, b.Active }

// Neg 镜像翻转，启用状态不变
func (b Box) Neg() Box { return Box{CBox: b.CBox.Neg(), Active: b.Active} }
