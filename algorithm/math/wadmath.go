// Package math 提供 WAD 定点数上的超越函数与标准正态分布函数.
// 全部采用整数运算实现，结果在任何平台上逐位可复现.
package math

import (
	"github.com/holiman/uint256"
	"github.com/wyfcoding/bsengine/fixedpoint"
	"github.com/wyfcoding/bsengine/xerrors"
)

var (
	// Ln2 自然对数 ln(2)，截断到 18 位.
	Ln2 = fixedpoint.NewWad(693_147_180_559_945_309)
	// InvSqrt2Pi 1/√(2π)，截断到 18 位.
	InvSqrt2Pi = fixedpoint.NewWad(398_942_280_401_432_677)
	// CDFDomainLimit 正态分布函数的定义域截断点 (±6σ).
	CDFDomainLimit = fixedpoint.WadFromInt(6)
	// MaxExpInput Exp 接受的最大正参数，exp(130) 仍可由 256 位表示.
	MaxExpInput = fixedpoint.WadFromInt(130)
)

const (
	maxSeriesTerms = 512
	scaleBits      = 60 // bitlen(10^18)
)

var (
	scale    = uint256.NewInt(fixedpoint.Scale)
	twoScale = new(uint256.Int).Lsh(scale, 1)
)

// Sqrt 计算 √x，向下取整.
func Sqrt(x fixedpoint.Wad) fixedpoint.Wad {
	if x.IsZero() {
		return x
	}
	z, overflow := new(uint256.Int).MulOverflow(x.Uint256(), scale)
	if overflow {
		panic("math: sqrt argument overflow")
	}
	return fixedpoint.WadFromUint256(z.Sqrt(z))
}

// Ln 计算自然对数. 先将 x 归约为 m·2^k (m ∈ [1,2))，再用 atanh 级数求 ln(m).
func Ln(x fixedpoint.Wad) (fixedpoint.SignedWad, error) {
	if x.IsZero() {
		return fixedpoint.SignedZero(), xerrors.ErrNonPositiveLog
	}
	if x.Eq(fixedpoint.One()) {
		return fixedpoint.SignedZero(), nil
	}

	y := x.Uint256()
	k := 0
	if !y.Lt(scale) {
		if shift := y.BitLen() - scaleBits - 1; shift > 0 {
			y.Rsh(y, uint(shift))
			k += shift
		}
		for !y.Lt(twoScale) {
			y.Rsh(y, 1)
			k++
		}
	} else {
		if shift := scaleBits - y.BitLen(); shift > 0 {
			y.Lsh(y, uint(shift))
			k -= shift
		}
		for y.Lt(scale) {
			y.Lsh(y, 1)
			k--
		}
	}

	lnM := lnMantissa(fixedpoint.WadFromUint256(y))
	if k == 0 {
		return fixedpoint.FromWad(lnM), nil
	}
	kLn2 := fixedpoint.NewSigned(Ln2.MulInt(uint64(absInt(k))), k < 0)
	return kLn2.Add(fixedpoint.FromWad(lnM)), nil
}

// lnMantissa 计算 m ∈ [1,2) 的 ln(m) = 2·atanh((m-1)/(m+1)).
func lnMantissa(m fixedpoint.Wad) fixedpoint.Wad {
	one := fixedpoint.One()
	z := m.Sub(one).Div(m.Add(one))
	if z.IsZero() {
		return z
	}
	z2 := z.Mul(z)
	term := z
	sum := z
	for n := uint64(3); n < maxSeriesTerms; n += 2 {
		term = term.Mul(z2)
		if term.IsZero() {
			break
		}
		sum = sum.Add(term.DivInt(n))
	}
	return sum.Double()
}

// Exp 计算 e^x. 负参数返回 1/e^|x| 的截断值，极小结果下溢为精确的零.
func Exp(x fixedpoint.SignedWad) (fixedpoint.Wad, error) {
	if x.IsZero() {
		return fixedpoint.One(), nil
	}
	mag := x.Magnitude()
	if mag.Gt(MaxExpInput) {
		if x.IsNegative() {
			return fixedpoint.Zero(), nil
		}
		return fixedpoint.Zero(), xerrors.ErrExpOverflow
	}
	e := expPositive(mag)
	if x.IsNegative() {
		return fixedpoint.One().Div(e), nil
	}
	return e, nil
}

// expPositive 计算 e^m (m ≥ 0)：m = k·ln2 + r，r ∈ [0, ln2)，e^r 用泰勒级数.
func expPositive(m fixedpoint.Wad) fixedpoint.Wad {
	k := new(uint256.Int).Div(m.Uint256(), Ln2.Uint256()).Uint64()
	r := m.Sub(Ln2.MulInt(k))

	one := fixedpoint.One()
	sum := one
	term := one
	for n := uint64(1); n < maxSeriesTerms; n++ {
		term = term.Mul(r).DivInt(n)
		if term.IsZero() {
			break
		}
		sum = sum.Add(term)
	}
	out := sum.Uint256()
	return fixedpoint.WadFromUint256(out.Lsh(out, uint(k)))
}

// NormPDF 标准正态概率密度 φ(x) = e^{-x²/2}/√(2π)，|x| > 6 时为零.
func NormPDF(x fixedpoint.SignedWad) fixedpoint.Wad {
	mag := x.Magnitude()
	if mag.Gt(CDFDomainLimit) {
		return fixedpoint.Zero()
	}
	halfSq := mag.Mul(mag).Half()
	e, _ := Exp(fixedpoint.NewSigned(halfSq, true))
	return e.Mul(InvSqrt2Pi)
}

// NormCDF 标准正态累积分布 Φ(x)，x 超出 ±6 时饱和为 0 或 1.
// 负参数按 Φ(x) = 1 - Φ(|x|) 反射，因此 Φ(x) + Φ(-x) 恰好等于 1.
func NormCDF(x fixedpoint.SignedWad) fixedpoint.Wad {
	one := fixedpoint.One()
	negative := x.IsNegative() && !x.IsZero()
	mag := x.Magnitude()
	if mag.Gt(CDFDomainLimit) {
		if negative {
			return fixedpoint.Zero()
		}
		return one
	}
	p := cdfNonNegative(mag)
	if negative {
		return one.Sub(p)
	}
	return p
}

// cdfNonNegative 使用 Marsaglia 级数 Φ(x) = ½ + φ(x)·Σ x^{2n+1}/(2n+1)!!.
// φ(x)·Σ 按 Σ/√(2π) ÷ e^{x²/2} 的顺序计算，避免尾部小量 φ(x) 先被截断.
func cdfNonNegative(x fixedpoint.Wad) fixedpoint.Wad {
	one := fixedpoint.One()
	half := one.Half()
	if x.IsZero() {
		return half
	}
	x2 := x.Mul(x)
	term := x
	sum := x
	for n := uint64(3); n < maxSeriesTerms; n += 2 {
		term = term.Mul(x2).DivInt(n)
		if term.IsZero() {
			break
		}
		sum = sum.Add(term)
	}
	growth := expPositive(x2.Half())
	p := half.Add(sum.Mul(InvSqrt2Pi).Div(growth))
	return fixedpoint.Min(p, one)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
