package fixedpoint

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const wadExp = -18

// Decimal 转换为 shopspring/decimal，精确无损.
func (a Wad) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.v.ToBig(), wadExp)
}

// WadFromDecimal 将十进制数转换为 Wad，超过 18 位的小数部分被截断.
func WadFromDecimal(d decimal.Decimal) (Wad, error) {
	if d.IsNegative() {
		return Wad{}, fmt.Errorf("fixedpoint: negative value %s", d.String())
	}
	raw := d.Shift(-wadExp).Truncate(0).BigInt()
	u, overflow := uint256.FromBig(raw)
	if overflow {
		return Wad{}, fmt.Errorf("fixedpoint: value %s exceeds 256 bits", d.String())
	}
	return WadFromUint256(u), nil
}

// ParseWad 解析实数字符串，例如 "0.05" 或 "100".
func ParseWad(s string) (Wad, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Wad{}, fmt.Errorf("fixedpoint: parse %q: %w", s, err)
	}
	return WadFromDecimal(d)
}

// MustParseWad 与 ParseWad 相同，失败时 panic. 仅用于常量与测试.
func MustParseWad(s string) Wad {
	w, err := ParseWad(s)
	if err != nil {
		panic(err)
	}
	return w
}

// Float64 返回近似的浮点值，仅用于展示与测试比较.
func (a Wad) Float64() float64 {
	return a.Decimal().InexactFloat64()
}

// Decimal 转换为带符号的 shopspring/decimal. 负零输出为 0.
func (s SignedWad) Decimal() decimal.Decimal {
	d := s.mag.Decimal()
	if s.neg {
		return d.Neg()
	}
	return d
}

// SignedFromDecimal 将任意符号的十进制数转换为 SignedWad.
func SignedFromDecimal(d decimal.Decimal) (SignedWad, error) {
	mag, err := WadFromDecimal(d.Abs())
	if err != nil {
		return SignedWad{}, err
	}
	return NewSigned(mag, d.IsNegative()), nil
}

// MustParseSigned 解析带符号实数字符串，失败时 panic.
func MustParseSigned(s string) SignedWad {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	v, err := SignedFromDecimal(d)
	if err != nil {
		panic(err)
	}
	return v
}

// Float64 返回近似的浮点值.
func (s SignedWad) Float64() float64 {
	return s.Decimal().InexactFloat64()
}
