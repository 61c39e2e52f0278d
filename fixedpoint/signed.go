package fixedpoint

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SignedWad 由 Wad 幅值与显式负号标志组成.
// 零可以带任意符号标志：NewSigned(Zero(), true) 保留其标志，
// IsZero、Cmp 与 Equal 将 +0 与 -0 视为相等，调用方不应依赖零的符号.
type SignedWad struct {
	mag Wad
	neg bool
}

// NewSigned 以幅值和符号创建 SignedWad.
func NewSigned(mag Wad, isNegative bool) SignedWad {
	return SignedWad{mag: mag, neg: isNegative}
}

// FromWad 将 Wad 提升为非负 SignedWad.
func FromWad(w Wad) SignedWad {
	return SignedWad{mag: w}
}

// SignedZero 返回非负零.
func SignedZero() SignedWad { return SignedWad{} }

// Magnitude 返回绝对值幅值.
func (s SignedWad) Magnitude() Wad { return s.mag }

// IsNegative 返回符号标志. 对零可能为 true.
func (s SignedWad) IsNegative() bool { return s.neg }

// IsZero 判断幅值是否为零，忽略符号.
func (s SignedWad) IsZero() bool { return s.mag.IsZero() }

// Negate 翻转符号标志.
func (s SignedWad) Negate() SignedWad {
	return SignedWad{mag: s.mag, neg: !s.neg}
}

// Abs 返回非负副本.
func (s SignedWad) Abs() SignedWad {
	return SignedWad{mag: s.mag}
}

// Add 带符号加法. 异号时比较幅值决定结果符号，完全抵消时返回非负零.
func (s SignedWad) Add(o SignedWad) SignedWad {
	if s.neg == o.neg {
		return SignedWad{mag: s.mag.Add(o.mag), neg: s.neg}
	}
	switch s.mag.Cmp(o.mag) {
	case 1:
		return SignedWad{mag: s.mag.Sub(o.mag), neg: s.neg}
	case -1:
		return SignedWad{mag: o.mag.Sub(s.mag), neg: o.neg}
	default:
		return SignedZero()
	}
}

// Sub 带符号减法 s - o.
func (s SignedWad) Sub(o SignedWad) SignedWad {
	return s.Add(o.Negate())
}

// Mul 带符号定点乘法，符号为两者异或.
func (s SignedWad) Mul(o SignedWad) SignedWad {
	return SignedWad{mag: s.mag.Mul(o.mag), neg: s.neg != o.neg}
}

// Div 带符号定点除法，符号为两者异或. 除数为零属于契约违规.
func (s SignedWad) Div(o SignedWad) SignedWad {
	return SignedWad{mag: s.mag.Div(o.mag), neg: s.neg != o.neg}
}

// Cmp 按数值比较，+0 与 -0 相等.
func (s SignedWad) Cmp(o SignedWad) int {
	sNeg := s.neg && !s.mag.IsZero()
	oNeg := o.neg && !o.mag.IsZero()
	switch {
	case sNeg && !oNeg:
		return -1
	case !sNeg && oNeg:
		return 1
	case sNeg:
		return o.mag.Cmp(s.mag)
	default:
		return s.mag.Cmp(o.mag)
	}
}

// Equal 按数值判断相等.
func (s SignedWad) Equal(o SignedWad) bool { return s.Cmp(o) == 0 }

// String 返回带符号的实数形式.
func (s SignedWad) String() string { return s.Decimal().String() }

type signedJSON struct {
	Value    decimal.Decimal `json:"value"`
	Negative bool            `json:"negative"`
}

// MarshalJSON 同时输出数值与原始符号标志，保留非规范零的符号.
func (s SignedWad) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedJSON{Value: s.Decimal(), Negative: s.neg})
}

// UnmarshalJSON 解析 MarshalJSON 的输出.
func (s *SignedWad) UnmarshalJSON(data []byte) error {
	var raw signedJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	mag, err := WadFromDecimal(raw.Value.Abs())
	if err != nil {
		return err
	}
	*s = NewSigned(mag, raw.Negative)
	return nil
}
