// Package fixedpoint 提供了基于 256 位整数的 WAD 定点数（10^18 缩放）及带符号变体.
package fixedpoint

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
)

// Scale 定点缩放因子，1.0 表示为 10^18.
const Scale uint64 = 1_000_000_000_000_000_000

var scaleInt = uint256.NewInt(Scale)

// Wad 是一个非负的定点数，底层为 uint256，值类型不可变.
type Wad struct {
	v uint256.Int
}

// Zero 返回 0.
func Zero() Wad { return Wad{} }

// One 返回 1.0 (即 10^18).
func One() Wad { return NewWad(Scale) }

// NewWad 以原始整数单位创建 Wad (不做缩放).
func NewWad(raw uint64) Wad {
	var w Wad
	w.v.SetUint64(raw)
	return w
}

// WadFromInt 创建表示整数 n 的 Wad，即 n·10^18.
func WadFromInt(n uint64) Wad {
	var w Wad
	w.v.Mul(uint256.NewInt(n), scaleInt)
	return w
}

// WadFromUint256 以原始单位包装一个 uint256.
func WadFromUint256(x *uint256.Int) Wad {
	var w Wad
	w.v.Set(x)
	return w
}

// Uint256 返回底层原始值的副本.
func (a Wad) Uint256() *uint256.Int {
	return a.v.Clone()
}

// IsZero 判断是否为零.
func (a Wad) IsZero() bool { return a.v.IsZero() }

// Cmp 比较大小，返回 -1、0、1.
func (a Wad) Cmp(b Wad) int { return a.v.Cmp(&b.v) }

// Eq 判断 a == b.
func (a Wad) Eq(b Wad) bool { return a.v.Eq(&b.v) }

// Lt 判断 a < b.
func (a Wad) Lt(b Wad) bool { return a.v.Lt(&b.v) }

// Gt 判断 a > b.
func (a Wad) Gt(b Wad) bool { return a.v.Gt(&b.v) }

// Lte 判断 a <= b.
func (a Wad) Lte(b Wad) bool { return !a.v.Gt(&b.v) }

// Gte 判断 a >= b.
func (a Wad) Gte(b Wad) bool { return !a.v.Lt(&b.v) }

// Min 返回较小者.
func Min(a, b Wad) Wad {
	if a.Lt(b) {
		return a
	}
	return b
}

// Max 返回较大者.
func Max(a, b Wad) Wad {
	if a.Gt(b) {
		return a
	}
	return b
}

// Add 加法，溢出 256 位时 panic.
func (a Wad) Add(b Wad) Wad {
	var z Wad
	if _, overflow := z.v.AddOverflow(&a.v, &b.v); overflow {
		panic(fmt.Sprintf("fixedpoint: add overflow %s + %s", a.Raw(), b.Raw()))
	}
	return z
}

// Sub 减法. 调用方必须保证 a >= b，无符号减法不定义负结果.
func (a Wad) Sub(b Wad) Wad {
	var z Wad
	if _, underflow := z.v.SubOverflow(&a.v, &b.v); underflow {
		panic(fmt.Sprintf("fixedpoint: sub underflow %s - %s", a.Raw(), b.Raw()))
	}
	return z
}

// SubFloor 饱和减法，a < b 时返回 0.
func (a Wad) SubFloor(b Wad) Wad {
	if a.Lte(b) {
		return Zero()
	}
	return a.Sub(b)
}

// Mul 定点乘法 a·b/Scale，向零截断.
func (a Wad) Mul(b Wad) Wad {
	var z Wad
	if _, overflow := z.v.MulDivOverflow(&a.v, &b.v, scaleInt); overflow {
		panic(fmt.Sprintf("fixedpoint: mul overflow %s * %s", a.Raw(), b.Raw()))
	}
	return z
}

// Div 定点除法 a·Scale/b，向零截断. b 为零属于契约违规.
func (a Wad) Div(b Wad) Wad {
	if b.IsZero() {
		panic("fixedpoint: division by zero")
	}
	var z Wad
	if _, overflow := z.v.MulDivOverflow(&a.v, scaleInt, &b.v); overflow {
		panic(fmt.Sprintf("fixedpoint: div overflow %s / %s", a.Raw(), b.Raw()))
	}
	return z
}

// MulInt 乘以一个无缩放的整数.
func (a Wad) MulInt(n uint64) Wad {
	var z Wad
	if _, overflow := z.v.MulOverflow(&a.v, uint256.NewInt(n)); overflow {
		panic(fmt.Sprintf("fixedpoint: mul overflow %s * %d", a.Raw(), n))
	}
	return z
}

// DivInt 除以一个无缩放的整数，向零截断.
func (a Wad) DivInt(n uint64) Wad {
	if n == 0 {
		panic("fixedpoint: division by zero")
	}
	var z Wad
	z.v.Div(&a.v, uint256.NewInt(n))
	return z
}

// Half 返回 a/2 (原始单位整除).
func (a Wad) Half() Wad {
	var z Wad
	z.v.Rsh(&a.v, 1)
	return z
}

// Double 返回 2a.
func (a Wad) Double() Wad { return a.MulInt(2) }

// Raw 返回原始整数的十进制表示.
func (a Wad) Raw() string { return a.v.Dec() }

// String 返回实数形式，例如 "10.450583572185565".
func (a Wad) String() string { return a.Decimal().String() }

// MarshalJSON 以十进制实数字符串序列化.
func (a Wad) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON 接受十进制实数字符串.
func (a *Wad) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	w, err := ParseWad(s)
	if err != nil {
		return err
	}
	*a = w
	return nil
}
