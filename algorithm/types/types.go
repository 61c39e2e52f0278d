package types

import (
	"strings"

	"github.com/wyfcoding/bsengine/fixedpoint"
)

// OptionType 定义期权类型。
type OptionType string

const (
	OptionTypeCall OptionType = "CALL"
	OptionTypePut  OptionType = "PUT"
)

// ParseOptionType 解析期权类型，大小写不敏感。
func ParseOptionType(s string) (OptionType, bool) {
	switch OptionType(strings.ToUpper(strings.TrimSpace(s))) {
	case OptionTypeCall:
		return OptionTypeCall, true
	case OptionTypePut:
		return OptionTypePut, true
	default:
		return "", false
	}
}

// IsValid 是否为受支持的期权类型。
func (t OptionType) IsValid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// Moneyness 描述标的价格与行权价的关系。
type Moneyness string

const (
	InTheMoney    Moneyness = "ITM"
	AtTheMoney    Moneyness = "ATM"
	OutOfTheMoney Moneyness = "OTM"
)

// ClassifyMoneyness 按期权类型判断价内/平值/价外。
func ClassifyMoneyness(t OptionType, spot, strike fixedpoint.Wad) Moneyness {
	switch cmp := spot.Cmp(strike); {
	case cmp == 0:
		return AtTheMoney
	case (cmp > 0) == (t == OptionTypeCall):
		return InTheMoney
	default:
		return OutOfTheMoney
	}
}
