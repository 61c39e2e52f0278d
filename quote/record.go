package quote

import (
	"time"

	"github.com/wyfcoding/bsengine/algorithm/finance"
	"github.com/wyfcoding/bsengine/algorithm/types"
	"github.com/wyfcoding/bsengine/fixedpoint"
)

// 记录类型。
const (
	KindPrice   = "price"
	KindGreeks  = "greeks"
	KindDValues = "dvalues"
)

// Record 每次成功计算产生的事件记录。
type Record interface {
	RecordKind() string
	RecordID() string
}

// Meta 所有记录共有的元信息。
type Meta struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	RequestID  string    `json:"request_id,omitempty"`
	ComputedAt time.Time `json:"computed_at"`
	Cached     bool      `json:"cached"`
}

// RecordKind 实现 Record。
func (m Meta) RecordKind() string { return m.Kind }

// RecordID 实现 Record。
func (m Meta) RecordID() string { return m.ID }

// PriceRecord 一次定价的完整结果。
type PriceRecord struct {
	Meta
	Params         finance.OptionParams `json:"params"`
	Call           fixedpoint.Wad       `json:"call"`
	Put            fixedpoint.Wad       `json:"put"`
	Discount       fixedpoint.Wad       `json:"discount"`
	D1             fixedpoint.SignedWad `json:"d1"`
	D2             fixedpoint.SignedWad `json:"d2"`
	CallIntrinsic  fixedpoint.Wad       `json:"call_intrinsic"`
	PutIntrinsic   fixedpoint.Wad       `json:"put_intrinsic"`
	ParityVerified bool                 `json:"parity_verified"`
	CallClamped    bool                 `json:"call_clamped,omitempty"`
	PutClamped     bool                 `json:"put_clamped,omitempty"`
}

// GreeksRecord 一次希腊字母计算的结果。
type GreeksRecord struct {
	Meta
	OptionType types.OptionType     `json:"option_type"`
	Moneyness  types.Moneyness      `json:"moneyness"`
	Params     finance.OptionParams `json:"params"`
	Greeks     finance.Greeks       `json:"greeks"`
}

// DValuesRecord d1/d2 计算结果。
type DValuesRecord struct {
	Meta
	Params   finance.OptionParams `json:"params"`
	D1       fixedpoint.SignedWad `json:"d1"`
	D2       fixedpoint.SignedWad `json:"d2"`
	VolSqrtT fixedpoint.Wad       `json:"vol_sqrt_t"`
}
