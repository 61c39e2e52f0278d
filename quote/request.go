package quote

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/bsengine/algorithm/finance"
	"github.com/wyfcoding/bsengine/fixedpoint"
	"github.com/wyfcoding/bsengine/xerrors"
)

// Request 报价请求，数值以十进制字符串传入以避免浮点误差。
type Request struct {
	Spot         string `json:"spot"           validate:"required,numeric"`
	Strike       string `json:"strike"         validate:"required,numeric"`
	TimeToExpiry string `json:"time_to_expiry" validate:"required,numeric"`
	Rate         string `json:"rate"           validate:"required,numeric"`
	Volatility   string `json:"volatility"     validate:"required,numeric"`
}

// GreeksRequest 希腊字母请求。
type GreeksRequest struct {
	Request
	OptionType string `json:"option_type" validate:"required"`
}

// BatchRequest 批量定价请求。
type BatchRequest struct {
	Requests []Request `json:"requests" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Validate 校验字段格式。
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return xerrors.ErrInvalidAmount.WithDetail("%v", err)
	}
	return nil
}

// Params 校验并解析为定点参数。超过 18 位的小数部分被截断。
func (r Request) Params() (finance.OptionParams, error) {
	if err := r.Validate(); err != nil {
		return finance.OptionParams{}, err
	}
	var (
		p   finance.OptionParams
		err error
	)
	fields := []struct {
		name string
		raw  string
		dst  *fixedpoint.Wad
	}{
		{"spot", r.Spot, &p.Spot},
		{"strike", r.Strike, &p.Strike},
		{"time_to_expiry", r.TimeToExpiry, &p.TimeToExpiry},
		{"rate", r.Rate, &p.Rate},
		{"volatility", r.Volatility, &p.Volatility},
	}
	for _, f := range fields {
		if *f.dst, err = parseAmount(f.name, f.raw); err != nil {
			return finance.OptionParams{}, err
		}
	}
	return p, nil
}

func parseAmount(field, raw string) (fixedpoint.Wad, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fixedpoint.Zero(), xerrors.ErrInvalidAmount.WithContext("field", field).WithDetail("%s: %v", field, err)
	}
	w, err := fixedpoint.WadFromDecimal(d)
	if err != nil {
		return fixedpoint.Zero(), xerrors.ErrInvalidAmount.WithContext("field", field).WithDetail("%s: %v", field, err)
	}
	return w, nil
}

// RequestFromParams 将定点参数格式化回请求。
func RequestFromParams(p finance.OptionParams) Request {
	return Request{
		Spot:         p.Spot.String(),
		Strike:       p.Strike.String(),
		TimeToExpiry: p.TimeToExpiry.String(),
		Rate:         p.Rate.String(),
		Volatility:   p.Volatility.String(),
	}
}
