// Package finance - 定点数 Black-Scholes 期权定价与希腊字母.
// 所有输入输出均为 WAD (10^18) 定点数，每一步乘除的截断顺序是结果的一部分.
package finance

import (
	algomath "github.com/wyfcoding/bsengine/algorithm/math"
	"github.com/wyfcoding/bsengine/fixedpoint"
	"github.com/wyfcoding/bsengine/xerrors"
)

// OptionParams Black-Scholes 模型的五个输入。
type OptionParams struct {
	Spot         fixedpoint.Wad `json:"spot"`
	Strike       fixedpoint.Wad `json:"strike"`
	TimeToExpiry fixedpoint.Wad `json:"time_to_expiry"` // 年
	Rate         fixedpoint.Wad `json:"rate"`
	Volatility   fixedpoint.Wad `json:"volatility"`
}

// Validate 校验参数，见 ValidateParams。
func (p OptionParams) Validate() error {
	return ValidateParams(p.Spot, p.Strike, p.TimeToExpiry, p.Volatility)
}

// ValidateParams 依次检查 spot、strike、time、volatility 是否为零。
// 利率允许为零。
func ValidateParams(spot, strike, t, vol fixedpoint.Wad) error {
	switch {
	case spot.IsZero():
		return xerrors.ErrZeroSpot
	case strike.IsZero():
		return xerrors.ErrZeroStrike
	case t.IsZero():
		return xerrors.ErrZeroTime
	case vol.IsZero():
		return xerrors.ErrZeroVolatility
	}
	return nil
}

// ComputeDValues 计算 d1 与 d2。
//
//	d1 = (ln(S/K) + (r + σ²/2)·T) / (σ·√T)
//	d2 = d1 - σ·√T
func ComputeDValues(spot, strike, t, rate, vol fixedpoint.Wad) (d1, d2 fixedpoint.SignedWad, err error) {
	if err = ValidateParams(spot, strike, t, vol); err != nil {
		return fixedpoint.SignedZero(), fixedpoint.SignedZero(), err
	}
	d1, d2, _, err = dValues(spot, strike, t, rate, vol)
	return d1, d2, err
}

// ComputeD1 仅返回 d1。
func ComputeD1(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.SignedWad, error) {
	d1, _, err := ComputeDValues(spot, strike, t, rate, vol)
	return d1, err
}

// ComputeVolSqrtT 返回 σ·√T，供 vega 类计算复用。
func ComputeVolSqrtT(t, vol fixedpoint.Wad) (fixedpoint.Wad, error) {
	switch {
	case t.IsZero():
		return fixedpoint.Zero(), xerrors.ErrZeroTime
	case vol.IsZero():
		return fixedpoint.Zero(), xerrors.ErrZeroVolatility
	}
	return volSqrtT(t, vol), nil
}

var minRatio = fixedpoint.NewWad(1)

func volSqrtT(t, vol fixedpoint.Wad) fixedpoint.Wad {
	return vol.Mul(algomath.Sqrt(t))
}

// dValues 假定参数已校验，额外返回 σ·√T。
// σ²/2 按 (σ·σ/SCALE)/2 逐级截断。σ·√T 截断为零时 d1 = d2 = 0。
func dValues(spot, strike, t, rate, vol fixedpoint.Wad) (d1, d2 fixedpoint.SignedWad, vst fixedpoint.Wad, err error) {
	ratio := spot.Div(strike)
	if ratio.IsZero() {
		// S/K 小于 1e-18 时按最小可表示值取对数
		ratio = minRatio
	}
	lnTerm, err := algomath.Ln(ratio)
	if err != nil {
		return fixedpoint.SignedZero(), fixedpoint.SignedZero(), fixedpoint.Zero(), err
	}

	halfVolSq := vol.Mul(vol).Half()
	drift := rate.Add(halfVolSq).Mul(t)
	numerator := lnTerm.Add(fixedpoint.FromWad(drift))

	vst = volSqrtT(t, vol)
	if vst.IsZero() {
		return fixedpoint.SignedZero(), fixedpoint.SignedZero(), vst, nil
	}
	signedVst := fixedpoint.FromWad(vst)
	d1 = numerator.Div(signedVst)
	d2 = d1.Sub(signedVst)
	return d1, d2, vst, nil
}
