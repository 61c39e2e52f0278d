package finance

import (
	algomath "github.com/wyfcoding/bsengine/algorithm/math"
	"github.com/wyfcoding/bsengine/algorithm/types"
	"github.com/wyfcoding/bsengine/fixedpoint"
	"github.com/wyfcoding/bsengine/xerrors"
)

// Greeks 希腊字母。Delta、Theta、Rho 的符号随期权类型变化；Gamma、Vega 恒非负。
type Greeks struct {
	Delta fixedpoint.SignedWad `json:"delta"`
	Gamma fixedpoint.Wad       `json:"gamma"`
	Vega  fixedpoint.Wad       `json:"vega"`
	Theta fixedpoint.SignedWad `json:"theta"`
	Rho   fixedpoint.SignedWad `json:"rho"`
}

// greekInputs 所有希腊字母共享的中间量，每次计算只求一次。
type greekInputs struct {
	spot, strike, t, rate, vol fixedpoint.Wad

	d1, d2   fixedpoint.SignedWad
	cdfD1    fixedpoint.Wad
	cdfD2    fixedpoint.Wad
	cdfNegD2 fixedpoint.Wad
	pdfD1    fixedpoint.Wad
	sqrtT    fixedpoint.Wad
	discount fixedpoint.Wad
}

func newGreekInputs(spot, strike, t, rate, vol fixedpoint.Wad) (*greekInputs, error) {
	if err := ValidateParams(spot, strike, t, vol); err != nil {
		return nil, err
	}
	d1, d2, _, err := dValues(spot, strike, t, rate, vol)
	if err != nil {
		return nil, err
	}
	discount, err := DiscountFactor(rate, t)
	if err != nil {
		return nil, err
	}
	return &greekInputs{
		spot: spot, strike: strike, t: t, rate: rate, vol: vol,
		d1:       d1,
		d2:       d2,
		cdfD1:    algomath.NormCDF(d1),
		cdfD2:    algomath.NormCDF(d2),
		cdfNegD2: algomath.NormCDF(d2.Negate()),
		pdfD1:    algomath.NormPDF(d1),
		sqrtT:    algomath.Sqrt(t),
		discount: discount,
	}, nil
}

// deltaCall = Φ(d1) ∈ [0, 1]
func (g *greekInputs) deltaCall() fixedpoint.Wad {
	return g.cdfD1
}

// deltaPut = Φ(d1) - 1 ∈ [-1, 0]；Φ(d1) 饱和为 1 时返回非负零。
func (g *greekInputs) deltaPut() fixedpoint.SignedWad {
	one := fixedpoint.One()
	if g.cdfD1.Gte(one) {
		return fixedpoint.SignedZero()
	}
	return fixedpoint.NewSigned(one.Sub(g.cdfD1), true)
}

// gamma = φ(d1) / (S·σ·√T)，分母截断为零时返回零。
func (g *greekInputs) gamma() fixedpoint.Wad {
	denom := g.spot.Mul(g.vol).Mul(g.sqrtT)
	if denom.IsZero() {
		return fixedpoint.Zero()
	}
	return g.pdfD1.Div(denom)
}

// vega = S·φ(d1)·√T
func (g *greekInputs) vega() fixedpoint.Wad {
	return g.spot.Mul(g.pdfD1).Mul(g.sqrtT)
}

// timeDecay = S·φ(d1)·σ / (2√T)，看涨看跌共用的第一项。
func (g *greekInputs) timeDecay() fixedpoint.Wad {
	twoSqrtT := g.sqrtT.Double()
	if twoSqrtT.IsZero() {
		return fixedpoint.Zero()
	}
	return g.spot.Mul(g.pdfD1).Mul(g.vol).Div(twoSqrtT)
}

// carry = r·K·e^{-rT}·cdf
func (g *greekInputs) carry(cdf fixedpoint.Wad) fixedpoint.Wad {
	return g.rate.Mul(g.strike).Mul(g.discount).Mul(cdf)
}

// thetaCall = -(timeDecay + r·K·e^{-rT}·Φ(d2))
func (g *greekInputs) thetaCall() fixedpoint.SignedWad {
	return fixedpoint.NewSigned(g.timeDecay().Add(g.carry(g.cdfD2)), true)
}

// thetaPut = -timeDecay + r·K·e^{-rT}·Φ(-d2)，先比较两项幅值再相减。
func (g *greekInputs) thetaPut() fixedpoint.SignedWad {
	decay := g.timeDecay()
	carry := g.carry(g.cdfNegD2)
	if decay.Gte(carry) {
		return fixedpoint.NewSigned(decay.Sub(carry), true)
	}
	return fixedpoint.FromWad(carry.Sub(decay))
}

// rhoCall = K·T·e^{-rT}·Φ(d2)
func (g *greekInputs) rhoCall() fixedpoint.Wad {
	return g.strike.Mul(g.t).Mul(g.discount).Mul(g.cdfD2)
}

// rhoPut = -K·T·e^{-rT}·Φ(-d2)
func (g *greekInputs) rhoPut() fixedpoint.SignedWad {
	return fixedpoint.NewSigned(g.strike.Mul(g.t).Mul(g.discount).Mul(g.cdfNegD2), true)
}

func (g *greekInputs) callGreeks() Greeks {
	return Greeks{
		Delta: fixedpoint.FromWad(g.deltaCall()),
		Gamma: g.gamma(),
		Vega:  g.vega(),
		Theta: g.thetaCall(),
		Rho:   fixedpoint.FromWad(g.rhoCall()),
	}
}

func (g *greekInputs) putGreeks() Greeks {
	return Greeks{
		Delta: g.deltaPut(),
		Gamma: g.gamma(),
		Vega:  g.vega(),
		Theta: g.thetaPut(),
		Rho:   g.rhoPut(),
	}
}

// AllGreeksCall 一次性计算看涨期权全部希腊字母。
func AllGreeksCall(spot, strike, t, rate, vol fixedpoint.Wad) (Greeks, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return Greeks{}, err
	}
	return g.callGreeks(), nil
}

// AllGreeksPut 一次性计算看跌期权全部希腊字母。
func AllGreeksPut(spot, strike, t, rate, vol fixedpoint.Wad) (Greeks, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return Greeks{}, err
	}
	return g.putGreeks(), nil
}

// ComputeGreeks 按期权类型返回全部希腊字母。
func ComputeGreeks(optType types.OptionType, spot, strike, t, rate, vol fixedpoint.Wad) (Greeks, error) {
	switch optType {
	case types.OptionTypeCall:
		return AllGreeksCall(spot, strike, t, rate, vol)
	case types.OptionTypePut:
		return AllGreeksPut(spot, strike, t, rate, vol)
	default:
		return Greeks{}, xerrors.ErrInvalidOptionType
	}
}

// DeltaCall Φ(d1)。
func DeltaCall(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.Wad, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return fixedpoint.Zero(), err
	}
	return g.deltaCall(), nil
}

// DeltaPut Φ(d1) - 1。
func DeltaPut(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.SignedWad, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return fixedpoint.SignedZero(), err
	}
	return g.deltaPut(), nil
}

// Gamma 与期权类型无关。
func Gamma(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.Wad, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return fixedpoint.Zero(), err
	}
	return g.gamma(), nil
}

// Vega 与期权类型无关，未按 1% 波动率缩放。
func Vega(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.Wad, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return fixedpoint.Zero(), err
	}
	return g.vega(), nil
}

// ThetaCall 年化 theta，恒为负。
func ThetaCall(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.SignedWad, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return fixedpoint.SignedZero(), err
	}
	return g.thetaCall(), nil
}

// ThetaPut 年化 theta，符号取决于哪一项占优。
func ThetaPut(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.SignedWad, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return fixedpoint.SignedZero(), err
	}
	return g.thetaPut(), nil
}

// RhoCall 非负。
func RhoCall(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.Wad, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return fixedpoint.Zero(), err
	}
	return g.rhoCall(), nil
}

// RhoPut 以负号表示。
func RhoPut(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.SignedWad, error) {
	g, err := newGreekInputs(spot, strike, t, rate, vol)
	if err != nil {
		return fixedpoint.SignedZero(), err
	}
	return g.rhoPut(), nil
}
