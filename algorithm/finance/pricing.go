package finance

import (
	algomath "github.com/wyfcoding/bsengine/algorithm/math"
	"github.com/wyfcoding/bsengine/algorithm/types"
	"github.com/wyfcoding/bsengine/fixedpoint"
	"github.com/wyfcoding/bsengine/xerrors"
)

// ParityTolerance 看涨看跌平价校验的绝对容差 (1e-10)。
var ParityTolerance = fixedpoint.NewWad(100_000_000)

// Prices 一次定价的完整结果。
// CallClamped/PutClamped 表示该腿在定点下溢后被截为零；
// 对合法输入不应出现，出现即说明上游数值有问题。
type Prices struct {
	Call        fixedpoint.Wad
	Put         fixedpoint.Wad
	Discount    fixedpoint.Wad
	D1          fixedpoint.SignedWad
	D2          fixedpoint.SignedWad
	CallClamped bool
	PutClamped  bool
}

// DiscountFactor 计算 e^{-r·T}。
func DiscountFactor(rate, t fixedpoint.Wad) (fixedpoint.Wad, error) {
	return algomath.Exp(fixedpoint.NewSigned(rate.Mul(t), true))
}

// ComputePrices 计算看涨与看跌价格及中间量。
//
//	call = max(S·Φ(d1) - K·e^{-rT}·Φ(d2), 0)
//	put  = max(K·e^{-rT}·Φ(-d2) - S·Φ(-d1), 0)
func ComputePrices(spot, strike, t, rate, vol fixedpoint.Wad) (Prices, error) {
	if err := ValidateParams(spot, strike, t, vol); err != nil {
		return Prices{}, err
	}
	d1, d2, _, err := dValues(spot, strike, t, rate, vol)
	if err != nil {
		return Prices{}, err
	}

	cdfD1 := algomath.NormCDF(d1)
	cdfD2 := algomath.NormCDF(d2)
	cdfNegD1 := algomath.NormCDF(d1.Negate())
	cdfNegD2 := algomath.NormCDF(d2.Negate())

	discount, err := DiscountFactor(rate, t)
	if err != nil {
		return Prices{}, err
	}
	strikePV := strike.Mul(discount)

	out := Prices{Discount: discount, D1: d1, D2: d2}
	out.Call, out.CallClamped = clampedDiff(spot.Mul(cdfD1), strikePV.Mul(cdfD2))
	out.Put, out.PutClamped = clampedDiff(strikePV.Mul(cdfNegD2), spot.Mul(cdfNegD1))
	return out, nil
}

// clampedDiff 返回 max(a-b, 0)，并标记是否发生了截断。a == b 不算截断。
func clampedDiff(a, b fixedpoint.Wad) (fixedpoint.Wad, bool) {
	if a.Lt(b) {
		return fixedpoint.Zero(), true
	}
	return a.Sub(b), false
}

// OptionPrices 返回 (call, put)。需要两条腿时应优先使用本函数。
func OptionPrices(spot, strike, t, rate, vol fixedpoint.Wad) (call, put fixedpoint.Wad, err error) {
	p, err := ComputePrices(spot, strike, t, rate, vol)
	if err != nil {
		return fixedpoint.Zero(), fixedpoint.Zero(), err
	}
	return p.Call, p.Put, nil
}

// CallPrice 看涨期权价格。
func CallPrice(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.Wad, error) {
	call, _, err := OptionPrices(spot, strike, t, rate, vol)
	return call, err
}

// PutPrice 看跌期权价格。
func PutPrice(spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.Wad, error) {
	_, put, err := OptionPrices(spot, strike, t, rate, vol)
	return put, err
}

// Price 按期权类型返回价格。
func Price(optType types.OptionType, spot, strike, t, rate, vol fixedpoint.Wad) (fixedpoint.Wad, error) {
	switch optType {
	case types.OptionTypeCall:
		return CallPrice(spot, strike, t, rate, vol)
	case types.OptionTypePut:
		return PutPrice(spot, strike, t, rate, vol)
	default:
		return fixedpoint.Zero(), xerrors.ErrInvalidOptionType
	}
}

// CallIntrinsic max(S-K, 0)，允许零输入。
func CallIntrinsic(spot, strike fixedpoint.Wad) fixedpoint.Wad {
	return spot.SubFloor(strike)
}

// PutIntrinsic max(K-S, 0)，允许零输入。
func PutIntrinsic(spot, strike fixedpoint.Wad) fixedpoint.Wad {
	return strike.SubFloor(spot)
}

// Intrinsic 按期权类型返回内在价值。
func Intrinsic(optType types.OptionType, spot, strike fixedpoint.Wad) (fixedpoint.Wad, error) {
	switch optType {
	case types.OptionTypeCall:
		return CallIntrinsic(spot, strike), nil
	case types.OptionTypePut:
		return PutIntrinsic(spot, strike), nil
	default:
		return fixedpoint.Zero(), xerrors.ErrInvalidOptionType
	}
}

// VerifyPutCallParity 检查 |C + K·e^{-rT} - P - S| <= ParityTolerance。
// 两边各自为非负量，按大减小求无符号差。
func VerifyPutCallParity(spot, strike, t, rate, vol fixedpoint.Wad) (bool, error) {
	p, err := ComputePrices(spot, strike, t, rate, vol)
	if err != nil {
		return false, err
	}
	return parityHolds(p, spot, strike), nil
}

// ParityGap 返回 |C + K·e^{-rT} - P - S|。
func ParityGap(p Prices, spot, strike fixedpoint.Wad) fixedpoint.Wad {
	lhs := p.Call.Add(strike.Mul(p.Discount))
	rhs := p.Put.Add(spot)
	if lhs.Gte(rhs) {
		return lhs.Sub(rhs)
	}
	return rhs.Sub(lhs)
}

func parityHolds(p Prices, spot, strike fixedpoint.Wad) bool {
	return ParityGap(p, spot, strike).Lte(ParityTolerance)
}
