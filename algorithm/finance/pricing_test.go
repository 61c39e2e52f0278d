package finance

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/bsengine/algorithm/types"
	"github.com/wyfcoding/bsengine/fixedpoint"
	"github.com/wyfcoding/bsengine/xerrors"
)

const priceTolerance = 1e-3 // 0.1%

func TestPricesMatchReference(t *testing.T) {
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			spot, strike, tt, rate, vol := wads(sc)
			p, err := ComputePrices(spot, strike, tt, rate, vol)
			require.NoError(t, err)
			assert.False(t, p.CallClamped)
			assert.False(t, p.PutClamped)

			ref := referenceBS(floats(sc))
			assert.True(t, within(p.Call.Float64(), ref.call, priceTolerance, 1e-6), "call got=%s want=%v", p.Call, ref.call)
			assert.True(t, within(p.Put.Float64(), ref.put, priceTolerance, 1e-6), "put got=%s want=%v", p.Put, ref.put)
		})
	}
}

func TestATMPrices(t *testing.T) {
	call, put, err := OptionPrices(
		fixedpoint.WadFromInt(100), fixedpoint.WadFromInt(100), fixedpoint.One(),
		fixedpoint.MustParseWad("0.05"), fixedpoint.MustParseWad("0.2"))
	require.NoError(t, err)
	assert.InDelta(t, 10.450583572, call.Float64(), 1e-8)
	assert.InDelta(t, 5.573526022, put.Float64(), 1e-8)
}

func TestSingleLegMatchesPair(t *testing.T) {
	spot, strike, tt, rate, vol := wads(scenarios[1])
	call, put, err := OptionPrices(spot, strike, tt, rate, vol)
	require.NoError(t, err)

	c, err := CallPrice(spot, strike, tt, rate, vol)
	require.NoError(t, err)
	p, err := PutPrice(spot, strike, tt, rate, vol)
	require.NoError(t, err)
	assert.True(t, call.Eq(c))
	assert.True(t, put.Eq(p))

	c, err = Price(types.OptionTypeCall, spot, strike, tt, rate, vol)
	require.NoError(t, err)
	assert.True(t, call.Eq(c))
	p, err = Price(types.OptionTypePut, spot, strike, tt, rate, vol)
	require.NoError(t, err)
	assert.True(t, put.Eq(p))

	_, err = Price(types.OptionType("STRADDLE"), spot, strike, tt, rate, vol)
	assert.ErrorIs(t, err, xerrors.ErrInvalidOptionType)
}

func TestPutCallParity(t *testing.T) {
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			spot, strike, tt, rate, vol := wads(sc)
			ok, err := VerifyPutCallParity(spot, strike, tt, rate, vol)
			require.NoError(t, err)
			assert.True(t, ok)

			p, err := ComputePrices(spot, strike, tt, rate, vol)
			require.NoError(t, err)
			assert.True(t, ParityGap(p, spot, strike).Lte(ParityTolerance), "gap=%s", ParityGap(p, spot, strike).Raw())
		})
	}

	_, err := VerifyPutCallParity(fixedpoint.Zero(), fixedpoint.One(), fixedpoint.One(), fixedpoint.Zero(), fixedpoint.One())
	assert.ErrorIs(t, err, xerrors.ErrZeroSpot)
}

func TestParityGapDetectsMismatch(t *testing.T) {
	spot, strike, tt, rate, vol := wads(scenarios[0])
	p, err := ComputePrices(spot, strike, tt, rate, vol)
	require.NoError(t, err)
	p.Put = p.Put.Add(fixedpoint.MustParseWad("0.01"))
	assert.False(t, parityHolds(p, spot, strike))
}

func TestDiscountFactor(t *testing.T) {
	d, err := DiscountFactor(fixedpoint.MustParseWad("0.05"), fixedpoint.One())
	require.NoError(t, err)
	assert.InDelta(t, 0.951229424500714, d.Float64(), 1e-15)

	d, err = DiscountFactor(fixedpoint.Zero(), fixedpoint.One())
	require.NoError(t, err)
	assert.True(t, d.Eq(fixedpoint.One()))
}

func TestIntrinsic(t *testing.T) {
	s := fixedpoint.WadFromInt(120)
	k := fixedpoint.WadFromInt(100)
	assert.Equal(t, "20", CallIntrinsic(s, k).String())
	assert.True(t, PutIntrinsic(s, k).IsZero())
	assert.Equal(t, "20", PutIntrinsic(k, s).String())

	// 零输入不报错
	assert.Equal(t, "100", PutIntrinsic(fixedpoint.Zero(), k).String())
	assert.True(t, CallIntrinsic(fixedpoint.Zero(), k).IsZero())

	v, err := Intrinsic(types.OptionTypeCall, s, k)
	require.NoError(t, err)
	assert.Equal(t, "20", v.String())
	_, err = Intrinsic(types.OptionType(""), s, k)
	assert.ErrorIs(t, err, xerrors.ErrInvalidOptionType)
}

func TestOptionAboveIntrinsic(t *testing.T) {
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			spot, strike, tt, rate, vol := wads(sc)
			p, err := ComputePrices(spot, strike, tt, rate, vol)
			require.NoError(t, err)
			assert.True(t, p.Call.Gte(CallIntrinsic(spot, strike)))

			// 欧式看跌的下界是 K·e^{-rT} - S；r = 0 时即内在价值
			lower := strike.Mul(p.Discount).SubFloor(spot)
			assert.True(t, p.Put.Add(roundingSlack()).Gte(lower))
			if rate.IsZero() {
				assert.True(t, p.Put.Add(roundingSlack()).Gte(PutIntrinsic(spot, strike)))
			}
		})
	}
}

// roundingSlack 比较时允许的截断误差。
func roundingSlack() fixedpoint.Wad { return fixedpoint.NewWad(1_000) }

func TestCallMonotonicity(t *testing.T) {
	base := func() (fixedpoint.Wad, fixedpoint.Wad, fixedpoint.Wad, fixedpoint.Wad, fixedpoint.Wad) {
		return wads(scenarios[0])
	}
	price := func(spot, strike, tt, rate, vol fixedpoint.Wad) fixedpoint.Wad {
		c, err := CallPrice(spot, strike, tt, rate, vol)
		require.NoError(t, err)
		return c
	}

	spot, strike, tt, rate, vol := base()
	mid := price(spot, strike, tt, rate, vol)

	assert.True(t, price(fixedpoint.WadFromInt(101), strike, tt, rate, vol).Gt(mid), "spot")
	assert.True(t, price(spot, fixedpoint.WadFromInt(101), tt, rate, vol).Lt(mid), "strike")
	assert.True(t, price(spot, strike, tt, rate, fixedpoint.MustParseWad("0.21")).Gt(mid), "vol")
	assert.True(t, price(spot, strike, fixedpoint.MustParseWad("1.1"), rate, vol).Gt(mid), "time")

	puts := func(s uint64) fixedpoint.Wad {
		p, err := PutPrice(fixedpoint.WadFromInt(s), strike, tt, rate, vol)
		require.NoError(t, err)
		return p
	}
	assert.True(t, puts(90).Gt(puts(100)))
	assert.True(t, puts(100).Gt(puts(110)))
}

func TestPricingConcurrent(t *testing.T) {
	spot, strike, tt, rate, vol := wads(scenarios[0])
	want, err := ComputePrices(spot, strike, tt, rate, vol)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Prices, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ComputePrices(spot, strike, tt, rate, vol)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.True(t, got.Call.Eq(want.Call))
		assert.True(t, got.Put.Eq(want.Put))
	}
}
