package finance

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/bsengine/fixedpoint"
	"github.com/wyfcoding/bsengine/xerrors"
)

func wads(sc scenario) (spot, strike, t, rate, vol fixedpoint.Wad) {
	return fixedpoint.MustParseWad(sc.spot), fixedpoint.MustParseWad(sc.strike),
		fixedpoint.MustParseWad(sc.t), fixedpoint.MustParseWad(sc.rate), fixedpoint.MustParseWad(sc.vol)
}

func floats(sc scenario) (spot, strike, t, rate, vol float64) {
	f := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			panic(err)
		}
		return v
	}
	return f(sc.spot), f(sc.strike), f(sc.t), f(sc.rate), f(sc.vol)
}

func TestComputeDValuesATM(t *testing.T) {
	d1, d2, err := ComputeDValues(
		fixedpoint.WadFromInt(100), fixedpoint.WadFromInt(100), fixedpoint.One(),
		fixedpoint.MustParseWad("0.05"), fixedpoint.MustParseWad("0.2"))
	require.NoError(t, err)
	assert.InDelta(t, 0.35, d1.Float64(), 1e-12)
	assert.InDelta(t, 0.15, d2.Float64(), 1e-12)
	assert.False(t, d1.IsNegative())
}

func TestDValuesIdentity(t *testing.T) {
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			spot, strike, tt, rate, vol := wads(sc)
			d1, d2, err := ComputeDValues(spot, strike, tt, rate, vol)
			require.NoError(t, err)
			vst, err := ComputeVolSqrtT(tt, vol)
			require.NoError(t, err)
			// d1 - d2 与 σ√T 逐位相等
			assert.True(t, d1.Sub(d2).Equal(fixedpoint.FromWad(vst)), "d1-d2=%s vst=%s", d1.Sub(d2), vst)

			fs, fk, ft, fr, fv := floats(sc)
			ref := referenceBS(fs, fk, ft, fr, fv)
			assert.InDelta(t, ref.d1, d1.Float64(), 1e-10)
			assert.InDelta(t, ref.d2, d2.Float64(), 1e-10)
		})
	}
}

func TestComputeD1MatchesPair(t *testing.T) {
	spot, strike, tt, rate, vol := wads(scenarios[2])
	d1, _, err := ComputeDValues(spot, strike, tt, rate, vol)
	require.NoError(t, err)
	only, err := ComputeD1(spot, strike, tt, rate, vol)
	require.NoError(t, err)
	assert.Equal(t, d1, only)
	assert.True(t, only.IsNegative())
}

func TestValidateParamsOrder(t *testing.T) {
	zero := fixedpoint.Zero()
	one := fixedpoint.One()
	cases := []struct {
		name                 string
		spot, strike, t, vol fixedpoint.Wad
		want                 error
	}{
		{"spot", zero, zero, zero, zero, xerrors.ErrZeroSpot},
		{"strike", one, zero, zero, zero, xerrors.ErrZeroStrike},
		{"time", one, one, zero, zero, xerrors.ErrZeroTime},
		{"vol", one, one, one, zero, xerrors.ErrZeroVolatility},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateParams(tc.spot, tc.strike, tc.t, tc.vol)
			assert.ErrorIs(t, err, tc.want)

			_, _, err = ComputeDValues(tc.spot, tc.strike, tc.t, one, tc.vol)
			assert.ErrorIs(t, err, tc.want)
			_, err = CallPrice(tc.spot, tc.strike, tc.t, one, tc.vol)
			assert.ErrorIs(t, err, tc.want)
			_, err = AllGreeksPut(tc.spot, tc.strike, tc.t, one, tc.vol)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.NoError(t, ValidateParams(one, one, one, one))
	assert.NoError(t, OptionParams{Spot: one, Strike: one, TimeToExpiry: one, Volatility: one}.Validate())
}

func TestComputeVolSqrtT(t *testing.T) {
	vst, err := ComputeVolSqrtT(fixedpoint.MustParseWad("0.25"), fixedpoint.MustParseWad("0.2"))
	require.NoError(t, err)
	assert.Equal(t, "0.1", vst.String())

	_, err = ComputeVolSqrtT(fixedpoint.Zero(), fixedpoint.One())
	assert.ErrorIs(t, err, xerrors.ErrZeroTime)
	_, err = ComputeVolSqrtT(fixedpoint.One(), fixedpoint.Zero())
	assert.ErrorIs(t, err, xerrors.ErrZeroVolatility)
}

func TestDValuesDegenerate(t *testing.T) {
	// σ·√T 截断为零
	tiny := fixedpoint.NewWad(1)
	d1, d2, err := ComputeDValues(fixedpoint.WadFromInt(100), fixedpoint.WadFromInt(100), tiny, fixedpoint.Zero(), tiny)
	require.NoError(t, err)
	assert.True(t, d1.IsZero())
	assert.True(t, d2.IsZero())

	// S/K 低于最小精度时仍可计算，d1 极负
	d1, _, err = ComputeDValues(fixedpoint.NewWad(1), fixedpoint.WadFromInt(1_000_000), fixedpoint.One(),
		fixedpoint.Zero(), fixedpoint.MustParseWad("0.2"))
	require.NoError(t, err)
	assert.True(t, d1.IsNegative())
	assert.Less(t, d1.Float64(), -100.0)
}
