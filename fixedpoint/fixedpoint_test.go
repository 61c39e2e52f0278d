package fixedpoint

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWadMulDivTruncation(t *testing.T) {
	a := MustParseWad("1.5")
	b := MustParseWad("2.25")
	assert.Equal(t, "3.375", a.Mul(b).String())

	// 1/3 截断到 18 位
	third := One().Div(WadFromInt(3))
	assert.Equal(t, "333333333333333333", third.Raw())

	// 乘法向零截断: 0.000000000000000001 * 0.5 = 0
	assert.True(t, NewWad(1).Mul(MustParseWad("0.5")).IsZero())

	// 两个 10^20 量级的 WAD 相乘不溢出 64 位以外的中间结果
	big := WadFromInt(1_000_000)
	assert.Equal(t, "1000000000000", big.Mul(big).String())
}

func TestWadDivByZeroPanics(t *testing.T) {
	assert.Panics(t, func() { One().Div(Zero()) })
	assert.Panics(t, func() { One().DivInt(0) })
}

func TestWadSub(t *testing.T) {
	assert.Panics(t, func() { One().Sub(WadFromInt(2)) })
	assert.True(t, One().SubFloor(WadFromInt(2)).IsZero())
	assert.Equal(t, "1", WadFromInt(2).SubFloor(One()).String())
}

func TestWadHalfDouble(t *testing.T) {
	assert.Equal(t, NewWad(1), NewWad(3).Half())
	assert.Equal(t, "4", WadFromInt(2).Double().String())
}

func TestWadDecimalRoundTrip(t *testing.T) {
	w, err := ParseWad("0.123456789012345678999")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", w.Raw())

	_, err = ParseWad("-1")
	assert.Error(t, err)
	_, err = ParseWad("abc")
	assert.Error(t, err)

	d := decimal.RequireFromString("100.05")
	w, err = WadFromDecimal(d)
	require.NoError(t, err)
	assert.True(t, w.Decimal().Equal(d))
}

func TestWadCompare(t *testing.T) {
	lo, hi := NewWad(1), NewWad(2)
	assert.True(t, lo.Eq(NewWad(1)))
	assert.False(t, lo.Eq(hi))
	assert.True(t, lo.Lt(hi))
	assert.False(t, hi.Lt(lo))
	assert.True(t, hi.Gt(lo))
	assert.False(t, lo.Gt(lo))
	assert.True(t, lo.Lte(lo))
	assert.True(t, lo.Lte(hi))
	assert.False(t, hi.Lte(lo))
	assert.True(t, hi.Gte(hi))
	assert.False(t, lo.Gte(hi))
	assert.Equal(t, lo, Min(lo, hi))
}

func TestWadJSON(t *testing.T) {
	data, err := json.Marshal(MustParseWad("10.5"))
	require.NoError(t, err)
	assert.Equal(t, `"10.5"`, string(data))

	var w Wad
	require.NoError(t, json.Unmarshal([]byte(`"0.05"`), &w))
	assert.Equal(t, "50000000000000000", w.Raw())
}

func TestSignedAdd(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"both positive", "1.5", "2", "3.5"},
		{"both negative", "-1.5", "-2", "-3.5"},
		{"positive dominates", "3", "-1", "2"},
		{"negative dominates", "1", "-3", "-2"},
		{"cancel", "-2", "2", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseSigned(tt.a).Add(MustParseSigned(tt.b))
			assert.True(t, got.Equal(MustParseSigned(tt.want)), "got %s", got)
		})
	}
}

func TestSignedSubUsesMagnitudeCompare(t *testing.T) {
	got := MustParseSigned("0.35").Sub(MustParseSigned("0.2"))
	assert.False(t, got.IsNegative())
	assert.Equal(t, "0.15", got.String())

	got = MustParseSigned("0.1").Sub(MustParseSigned("0.2"))
	assert.True(t, got.IsNegative())
	assert.Equal(t, "-0.1", got.String())
}

func TestSignedCancellationYieldsNonNegativeZero(t *testing.T) {
	got := MustParseSigned("-2").Add(MustParseSigned("2"))
	assert.True(t, got.IsZero())
	assert.False(t, got.IsNegative())
}

func TestSignedNonCanonicalZero(t *testing.T) {
	negZero := NewSigned(Zero(), true)
	assert.True(t, negZero.IsNegative())
	assert.True(t, negZero.IsZero())
	assert.True(t, negZero.Equal(SignedZero()))
	assert.Equal(t, 0, negZero.Cmp(SignedZero()))
	assert.Equal(t, "0", negZero.String())

	// -0 + x == x
	x := MustParseSigned("1.25")
	assert.True(t, negZero.Add(x).Equal(x))
	assert.True(t, negZero.Add(x.Negate()).Equal(x.Negate()))
}

func TestSignedMulDivSign(t *testing.T) {
	a := MustParseSigned("-1.5")
	b := MustParseSigned("0.5")
	assert.Equal(t, "-0.75", a.Mul(b).String())
	assert.Equal(t, "-3", a.Div(b).String())
	assert.Equal(t, "3", a.Div(b.Negate()).String())
}

func TestSignedCmp(t *testing.T) {
	assert.Equal(t, -1, MustParseSigned("-2").Cmp(MustParseSigned("-1")))
	assert.Equal(t, 1, MustParseSigned("1").Cmp(MustParseSigned("-5")))
	assert.Equal(t, -1, MustParseSigned("1").Cmp(MustParseSigned("5")))
}

func TestSignedJSONKeepsFlag(t *testing.T) {
	data, err := json.Marshal(NewSigned(Zero(), true))
	require.NoError(t, err)

	var s SignedWad
	require.NoError(t, json.Unmarshal(data, &s))
	assert.True(t, s.IsNegative())
	assert.True(t, s.IsZero())
}
