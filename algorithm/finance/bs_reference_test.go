package finance

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// scenario 一组定价输入，同时给出浮点参考值。
type scenario struct {
	name                       string
	spot, strike, t, rate, vol string
}

var scenarios = []scenario{
	{"ATM", "100", "100", "1", "0.05", "0.2"},
	{"ITM", "120", "100", "1", "0.05", "0.2"},
	{"OTM", "80", "100", "1", "0.05", "0.2"},
	{"DeepITM", "200", "100", "1", "0.05", "0.2"},
	{"DeepOTM", "50", "100", "1", "0.05", "0.2"},
	{"ShortExpiry", "100", "100", "0.25", "0.05", "0.2"},
	{"HighVol", "100", "100", "1", "0.05", "0.5"},
	{"HighRate", "100", "100", "1", "0.10", "0.2"},
	{"ZeroRate", "100", "100", "1", "0", "0.2"},
}

// floatBS 浮点 Black-Scholes 参考实现。
type floatBS struct {
	call, put                  float64
	d1, d2                     float64
	deltaCall, deltaPut, gamma float64
	vega, thetaCall, thetaPut  float64
	rhoCall, rhoPut            float64
}

func referenceBS(s, k, t, r, v float64) floatBS {
	n := distuv.UnitNormal
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r+v*v/2)*t) / (v * sqrtT)
	d2 := d1 - v*sqrtT
	disc := math.Exp(-r * t)
	pdf := n.Prob(d1)
	return floatBS{
		call:      s*n.CDF(d1) - k*disc*n.CDF(d2),
		put:       k*disc*n.CDF(-d2) - s*n.CDF(-d1),
		d1:        d1,
		d2:        d2,
		deltaCall: n.CDF(d1),
		deltaPut:  n.CDF(d1) - 1,
		gamma:     pdf / (s * v * sqrtT),
		vega:      s * pdf * sqrtT,
		thetaCall: -s*pdf*v/(2*sqrtT) - r*k*disc*n.CDF(d2),
		thetaPut:  -s*pdf*v/(2*sqrtT) + r*k*disc*n.CDF(-d2),
		rhoCall:   k * t * disc * n.CDF(d2),
		rhoPut:    -k * t * disc * n.CDF(-d2),
	}
}

// within 相对误差不超过 rel，极小参考值退化为绝对误差 floor。
func within(got, want, rel, floor float64) bool {
	return math.Abs(got-want) <= math.Max(math.Abs(want)*rel, floor)
}
