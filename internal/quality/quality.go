// Package quality runs a handful of cheap statistical tests over generator
// output. A pass says nothing strong about randomness; a failure reliably
// flags a broken or misconfigured generator.
package quality

import (
	"math"
	"math/bits"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultBytes = 1 << 20
	DefaultAlpha = 1e-4

	// Mean and variance of a uniform byte.
	byteMean     = 127.5
	byteVariance = (256*256 - 1) / 12.0
)

// Filler is anything that can fill a buffer with random bytes.
type Filler interface {
	Fill(p []byte)
}

// Options controls sample size, significance and logging.
type Options struct {
	Bytes  int
	Alpha  float64
	Logger *zerolog.Logger
}

// Result is the outcome of one test.
type Result struct {
	Name      string
	Statistic float64
	PValue    float64
	Pass      bool
}

// Report collects every test run over one sample.
type Report struct {
	Bytes   int
	Alpha   float64
	Results []Result
}

// Passed reports whether every test passed.
func (r Report) Passed() bool {
	return len(r.Failures()) == 0
}

// Failures returns the tests whose p-value fell below alpha.
func (r Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Pass {
			failed = append(failed, res)
		}
	}
	return failed
}

func (o Options) withDefaults() Options {
	if o.Bytes <= 0 {
		o.Bytes = DefaultBytes
	}
	if o.Alpha <= 0 || o.Alpha >= 1 {
		o.Alpha = DefaultAlpha
	}
	return o
}

// Analyze draws opts.Bytes bytes from src and tests them.
func Analyze(src Filler, opts Options) Report {
	opts = opts.withDefaults()
	buf := make([]byte, opts.Bytes)
	src.Fill(buf)
	return AnalyzeBytes(buf, opts)
}

// AnalyzeBytes tests an existing sample.
func AnalyzeBytes(data []byte, opts Options) Report {
	opts = opts.withDefaults()
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "quality").Logger()
	}

	report := Report{Bytes: len(data), Alpha: opts.Alpha}
	for _, test := range []struct {
		name string
		fn   func([]byte) (float64, float64)
	}{
		{"monobit", monobit},
		{"byte_chi_square", byteChiSquare},
		{"runs", runs},
		{"serial_correlation", serialCorrelation},
		{"mean", byteMeanTest},
	} {
		statistic, p := test.fn(data)
		if math.IsNaN(p) {
			p = 0
		}
		res := Result{Name: test.name, Statistic: statistic, PValue: p, Pass: p >= opts.Alpha}
		report.Results = append(report.Results, res)

		if res.Pass {
			logger.Debug().Str("test", res.Name).Float64("p_value", p).Msg("quality test passed")
		} else {
			logger.Warn().
				Str("test", res.Name).
				Float64("statistic", statistic).
				Float64("p_value", p).
				Float64("alpha", opts.Alpha).
				Int("bytes", len(data)).
				Msg("quality test failed")
		}
	}
	return report
}

var unitNormal = distuv.UnitNormal

// twoSided returns the two-tailed normal p-value for z.
func twoSided(z float64) float64 {
	return 2 * unitNormal.Survival(math.Abs(z))
}

// monobit compares the count of one bits against n/2.
func monobit(data []byte) (float64, float64) {
	n := float64(len(data) * 8)
	if n == 0 {
		return 0, 0
	}
	ones := countOnes(data)
	s := 2*float64(ones) - n
	z := s / math.Sqrt(n)
	return z, twoSided(z)
}

// byteChiSquare checks the byte histogram against uniform with 255 degrees
// of freedom.
func byteChiSquare(data []byte) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	expected := float64(len(data)) / 256
	var chi float64
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	dist := distuv.ChiSquared{K: 255}
	return chi, dist.Survival(chi)
}

// runs counts maximal blocks of equal bits. The test is only meaningful
// when the ones proportion is near one half, so a biased sample fails
// outright.
func runs(data []byte) (float64, float64) {
	n := float64(len(data) * 8)
	if n == 0 {
		return 0, 0
	}
	pi := float64(countOnes(data)) / n
	if math.Abs(pi-0.5) >= 2/math.Sqrt(n) {
		return 0, 0
	}

	v := 1
	prev := data[0] & 1
	for _, b := range data {
		for i := 0; i < 8; i++ {
			bit := (b >> i) & 1
			if bit != prev {
				v++
				prev = bit
			}
		}
	}

	expected := 2 * n * pi * (1 - pi)
	z := (float64(v) - expected) / (2 * math.Sqrt(2*n) * pi * (1 - pi))
	return float64(v), twoSided(z * math.Sqrt2)
}

// serialCorrelation measures lag-1 correlation between consecutive bytes.
// Under independence r*sqrt(n) is approximately standard normal.
func serialCorrelation(data []byte) (float64, float64) {
	if len(data) < 3 {
		return 0, 0
	}
	x := make([]float64, len(data)-1)
	y := make([]float64, len(data)-1)
	for i := range x {
		x[i] = float64(data[i])
		y[i] = float64(data[i+1])
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return r, 0
	}
	return r, twoSided(r * math.Sqrt(float64(len(x))))
}

// byteMeanTest compares the sample mean with 127.5.
func byteMeanTest(data []byte) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	vals := make([]float64, len(data))
	for i, b := range data {
		vals[i] = float64(b)
	}
	mean := stat.Mean(vals, nil)
	z := (mean - byteMean) / math.Sqrt(byteVariance/float64(len(vals)))
	return mean, twoSided(z)
}

func countOnes(data []byte) int {
	ones := 0
	for _, b := range data {
		ones += bits.OnesCount8(b)
	}
	return ones
}
