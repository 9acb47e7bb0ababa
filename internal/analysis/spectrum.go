package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// FFT returns the discrete Fourier transform of data. Any length is
// accepted.
func FFT(data []float64) []complex128 {
	if len(data) == 0 {
		return nil
	}
	return fft.FFTReal(data)
}

// PowerSpectrum returns |X_k| for the non-negative frequency bins.
func PowerSpectrum(data []float64) []float64 {
	x := FFT(data)
	ps := make([]float64, len(x)/2+1)
	if len(x) == 0 {
		return ps[:0]
	}
	for i := range ps {
		ps[i] = cmplx.Abs(x[i])
	}
	return ps
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// DominantFrequency estimates the strongest oscillation in a series sampled
// every dt seconds. The mean is removed, a Hann window applied and the
// series zero-padded to four times the next power of two before the
// transform. It reports false for series too short or too flat to carry a
// frequency.
func DominantFrequency(series []float64, dt float64) (float64, bool) {
	n := len(series)
	if n < 4 || dt <= 0 {
		return 0, false
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	padded := make([]float64, 4*nextPow2(n))
	for i, v := range series {
		padded[i] = v - mean
	}
	window.Apply(padded[:n], window.Hann)

	ps := PowerSpectrum(padded)
	best, bestMag := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestMag {
			best, bestMag = k, ps[k]
		}
	}
	if best == 0 || bestMag < 1e-12 {
		return 0, false
	}
	return float64(best) / (float64(len(padded)) * dt), true
}

// SettlingTime returns the time after which the series stays within tol of
// its final value. tol is relative to the series range.
func SettlingTime(series []float64, dt, tol float64) float64 {
	if len(series) == 0 {
		return 0
	}
	lo, hi := series[0], series[0]
	for _, v := range series {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	band := tol * (hi - lo)
	final := series[len(series)-1]
	for i := len(series) - 1; i >= 0; i-- {
		if math.Abs(series[i]-final) > band {
			return float64(i+1) * dt
		}
	}
	return 0
}
