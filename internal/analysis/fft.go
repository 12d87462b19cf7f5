package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k| for k < n/2 of the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return []float64{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in a
// series sampled every dt seconds. The resolution is limited by the series
// length: only whole numbers of cycles per window are resolved.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0, fmt.Errorf("need at least 4 samples, got %d", len(series))
	}

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, fmt.Errorf("series has no oscillating component")
	}

	return float64(len(series)) * dt / float64(peak), nil
}
