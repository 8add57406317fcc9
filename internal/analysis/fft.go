package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of bins 0..n/2 of the series with
// its mean removed. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	ps := make([]float64, len(bins)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantPeriod is the period, in ticks, of the strongest oscillation in
// the series. It is 0 for a flat or too short series.
func DominantPeriod(data []float64) float64 {
	ps := PowerSpectrum(data)
	best, k := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, k = ps[i], i
		}
	}
	if k == 0 || best < 1e-12 {
		return 0
	}
	return float64(len(data)) / float64(k)
}
