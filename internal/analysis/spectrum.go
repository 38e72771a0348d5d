// Package analysis provides frequency analysis of recorded run series, e.g.
// the rotation rate visible in the inter-tracker separation signal.
package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum computes the one-sided power spectrum of a real series. The
// input is zero-padded to the next power of two; the DC bin is included.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, padded)

	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		a := cmplx.Abs(c)
		ps[i] = a * a / float64(n)
	}
	return ps
}

// DominantFrequency returns the frequency (in cycles per sample period
// units, given the sample interval dt) of the strongest non-DC component.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	n := 1
	for n < len(data) {
		n *= 2
	}

	maxIdx := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	return float64(maxIdx) / (float64(n) * dt)
}
