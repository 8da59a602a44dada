package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/springchain/internal/dynamo"
)

// Bin is one bin of a spectrum; Freq is in Hz.
type Bin struct {
	Freq  float64
	Power float64
}

// Spectrum returns the one-sided amplitude spectrum of series sampled every
// sampleMs milliseconds. The mean is removed first.
func Spectrum(series []float64, sampleMs float64) ([]Bin, error) {
	n := len(series)
	if n < 4 {
		return nil, fmt.Errorf("spectrum needs at least 4 samples, got %d: %w", n, dynamo.ErrInvalidState)
	}
	if !(sampleMs > 0) {
		return nil, fmt.Errorf("sample interval %v: %w", sampleMs, dynamo.ErrParameterBounds)
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range series {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	rate := 1000 / sampleMs
	bins := make([]Bin, n/2+1)
	for i := range bins {
		bins[i] = Bin{
			Freq:  float64(i) * rate / float64(n),
			Power: cmplx.Abs(coeffs[i]) / float64(n),
		}
	}
	return bins, nil
}

// DominantFrequency returns the strongest bin above DC.
func DominantFrequency(series []float64, sampleMs float64) (Bin, error) {
	bins, err := Spectrum(series, sampleMs)
	if err != nil {
		return Bin{}, err
	}
	best := bins[1]
	for _, b := range bins[2:] {
		if b.Power > best.Power {
			best = b
		}
	}
	return best, nil
}

// Powers extracts the power column, e.g. for plotting.
func Powers(bins []Bin) []float64 {
	out := make([]float64, len(bins))
	for i, b := range bins {
		out[i] = b.Power
	}
	return out
}

// Heights is the y coordinate of node over all states that contain it.
func Heights(states []dynamo.State, node int) []float64 {
	ys := make([]float64, 0, len(states))
	for _, x := range states {
		if node < x.Nodes() {
			ys = append(ys, x.Position(node).Y)
		}
	}
	return ys
}

// SampleInterval is the mean spacing of recorded times, in milliseconds.
func SampleInterval(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1)
}
