// SPDX-License-Identifier: MIT
package dsp

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownWeighting is returned when a weighting curve name cannot
// be resolved. Callers must treat this as a configuration error and
// leave previously applied state untouched.
var ErrUnknownWeighting = errors.New("dsp: unknown weighting curve")

// WeightingFunc is a perceptual frequency weighting curve. It maps a
// frequency in Hz to a linear magnitude multiplier, normalized so the
// multiplier at the 1 kHz reference frequency is 1 (0 dB).
type WeightingFunc func(freq float64) float64

// IEC 61672 analog prototype pole frequencies (Hz).
const (
	poleF1 = 20.598997 // double pole for A, B, C
	poleF2 = 107.65265 // single pole for A
	poleF3 = 158.48932 // single pole for B
	poleF4 = 737.86223 // single pole for A
	poleF5 = 12194.217 // double pole for A, B, C
)

const referenceFreq = 1000.0

// Weighting resolves a curve name (case-insensitive) to its
// WeightingFunc. Recognized names: "a", "b", "c", "d", "z",
// "468" (aliases "itu", "itu-r 468").
func Weighting(name string) (WeightingFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a":
		return AWeighting, nil
	case "b":
		return BWeighting, nil
	case "c":
		return CWeighting, nil
	case "d":
		return DWeighting, nil
	case "z", "flat":
		return ZWeighting, nil
	case "468", "itu", "itu-r 468":
		return ITUR468Weighting, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeighting, name)
	}
}

// Reference gains at 1 kHz used to normalize each raw response to 0 dB.
var (
	aRef   = rawAWeighting(referenceFreq)
	bRef   = rawBWeighting(referenceFreq)
	cRef   = rawCWeighting(referenceFreq)
	dRef   = rawDWeighting(referenceFreq)
	ituRef = rawITUR468(referenceFreq)
)

// AWeighting is the A-weighting curve per IEC 61672, approximating the
// 40-phon equal-loudness contour. This is the default curve for most
// loudness-corrected spectrum displays.
func AWeighting(freq float64) float64 {
	return rawAWeighting(freq) / aRef
}

// BWeighting is the B-weighting curve per IEC 61672 (70-phon contour).
func BWeighting(freq float64) float64 {
	return rawBWeighting(freq) / bRef
}

// CWeighting is the C-weighting curve per IEC 61672 (100-phon contour).
func CWeighting(freq float64) float64 {
	return rawCWeighting(freq) / cRef
}

// DWeighting is the D-weighting curve per IEC 537, historically used
// for aircraft noise measurements.
func DWeighting(freq float64) float64 {
	return rawDWeighting(freq) / dRef
}

// ITUR468Weighting is the ITU-R 468 noise weighting curve.
func ITUR468Weighting(freq float64) float64 {
	return rawITUR468(freq) / ituRef
}

// ZWeighting is the zero-weighting (flat) curve: unity gain everywhere.
func ZWeighting(freq float64) float64 {
	return 1
}

// rawAWeighting evaluates the analog A-weighting magnitude response
//
//	R_A(f) = f5^2 f^4 / ((f^2+f1^2) sqrt((f^2+f2^2)(f^2+f4^2)) (f^2+f5^2))
//
// without the 1 kHz normalization.
func rawAWeighting(f float64) float64 {
	f2 := f * f
	num := poleF5 * poleF5 * f2 * f2
	den := (f2 + poleF1*poleF1) *
		math.Sqrt((f2+poleF2*poleF2)*(f2+poleF4*poleF4)) *
		(f2 + poleF5*poleF5)
	return num / den
}

// rawBWeighting evaluates the analog B-weighting magnitude response
//
//	R_B(f) = f5^2 f^3 / ((f^2+f1^2) sqrt(f^2+f3^2) (f^2+f5^2))
func rawBWeighting(f float64) float64 {
	f2 := f * f
	num := poleF5 * poleF5 * f2 * f
	den := (f2 + poleF1*poleF1) *
		math.Sqrt(f2+poleF3*poleF3) *
		(f2 + poleF5*poleF5)
	return num / den
}

// rawCWeighting evaluates the analog C-weighting magnitude response
//
//	R_C(f) = f5^2 f^2 / ((f^2+f1^2)(f^2+f5^2))
func rawCWeighting(f float64) float64 {
	f2 := f * f
	num := poleF5 * poleF5 * f2
	den := (f2 + poleF1*poleF1) * (f2 + poleF5*poleF5)
	return num / den
}

// rawDWeighting evaluates the analog D-weighting magnitude response
// from the IEC 537 transfer function.
func rawDWeighting(f float64) float64 {
	f2 := f * f
	h := ((1037918.48-f2)*(1037918.48-f2) + 1080768.16*f2) /
		((9837328-f2)*(9837328-f2) + 11723776*f2)
	return f / 6.8966888496476e-5 *
		math.Sqrt(h/((f2+79919.29)*(f2+1345600)))
}

// rawITUR468 evaluates the ITU-R 468 magnitude response via the
// published h1/h2 polynomial form.
func rawITUR468(f float64) float64 {
	f2 := f * f
	f3 := f2 * f
	f4 := f2 * f2
	f5 := f4 * f
	f6 := f4 * f2

	h1 := -4.737338981378384e-24*f6 +
		2.043828333606125e-15*f4 -
		1.363894795463638e-7*f2 + 1
	h2 := 1.306612257412824e-19*f5 -
		2.118150887518656e-11*f3 +
		5.559488023498642e-4*f

	return 1.246332637532143e-4 * f / math.Hypot(h1, h2)
}
