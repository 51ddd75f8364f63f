// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"math/rand/v2"
)

// Normalization follows the usual convolver calibration: unit RMS impulse
// scaled to -58 dB at 44.1 kHz.
const (
	irGainCalibration   = 0.00125
	irCalibrationRate   = 44100.0
	irMinPower          = 0.000125
	reverbMinBlockOrder = 7
	impulseChannels     = 2
)

// Impulse builds a stereo noise impulse response of sampleRate*decay
// samples per channel. Sample i on each channel is a uniform value in
// [-1, 1) shaped by (1 - i/length)^(3*roomSize).
func Impulse(rng *rand.Rand, sampleRate int, decay, roomSize float64) [impulseChannels][]float64 {
	length := max(1, int(float64(sampleRate)*decay))
	exp := 3 * roomSize

	var ir [impulseChannels][]float64
	for c := range ir {
		ch := make([]float64, length)
		for i := range ch {
			ch[i] = (rng.Float64()*2 - 1) * math.Pow(1-float64(i)/float64(length), exp)
		}
		ir[c] = ch
	}

	return ir
}

// normalizeImpulse scales ir in place to a calibrated loudness.
func normalizeImpulse(ir [impulseChannels][]float64, sampleRate int) {
	var power float64
	var n int
	for _, ch := range ir {
		for _, v := range ch {
			power += v * v
		}
		n += len(ch)
	}

	rms := math.Sqrt(power / float64(max(n, 1)))
	if math.IsNaN(rms) || math.IsInf(rms, 0) || rms < irMinPower {
		rms = irMinPower
	}

	scale := irGainCalibration / rms * irCalibrationRate / float64(sampleRate)
	for _, ch := range ir {
		for i := range ch {
			ch[i] *= scale
		}
	}
}
