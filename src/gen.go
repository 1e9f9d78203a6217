package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Synthesize tone-energy observations for a known
 *		codeword, under controlled and reproducible noise.
 *
 * Description:	Stands in for the whole radio: each symbol interval
 *		gets complex Gaussian noise in every tone bin and
 *		the transmitted tone gets the signal amplitude added
 *		to its in-phase part.  Energies are magnitude
 *		squared, like the real demodulator reports.
 *
 *		This exists for the test fixtures and the genframe
 *		command, the same way the modulator test fixtures
 *		generate known-content audio for the demodulators.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"math/rand"
)

// SynthesizeFrame builds observations for one codeword under the
// given layout.  amplitude is the tone amplitude against unit
// variance noise per quadrature; 0 gives pure noise.  Every
// repetition in a repeated layout carries the same codeword.
func SynthesizeFrame(codeword []uint8, layout *FrameLayout, amplitude float64, rng *rand.Rand) (FrameObservations, error) {
	if len(codeword) != LDPC_N {
		return nil, fmt.Errorf("codeword has %d bits, want %d", len(codeword), LDPC_N)
	}

	// Transmitted tone per physical symbol position.
	var tones = SymbolTones(codeword)
	var txTone = make([]int, layout.FrameSymbols)
	for pos := range txTone {
		if t, ok := CostasTone(pos % FRAME_SYMBOLS); ok {
			txTone[pos] = t
		}
	}
	for k, occ := range layout.DataPositions {
		for _, pos := range occ {
			txTone[pos] = tones[k]
		}
	}

	var frame = make(FrameObservations, layout.FrameSymbols)
	for pos := range frame {
		var sym = make(SymbolObservation, NUM_TONES)
		for tone := 0; tone < NUM_TONES; tone++ {
			var re = rng.NormFloat64()
			var im = rng.NormFloat64()
			if tone == txTone[pos] {
				re += amplitude
			}
			sym[tone] = re*re + im*im
		}
		frame[pos] = sym
	}

	return frame, nil
}

// AmplitudeForSNR converts a per-symbol energy SNR in dB to the
// tone amplitude SynthesizeFrame wants (unit noise variance per
// quadrature).
func AmplitudeForSNR(snrDB float64) float64 {
	return math.Sqrt(2.0 * math.Pow(10.0, snrDB/10.0))
}

// FlatFrame returns a degenerate frame with every tone energy equal.
// Maps to zero likelihood everywhere; handy for exercising the
// dead-air paths.
func FlatFrame(layout *FrameLayout, level float64) FrameObservations {
	var frame = make(FrameObservations, layout.FrameSymbols)
	for pos := range frame {
		var sym = make(SymbolObservation, NUM_TONES)
		for tone := range sym {
			sym[tone] = level
		}
		frame[pos] = sym
	}
	return frame
}
