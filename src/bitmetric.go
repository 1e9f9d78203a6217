package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Turn tone energies into per-bit log likelihoods.
 *
 * Description:	Each data symbol picks one of 8 tones to carry 3
 *		bits.  The tone numbering is Gray coded so the
 *		tones adjacent in frequency differ in one bit - a
 *		small frequency error then costs one soft bit, not
 *		three.
 *
 *		The metric is max-log: for each bit, the best energy
 *		among tones consistent with bit=1 minus the best
 *		among tones consistent with bit=0.  The raw metrics
 *		are normalized by their spread over the whole frame
 *		and multiplied by the pass scale.  The true noise
 *		variance is never measured; the scale search exists
 *		precisely because we do not know it.
 *
 * Combining:	A pass may ask for combineCount > 1.  The energies
 *		of that many occurrences of each logical symbol are
 *		averaged before the metric, trading time diversity
 *		for variance.  Which physical positions count as
 *		occurrences is the frame layout's knowledge, not
 *		ours.
 *
 *------------------------------------------------------------------*/

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Gray code: bitsToTone[v] is the tone for 3-bit value v.
var bitsToTone = [NUM_TONES]int{0, 1, 3, 2, 5, 6, 4, 7}

/*------------------------------------------------------------------
 *
 * Name:	computeBitMetrics
 *
 * Purpose:	Build the full LDPC_N element likelihood vector for
 *		one decode pass.  Positive means bit=1.
 *
 * Inputs:	frame	- borrowed read-only observations.
 *		layout	- logical-to-physical symbol mapping.
 *		combine	- occurrences to average, >= 1.  Validated
 *			  against the layout at setup.
 *		scale	- LLR scaling factor, > 0.
 *
 * Outputs:	Fresh slice; the caller owns it.  A degenerate frame
 *		(zero spread) comes back all zero, maximal
 *		uncertainty, rather than dividing by zero.
 *
 *------------------------------------------------------------------*/

func computeBitMetrics(frame FrameObservations, layout *FrameLayout, combine int, scale float64) []float64 {
	var llr = make([]float64, 0, LDPC_N)
	var combined = make([]float64, NUM_TONES)

	for _, occ := range layout.DataPositions {
		var energies []float64

		if combine > 1 {
			copy(combined, frame[occ[0]])
			for r := 1; r < combine; r++ {
				floats.Add(combined, frame[occ[r]])
			}
			floats.Scale(1.0/float64(combine), combined)
			energies = combined
		} else {
			energies = frame[occ[0]]
		}

		for b := 0; b < BITS_PER_SYMBOL; b++ {
			llr = append(llr, bitMetric(energies, b))
		}
	}

	// Normalize by spread so the scale factor means the same
	// thing from frame to frame regardless of absolute signal
	// level.
	var sd = stat.StdDev(llr, nil)
	if sd > 0 {
		floats.Scale(scale/sd, llr)
	} else {
		for i := range llr {
			llr[i] = 0
		}
	}

	return llr
}

// bitMetric is the max-log metric for bit b (0 = most significant)
// of one symbol's tone energies.
func bitMetric(energies []float64, b int) float64 {
	var mask = 1 << (BITS_PER_SYMBOL - 1 - b)

	var best1, best0 float64
	var have1, have0 bool

	for v := 0; v < NUM_TONES; v++ {
		var e = energies[bitsToTone[v]]
		if v&mask != 0 {
			if !have1 || e > best1 {
				best1, have1 = e, true
			}
		} else {
			if !have0 || e > best0 {
				best0, have0 = e, true
			}
		}
	}

	return best1 - best0
}

// SymbolTones maps a codeword onto its 58 data tones, Gray coded.
// The transmit direction of bitsToTone; the synthesizer and the
// test fixtures want it.
func SymbolTones(codeword []uint8) []int {
	var tones = make([]int, DATA_SYMBOLS)

	for k := range tones {
		var v = 0
		for b := 0; b < BITS_PER_SYMBOL; b++ {
			v = v<<1 | int(codeword[k*BITS_PER_SYMBOL+b]&1)
		}
		tones[k] = bitsToTone[v]
	}

	return tones
}
