package malamute

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Build exact observations with no noise: unit energy on the
// transmitted tone, zero everywhere else.
func exactObservations(codeword []uint8, layout *FrameLayout) FrameObservations {
	var frame = FlatFrame(layout, 0)

	for pos := range frame {
		if tone, ok := CostasTone(pos % FRAME_SYMBOLS); ok {
			frame[pos][tone] = 1
		}
	}
	var tones = SymbolTones(codeword)
	for k, occ := range layout.DataPositions {
		for _, pos := range occ {
			frame[pos][tones[k]] = 1
		}
	}

	return frame
}

func Test_BitMetrics_ExactSignsMatchCodeword(t *testing.T) {
	var codeword = testCodeword(t)
	var layout = StandardFrameLayout()
	var frame = exactObservations(codeword, layout)

	var llr = computeBitMetrics(frame, layout, 1, 1.0)
	require.Len(t, llr, LDPC_N)

	for i, b := range codeword {
		if b != 0 {
			assert.Positive(t, llr[i], "bit %d", i)
		} else {
			assert.Negative(t, llr[i], "bit %d", i)
		}
	}
}

func Test_BitMetrics_ScaleIsProportional(t *testing.T) {
	var codeword = testCodeword(t)
	var layout = StandardFrameLayout()
	var frame = exactObservations(codeword, layout)

	var one = computeBitMetrics(frame, layout, 1, 1.0)
	var two = computeBitMetrics(frame, layout, 1, 2.0)

	for i := range one {
		assert.InDelta(t, 2*one[i], two[i], 1e-12)
	}
}

// All tone energies identical carries no information; the mapper
// must answer "no idea" for every bit, not fall over.
func Test_BitMetrics_DegenerateFrameIsAllZero(t *testing.T) {
	var layout = StandardFrameLayout()

	for _, level := range []float64{0, 1, 42.5} {
		var llr = computeBitMetrics(FlatFrame(layout, level), layout, 1, 2.0)

		require.Len(t, llr, LDPC_N)
		for i := range llr {
			assert.Zero(t, llr[i])
		}
	}
}

func Test_BitMetrics_CombiningRecoversFromOneDeadCopy(t *testing.T) {
	var codeword = testCodeword(t)
	var layout = RepeatedFrameLayout(2)

	// First transmission destroyed (flat), second clean.
	var frame = FlatFrame(layout, 1)
	var tones = SymbolTones(codeword)
	for pos := FRAME_SYMBOLS; pos < 2*FRAME_SYMBOLS; pos++ {
		for tone := range frame[pos] {
			frame[pos][tone] = 0
		}
		if tone, ok := CostasTone(pos % FRAME_SYMBOLS); ok {
			frame[pos][tone] = 1
		}
	}
	for k, occ := range layout.DataPositions {
		frame[occ[1]][tones[k]] = 1
	}

	// Using only the first copy: nothing.
	var llr = computeBitMetrics(frame, layout, 1, 1.0)
	for i := range llr {
		assert.Zero(t, llr[i])
	}

	// Averaged with the clean copy: every sign right.
	llr = computeBitMetrics(frame, layout, 2, 1.0)
	for i, b := range codeword {
		if b != 0 {
			assert.Positive(t, llr[i], "bit %d", i)
		} else {
			assert.Negative(t, llr[i], "bit %d", i)
		}
	}
}

// The tone numbering is Gray coded: neighbouring tones differ in
// exactly one of their three bits.
func Test_ToneMappingIsGrayCoded(t *testing.T) {
	var toneValue [NUM_TONES]int
	for v, tone := range bitsToTone {
		toneValue[tone] = v
	}

	for tone := 0; tone < NUM_TONES-1; tone++ {
		var diff = toneValue[tone] ^ toneValue[tone+1]
		assert.Equal(t, 1, bits.OnesCount(uint(diff)), "tones %d and %d", tone, tone+1)
	}
}

func Test_SymbolTonesUsesThreeBitsPerSymbol(t *testing.T) {
	var codeword = testCodeword(t)
	var tones = SymbolTones(codeword)

	require.Len(t, tones, DATA_SYMBOLS)
	for _, tone := range tones {
		assert.GreaterOrEqual(t, tone, 0)
		assert.Less(t, tone, NUM_TONES)
	}
}
