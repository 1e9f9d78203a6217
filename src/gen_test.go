package malamute

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SynthesizeFrameShape(t *testing.T) {
	var codeword = testCodeword(t)

	for _, layout := range []*FrameLayout{StandardFrameLayout(), RepeatedFrameLayout(3)} {
		var frame, err = SynthesizeFrame(codeword, layout, 5.0, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		require.NoError(t, layout.CheckFrame(frame))
		for _, sym := range frame {
			for _, e := range sym {
				assert.GreaterOrEqual(t, e, 0.0)
			}
		}
	}
}

func Test_SynthesizeFrameRejectsBadCodeword(t *testing.T) {
	var _, err = SynthesizeFrame(make([]uint8, LDPC_N-1), StandardFrameLayout(), 5.0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

// With no noise to speak of, the transmitted tone carries almost all
// the energy in every slot, sync slots included.
func Test_SynthesizeFramePutsSignalWhereItBelongs(t *testing.T) {
	var codeword = testCodeword(t)
	var layout = StandardFrameLayout()

	var frame, err = SynthesizeFrame(codeword, layout, 1000.0, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	var tones = SymbolTones(codeword)
	for k, occ := range layout.DataPositions {
		var sym = frame[occ[0]]
		var best = 0
		for tone := range sym {
			if sym[tone] > sym[best] {
				best = tone
			}
		}
		assert.Equal(t, tones[k], best, "data symbol %d", k)
	}

	for pos := range frame {
		if tone, ok := CostasTone(pos); ok {
			var sym = frame[pos]
			var best = 0
			for u := range sym {
				if sym[u] > sym[best] {
					best = u
				}
			}
			assert.Equal(t, tone, best, "sync position %d", pos)
		}
	}
}

func Test_AmplitudeForSNR(t *testing.T) {
	// 0 dB: tone energy equals the mean noise energy of 2
	// (unit variance per quadrature).
	var a = AmplitudeForSNR(0)
	assert.InDelta(t, 2.0, a*a, 1e-9)

	assert.Greater(t, AmplitudeForSNR(10), AmplitudeForSNR(0))
}
