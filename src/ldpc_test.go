package malamute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testMessage = "11001010001110101100000101101001110001011110100110100100010101100111010011011"

func testCodeword(t testingT) []uint8 {
	var message, err = BitsFromString(testMessage)
	requireNoError(t, err)

	var payload []uint8
	payload, err = PackPayload(message)
	requireNoError(t, err)

	var codeword []uint8
	codeword, err = StockLDPCCode().Encode(payload)
	requireNoError(t, err)

	return codeword
}

// Minimal shim so the fixture serves both *testing.T and *rapid.T.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

func requireNoError(t testingT, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func noiselessLLR(codeword []uint8) []float64 {
	var llr = make([]float64, len(codeword))
	for i, b := range codeword {
		if b != 0 {
			llr[i] = 10.0
		} else {
			llr[i] = -10.0
		}
	}
	return llr
}

func Test_LDPCDecoder_NoiselessConvergesInOneIteration(t *testing.T) {
	var codeword = testCodeword(t)

	var dec = NewLDPCDecoder(StockLDPCCode(), DEFAULT_MAX_ITERATIONS)
	var res = dec.Decode(noiselessLLR(codeword))

	require.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, codeword, res.Codeword)
	assert.Equal(t, BPConverged, dec.State())
}

func Test_LDPCDecoder_CorrectsWeakWrongBits(t *testing.T) {
	var codeword = testCodeword(t)

	// A handful of bits with the wrong sign but almost no
	// confidence, everything else solid.
	var llr = noiselessLLR(codeword)
	for _, i := range []int{3, 40, 70, 120, 150} {
		if codeword[i] != 0 {
			llr[i] = -0.1
		} else {
			llr[i] = 0.1
		}
	}

	var dec = NewLDPCDecoder(StockLDPCCode(), DEFAULT_MAX_ITERATIONS)
	var res = dec.Decode(llr)

	require.True(t, res.Converged)
	assert.Equal(t, codeword, res.Codeword)
	assert.LessOrEqual(t, res.Iterations, 5)
}

func Test_LDPCDecoder_FillsErasures(t *testing.T) {
	var codeword = testCodeword(t)

	var llr = noiselessLLR(codeword)
	for _, i := range []int{5, 25, 45, 65, 85, 95, 120, 150} {
		llr[i] = 0
	}

	var dec = NewLDPCDecoder(StockLDPCCode(), DEFAULT_MAX_ITERATIONS)
	var res = dec.Decode(llr)

	require.True(t, res.Converged)
	assert.Equal(t, codeword, res.Codeword)
}

// Half the bits confidently wrong is beyond any hope of repair; the
// decoder must hit its cap and say so, not spin or pretend.
func Test_LDPCDecoder_ExhaustsAtIterationCap(t *testing.T) {
	var codeword = testCodeword(t)

	var llr = noiselessLLR(codeword)
	for i := 0; i < LDPC_N; i += 2 {
		llr[i] = -llr[i]
	}

	for _, maxIter := range []int{1, 7, DEFAULT_MAX_ITERATIONS} {
		var dec = NewLDPCDecoder(StockLDPCCode(), maxIter)
		var res = dec.Decode(llr)

		assert.False(t, res.Converged)
		assert.Equal(t, maxIter, res.Iterations)
		assert.Equal(t, BPExhausted, dec.State())
		assert.Nil(t, res.Codeword)
	}
}

func Test_LDPCDecoder_Idempotent(t *testing.T) {
	var codeword = testCodeword(t)

	var llr = noiselessLLR(codeword)
	for _, i := range []int{3, 40, 70} {
		llr[i] = -0.1
	}

	var dec = NewLDPCDecoder(StockLDPCCode(), DEFAULT_MAX_ITERATIONS)
	var first = dec.Decode(llr)
	var second = dec.Decode(llr)

	assert.Equal(t, first.Converged, second.Converged)
	assert.Equal(t, first.Iterations, second.Iterations)
	assert.Equal(t, first.Codeword, second.Codeword)
}

func Test_LDPCDecoder_RejectsPoisonedInput(t *testing.T) {
	var dec = NewLDPCDecoder(StockLDPCCode(), DEFAULT_MAX_ITERATIONS)

	for _, poison := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var llr = noiselessLLR(testCodeword(t))
		llr[17] = poison

		var res = dec.Decode(llr)
		assert.False(t, res.Converged)
		assert.Equal(t, 0, res.Iterations)
		assert.Equal(t, BPExhausted, dec.State())
	}
}

func Test_LDPCDecoder_RejectsWrongLength(t *testing.T) {
	var dec = NewLDPCDecoder(StockLDPCCode(), DEFAULT_MAX_ITERATIONS)
	var res = dec.Decode(make([]float64, LDPC_N-1))

	assert.False(t, res.Converged)
}

func Test_LDPCDecoder_StateMachineStepwise(t *testing.T) {
	var codeword = testCodeword(t)

	var llr = noiselessLLR(codeword)
	for i := 0; i < LDPC_N; i += 2 {
		llr[i] = -llr[i]
	}

	var dec = NewLDPCDecoder(StockLDPCCode(), 3)
	require.True(t, dec.Reset(llr))
	assert.Equal(t, BPInitialized, dec.State())

	assert.True(t, dec.Step())
	assert.Equal(t, BPIterating, dec.State())
	assert.Equal(t, 1, dec.Iterations())

	assert.True(t, dec.Step())
	assert.False(t, dec.Step()) // cap of 3 reached
	assert.Equal(t, BPExhausted, dec.State())
	assert.Equal(t, 3, dec.Iterations())

	// Terminal states stay put.
	assert.False(t, dec.Step())
	assert.Equal(t, 3, dec.Iterations())
}

func Test_EncodeSatisfiesEveryParityCheck(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var payload = rapid.SliceOfN(rapid.SampledFrom([]uint8{0, 1}), LDPC_K, LDPC_K).Draw(t, "payload")

		var codeword, err = StockLDPCCode().Encode(payload)
		requireNoError(t, err)

		assert.Len(t, codeword, LDPC_N)
		assert.Equal(t, payload, codeword[:LDPC_K])
		assert.True(t, StockLDPCCode().CheckParity(codeword))
	})
}

func Test_SingleBitFlipBreaksParity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var payload = rapid.SliceOfN(rapid.SampledFrom([]uint8{0, 1}), LDPC_K, LDPC_K).Draw(t, "payload")

		var codeword, err = StockLDPCCode().Encode(payload)
		requireNoError(t, err)

		codeword[rapid.IntRange(0, LDPC_N-1).Draw(t, "flip")] ^= 1
		assert.False(t, StockLDPCCode().CheckParity(codeword))
	})
}

func Test_NewLDPCCodeRejectsBadTables(t *testing.T) {
	var good = make([][]int, LDPC_M)
	for j := range good {
		good[j] = []int{j % LDPC_K, (j + 1) % LDPC_K, (j + 2) % LDPC_K}
	}

	var _, err = NewLDPCCode(good)
	require.NoError(t, err)

	var cases = map[string]func([][]int) [][]int{
		"too few rows":    func(r [][]int) [][]int { return r[:LDPC_M-1] },
		"empty row":       func(r [][]int) [][]int { r[4] = nil; return r },
		"index too big":   func(r [][]int) [][]int { r[4] = []int{1, 2, LDPC_K}; return r },
		"negative index":  func(r [][]int) [][]int { r[4] = []int{-1, 2, 3}; return r },
		"duplicate index": func(r [][]int) [][]int { r[4] = []int{2, 2, 3}; return r },
	}

	for name, mangle := range cases {
		var rows = make([][]int, LDPC_M)
		for j := range rows {
			rows[j] = append([]int(nil), good[j]...)
		}

		var _, err = NewLDPCCode(mangle(rows))
		assert.Error(t, err, name)
	}
}
