package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Fixed frame geometry shared with the external
 *		demodulator, and the observation types it hands us.
 *
 * Description:	A frame is 79 tone intervals ("symbols").  Three
 *		groups of 7 are Costas sync symbols; the remaining
 *		58 carry the 174 codeword bits, 3 bits per symbol.
 *
 *		The demodulator gives us one energy per candidate
 *		tone per symbol interval.  We never see audio here
 *		and we never go looking for the time/frequency
 *		offset - that all happened upstream.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
)

const FRAME_SYMBOLS = 79 // symbol intervals per transmitted frame
const DATA_SYMBOLS = 58  // symbols carrying codeword bits
const NUM_TONES = 8      // tone alphabet size
const BITS_PER_SYMBOL = 3

const LDPC_N = 174 // codeword bits
const LDPC_K = 91  // payload bits (message + CRC)
const LDPC_M = 83  // parity checks

const MSG_BITS = 77 // message portion of the payload
const CRC_BITS = 14

// 7x7 Costas array used for sync, repeated at the start, middle
// and end of the frame.  Sync is upstream's problem but the
// positions matter to us: they are the symbols we must skip.
var costasPattern = [7]int{3, 1, 4, 0, 6, 5, 2}

// SymbolObservation holds the per-tone energies measured over one
// symbol interval.  Read-only once handed to the decoder.
type SymbolObservation []float64

// FrameObservations is one SymbolObservation per symbol position,
// in transmission order.  Owned by the caller; every decode pass
// borrows it read-only.
type FrameObservations []SymbolObservation

// FrameLayout says where each logical data symbol lives in the
// physical frame.  DataPositions[k] lists the symbol positions
// carrying logical data symbol k, primary occurrence first; extra
// occurrences exist only in layouts where the frame repeats the
// data portion, and are what coherent combining averages over.
type FrameLayout struct {
	FrameSymbols  int
	DataPositions [][]int
}

/*------------------------------------------------------------------
 *
 * Name:	StandardFrameLayout
 *
 * Purpose:	The plain single-transmission layout: Costas sync at
 *		0-6, 36-42, 72-78, data symbols in between, nothing
 *		repeated.  MaxCombine is 1.
 *
 *------------------------------------------------------------------*/

func StandardFrameLayout() *FrameLayout {
	var positions = make([][]int, 0, DATA_SYMBOLS)

	for pos := 0; pos < FRAME_SYMBOLS; pos++ {
		if isCostasPosition(pos) {
			continue
		}
		positions = append(positions, []int{pos})
	}

	return &FrameLayout{
		FrameSymbols:  FRAME_SYMBOLS,
		DataPositions: positions,
	}
}

// RepeatedFrameLayout describes a capture holding n back-to-back
// transmissions of the same frame.  Logical data symbol k then has
// n occurrences, one per repetition, available for combining.
func RepeatedFrameLayout(n int) *FrameLayout {
	var single = StandardFrameLayout()

	var positions = make([][]int, DATA_SYMBOLS)
	for k := range positions {
		positions[k] = make([]int, n)
		for r := 0; r < n; r++ {
			positions[k][r] = r*FRAME_SYMBOLS + single.DataPositions[k][0]
		}
	}

	return &FrameLayout{
		FrameSymbols:  n * FRAME_SYMBOLS,
		DataPositions: positions,
	}
}

func isCostasPosition(pos int) bool {
	return pos < 7 || (pos >= 36 && pos < 43) || pos >= 72
}

// CostasTone returns the sync tone transmitted at a Costas position.
// Used by the frame synthesizer; the decoder ignores sync symbols.
func CostasTone(pos int) (int, bool) {
	switch {
	case pos < 7:
		return costasPattern[pos], true
	case pos >= 36 && pos < 43:
		return costasPattern[pos-36], true
	case pos >= 72 && pos < FRAME_SYMBOLS:
		return costasPattern[pos-72], true
	}
	return 0, false
}

// MaxCombine is the largest usable combine count: the smallest
// occurrence count over all logical data symbols.
func (l *FrameLayout) MaxCombine() int {
	var m = 0
	for k, occ := range l.DataPositions {
		if k == 0 || len(occ) < m {
			m = len(occ)
		}
	}
	return m
}

func (l *FrameLayout) Validate() error {
	if l.FrameSymbols < FRAME_SYMBOLS {
		return fmt.Errorf("frame layout: %d symbols is shorter than one frame (%d)", l.FrameSymbols, FRAME_SYMBOLS)
	}

	if len(l.DataPositions) != DATA_SYMBOLS {
		return fmt.Errorf("frame layout: %d data symbols, want %d", len(l.DataPositions), DATA_SYMBOLS)
	}

	for k, occ := range l.DataPositions {
		if len(occ) == 0 {
			return fmt.Errorf("frame layout: data symbol %d has no positions", k)
		}
		for _, pos := range occ {
			if pos < 0 || pos >= l.FrameSymbols {
				return fmt.Errorf("frame layout: data symbol %d at position %d, outside frame of %d", k, pos, l.FrameSymbols)
			}
		}
	}

	return nil
}

// CheckFrame verifies the demodulator kept its half of the contract:
// right number of symbol slots, right tone alphabet, finite
// non-negative energies.
func (l *FrameLayout) CheckFrame(frame FrameObservations) error {
	if len(frame) != l.FrameSymbols {
		return fmt.Errorf("frame has %d symbols, layout wants %d", len(frame), l.FrameSymbols)
	}

	for pos, sym := range frame {
		if len(sym) != NUM_TONES {
			return fmt.Errorf("symbol %d has %d tone energies, want %d", pos, len(sym), NUM_TONES)
		}
		for tone, e := range sym {
			if math.IsNaN(e) || math.IsInf(e, 0) || e < 0 {
				return fmt.Errorf("symbol %d tone %d has invalid energy %v", pos, tone, e)
			}
		}
	}

	return nil
}
