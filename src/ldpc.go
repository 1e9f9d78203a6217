package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Iterative belief propagation decoder for the fixed
 *		(174,91) code.
 *
 * Description:	Offset min-sum message passing, layered schedule:
 *		checks are visited in order within an iteration and
 *		each sees the messages already refreshed by earlier
 *		checks, which converges noticeably faster than a
 *		flooding schedule for the same arithmetic.
 *
 *		The offset keeps the usual min-sum overestimate in
 *		check and, unlike plain min-sum, makes the absolute
 *		size of the input likelihoods matter.  That is what
 *		gives the orchestrator's scale search something to
 *		search: the same frame at a different scale really
 *		does take a different path through here.
 *
 *		After every iteration the accumulated beliefs are
 *		sliced to a hard codeword and run through every
 *		parity check.  All satisfied means stop right there;
 *		a valid codeword never gets better by iterating.
 *		Hitting the iteration cap without that is the
 *		normal, expected outcome for a pass that wasn't
 *		meant to be - the orchestrator just moves on.
 *
 * Convention:	Callers hand in LLRs where positive means bit=1.
 *		Internally we flip to the textbook positive-means-0
 *		sense so the min-sum sign rule is the product of
 *		message signs, nothing cleverer.
 *
 *------------------------------------------------------------------*/

import (
	"math"
)

type BPState int

const (
	BPInitialized BPState = iota
	BPIterating
	BPConverged
	BPExhausted
)

func (s BPState) String() string {
	switch s {
	case BPInitialized:
		return "Initialized"
	case BPIterating:
		return "Iterating"
	case BPConverged:
		return "Converged"
	case BPExhausted:
		return "Exhausted"
	}
	return "?"
}

// Messages and totals are clamped here before the sign/min rule.
// Plenty of headroom in a float64; the clamp exists so a run of
// saturated inputs cannot snowball across iterations.
const beliefClamp = 30.0

// Subtracted from every check-to-bit magnitude (floored at zero).
const minSumOffset = 0.5

// BPResult is what one full decode run produced.  Codeword is
// meaningful only when Converged is true.
type BPResult struct {
	Converged  bool
	Codeword   []uint8
	Iterations int
}

// LDPCDecoder runs belief propagation for one likelihood vector at
// a time.  Not safe for concurrent use; each decode attempt owns
// its own instance.
type LDPCDecoder struct {
	code    *LDPCCode
	maxIter int

	state      BPState
	iterations int

	lam  []float64   // working copy of the input, flipped sign sense
	msg  [][]float64 // check-to-bit messages, msg[check][slot]
	edge []float64   // scratch for one check's bit-to-check values
	bel  []float64   // scratch for per-iteration beliefs
	hard []uint8     // scratch for the hard-decision codeword
}

func NewLDPCDecoder(code *LDPCCode, maxIterations int) *LDPCDecoder {
	var d = &LDPCDecoder{
		code:    code,
		maxIter: maxIterations,
		state:   BPInitialized,
		lam:     make([]float64, LDPC_N),
		msg:     make([][]float64, LDPC_M),
		bel:     make([]float64, LDPC_N),
		hard:    make([]uint8, LDPC_N),
	}

	var maxDegree = 0
	for j, bits := range code.checkBits {
		d.msg[j] = make([]float64, len(bits))
		if len(bits) > maxDegree {
			maxDegree = len(bits)
		}
	}
	d.edge = make([]float64, maxDegree)

	return d
}

func (d *LDPCDecoder) State() BPState {
	return d.state
}

func (d *LDPCDecoder) Iterations() int {
	return d.iterations
}

/*------------------------------------------------------------------
 *
 * Name:	Reset
 *
 * Purpose:	Load a likelihood vector and return to the
 *		Initialized state.  The caller's slice is copied;
 *		nothing here ever writes to it.
 *
 * Returns:	false if the vector is the wrong length or carries
 *		a NaN/Inf.  A poisoned vector is treated the same
 *		as one that will never converge.
 *
 *------------------------------------------------------------------*/

func (d *LDPCDecoder) Reset(llr []float64) bool {
	d.iterations = 0
	for j := range d.msg {
		for s := range d.msg[j] {
			d.msg[j][s] = 0
		}
	}

	if len(llr) != LDPC_N {
		d.state = BPExhausted
		return false
	}

	for i, v := range llr {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			d.state = BPExhausted
			return false
		}
		d.lam[i] = -v
	}

	d.state = BPInitialized
	return true
}

/*------------------------------------------------------------------
 *
 * Name:	Step
 *
 * Purpose:	Run one message-passing iteration and test the
 *		hard decision.  Moves the state machine along:
 *		Initialized/Iterating -> Iterating, Converged or
 *		Exhausted.
 *
 * Returns:	true while another Step would do anything.
 *
 *------------------------------------------------------------------*/

func (d *LDPCDecoder) Step() bool {
	if d.state == BPConverged || d.state == BPExhausted {
		return false
	}

	d.iterations++
	d.state = BPIterating

	var code = d.code

	for j, bits := range code.checkBits {
		// Bit-to-check: total belief minus this check's own
		// last contribution, clamped.
		var v = d.edge[:len(bits)]
		for slot, i := range bits {
			var tot = d.lam[i]
			for _, cs := range code.bitChecks[i] {
				tot += d.msg[cs.check][cs.slot]
			}
			tot -= d.msg[j][slot]

			if tot > beliefClamp {
				tot = beliefClamp
			} else if tot < -beliefClamp {
				tot = -beliefClamp
			}
			v[slot] = tot
		}

		// Check-to-bit: sign rule times the minimum magnitude
		// of the other edges.
		for slot := range bits {
			var sign = 1.0
			var minMag = math.MaxFloat64
			for q := range bits {
				if q == slot {
					continue
				}
				if v[q] < 0 {
					sign = -sign
				}
				if m := math.Abs(v[q]); m < minMag {
					minMag = m
				}
			}
			minMag -= minSumOffset
			if minMag < 0 {
				minMag = 0
			}
			d.msg[j][slot] = sign * minMag
		}
	}

	// Hard decision over accumulated beliefs, then the full
	// parity test.  Early exit on success.
	copy(d.bel, d.lam)
	for j, bits := range code.checkBits {
		for slot, i := range bits {
			d.bel[i] += d.msg[j][slot]
		}
	}
	for i, b := range d.bel {
		if b < 0 {
			d.hard[i] = 1
		} else {
			d.hard[i] = 0
		}
	}

	if code.CheckParity(d.hard) {
		d.state = BPConverged
		return false
	}

	if d.iterations >= d.maxIter {
		d.state = BPExhausted
		return false
	}

	return true
}

// Decode runs Reset and Steps to a terminal state.
func (d *LDPCDecoder) Decode(llr []float64) BPResult {
	if !d.Reset(llr) {
		return BPResult{Converged: false, Iterations: 0}
	}

	for d.Step() {
	}

	var r = BPResult{
		Converged:  d.state == BPConverged,
		Iterations: d.iterations,
	}
	if r.Converged {
		r.Codeword = append([]uint8(nil), d.hard...)
	}
	return r
}
