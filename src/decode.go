package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Drive the multi-pass search over one frame.
 *
 * Description:	One pass = map the observations to likelihoods under
 *		a (combineCount, scale) configuration, run belief
 *		propagation, verify the checksum.  The configured
 *		pass list is tried in priority order and the first
 *		checksum-valid codeword wins.  Running dry is not a
 *		failure, just a frame that was never going to
 *		decode; the caller gets a nil result and no error.
 *
 *		Passes share nothing but the read-only observations
 *		and the fixed code tables, so they can run on a
 *		worker pool.  The reported winner is still the
 *		earliest pass in the list among all that succeed,
 *		never whichever goroutine happened to finish first,
 *		so a parallel decode is indistinguishable from a
 *		sequential one.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// PassConfig is one entry of the search list.
type PassConfig struct {
	CombineCount int     `yaml:"combine"`
	Scale        float64 `yaml:"scale"`
}

func (p PassConfig) String() string {
	return fmt.Sprintf("{combine %d, scale %.2f}", p.CombineCount, p.Scale)
}

// DecodeResult is the outcome of a successful search.
type DecodeResult struct {
	Payload    []uint8 // LDPC_K bits: message then checksum
	Codeword   []uint8 // full LDPC_N bit codeword
	Pass       PassConfig
	PassIndex  int
	Iterations int
}

// Message returns the payload's message portion.
func (r *DecodeResult) Message() []uint8 {
	return r.Payload[:MSG_BITS]
}

// MultiPassDecoder owns the immutable search configuration.  Safe
// for concurrent use across frames; per-attempt state is created
// per attempt.
type MultiPassDecoder struct {
	layout  *FrameLayout
	code    *LDPCCode
	passes  []PassConfig
	maxIter int
	workers int
	metrics *DecodeMetrics
	logger  *log.Logger
}

type DecoderOption func(*MultiPassDecoder)

// WithMetrics attaches a metrics collector.  Purely observational.
func WithMetrics(m *DecodeMetrics) DecoderOption {
	return func(d *MultiPassDecoder) { d.metrics = m }
}

// WithLogger replaces the default (quiet) logger.
func WithLogger(l *log.Logger) DecoderOption {
	return func(d *MultiPassDecoder) { d.logger = l }
}

// WithCode replaces the stock code tables.
func WithCode(c *LDPCCode) DecoderOption {
	return func(d *MultiPassDecoder) { d.code = c }
}

/*------------------------------------------------------------------
 *
 * Name:	NewMultiPassDecoder
 *
 * Purpose:	Validate the whole configuration up front.  This is
 *		the only place configuration errors surface; after
 *		this, a decode can fail to find a message but it
 *		cannot fault.
 *
 *------------------------------------------------------------------*/

func NewMultiPassDecoder(cfg *DecoderConfig, layout *FrameLayout, opts ...DecoderOption) (*MultiPassDecoder, error) {
	if layout == nil {
		layout = StandardFrameLayout()
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(layout); err != nil {
		return nil, err
	}

	var d = &MultiPassDecoder{
		layout:  layout,
		code:    StockLDPCCode(),
		passes:  append([]PassConfig(nil), cfg.Passes...),
		maxIter: cfg.MaxIterations,
		workers: cfg.Workers,
		logger:  log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

/*------------------------------------------------------------------
 *
 * Name:	Decode
 *
 * Purpose:	Search one frame.
 *
 * Returns:	(result, nil) on the first checksum-valid pass.
 *		(nil, nil) when the whole list is exhausted - the
 *		defined "no decode" outcome, not an error.
 *		(nil, err) only for a frame that violates the
 *		demodulator contract or a cancelled context.
 *
 *------------------------------------------------------------------*/

func (d *MultiPassDecoder) Decode(ctx context.Context, frame FrameObservations) (*DecodeResult, error) {
	if err := d.layout.CheckFrame(frame); err != nil {
		return nil, err
	}

	var res *DecodeResult
	if d.workers > 1 {
		res = d.searchParallel(ctx, frame)
	} else {
		res = d.searchSequential(ctx, frame)
	}

	if res == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d.metrics.CountNoDecode()
		d.logger.Debug("no decode", "passes", len(d.passes))
		return nil, nil
	}

	d.metrics.CountDecode(res.PassIndex, res.Iterations)
	d.logger.Debug("decoded", "pass", res.Pass, "passIndex", res.PassIndex, "iterations", res.Iterations)
	return res, nil
}

func (d *MultiPassDecoder) searchSequential(ctx context.Context, frame FrameObservations) *DecodeResult {
	for idx := range d.passes {
		if ctx.Err() != nil {
			return nil
		}
		if res := d.attempt(frame, idx); res != nil {
			return res
		}
	}
	return nil
}

/*------------------------------------------------------------------
 *
 * Name:	searchParallel
 *
 * Purpose:	Same search over a bounded worker pool.
 *
 * Description:	A success only suppresses the launch of LATER
 *		passes.  Anything already in flight runs to
 *		completion and may replace the provisional winner if
 *		its list position is earlier.  That is what keeps
 *		the outcome identical to the sequential search.
 *
 *------------------------------------------------------------------*/

func (d *MultiPassDecoder) searchParallel(ctx context.Context, frame FrameObservations) *DecodeResult {
	var (
		mu   sync.Mutex
		best *DecodeResult
		wg   sync.WaitGroup
		sem  = make(chan struct{}, d.workers)
	)

	var bestBefore = func(idx int) bool {
		mu.Lock()
		defer mu.Unlock()
		return best != nil && best.PassIndex < idx
	}

	for idx := range d.passes {
		if ctx.Err() != nil || bestBefore(idx) {
			break
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			if ctx.Err() != nil || bestBefore(idx) {
				return
			}

			if res := d.attempt(frame, idx); res != nil {
				mu.Lock()
				if best == nil || res.PassIndex < best.PassIndex {
					best = res
				}
				mu.Unlock()
			}
		}(idx)
	}

	wg.Wait()
	return best
}

/*------------------------------------------------------------------
 *
 * Name:	attempt
 *
 * Purpose:	One complete pass: metrics, belief propagation,
 *		checksum.  nil means this pass produced nothing -
 *		non-convergence and false convergence both end up
 *		here and both are routine.
 *
 *------------------------------------------------------------------*/

func (d *MultiPassDecoder) attempt(frame FrameObservations, idx int) *DecodeResult {
	var pass = d.passes[idx]

	var llr = computeBitMetrics(frame, d.layout, pass.CombineCount, pass.Scale)

	var dec = NewLDPCDecoder(d.code, d.maxIter)
	var bp = dec.Decode(llr)

	d.metrics.CountAttempt(bp.Converged, bp.Iterations)

	if !bp.Converged {
		d.logger.Debug("pass exhausted", "pass", pass, "iterations", bp.Iterations)
		return nil
	}

	// Converged on a codeword every parity check likes.  The
	// checksum has the final say.
	var payload = bp.Codeword[:LDPC_K]
	if !d.code.CheckParity(bp.Codeword) || !ValidatePayload(payload) {
		d.metrics.CountFalseConvergence()
		d.logger.Debug("false convergence", "pass", pass, "iterations", bp.Iterations)
		return nil
	}

	return &DecodeResult{
		Payload:    append([]uint8(nil), payload...),
		Codeword:   bp.Codeword,
		Pass:       pass,
		PassIndex:  idx,
		Iterations: bp.Iterations,
	}
}
