package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Decoder configuration: the search list and its
 *		limits.  Loaded from YAML or built in code; every
 *		field is checked once, up front, against the frame
 *		layout in use.
 *
 * Description:	The pass list is policy, not algorithm.  The stock
 *		list below is a reasonable ladder for the usual HF
 *		noise levels but there is nothing special about it;
 *		station operators tune their own and feed it back
 *		in through the config file.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

const DEFAULT_MAX_ITERATIONS = 100

type DecoderConfig struct {
	Passes        []PassConfig `yaml:"passes"`
	MaxIterations int          `yaml:"max_iterations"`
	Workers       int          `yaml:"workers"`
}

// DefaultDecoderConfig is the stock single-transmission search
// ladder: scale sweep from timid to confident, no combining.
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		Passes: []PassConfig{
			{CombineCount: 1, Scale: 0.5},
			{CombineCount: 1, Scale: 0.75},
			{CombineCount: 1, Scale: 1.0},
			{CombineCount: 1, Scale: 1.25},
			{CombineCount: 1, Scale: 1.5},
			{CombineCount: 1, Scale: 2.0},
			{CombineCount: 1, Scale: 2.5},
			{CombineCount: 1, Scale: 3.0},
		},
		MaxIterations: DEFAULT_MAX_ITERATIONS,
		Workers:       runtime.NumCPU(),
	}
}

// LoadDecoderConfig reads a YAML config file.  Anything left unset
// falls back to the defaults.
func LoadDecoderConfig(path string) (*DecoderConfig, error) {
	var data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading decoder config: %w", err)
	}

	var cfg = DefaultDecoderConfig()

	var raw DecoderConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing decoder config %s: %w", path, err)
	}

	if len(raw.Passes) > 0 {
		cfg.Passes = raw.Passes
	}
	if raw.MaxIterations != 0 {
		cfg.MaxIterations = raw.MaxIterations
	}
	if raw.Workers != 0 {
		cfg.Workers = raw.Workers
	}

	return cfg, nil
}

/*------------------------------------------------------------------
 *
 * Name:	Validate
 *
 * Purpose:	Reject bad configuration at setup, where it is a
 *		plain error, instead of letting it surface mid
 *		search as a mystery.
 *
 *------------------------------------------------------------------*/

func (c *DecoderConfig) Validate(layout *FrameLayout) error {
	if len(c.Passes) == 0 {
		return fmt.Errorf("decoder config: empty pass list")
	}

	if c.MaxIterations <= 0 {
		return fmt.Errorf("decoder config: max_iterations %d, must be positive", c.MaxIterations)
	}

	if c.Workers < 0 {
		return fmt.Errorf("decoder config: workers %d, must not be negative", c.Workers)
	}

	var maxCombine = layout.MaxCombine()
	for i, p := range c.Passes {
		if p.CombineCount < 1 {
			return fmt.Errorf("decoder config: pass %d: combine %d, must be >= 1", i, p.CombineCount)
		}
		if p.CombineCount > maxCombine {
			return fmt.Errorf("decoder config: pass %d: combine %d but the frame layout only carries %d occurrence(s)", i, p.CombineCount, maxCombine)
		}
		if !(p.Scale > 0) {
			return fmt.Errorf("decoder config: pass %d: scale %v, must be positive", i, p.Scale)
		}
	}

	return nil
}
