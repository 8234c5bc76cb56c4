package bmpblend

import (
	"fmt"
	"sync"

	"github.com/gogpu/bmpblend/internal/blend"
)

// Strategy names a compositing kernel. Every strategy produces identical
// pixels; they differ only in how many bytes they process per step.
type Strategy string

const (
	// StrategyAuto picks the widest strategy the CPU supports.
	StrategyAuto Strategy = "auto"

	// StrategyScalar processes one pixel at a time.
	StrategyScalar Strategy = "scalar"

	// StrategyLanes8 processes 8 bytes (two pixels) per step.
	StrategyLanes8 Strategy = "lanes8"

	// StrategyLanes32 processes 32 bytes (eight pixels) per step.
	StrategyLanes32 Strategy = "lanes32"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	if _, err := blend.StrategyByName(name); err != nil {
		return "", fmt.Errorf("bmpblend: unknown strategy %q", name)
	}
	if name == "" {
		return StrategyAuto, nil
	}
	return Strategy(name), nil
}

// BlendOption configures a Blend call.
//
// Example:
//
//	bg.Blend(fg, 10, 20, bmpblend.WithStrategy(bmpblend.StrategyScalar))
type BlendOption func(blendOptions) blendOptions

// blendOptions holds optional configuration for Blend.
type blendOptions struct {
	strategy Strategy
}

// defaultBlendOptions returns the default blend options.
func defaultBlendOptions() blendOptions {
	return blendOptions{strategy: StrategyAuto}
}

// WithStrategy forces a specific kernel. An unknown name falls back to
// StrategyAuto and logs a warning.
func WithStrategy(s Strategy) BlendOption {
	return func(o blendOptions) blendOptions {
		o.strategy = s
		return o
	}
}

// autoStrategy is resolved once per process.
var autoStrategy = sync.OnceValue(blend.Select)

func (o blendOptions) resolve() blend.Strategy {
	if o.strategy == StrategyAuto || o.strategy == "" {
		return autoStrategy()
	}
	s, err := blend.StrategyByName(string(o.strategy))
	if err != nil {
		Logger().Warn("bmpblend: unknown strategy, using auto", "strategy", string(o.strategy))
		return autoStrategy()
	}
	return s
}
