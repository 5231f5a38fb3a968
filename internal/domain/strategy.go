package domain

import "fmt"

// Strategy is a named chunking policy.
type Strategy string

const (
	// StrategyAuto defers the choice to the pipeline; resolved at load time.
	StrategyAuto Strategy = "auto"
	// StrategyFixed is recursive fixed-size splitting with overlap.
	StrategyFixed Strategy = "fix"
	// StrategySemantic prefers structural boundaries over character counts.
	StrategySemantic Strategy = "semantic"
)

// ParseStrategy validates a strategy value at the boundary. An empty value
// defaults to auto; anything unrecognized fails fast.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyAuto, nil
	case StrategyAuto, StrategyFixed, StrategySemantic:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedChunkingStrategy, s)
	}
}

// Resolve maps auto to its concrete strategy. The resolved value is what gets
// persisted with the document, so re-splits stay stable even if the default
// changes later.
func (s Strategy) Resolve() Strategy {
	if s == StrategyAuto {
		return StrategyFixed
	}
	return s
}
