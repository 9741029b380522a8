package repair

import "fmt"

// Strategy is the policy applied to every gap of a sequence.
type Strategy int

const (
	// StrategyNone means the sequence had nothing to repair.
	StrategyNone Strategy = iota
	// StrategyDrop removes missing positions from the output.
	StrategyDrop
	// StrategyInterpolate fills missing positions from their neighbours.
	StrategyInterpolate
)

// String returns the lowercase name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyDrop:
		return "drop"
	case StrategyInterpolate:
		return "interpolate"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so reports serialize by name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Mode selects how the strategy is chosen.
type Mode string

const (
	// ModeAuto picks Drop or Interpolate from the gap ratio.
	ModeAuto Mode = "auto"
	// ModeDrop always drops.
	ModeDrop Mode = "drop"
	// ModeInterpolate always interpolates.
	ModeInterpolate Mode = "interpolate"
)

// ParseMode parses a mode name. An empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeDrop:
		return ModeDrop, nil
	case ModeInterpolate:
		return ModeInterpolate, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidOptions, s)
	}
}

// DecideStrategy chooses Drop when gapCount exceeds totalCount*threshold
// and Interpolate otherwise.
func DecideStrategy(gapCount, totalCount int, threshold float64) Strategy {
	if float64(gapCount) > float64(totalCount)*threshold {
		return StrategyDrop
	}
	return StrategyInterpolate
}
