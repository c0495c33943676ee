// Package sentiment holds the polarity scoring capability used by the
// /analyze handler and the engines that implement it.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	MinPolarity = -1.0
	MaxPolarity = 1.0
)

var (
	ErrInvalidScore  = errors.New("scorer returned a non-finite score")
	ErrUnknownEngine = errors.New("unknown scorer engine")
)

// Scorer computes a polarity in [-1, 1] for a piece of text: negative is
// negative sentiment, positive is positive, 0 is neutral.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// HealthChecker is implemented by scorers that depend on something that can
// go away (a remote service, a model runtime).
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Round rounds to 3 decimal places from the exact binary value, ties to
// even, so 0.0625 -> 0.062 and 0.1235 (stored just below) -> 0.123.
// Negative zero comes back as 0.
func Round(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	if err != nil || r == 0 {
		return 0
	}
	return r
}

func Clamp(v float64) float64 {
	return math.Max(MinPolarity, math.Min(MaxPolarity, v))
}

// Normalize turns a raw engine score into a response value.
func Normalize(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidScore, v)
	}
	return Round(Clamp(v)), nil
}
