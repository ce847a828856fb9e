// Package metrics interprets the quality scores the backend reports for a
// generated word.
package metrics

import (
	"fmt"
	"math"
)

// Scores is the performance document returned by the backend.
// Each value is expected in [0, 1].
type Scores struct {
	CVAESSIM       float64 `json:"CVAE_SSIM"`
	CGANDiversity  float64 `json:"CGAN_Diversity"`
	FusedSSIM      float64 `json:"FUSED_SSIM"`
	FusedDiversity float64 `json:"FUSED_Diversity"`
}

// Status is the outcome classification of a generation.
type Status int

const (
	Poor Status = iota
	Acceptable
	Good
	Excellent
	WordNotFound
)

// Thresholds on the fused scores.
const (
	notFoundBelow     = 0.01
	excellentAtLeast  = 0.6
	goodAtLeast       = 0.5
	acceptableAtLeast = 0.3
)

// Classify maps scores to a Status. Only the fused scores take part.
// Every input classifies; NaN averages fall through to Poor.
func Classify(s Scores) Status {
	if s.FusedSSIM < notFoundBelow && s.FusedDiversity < notFoundBelow {
		return WordNotFound
	}

	switch avg := s.Average(); {
	case avg >= excellentAtLeast:
		return Excellent
	case avg >= goodAtLeast:
		return Good
	case avg >= acceptableAtLeast:
		return Acceptable
	default:
		return Poor
	}
}

// Average returns the mean of the fused scores.
func (s Scores) Average() float64 {
	return (s.FusedSSIM + s.FusedDiversity) / 2
}

func (st Status) String() string {
	switch st {
	case WordNotFound:
		return "Word Not Found"
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Acceptable:
		return "Acceptable"
	default:
		return "Poor"
	}
}

// Message is the one-line explanation shown under the status badge.
func (st Status) Message() string {
	switch st {
	case WordNotFound:
		return "The word is probably not in the training vocabulary; the output is not meaningful."
	case Excellent:
		return "Motion is structurally faithful and natural."
	case Good:
		return "Motion is close to the reference with minor artifacts."
	case Acceptable:
		return "Motion is recognizable but noticeably degraded."
	default:
		return "Motion quality is low; treat the output with caution."
	}
}

// Percent returns v as a rounded percentage.
func Percent(v float64) int {
	return int(math.Round(v * 100))
}

// Format renders a score the way the metrics card shows it: "0.734 (73%)".
func Format(v float64) string {
	return fmt.Sprintf("%.3f (%d%%)", v, Percent(v))
}

// OutOfRange lists the score names that fall outside [0, 1].
func (s Scores) OutOfRange() []string {
	var out []string
	check := func(name string, v float64) {
		if v < 0 || v > 1 || math.IsNaN(v) {
			out = append(out, name)
		}
	}
	check("CVAE_SSIM", s.CVAESSIM)
	check("CGAN_Diversity", s.CGANDiversity)
	check("FUSED_SSIM", s.FusedSSIM)
	check("FUSED_Diversity", s.FusedDiversity)
	return out
}
