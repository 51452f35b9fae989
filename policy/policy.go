// Package policy turns a classification into a moderation decision using an
// age-sensitive threshold rule. Evaluation is deterministic and pure so the
// same classification for the same child always yields the same decision.
package policy

import (
	"strings"

	"github.com/SharedCode/guardian"
)

const (
	// DefaultBlockThreshold applies to accounts with no age-sensitivity signal.
	DefaultBlockThreshold = 0.7
	// StrictBlockThreshold applies to younger children.
	StrictBlockThreshold = 0.4
	// WarnThreshold is the floor of the warn band.
	WarnThreshold = 0.4
	// StrictMarker inside a child identifier signals a younger child. The
	// identifier itself encodes age sensitivity, there is no separate age field.
	StrictMarker = "child"
)

// Evaluator holds the threshold configuration.
type Evaluator struct {
	BlockThreshold  float64
	StrictThreshold float64
	WarnThreshold   float64
	StrictMarker    string

	// Override, when set, may force a decision regardless of thresholds.
	Override *Override
}

// NewEvaluator returns an Evaluator with the default thresholds.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		BlockThreshold:  DefaultBlockThreshold,
		StrictThreshold: StrictBlockThreshold,
		WarnThreshold:   WarnThreshold,
		StrictMarker:    StrictMarker,
	}
}

// Threshold returns the effective block threshold for the given child
// identifier, tightened when the identifier carries the strict marker.
func (e *Evaluator) Threshold(childID string) float64 {
	if strings.Contains(childID, e.StrictMarker) {
		return e.StrictThreshold
	}
	return e.BlockThreshold
}

// Evaluate maps (score, category, childID) to a decision and severity.
// Branches are checked in order, so at a tightened threshold of 0.4 the block
// branch fully shadows the warn branch: warn is only reachable with the
// default threshold, for scores in [0.4, 0.7).
func (e *Evaluator) Evaluate(score float64, category string, childID string) guardian.PolicyDecision {
	if e.Override != nil {
		if d, ok := e.Override.Decide(score, category, childID); ok {
			return d
		}
	}

	threshold := e.Threshold(childID)
	if score >= threshold {
		return guardian.PolicyDecision{Decision: guardian.DecisionBlock, Severity: guardian.SeverityHigh}
	}
	if score >= e.WarnThreshold {
		return guardian.PolicyDecision{Decision: guardian.DecisionWarn, Severity: guardian.SeverityMedium}
	}
	return guardian.PolicyDecision{Decision: guardian.DecisionAllow, Severity: guardian.SeverityLow}
}

// SeverityFor returns the severity paired with a decision.
func SeverityFor(decision string) string {
	switch decision {
	case guardian.DecisionBlock:
		return guardian.SeverityHigh
	case guardian.DecisionWarn:
		return guardian.SeverityMedium
	default:
		return guardian.SeverityLow
	}
}
