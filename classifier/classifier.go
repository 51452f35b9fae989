// Package classifier maps raw submitted text to a risk score and category.
// The keyword ruleset is deliberately crude, it is a placeholder stage: the
// policy evaluator and the event pipeline only depend on the
// guardian.ClassificationResult contract, so a real NLP model can replace
// this package without touching downstream components.
package classifier

import (
	"strings"

	"github.com/SharedCode/guardian"
)

// MatchWeight is added to the accumulator for every trigger term found.
const MatchWeight = 0.3

// CategoryRules binds one category to its ordered trigger terms.
type CategoryRules struct {
	Category string
	// Terms are lowercase literals matched as substrings.
	Terms []string
}

// Ruleset is static configuration, built once at process start and never
// mutated afterwards. Category order matters: the category of the last term
// matched in table order wins.
type Ruleset struct {
	rules []CategoryRules
}

// NewRuleset copies the given rules into an immutable Ruleset.
func NewRuleset(rules []CategoryRules) *Ruleset {
	rs := make([]CategoryRules, len(rules))
	for i := range rules {
		rs[i] = CategoryRules{
			Category: rules[i].Category,
			Terms:    append([]string(nil), rules[i].Terms...),
		}
	}
	return &Ruleset{rules: rs}
}

// DefaultRuleset returns the built-in category table.
func DefaultRuleset() *Ruleset {
	return NewRuleset([]CategoryRules{
		{Category: guardian.CategorySexual, Terms: []string{"sex", "porn", "xxx", "nude", "adult"}},
		{Category: guardian.CategoryViolence, Terms: []string{"kill", "blood", "murder", "weapon"}},
		{Category: guardian.CategoryAbuse, Terms: []string{"abuse", "hate", "idiot", "stupid"}},
	})
}

// Classify scans text against the ruleset and returns the accumulated risk
// score, clamped to [0,1], together with the detected category. Each trigger
// term found as a case-insensitive substring adds MatchWeight and overwrites
// the detected category, so the last match in table order decides the label
// even when an earlier category scored the hits. Text with no match yields
// {0, "safe"}. Pure function, no error conditions.
func (r *Ruleset) Classify(text string) guardian.ClassificationResult {
	lowered := strings.ToLower(text)

	var score float64
	category := guardian.CategorySafe

	for i := range r.rules {
		for _, term := range r.rules[i].Terms {
			if strings.Contains(lowered, term) {
				score += MatchWeight
				category = r.rules[i].Category
			}
		}
	}

	if score > 1 {
		score = 1
	}
	return guardian.ClassificationResult{
		Score:    score,
		Category: category,
	}
}
