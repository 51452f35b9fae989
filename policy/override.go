package policy

import (
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"

	"github.com/SharedCode/guardian"
)

// Override struct contains the CEL expression & the cel program used to
// evaluate the expression vs. a classification. It lets a deployment force a
// decision ("allow", "warn" or "block") for cases the threshold rule gets
// wrong, without rebuilding the service. An expression result of "" means no
// override, fall through to the threshold rule.
type Override struct {
	Expression string
	program    cel.Program
}

// NewOverride compiles expression once for use on every request. The
// expression sees three variables: score (double), category (string) and
// childId (string), and must evaluate to a string.
//
// Example: "category == 'violence' && score >= 0.3 ? 'block' : ''"
func NewOverride(expression string) (*Override, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression can't be empty string")
	}

	env, err := cel.NewEnv(
		cel.Variable("score", cel.DoubleType),
		cel.Variable("category", cel.StringType),
		cel.Variable("childId", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %v", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error compiling CEL expression: %v", issues.Err())
	}
	p, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("error creating Program: %v", err)
	}
	return &Override{
		Expression: expression,
		program:    p,
	}, nil
}

// Decide evaluates the expression against one classification. The bool result
// reports whether the override claimed the decision. Unknown decision strings
// and evaluation errors are treated as no override.
func (o *Override) Decide(score float64, category string, childID string) (guardian.PolicyDecision, bool) {
	out, _, err := o.program.Eval(map[string]any{
		"score":    score,
		"category": category,
		"childId":  childID,
	})
	if err != nil {
		return guardian.PolicyDecision{}, false
	}
	nv, err := out.ConvertToNative(reflect.TypeOf(""))
	if err != nil {
		return guardian.PolicyDecision{}, false
	}
	decision, ok := nv.(string)
	if !ok {
		return guardian.PolicyDecision{}, false
	}

	switch decision {
	case guardian.DecisionAllow, guardian.DecisionWarn, guardian.DecisionBlock:
		return guardian.PolicyDecision{Decision: decision, Severity: SeverityFor(decision)}, true
	}
	return guardian.PolicyDecision{}, false
}
