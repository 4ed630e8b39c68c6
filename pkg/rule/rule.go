// Package rule defines the contract for option filter rules. A filter rule is
// evaluated once per option of a selection field; options for which it yields
// false are marked as filtered and rendered according to the field's
// remove_filtered switch.
package rule

// Evaluator decides whether a rule holds for the given context.
type Evaluator interface {
	Eval(rule string, ctx Context) (bool, error)
}

// Context carries the values a rule can reference. Option holds the attributes
// of the option under test (its submission value under "value"); Values holds
// the current form values.
type Context struct {
	Option map[string]any
	Values map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule string, ctx Context) (bool, error) {
	return fn(rule, ctx)
}
