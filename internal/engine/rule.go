package engine

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule is a compiled catalog predicate.
type Rule struct {
	AchievementID string
	Collection    string
	Source        string

	program *vm.Program
}

// compileRule compiles entry's predicate against the collection's environment.
func compileRule(entry CatalogEntry, coll Collection, loc *time.Location) (*Rule, error) {
	program, err := expr.Compile(entry.When,
		expr.Env(coll.sample),
		expr.AsBool(),
		// count is an environment variable here, not the builtin.
		expr.DisableBuiltin("count"),
		distinctDaysFunction(loc),
	)
	if err != nil {
		return nil, &BuildError{
			Code:          ErrCodeInvalidPredicate,
			AchievementID: entry.ID,
			Collection:    entry.Collection,
			Message:       "predicate does not compile",
			Err:           err,
		}
	}
	return &Rule{
		AchievementID: entry.ID,
		Collection:    entry.Collection,
		Source:        entry.When,
		program:       program,
	}, nil
}

// holds runs the predicate against env.
func (r *Rule) holds(env any) (bool, error) {
	out, err := expr.Run(r.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate %s: %w", r.AchievementID, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %s: non-boolean result %T", r.AchievementID, out)
	}
	return b, nil
}

func distinctDaysFunction(loc *time.Location) expr.Option {
	return expr.Function(
		"distinctDaysInWindow",
		func(params ...any) (any, error) {
			dates, ok := params[0].([]time.Time)
			if !ok {
				return nil, fmt.Errorf("distinctDaysInWindow: dates must be []time.Time, got %T", params[0])
			}
			window, ok := params[1].(int)
			if !ok {
				return nil, fmt.Errorf("distinctDaysInWindow: window must be int, got %T", params[1])
			}
			return DistinctDaysInWindow(dates, window, loc), nil
		},
		new(func([]time.Time, int) int),
	)
}
