package editor

import (
	"fmt"
	"strings"

	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

// BatchStep is one headless command
type BatchStep string

const (
	StepFill    BatchStep = "fill"
	StepResolve BatchStep = "resolve"
	StepSmooth  BatchStep = "smooth"
)

// ParseBatch reads a comma separated step list such as "fill,resolve,smooth".
// Empty input yields no steps.
func ParseBatch(list string) ([]BatchStep, error) {
	var steps []BatchStep
	for _, field := range strings.Split(list, ",") {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" {
			continue
		}
		switch step := BatchStep(field); step {
		case StepFill, StepResolve, StepSmooth:
			steps = append(steps, step)
		default:
			return nil, &powertable.InvalidValueError{Field: "batch step", Value: field, Msg: "expected fill, resolve or smooth"}
		}
	}
	return steps, nil
}

// RunBatch runs steps in order and stops at the first failure. The results
// of the steps that ran are returned either way.
func (e *Editor) RunBatch(steps []BatchStep) ([]Result, error) {
	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		var res Result
		var err error
		switch step {
		case StepFill:
			res, err = e.SmartFill()
		case StepResolve:
			res, err = e.ResolveConflicts()
		case StepSmooth:
			res, err = e.SmartSmooth()
		default:
			err = fmt.Errorf("unknown batch step %q", step)
		}
		if err != nil {
			return results, fmt.Errorf("%s: %w", step, err)
		}
		results = append(results, res)
	}
	return results, nil
}
