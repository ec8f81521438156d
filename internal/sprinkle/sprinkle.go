// Package sprinkle drives the interactive rewrite-selection flow: the
// user supplies an instruction, the model proposes a replacement, and
// the user accepts, rejects, or retries with the prior instruction
// pre-filled.
package sprinkle

import (
	"context"
	"fmt"
)

// Decision is the user's verdict on a proposed replacement.
type Decision int

const (
	DecisionAccept Decision = iota
	DecisionReject
	DecisionRetry
)

// Generator produces a replacement for the selection given an
// instruction. Satisfied by review.Service.Sprinkle.
type Generator interface {
	Sprinkle(ctx context.Context, instruction, selection string) (string, error)
}

// Interactor is the user-facing side of the loop. Instruction returns
// ok=false when the user cancels; prior carries the previous
// instruction on a retry (empty on the first round).
type Interactor interface {
	Instruction(prior string) (instruction string, ok bool, err error)
	Review(replacement string) (Decision, error)
}

// Outcome is the terminal state of one sprinkle session.
type Outcome struct {
	Replacement string
	Accepted    bool
}

// Run executes the prompting → generating → reviewing loop until the
// user accepts, rejects, or cancels. Generation errors stop the loop
// and propagate.
func Run(ctx context.Context, gen Generator, selection string, it Interactor) (Outcome, error) {
	prior := ""
	for {
		instruction, ok, err := it.Instruction(prior)
		if err != nil {
			return Outcome{}, fmt.Errorf("sprinkle: read instruction: %w", err)
		}
		if !ok {
			return Outcome{}, nil
		}

		replacement, err := gen.Sprinkle(ctx, instruction, selection)
		if err != nil {
			return Outcome{}, err
		}

		decision, err := it.Review(replacement)
		if err != nil {
			return Outcome{}, fmt.Errorf("sprinkle: read decision: %w", err)
		}
		switch decision {
		case DecisionAccept:
			return Outcome{Replacement: replacement, Accepted: true}, nil
		case DecisionReject:
			return Outcome{}, nil
		case DecisionRetry:
			prior = instruction
		default:
			return Outcome{}, fmt.Errorf("sprinkle: unknown decision %d", decision)
		}
	}
}
