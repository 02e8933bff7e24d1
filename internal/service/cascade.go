package service

import (
	"context"
	"log/slog"
)

// cascadeStep is one unit of a compensating-action sequence. Steps run in
// order; a failing step is reported but later steps still run. Nothing here
// rolls back - the sequence is best-effort by contract, not a transaction.
type cascadeStep struct {
	name string
	run  func(ctx context.Context) error
	// wrap translates the step's raw failure into a domain error.
	wrap func(err error) error
}

// runCascade executes the steps sequentially, logging partial failures
// distinctly from total failures, and returns the first wrapped failure.
func runCascade(ctx context.Context, logger *slog.Logger, operation string, steps []cascadeStep) error {
	var failures []error
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			logger.Error("cascade step failed",
				"operation", operation,
				"step", step.name,
				"error", err,
			)
			failures = append(failures, step.wrap(err))
		}
	}

	if len(failures) == 0 {
		return nil
	}
	if len(failures) < len(steps) {
		logger.Warn("cascade partially failed; earlier steps are not rolled back",
			"operation", operation,
			"failed_steps", len(failures),
			"total_steps", len(steps),
		)
	} else {
		logger.Error("cascade failed entirely", "operation", operation)
	}
	return failures[0]
}
