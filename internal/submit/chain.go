package submit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// Attempt records one strategy invocation for diagnostics.
type Attempt struct {
	Strategy string
	Outcome  Outcome
}

// Result is the aggregated outcome of a chain run. Warnings carry the
// absorbed soft-failure reasons of a soft success.
type Result struct {
	Outcome  Outcome
	Warnings []string
	Attempts []Attempt
}

// Submitted reports whether the run ended as a success (possibly a soft
// one).
func (r Result) Submitted() bool {
	return r.Outcome.Kind == KindSuccess
}

// Chain tries an ordered list of submission strategies. A strategy success
// ends the run; soft failures are absorbed and the next strategy is tried;
// the run only reports HardFailure when every strategy hard-failed.
// Exhausting the list on soft failures still yields a success annotated with
// warnings: transport flakiness never blocks conversion.
type Chain struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewChain builds a chain over the given strategies, tried in order.
func NewChain(logger *slog.Logger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, logger: logger}
}

// Run executes the chain for one record.
func (c *Chain) Run(ctx context.Context, record domain.SubmissionRecord) Result {
	result := Result{}
	hardFailures := 0

	for _, strategy := range c.strategies {
		outcome := strategy.Submit(ctx, record)
		result.Attempts = append(result.Attempts, Attempt{Strategy: strategy.Name(), Outcome: outcome})

		switch outcome.Kind {
		case KindSuccess:
			result.Outcome = Succeed()
			return result

		case KindSoftFailure:
			c.logger.Warn("submission strategy soft-failed",
				slog.String("strategy", strategy.Name()),
				slog.String("reason", outcome.Reason),
			)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: %s", strategy.Name(), outcome.Reason))

		case KindHardFailure:
			c.logger.Error("submission strategy hard-failed",
				slog.String("strategy", strategy.Name()),
				slog.String("reason", outcome.Reason),
			)
			hardFailures++
		}
	}

	if len(c.strategies) > 0 && hardFailures == len(c.strategies) {
		result.Outcome = Hard("all submission strategies failed")
		return result
	}

	// Soft failures all the way down still count as a (soft) success.
	result.Outcome = Succeed()
	return result
}
