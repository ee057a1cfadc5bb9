package submit

import (
	"context"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// OutcomeKind classifies a strategy result.
type OutcomeKind int

const (
	// KindSuccess is an accepted submission.
	KindSuccess OutcomeKind = iota
	// KindSoftFailure is a transport-level failure that is deliberately
	// absorbed so it never blocks the user-visible flow.
	KindSoftFailure
	// KindHardFailure means the strategy could not produce a record at
	// all.
	KindHardFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindSoftFailure:
		return "soft_failure"
	case KindHardFailure:
		return "hard_failure"
	default:
		return "unknown"
	}
}

// Outcome is the typed result of one submission strategy.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

func Succeed() Outcome {
	return Outcome{Kind: KindSuccess}
}

func Soft(reason string) Outcome {
	return Outcome{Kind: KindSoftFailure, Reason: reason}
}

func Hard(reason string) Outcome {
	return Outcome{Kind: KindHardFailure, Reason: reason}
}

// Strategy is one remote submission attempt against the host platform.
// Strategies are tried in order by the Chain.
type Strategy interface {
	Name() string
	Submit(ctx context.Context, record domain.SubmissionRecord) Outcome
}
