package submit

import (
	"context"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// AccountCreator is the primary surface: the host platform's customer
// creation form.
type AccountCreator interface {
	CreateAccount(ctx context.Context, record domain.SubmissionRecord) error
}

// NewsletterSubscriber is the secondary, newsletter-only surface.
type NewsletterSubscriber interface {
	SubscribeNewsletter(ctx context.Context, record domain.SubmissionRecord) error
}

// AccountStrategy submits via the platform's create-account form. Transport
// errors become soft failures so the chain moves on to the newsletter
// fallback; only a dead context is a hard failure.
type AccountStrategy struct {
	client AccountCreator
}

func NewAccountStrategy(client AccountCreator) *AccountStrategy {
	return &AccountStrategy{client: client}
}

func (s *AccountStrategy) Name() string { return "account" }

func (s *AccountStrategy) Submit(ctx context.Context, record domain.SubmissionRecord) Outcome {
	if err := s.client.CreateAccount(ctx, record); err != nil {
		if ctx.Err() != nil {
			return Hard(ctx.Err().Error())
		}
		return Soft(err.Error())
	}
	return Succeed()
}

// NewsletterStrategy submits via the newsletter-only surface. Its own
// failure is absorbed into a soft failure as well.
type NewsletterStrategy struct {
	client NewsletterSubscriber
}

func NewNewsletterStrategy(client NewsletterSubscriber) *NewsletterStrategy {
	return &NewsletterStrategy{client: client}
}

func (s *NewsletterStrategy) Name() string { return "newsletter" }

func (s *NewsletterStrategy) Submit(ctx context.Context, record domain.SubmissionRecord) Outcome {
	if err := s.client.SubscribeNewsletter(ctx, record); err != nil {
		if ctx.Err() != nil {
			return Hard(ctx.Err().Error())
		}
		return Soft(err.Error())
	}
	return Succeed()
}
