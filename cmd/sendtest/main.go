package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/config"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/platform"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/submit"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/validate"
)

// sendtest pushes one synthetic submission through the real strategy chain
// against the configured platform. Useful for verifying storefront endpoints
// before enabling the popup.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	name := flag.String("name", "Test Subscriber", "Subscriber name")
	email := flag.String("email", "", "Subscriber email (required)")
	birthdate := flag.String("birthdate", "", "Birthdate DD/MM/YYYY (optional)")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	if *email == "" {
		return fmt.Errorf("-email is required")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)

	form := domain.FormState{
		Name:      *name,
		Email:     *email,
		Birthdate: *birthdate,
		Consent:   true,
	}

	// Validate as the popup would
	validation := validate.Form(form)
	if !validation.Valid() {
		for field, result := range map[string]domain.ValidationResult{
			"name":      validation.Name,
			"email":     validation.Email,
			"birthdate": validation.Birthdate,
			"consent":   validation.Consent,
		} {
			if !result.Valid {
				fmt.Printf("%s: %s (%s)\n", field, result.Message, result.Code)
			}
		}
		return fmt.Errorf("form validation failed")
	}

	client := platform.NewClient(platform.Config{
		BaseURL:        cfg.PlatformBaseURL,
		AccountPath:    cfg.AccountPath,
		NewsletterPath: cfg.NewsletterPath,
	})

	chain := submit.NewChain(logger,
		submit.NewAccountStrategy(client),
		submit.NewNewsletterStrategy(client),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	record := domain.NewSubmissionRecord(form)
	result := chain.Run(ctx, record)

	for _, attempt := range result.Attempts {
		fmt.Printf("%-12s %s", attempt.Strategy, attempt.Outcome.Kind)
		if attempt.Outcome.Reason != "" {
			fmt.Printf(" (%s)", attempt.Outcome.Reason)
		}
		fmt.Println()
	}

	if !result.Submitted() {
		return fmt.Errorf("submission failed on every surface")
	}

	fmt.Printf("SUBMITTED id=%s email=%s\n", record.ID, record.Email)
	for _, warning := range result.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}

	return nil
}
