package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultDelay is the latency a verification presents before answering.
const DefaultDelay = 1500 * time.Millisecond

// Verifier runs the user-facing verification: validate the query, wait out the
// verification delay, resolve, and notify.
type Verifier struct {
	resolver *Resolver
	notifier Notifier
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewVerifier creates a Verifier. A nil notifier logs notifications.
func NewVerifier(resolver *Resolver, notifier Notifier, delay time.Duration) *Verifier {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if delay < 0 {
		delay = 0
	}
	return &Verifier{
		resolver: resolver,
		notifier: notifier,
		delay:    delay,
		sleep:    sleepContext,
	}
}

// Delay returns the configured verification latency.
func (v *Verifier) Delay() time.Duration {
	return v.delay
}

// Verify resolves query against c. An empty query is rejected with ErrEmptyQuery
// before any matching happens. A not_found result is returned without error.
func (v *Verifier) Verify(ctx context.Context, query string, c Collections) (Result, Notification, error) {
	if Normalize(query) == "" {
		n := SearchRequired()
		v.notifier.Notify(ctx, n)
		return Result{}, n, ErrEmptyQuery
	}

	if err := v.sleep(ctx, v.delay); err != nil {
		return Result{}, Notification{}, fmt.Errorf("verification interrupted: %w", err)
	}

	result, err := v.resolver.Resolve(query, c)
	if err != nil {
		return Result{}, Notification{}, err
	}

	if result.MatchedOn == MatchExporterName {
		// Exporter names are not unique; surface every such match for review.
		slog.WarnContext(ctx, "certificate matched by exporter name",
			"query", query,
			"certificate_number", result.Certificate.CertificateNumber,
		)
	}

	slog.InfoContext(ctx, "document verification completed",
		"query", query,
		"type", result.Type,
		"status", result.Status,
		"matched_on", result.MatchedOn,
	)

	n := NotificationFor(result)
	v.notifier.Notify(ctx, n)
	return result, n, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
