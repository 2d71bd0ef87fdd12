package verification

import (
	"context"
	"log/slog"
)

// Variant selects how a notification is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a user-facing toast emitted by a verification.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	slog.InfoContext(ctx, "notification",
		"title", n.Title,
		"description", n.Description,
		"variant", n.Variant,
	)
}

// SearchRequired is shown when the query is empty.
func SearchRequired() Notification {
	return Notification{
		Title:       "Search Required",
		Description: "Please enter a certificate number, batch code, or reference number.",
		Variant:     VariantDestructive,
	}
}

// Verified is shown when the query resolved to a document.
func Verified(documentType string) Notification {
	return Notification{
		Title:       "Document Verified",
		Description: documentType + " has been successfully verified.",
		Variant:     VariantDefault,
	}
}

// VerificationFailed is shown when no document matched.
func VerificationFailed() Notification {
	return Notification{
		Title:       "Verification Failed",
		Description: "No document found with the provided reference number.",
		Variant:     VariantDestructive,
	}
}

// NotificationFor returns the notification matching a result.
func NotificationFor(r Result) Notification {
	if r.Valid() {
		return Verified(r.DocumentType)
	}
	return VerificationFailed()
}
