package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/LACRA/agritrace360/internal/records/service"
	"github.com/LACRA/agritrace360/internal/verification"
)

var (
	verifyDelay       time.Duration
	matchExporterName bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <query>",
	Short: "Verify a reference code against a registry snapshot",
	Long: `Resolve a certificate number, exporter name, batch number or report ID and
print the verification result as JSON. The notification shown by the portal is
written to stderr.

Exits with status 1 when no document matches.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

type verifyOutput struct {
	Result       verification.Result       `json:"result"`
	Notification verification.Notification `json:"notification"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	collections, err := loadCollections(snapshotPath)
	if err != nil {
		return err
	}

	notifier := verification.NotifierFunc(func(_ context.Context, n verification.Notification) {
		printNotification(cmd.ErrOrStderr(), n)
	})
	verifier := verification.NewVerifier(verification.NewResolver(matchExporterName), notifier, verifyDelay)
	session := verification.NewSearchSession(verifier)

	result, n, err := session.Search(cmd.Context(), args[0], collections)
	if err != nil {
		return err
	}
	slog.Debug("verification session finished",
		"query", session.Query(),
		"has_searched", session.HasSearched(),
	)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(verifyOutput{Result: result, Notification: n}); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	if !result.Valid() {
		return errNotVerified
	}
	return nil
}

func loadCollections(path string) (verification.Collections, error) {
	file, err := service.LoadSnapshotFile(path)
	if err != nil {
		return verification.Collections{}, err
	}
	return file.Collections()
}

func printNotification(w io.Writer, n verification.Notification) {
	fmt.Fprintf(w, "[%s] %s: %s\n", n.Variant, n.Title, n.Description)
}
