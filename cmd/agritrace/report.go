package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LACRA/agritrace360/internal/verification"
	"github.com/LACRA/agritrace360/internal/verification/report"
)

const (
	defaultOrganization = "Liberia Agriculture Commodity Regulatory Authority (LACRA)"
	defaultTimezone     = "Africa/Monrovia"
)

var (
	outDir       string
	organization string
	timezone     string
)

var reportCmd = &cobra.Command{
	Use:   "report <query>",
	Short: "Render the HTML verification report of a reference code",
	Long: `Resolve the query against a registry snapshot and write the verification
report to verification-report-<query>-<YYYY-MM-DD>.html in the output directory.

Fails when the query matches nothing or the matched record is incomplete.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	query := args[0]
	collections, err := loadCollections(snapshotPath)
	if err != nil {
		return err
	}

	result, err := verification.NewResolver(matchExporterName).Resolve(query, collections)
	if err != nil {
		return err
	}
	if !result.Valid() {
		printNotification(cmd.ErrOrStderr(), verification.VerificationFailed())
		return errNotVerified
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid --timezone %q: %w", timezone, err)
	}
	html, err := report.NewRenderer(organization, loc).Render(query, result)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(outDir, localFileName(report.FileName(query, result.VerifiedAt)))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// localFileName turns a download name into a single path element, so the
// report lands in the output directory whatever the query contains.
func localFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
}
