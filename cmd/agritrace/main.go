package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "time/tzdata"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	snapshotPath string
)

// errNotVerified makes the process exit non-zero without printing anything
// beyond the result itself.
var errNotVerified = errors.New("document not verified")

var rootCmd = &cobra.Command{
	Use:   "agritrace",
	Short: "Verify LACRA certificates, commodity batches and compliance reports",
	Long: `agritrace resolves reference codes against a registry snapshot and renders
the verification report that the web portal offers for download.

Commands that work offline (verify, report) read a YAML snapshot; commands that
touch the registry (seed, token) use the same environment configuration as the
API server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	verifyCmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Registry snapshot (YAML)")
	verifyCmd.Flags().DurationVar(&verifyDelay, "delay", 0, "Artificial verification latency")
	verifyCmd.Flags().BoolVar(&matchExporterName, "match-exporter-name", true, "Also match certificates by exporter name")
	_ = verifyCmd.MarkFlagRequired("snapshot")

	reportCmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Registry snapshot (YAML)")
	reportCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory the report is written to")
	reportCmd.Flags().StringVar(&organization, "organization", defaultOrganization, "Issuing organization printed on the report")
	reportCmd.Flags().StringVar(&timezone, "timezone", defaultTimezone, "IANA timezone of report timestamps")
	reportCmd.Flags().BoolVar(&matchExporterName, "match-exporter-name", true, "Also match certificates by exporter name")
	_ = reportCmd.MarkFlagRequired("snapshot")

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Snapshot to load into the registry (YAML)")
	_ = seedCmd.MarkFlagRequired("file")

	tokenCmd.Flags().StringVar(&tokenAccount, "account", "", "Portal account ID")
	tokenCmd.Flags().StringVar(&tokenProfile, "profile", "", "Account profile (JSON object) stored alongside the token")
	_ = tokenCmd.MarkFlagRequired("account")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotVerified) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
