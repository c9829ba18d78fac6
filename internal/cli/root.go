// Package cli wires the check_scmd command line to a single probe run.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/devisefutures/check-CMD-plugin/internal/config"
	"github.com/devisefutures/check-CMD-plugin/internal/domain"
	"github.com/devisefutures/check-CMD-plugin/internal/logging"
	"github.com/devisefutures/check-CMD-plugin/internal/probe"
	"github.com/devisefutures/check-CMD-plugin/internal/report"
)

var version = "1.0.0"

var (
	cfg      config.Config
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:     "check_scmd",
	Short:   "Nagios/Icinga plugin that checks whether the SCMD service is responding",
	Long: `check_scmd probes the Preprod/Prod Signature CMD (SOAP) service with one
GetCertificate request (CMD technical specification v1.6), measures the
response time and reports it in the standard monitoring-plugin format.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		exitCode = run()
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&cfg.User, "user", "u", "", "user phone number (+XXX NNNNNNNNN)")
	rootCmd.Flags().StringVarP(&cfg.ApplicationID, "application-id", "a", "", "CMD ApplicationId")
	rootCmd.Flags().Float64VarP(&cfg.Warning, "warning", "w", 3, "warning threshold (time to service response) in seconds")
	rootCmd.Flags().Float64VarP(&cfg.Critical, "critical", "c", 6, "critical threshold (time to service response) in seconds")
	rootCmd.Flags().Float64VarP(&cfg.Timeout, "timeout", "t", 25, "timeout in seconds")
	rootCmd.Flags().BoolVar(&cfg.Prod, "prod", false, "use the production SCMD service (preproduction by default)")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "log SOAP traffic details to stderr")
}

// Execute runs the plugin and returns the process exit code. Every
// path, including flag parse failures, funnels into the four monitoring
// exit codes.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		msg, code := report.FormatConfigError(err)
		fmt.Println(msg)
		return code
	}
	return exitCode
}

func run() int {
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		msg, code := report.FormatConfigError(err)
		fmt.Println(msg)
		return code
	}

	log, err := logging.NewLogger(cfg.Verbose, cfg.LogDir)
	if err != nil {
		msg, code := report.FormatConfigError(fmt.Errorf("log setup: %w", err))
		fmt.Println(msg)
		return code
	}
	defer log.Sync()

	req := cfg.Request()
	timeout := time.Duration(cfg.Timeout * float64(time.Second))
	prober := probe.New(
		probe.NewClient(timeout, log),
		probe.Endpoints{Preprod: cfg.PreprodURL, Prod: cfg.ProdURL},
		log,
	)

	outcome := probe.RunWithDeadline(timeout, func(ctx context.Context) domain.ProbeOutcome {
		return prober.Invoke(ctx, req)
	})

	level := domain.Classify(outcome, req)
	msg, code := report.Format(level, outcome)
	fmt.Println(msg)
	return code
}
