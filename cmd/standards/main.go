package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"exostandards/application"
	"exostandards/database"
	"exostandards/exoauth"
	"exostandards/infrastructure/config"
	"exostandards/infrastructure/factories"
	"exostandards/interfaces/web/presenters"
	"exostandards/logging"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = runtime.Version()
)

// errRunFailed signals a non-success outcome after the result was printed.
var errRunFailed = errors.New("standard run did not succeed")

var rootCmd = &cobra.Command{
	Use:   "standards",
	Short: "Run Exchange Online tenant standards",
	Long: `standards audits Exchange Online tenants against configured standards and,
when asked, remediates drift, raises alerts and records compliance fields.

Settings come from flags, STANDARDS_* environment variables or a standards.yaml
file, in that order of precedence. App credentials are read from EXO_CLIENT_ID,
EXO_CERT_PATH and EXO_CERT_PASSWORD.`,
	SilenceUsage: true,
}

var sendReceiveLimitCmd = &cobra.Command{
	Use:   "send-receive-limit",
	Short: "Audit or enforce mailbox plan send and receive size limits",
	Long: `send-receive-limit compares every mailbox plan's MaxSendSize and MaxReceiveSize
against the requested limits in megabytes (1 to 150).

With --remediate, drifted plans are updated through the tenant system mailbox.
With --alert, drift raises a standards alert. With --report, the drift list (or
true when compliant) is stored as a compliance field.

The command exits non-zero when the run ends in a validation, read or write error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSendReceiveLimitConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, closeFn, err := buildService(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeFn(); err != nil {
				logging.Warn("close resources", "error", err)
			}
		}()

		return runStandard(ctx, cmd.OutOrStdout(), cfg, svc)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "standards version %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built: %s\n", date)
		fmt.Fprintf(out, "  go version: %s\n", goVersion)
		fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a standards.yaml config file")
	addSendReceiveLimitFlags(sendReceiveLimitCmd)

	rootCmd.AddCommand(sendReceiveLimitCmd)
	rootCmd.AddCommand(versionCmd)
}

func addSendReceiveLimitFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("tenant", "", "tenant domain, e.g. contoso.onmicrosoft.com")
	flags.String("send-limit", "", "desired MaxSendSize in MB (1-150)")
	flags.String("receive-limit", "", "desired MaxReceiveSize in MB (1-150)")
	flags.Bool("remediate", false, "update drifted mailbox plans")
	flags.Bool("alert", false, "raise a standards alert on drift")
	flags.Bool("report", false, "record the result as compliance fields")
	flags.String("standard-id", "", "identifier attached to raised alerts")
	flags.String("db-path", "", "SQLite database for logs, alerts and reports")
	flags.StringP("output", "o", "", "output format: json or text")
	flags.Duration("timeout", 0, "overall run timeout")
	flags.String("log-level", "", "log level: debug, info, warn or error")
}

// loadSendReceiveLimitConfig merges flags, environment and config file into one config.
func loadSendReceiveLimitConfig(cmd *cobra.Command) (*config.CLIConfig, error) {
	configFile, _ := cmd.Flags().GetString("config")

	v := config.NewCLIViper(configFile)
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	cfg, err := config.LoadCLIConfig(v)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return cfg, nil
}

// buildService is replaced in tests.
var buildService = buildProductionService

func buildProductionService(cfg *config.CLIConfig) (application.SendReceiveLimitService, func() error, error) {
	_ = godotenv.Load()

	logging.SetDefault(logging.NewLoggerWithWriter(&logging.Config{
		Level:  cfg.LogLevel,
		Format: "text",
	}, os.Stderr))

	auth, err := exoauth.FromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load credentials: %w", err)
	}

	dbCfg := database.DefaultConfig()
	dbCfg.Path = cfg.DBPath
	db, err := database.New(dbCfg, logging.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	factory := factories.NewStandardServiceFactory(
		factories.NewRepositoryBundle(db),
		factories.NewTenantGateways(auth),
	)
	return factory.CreateSendReceiveLimitService(), db.Close, nil
}

// runStandard executes one run and prints the result in the configured format.
func runStandard(ctx context.Context, out io.Writer, cfg *config.CLIConfig, svc application.SendReceiveLimitService) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	result := svc.RunRaw(ctx, cfg.Tenant, cfg.Settings.Raw())

	presenter := presenters.NewStandardPresenter()
	view := presenter.FormatRunResult(result)

	switch cfg.Output {
	case "text":
		if err := presenter.WriteRunResultText(out, view); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	if !result.Succeeded() {
		return fmt.Errorf("%w: %s", errRunFailed, result.Outcome)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
