package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/collectors"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/config"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/engine"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/logging"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/output"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/version"
)

// errEnforcement marks a successful audit whose findings matched fail_on.
var errEnforcement = errors.New("enforcement failed")

// newEngine builds the production engine. Tests replace it with a stub.
var newEngine = func(logger *zap.Logger, reg *collectors.Registry) engine.Engine {
	return engine.NewDefaultEngine(common.NewDefaultAWSClientProvider(), newInventory, reg, logger)
}

func newInventory(cfg aws.Config) engine.RegionInventory {
	return inventory.NewSource(cfg)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "sgaudit",
		Short:   "Find unused and unsafe AWS security groups",
		Version: version.Short(),
	}
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	root.AddCommand(newAuditCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// loggerFromFlags builds the zap logger from the root persistent flags.
func loggerFromFlags(cmd *cobra.Command) (*zap.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	return logging.New(level, jsonLogs)
}

// auditFlags holds the raw audit command flags.
type auditFlags struct {
	profile        string
	regions        []string
	whitelist      []string
	whitelistFiles []string
	configPath     string
	format         string
	output         string
	failOn         []string
	noColor        bool
	timeout        time.Duration
}

func newAuditCmd() *cobra.Command {
	var f auditFlags

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit security groups for unused groups and unsafe ingress",
		Long: `Audit every security group in the selected regions.

A group is unused when no instance, database, load balancer or network
interface references it. An ingress rule is unsafe when its source CIDR is not
in the whitelist: VPC and subnet ranges, instance and elastic addresses, and
any CIDRs supplied with --whitelist, --whitelist-file or the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.profile, "profile", "", "AWS profile name (default: config file, then default credential chain)")
	cmd.Flags().StringSliceVar(&f.regions, "region", nil, "AWS region(s) to audit (default: all active regions)")
	cmd.Flags().StringSliceVar(&f.whitelist, "whitelist", nil, "Additional safe CIDR(s)")
	cmd.Flags().StringSliceVar(&f.whitelistFiles, "whitelist-file", nil, "File(s) with one safe CIDR per line")
	cmd.Flags().StringVar(&f.configPath, "config", config.DefaultFileName, "Path to the config file")
	cmd.Flags().StringVar(&f.format, "format", string(output.FormatTable), "Output format: table, json or yaml")
	cmd.Flags().StringVar(&f.output, "output", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringSliceVar(&f.failOn, "fail-on", nil, "Exit with code 2 when findings of these kinds exist: unused, unsafe")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "Disable ANSI colours in table output")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Abort the audit after this long (0 = no limit)")

	return cmd
}

func runAudit(cmd *cobra.Command, f auditFlags) error {
	logger, err := loggerFromFlags(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	reg := collectors.Default()

	cfg, err := config.LoadOptional(f.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("fail-on") {
		cfg.FailOn = f.failOn
	}
	if errs := config.Validate(cfg, reg.SafeRangeNames(), reg.AttachmentNames()); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	format, err := output.ParseFormat(f.format)
	if err != nil {
		return err
	}

	manual, err := cfg.ManualWhitelist(f.whitelistFiles, f.whitelist)
	if err != nil {
		return err
	}
	var bad []error
	for _, c := range manual {
		if err := config.ValidateCIDR(c); err != nil {
			bad = append(bad, err)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid whitelist: %w", errors.Join(bad...))
	}
	logger.Debug("manual whitelist loaded", zap.Int("entries", len(manual)))

	opts := engine.AuditOptions{
		Profile:         f.profile,
		Regions:         f.regions,
		ManualWhitelist: manual,
		Selection:       cfg.Selection(),
	}
	if opts.Profile == "" {
		opts.Profile = cfg.Profile
	}
	if len(opts.Regions) == 0 {
		opts.Regions = cfg.Regions
	}

	ctx := cmd.Context()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	reports, err := newEngine(logger, reg).RunAudit(ctx, opts)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if err := writeReports(cmd.OutOrStdout(), f, format, reports); err != nil {
		return err
	}

	if config.ShouldFail(reports, cfg) {
		return fmt.Errorf("%w: findings match fail_on %v", errEnforcement, cfg.FailOn)
	}
	return nil
}

// writeReports renders reports to stdout, or to f.output when set. File
// output is never coloured.
func writeReports(stdout io.Writer, f auditFlags, format output.Format, reports []models.AnalysisReport) error {
	if f.output == "" {
		colored := !f.noColor && os.Getenv("NO_COLOR") == ""
		return output.Render(stdout, format, reports, output.TableOptions{Colored: colored})
	}

	file, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("create report file %q: %w", f.output, err)
	}
	if err := output.Render(file, format, reports, output.TableOptions{}); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("write report file %q: %w", f.output, err)
	}
	return nil
}
