package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	service "github.com/halyard/crewfit/internal/app"
	"github.com/halyard/crewfit/internal/config"
	"github.com/halyard/crewfit/internal/domain/types"
	"github.com/halyard/crewfit/internal/roster"
	"github.com/halyard/crewfit/pkg/logger"
	"github.com/halyard/crewfit/pkg/metrics"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crewfit",
		Short:         "Two-stage psychometric candidate scoring and ranking",
		Long:          "crewfit scores a pool of candidates against a job profile and a concrete team context, then ranks them for review.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScoreCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the crewfit version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func newScoreCmd() *cobra.Command {
	var (
		sortMode    string
		output      string
		profilePath string
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "score <roster.yaml>",
		Short: "Score and rank one hiring round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Flags win over file and env configuration.
			if cmd.Flags().Changed("sort") {
				cfg.SortMode = sortMode
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputFormat = output
			}
			if cmd.Flags().Changed("profile") {
				cfg.ProfilePath = profilePath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				logger.Get().Warn(ctx, "invalid log_level; falling back to info",
					logger.String("log_level", cfg.LogLevel),
				)
			}

			batch, err := roster.LoadFile(args[0])
			if err != nil {
				return err
			}

			profile, err := config.LoadProfile(cfg.ProfilePath, batch.Position)
			if err != nil {
				return err
			}

			svc := service.New(
				service.WithLogger(logger.Get()),
				service.WithWorkerCount(cfg.WorkerCount),
				service.WithQueueSize(cfg.QueueSize),
				service.WithDedupeSize(cfg.DedupeSize),
				service.WithMaxBatches(cfg.MaxBatches),
				service.WithProfile(profile),
			)
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			report, err := svc.EvaluateBatch(ctx, batch, types.SortMode(cfg.SortMode))
			if err != nil {
				return err
			}
			if err := writeReport(cmd, report, cfg.OutputFormat); err != nil {
				return err
			}
			if showMetrics {
				return dumpMetrics(cmd)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sortMode, "sort", string(types.SortByGlobalFit),
		"ranking order: global_fit, prediction, or global_fit_then_prediction")
	cmd.Flags().StringVar(&output, "output", "yaml", "report encoding: yaml or json")
	cmd.Flags().StringVar(&profilePath, "profile", "", "path to a YAML job profile")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "dump pipeline metrics to stderr after scoring")
	return cmd
}

// dumpMetrics writes the gathered pipeline metrics in text exposition format.
func dumpMetrics(cmd *cobra.Command) error {
	families, err := metrics.Registry().Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(cmd.ErrOrStderr(), expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// writeReport encodes the batch report to the command's stdout.
func writeReport(cmd *cobra.Command, report service.BatchReport, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(report)
	}
}
