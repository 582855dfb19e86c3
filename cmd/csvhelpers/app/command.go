package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/terratensor/csvhelpers/internal/adapters/downloader"
	"github.com/terratensor/csvhelpers/internal/adapters/exporters"
	"github.com/terratensor/csvhelpers/internal/adapters/repositories/manticore"
	"github.com/terratensor/csvhelpers/internal/app/pipeline"
	"github.com/terratensor/csvhelpers/internal/app/services"
	"github.com/terratensor/csvhelpers/internal/config"
	"github.com/terratensor/csvhelpers/internal/core/ports"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csvhelpers",
		Short: "Write sample records to a CSV file and read CSV files back",
		Long: `csvhelpers writes a generated sample table to the --output file and
decodes the --import file (a local path or an http(s) URL), showing every
record it reads. When both are given the output is written first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if err := setupLogging(cfg.Verbose); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			go func() {
				select {
				case <-sigChan:
					klog.Info("Received shutdown signal")
					cancel()
				case <-ctx.Done():
				}
			}()

			err = Run(ctx, cfg, cmd.OutOrStdout(), klog.Background())
			klog.Info("Exiting...")
			klog.Flush()
			return err
		},
		SilenceUsage: true,
	}

	config.AddFlags(cmd.Flags())
	return cmd
}

func setupLogging(verbose bool) error {
	local := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(local)
	if !verbose {
		return nil
	}
	return local.Set("v", "4")
}

// Run executes the configured output and import steps.
func Run(ctx context.Context, cfg *config.Config, stdout io.Writer, log logr.Logger) error {
	if cfg.ImportPath == "" && cfg.OutputPath == "" {
		return fmt.Errorf("at least one of --import or --output is required")
	}

	engine, err := pipeline.NewEngine(cfg.CodecOptions(), log,
		pipeline.WithProgress(cfg.ProgressWriter()),
		pipeline.WithMaxLineBytes(cfg.MaxLineBytes),
	)
	if err != nil {
		return err
	}

	if cfg.OutputPath != "" {
		table := services.NewSampleTable(cfg.MaxRows, gofakeit.NewCrypto())
		n, err := services.NewExportService(engine, log).Export(ctx, cfg.OutputPath, table)
		if err != nil {
			return err
		}
		log.Info("Output written", "path", cfg.OutputPath, "records", n)
	}

	if cfg.ImportPath == "" {
		return nil
	}

	writer, err := exporters.NewWriterFactory(log).CreateWriter(stdout, ports.ViewFormat(cfg.View), cfg.Separator)
	if err != nil {
		return err
	}

	opts := []services.ImportOption{
		services.WithFetcher(downloader.New(cfg, cfg.ProgressWriter(), log)),
	}
	if cfg.Normalize {
		opts = append(opts, services.WithNormalize())
	}
	if cfg.IndexTable != "" {
		client, err := manticore.NewClient(cfg.ManticoreHost, cfg.ManticorePort, cfg.ManticoreConnTimeout)
		if err != nil {
			return err
		}
		opts = append(opts, services.WithIndex(client, cfg.IndexTable, cfg.BatchSize))
	}

	n, err := services.NewImporter(engine, writer, log, opts...).Run(ctx, cfg.ImportPath)
	if cerr := writer.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Info("Import finished", "path", cfg.ImportPath, "records", n)
	return nil
}
