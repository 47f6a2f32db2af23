package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/chrisdamba/vendorcast/internal/logger"
	"github.com/chrisdamba/vendorcast/internal/memory"
	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/output"
	"github.com/chrisdamba/vendorcast/internal/predictor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "vendorcast",
	Short: "Daily demand forecasts for Indian street food vendors",
	Long: `vendorcast predicts what a street food vendor should stock, how much they
are likely to earn and when the rush will come, from the vendor's profile and
the day's weather, festival and payday context. Every prediction is kept in a
local memory file and can be exported to CSV, JSON, Parquet, Kafka or a database.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vendorcast.yaml or $HOME/vendorcast.yaml)")
	rootCmd.PersistentFlags().String("memory-file", models.DefaultMemoryFile, "path of the vendor memory file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console or json)")
	rootCmd.PersistentFlags().Bool("no-audit", false, "do not append predictions to the CSV audit log")

	v.BindPFlag("memory_file", rootCmd.PersistentFlags().Lookup("memory-file"))
	v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is everything a command needs, built from configuration.
type app struct {
	cfg     *models.Config
	logger  *zap.Logger
	store   *memory.Store
	pred    *predictor.Predictor
	sinks   *output.MultiOutput
	prompts predictor.PromptTemplates
}

// loadConfig reads configuration and builds the logger.
func loadConfig(cmd *cobra.Command) (*models.Config, *zap.Logger, error) {
	cfg, err := models.LoadConfig(v, cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}
	if noAudit, _ := cmd.Flags().GetBool("no-audit"); noAudit {
		cfg.Audit.CSVEnabled = false
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("using config file", zap.String("path", used))
	}
	return cfg, log, nil
}

// newApp opens the memory store and, when withSinks is set, every
// configured prediction sink.
func newApp(ctx context.Context, cmd *cobra.Command, withSinks bool) (*app, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	store, err := memory.Open(cfg.MemoryFile, memory.WithLogger(log))
	if err != nil {
		log.Sync()
		return nil, err
	}

	prompts, err := predictor.LoadPromptTemplates(cfg.PromptsFile)
	if err != nil {
		log.Warn("falling back to built-in guidance", zap.Error(err))
		prompts = predictor.DefaultPromptTemplates()
	}

	a := &app{cfg: cfg, logger: log, store: store, prompts: prompts}
	opts := []predictor.Option{predictor.WithLogger(log)}
	if withSinks {
		sinks, err := output.FromConfig(ctx, cfg, log, output.Options{})
		if err != nil {
			log.Sync()
			return nil, err
		}
		a.sinks = sinks
		opts = append(opts, predictor.WithRecorder(sinks))
	}
	a.pred = predictor.New(store, opts...)
	return a, nil
}

// addSink appends an extra sink for this run, such as console echo.
func (a *app) addSink(s output.Sink) {
	if a.sinks == nil {
		a.sinks = output.NewMultiOutput(s)
	} else {
		a.sinks = output.NewMultiOutput(a.sinks, s)
	}
	a.pred = predictor.New(a.store, predictor.WithLogger(a.logger), predictor.WithRecorder(a.sinks))
}

func (a *app) Close() {
	if a.sinks != nil {
		if err := a.sinks.Close(); err != nil {
			a.logger.Warn("closing prediction sinks", zap.Error(err))
		}
	}
	a.logger.Sync()
}
