// Package output fans prediction records out to audit and export sinks.
package output

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisdamba/vendorcast/internal/cloudwriter"
	"github.com/chrisdamba/vendorcast/internal/metrics"
	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/repositories"
	"github.com/chrisdamba/vendorcast/internal/repositories/postgres"
	"github.com/chrisdamba/vendorcast/internal/repositories/sqlite"
	"go.uber.org/zap"
)

// Sink receives one record per prediction.
type Sink interface {
	Name() string
	Write(ctx context.Context, rec models.PredictionRecord) error
	Close() error
}

// MultiOutput writes every record to each sink, continuing past failures.
type MultiOutput struct {
	sinks []Sink
}

func NewMultiOutput(sinks ...Sink) *MultiOutput {
	return &MultiOutput{sinks: sinks}
}

func (m *MultiOutput) Name() string { return "multi" }

func (m *MultiOutput) Len() int { return len(m.sinks) }

func (m *MultiOutput) Write(ctx context.Context, rec models.PredictionRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(ctx, rec); err != nil {
			metrics.SinkFailures.WithLabelValues(s.Name()).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiOutput) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Options carries dependencies FromConfig cannot build itself. Nil fields
// are filled from configuration.
type Options struct {
	CloudFactory cloudwriter.CloudWriterFactory
	Repository   repositories.PredictionRepository
}

// FromConfig builds the fan-out of every sink the configuration enables.
// Sinks already opened are closed again if a later one fails.
func FromConfig(ctx context.Context, cfg *models.Config, logger *zap.Logger, opts Options) (*MultiOutput, error) {
	var sinks []Sink
	fail := func(err error) (*MultiOutput, error) {
		NewMultiOutput(sinks...).Close()
		return nil, err
	}

	if cfg.Audit.CSVEnabled {
		sinks = append(sinks, NewCSVAuditLog(cfg.Audit.CSVPath))
	}

	switch cfg.Output.Format {
	case models.OutputFormatJSON:
		sinks = append(sinks, NewJSONOutput(cfg.Output.Path, cfg.Output.Folder))
	case models.OutputFormatParquet:
		var factory cloudwriter.CloudWriterFactory
		if cfg.Output.Destination == models.DestinationCloud {
			factory = opts.CloudFactory
			if factory == nil {
				f, err := cloudwriter.NewS3WriterFactory(ctx, cfg.CloudStorage.Region)
				if err != nil {
					return fail(fmt.Errorf("failed to create cloud writer factory: %w", err))
				}
				factory = f
			}
		}
		sinks = append(sinks, NewParquetOutput(cfg.Output.Path, cfg.Output.Folder, factory, cfg.CloudStorage.BucketName))
	}

	if cfg.Kafka.Enabled {
		k, err := NewKafkaOutput(cfg.Kafka)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, k)
	}

	repo := opts.Repository
	if repo == nil && cfg.Database.Driver != models.DriverNone {
		r, err := OpenRepository(ctx, cfg.Database)
		if err != nil {
			return fail(err)
		}
		repo = r
	}
	if repo != nil {
		sinks = append(sinks, NewRepositoryOutput(repo))
	}

	names := make([]string, len(sinks))
	for i, s := range sinks {
		names[i] = s.Name()
	}
	logger.Debug("prediction sinks configured", zap.Strings("sinks", names))
	return NewMultiOutput(sinks...), nil
}

// OpenRepository connects the configured prediction store and ensures its schema.
func OpenRepository(ctx context.Context, cfg models.DatabaseConfig) (repositories.PredictionRepository, error) {
	switch cfg.Driver {
	case models.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	case models.DriverPostgres:
		repo, err := postgres.Connect(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("no prediction database configured")
	}
}
