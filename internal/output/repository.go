package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/repositories"
)

// RepositoryOutput stores records through a PredictionRepository.
type RepositoryOutput struct {
	repo repositories.PredictionRepository
}

func NewRepositoryOutput(repo repositories.PredictionRepository) *RepositoryOutput {
	return &RepositoryOutput{repo: repo}
}

func (r *RepositoryOutput) Name() string { return "repository" }

func (r *RepositoryOutput) Write(ctx context.Context, rec models.PredictionRecord) error {
	return r.repo.Create(ctx, &rec)
}

func (r *RepositoryOutput) Close() error {
	return r.repo.Close()
}

// ConsoleOutput writes each record as a JSON line.
type ConsoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleOutput writes to stdout when w is nil.
func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) Name() string { return "console" }

func (c *ConsoleOutput) Write(_ context.Context, rec models.PredictionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "%s\n", data); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
