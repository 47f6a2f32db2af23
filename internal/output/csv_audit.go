package output

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/chrisdamba/vendorcast/internal/models"
)

var csvAuditHeader = []string{"Date", "Vendor", "Location", "Items", "RevenueMin", "RevenueMax", "PeakHours", "Confidence"}

// CSVAuditLog appends one row per prediction to a CSV file, writing the
// header only when the file is new. The file is reopened for every row.
type CSVAuditLog struct {
	mu   sync.Mutex
	path string
}

func NewCSVAuditLog(path string) *CSVAuditLog {
	return &CSVAuditLog{path: path}
}

func (c *CSVAuditLog) Name() string { return "csv_audit" }

func (c *CSVAuditLog) Path() string { return c.path }

func (c *CSVAuditLog) Write(_ context.Context, rec models.PredictionRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), os.ModePerm); err != nil {
		return err
	}

	_, statErr := os.Stat(c.path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	file, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.UseCRLF = true
	if isNew {
		if err := w.Write(csvAuditHeader); err != nil {
			return err
		}
	}
	row := []string{
		rec.Date,
		rec.VendorName,
		rec.Location,
		rec.Items.String(),
		strconv.Itoa(rec.RevenueMin),
		strconv.Itoa(rec.RevenueMax),
		models.JoinHours(rec.PeakHours),
		fmt.Sprintf("%.2f", rec.Confidence),
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (c *CSVAuditLog) Close() error { return nil }
