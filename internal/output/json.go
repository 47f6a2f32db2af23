package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chrisdamba/vendorcast/internal/models"
)

// partitionPath maps a prediction date onto a year=/month=/day= directory.
// Records with an unparsable date fall back to their creation time.
func partitionPath(rec models.PredictionRecord) string {
	t, err := time.Parse(models.DateLayout, rec.Date)
	if err != nil {
		t = rec.CreatedAt
	}
	year, month, day := t.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d", year, month, day)
}

// JSONOutput writes one JSON document per line into date partitions.
type JSONOutput struct {
	mu       sync.Mutex
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) Name() string { return "json" }

func (j *JSONOutput) Write(_ context.Context, rec models.PredictionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	partition := partitionPath(rec)
	file, ok := j.files[partition]
	if !ok {
		fullPath := filepath.Join(j.basePath, j.folder, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		var err error
		file, err = os.OpenFile(filepath.Join(fullPath, "data.json"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		j.files[partition] = file
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var errs []error
	for key, file := range j.files {
		if err := file.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(j.files, key)
	}
	return errors.Join(errs...)
}
