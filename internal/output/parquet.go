package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/chrisdamba/vendorcast/internal/cloudwriter"
	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetRow is the on-disk layout of a prediction record.
type parquetRow struct {
	ID           string   `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	CreatedAt    int64    `parquet:"name=created_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	VendorID     string   `parquet:"name=vendor_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	VendorName   string   `parquet:"name=vendor_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Location     string   `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	LocationType string   `parquet:"name=location_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date         string   `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	DayOfWeek    string   `parquet:"name=day_of_week, type=BYTE_ARRAY, convertedtype=UTF8"`
	Weather      string   `parquet:"name=weather, type=BYTE_ARRAY, convertedtype=UTF8"`
	Temperature  int32    `parquet:"name=temperature, type=INT32"`
	IsFestival   bool     `parquet:"name=is_festival, type=BOOLEAN"`
	IsPayday     bool     `parquet:"name=is_payday, type=BOOLEAN"`
	Items        string   `parquet:"name=items, type=BYTE_ARRAY, convertedtype=UTF8"`
	RevenueMin   int32    `parquet:"name=revenue_min, type=INT32"`
	RevenueMax   int32    `parquet:"name=revenue_max, type=INT32"`
	PeakHours    []int32  `parquet:"name=peak_hours, type=INT32, repetitiontype=REPEATED"`
	Notes        []string `parquet:"name=notes, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REPEATED"`
	Confidence   float64  `parquet:"name=confidence, type=DOUBLE"`
}

func toParquetRow(rec models.PredictionRecord) (parquetRow, error) {
	items, err := rec.Items.MarshalJSON()
	if err != nil {
		return parquetRow{}, err
	}
	hours := make([]int32, len(rec.PeakHours))
	for i, h := range rec.PeakHours {
		hours[i] = int32(h)
	}
	return parquetRow{
		ID:           rec.ID,
		CreatedAt:    rec.CreatedAt.UnixMilli(),
		VendorID:     rec.VendorID,
		VendorName:   rec.VendorName,
		Location:     rec.Location,
		LocationType: string(rec.LocationType),
		Date:         rec.Date,
		DayOfWeek:    rec.DayOfWeek,
		Weather:      string(rec.Weather),
		Temperature:  int32(rec.Temperature),
		IsFestival:   rec.IsFestival,
		IsPayday:     rec.IsPayday,
		Items:        string(items),
		RevenueMin:   int32(rec.RevenueMin),
		RevenueMax:   int32(rec.RevenueMax),
		PeakHours:    hours,
		Notes:        append([]string{}, rec.Notes...),
		Confidence:   rec.Confidence,
	}, nil
}

// ParquetOutput keeps one parquet writer per date partition. Files are
// finalised on Close; each sink instance writes its own part file so
// earlier runs are never overwritten.
type ParquetOutput struct {
	basePath           string
	folder             string
	part               string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

// NewParquetOutput writes locally when factory is nil, otherwise to
// objects in bucket.
func NewParquetOutput(basePath, folder string, factory cloudwriter.CloudWriterFactory, bucket string) *ParquetOutput {
	return &ParquetOutput{
		basePath:           basePath,
		folder:             folder,
		part:               fmt.Sprintf("part-%d.parquet", time.Now().UnixNano()),
		writers:            make(map[string]*writer.ParquetWriter),
		files:              make(map[string]source.ParquetFile),
		cloudWriterFactory: factory,
		cloudBucketName:    bucket,
	}
}

func (p *ParquetOutput) Name() string { return "parquet" }

func (p *ParquetOutput) Write(ctx context.Context, rec models.PredictionRecord) error {
	row, err := toParquetRow(rec)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	partition := partitionPath(rec)
	pw, ok := p.writers[partition]
	if !ok {
		pw, err = p.createNewWriter(ctx, partition)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}
	if err := pw.Write(row); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(ctx context.Context, partition string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, partition, p.part)
		cw, err := p.cloudWriterFactory.NewWriter(ctx, p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cw)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, p.part))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 4)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	p.writers[partition] = pw
	p.files[partition] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			errs = append(errs, fmt.Errorf("finish %s: %w", key, err))
		}
		if err := p.files[key].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", key, err))
		}
		delete(p.writers, key)
		delete(p.files, key)
	}
	return errors.Join(errs...)
}

// CloudParquetFile adapts a CloudWriter to the write-only subset of
// source.ParquetFile the parquet writer needs.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cw cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cw}
}

// Open and Create return the receiver; the object is created by writing.
func (c *CloudParquetFile) Open(string) (source.ParquetFile, error)   { return c, nil }
func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
