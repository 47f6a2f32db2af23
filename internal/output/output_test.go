package output

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/vendorcast/internal/cloudwriter"
	"github.com/chrisdamba/vendorcast/internal/logger"
	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/repositories/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func sampleRecord(id, date string) models.PredictionRecord {
	return models.PredictionRecord{
		ID:           id,
		CreatedAt:    time.Date(2025, 6, 17, 9, 30, 0, 0, time.UTC),
		VendorID:     "Raman_Chai_Wala_Connaught_Place",
		VendorName:   "Raman Chai Wala",
		Location:     "Connaught Place",
		LocationType: models.LocationOfficeArea,
		Date:         date,
		DayOfWeek:    "Tuesday",
		Weather:      models.WeatherSunny,
		Temperature:  32,
		IsPayday:     true,
		Items: models.ItemDemand{
			{Item: "Samosa", Quantity: 60},
			{Item: "Chai", Quantity: 60},
			{Item: "Biscuit", Quantity: 50},
			{Item: "Vada Pav", Quantity: 60},
		},
		RevenueMin: 754,
		RevenueMax: 1131,
		PeakHours:  []int{9, 12, 13, 18},
		Notes:      []string{"Payday - customers may buy premium items"},
		Confidence: 0.5750000000000001,
	}
}

type stubSink struct {
	name    string
	err     error
	written []models.PredictionRecord
	closed  bool
}

func (s *stubSink) Name() string { return s.name }
func (s *stubSink) Write(_ context.Context, rec models.PredictionRecord) error {
	s.written = append(s.written, rec)
	return s.err
}
func (s *stubSink) Close() error { s.closed = true; return nil }

func TestCSVAuditLog_HeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "predictions.csv")
	sink := NewCSVAuditLog(path)

	require.NoError(t, sink.Write(context.Background(), sampleRecord("a", "2025-06-17")))
	require.NoError(t, sink.Write(context.Background(), sampleRecord("b", "2025-06-18")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Date,Vendor,Location,Items,RevenueMin,RevenueMax,PeakHours,Confidence\r\n"+
			"2025-06-17,Raman Chai Wala,Connaught Place,Samosa: 60; Chai: 60; Biscuit: 50; Vada Pav: 60,754,1131,\"9, 12, 13, 18\",0.58\r\n"+
			"2025-06-18,Raman Chai Wala,Connaught Place,Samosa: 60; Chai: 60; Biscuit: 50; Vada Pav: 60,754,1131,\"9, 12, 13, 18\",0.58\r\n",
		string(data))

	// a new sink on an existing file appends without a second header
	require.NoError(t, NewCSVAuditLog(path).Write(context.Background(), sampleRecord("c", "2025-06-19")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "Date,Vendor"))
	assert.Equal(t, 4, strings.Count(string(data), "\r\n"))
}

func TestJSONOutput_PartitionsByPredictionDate(t *testing.T) {
	dir := t.TempDir()
	sink := NewJSONOutput(dir, "predictions")
	ctx := context.Background()

	require.NoError(t, sink.Write(ctx, sampleRecord("a", "2025-06-17")))
	require.NoError(t, sink.Write(ctx, sampleRecord("b", "2025-06-17")))
	require.NoError(t, sink.Write(ctx, sampleRecord("c", "2025-07-01")))
	require.NoError(t, sink.Close())

	june := filepath.Join(dir, "predictions", "year=2025", "month=06", "day=17", "data.json")
	f, err := os.Open(june)
	require.NoError(t, err)
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec models.PredictionRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)

	assert.FileExists(t, filepath.Join(dir, "predictions", "year=2025", "month=07", "day=01", "data.json"))
}

func TestParquetOutput_Local(t *testing.T) {
	dir := t.TempDir()
	sink := NewParquetOutput(dir, "predictions", nil, "")
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, sink.Write(ctx, sampleRecord(id, "2025-06-17")))
	}
	require.NoError(t, sink.Close())

	files, err := filepath.Glob(filepath.Join(dir, "predictions", "year=2025", "month=06", "day=17", "*.parquet"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	fr, err := local.NewLocalFileReader(files[0])
	require.NoError(t, err)
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(parquetRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.Equal(t, int64(3), pr.GetNumRows())
	rows := make([]parquetRow, 3)
	require.NoError(t, pr.Read(&rows))
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, `{"Samosa":60,"Chai":60,"Biscuit":50,"Vada Pav":60}`, rows[0].Items)
	assert.Equal(t, []int32{9, 12, 13, 18}, rows[0].PeakHours)
}

type memoryWriter struct {
	buf    bytes.Buffer
	closed bool
}

func (m *memoryWriter) Write(p []byte) (int, error) { return m.buf.Write(p) }
func (m *memoryWriter) Close() error                { m.closed = true; return nil }

type fakeFactory struct {
	objects map[string]*memoryWriter
	bucket  string
}

func (f *fakeFactory) NewWriter(_ context.Context, bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	f.bucket = bucket
	w := &memoryWriter{}
	f.objects[objectPath] = w
	return w, nil
}

func TestParquetOutput_Cloud(t *testing.T) {
	factory := &fakeFactory{objects: map[string]*memoryWriter{}}
	sink := NewParquetOutput("ignored", "predictions", factory, "forecasts")

	require.NoError(t, sink.Write(context.Background(), sampleRecord("a", "2025-06-17")))
	require.NoError(t, sink.Close())

	assert.Equal(t, "forecasts", factory.bucket)
	require.Len(t, factory.objects, 1)
	for key, w := range factory.objects {
		assert.True(t, strings.HasPrefix(key, "predictions/year=2025/month=06/day=17/part-"))
		assert.True(t, w.closed)
		assert.True(t, bytes.HasPrefix(w.buf.Bytes(), []byte("PAR1")))
	}
}

func TestKafkaOutput(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "vendor_predictions" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "Raman_Chai_Wala_Connaught_Place" {
			return errors.New("unexpected key " + string(key))
		}
		value, _ := msg.Value.Encode()
		var rec models.PredictionRecord
		return json.Unmarshal(value, &rec)
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	sink := NewKafkaOutputWithProducer(producer, "")
	require.NoError(t, sink.Write(context.Background(), sampleRecord("a", "2025-06-17")))
	err := sink.Write(context.Background(), sampleRecord("b", "2025-06-17"))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, sink.Close())
	assert.Error(t, sink.Write(context.Background(), sampleRecord("c", "2025-06-17")))
}

func TestRepositoryOutput_SQLite(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "p.db"))
	require.NoError(t, err)

	sink := NewRepositoryOutput(repo)
	require.NoError(t, sink.Write(ctx, sampleRecord("a", "2025-06-17")))

	got, err := repo.ListByVendor(ctx, "Raman_Chai_Wala_Connaught_Place", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	require.NoError(t, sink.Close())
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleOutput(&buf)
	require.NoError(t, sink.Write(context.Background(), sampleRecord("a", "2025-06-17")))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"items":{"Samosa":60,"Chai":60,"Biscuit":50,"Vada Pav":60}`)
}

func TestMultiOutput_ContinuesPastFailures(t *testing.T) {
	bad := &stubSink{name: "bad", err: errors.New("boom")}
	good := &stubSink{name: "good"}
	multi := NewMultiOutput(bad, good)

	err := multi.Write(context.Background(), sampleRecord("a", "2025-06-17"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: boom")
	assert.Len(t, good.written, 1)

	require.NoError(t, multi.Close())
	assert.True(t, bad.closed)
	assert.True(t, good.closed)
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := &models.Config{
		Audit:    models.AuditConfig{CSVEnabled: true, CSVPath: filepath.Join(dir, "audit.csv")},
		Output:   models.OutputConfig{Format: models.OutputFormatJSON, Path: dir, Folder: "p", Destination: models.DestinationLocal},
		Database: models.DatabaseConfig{Driver: models.DriverSQLite, SQLitePath: filepath.Join(dir, "p.db")},
	}
	multi, err := FromConfig(context.Background(), cfg, logger.NewTestLogger(t), Options{})
	require.NoError(t, err)
	defer multi.Close()

	names := make([]string, 0, multi.Len())
	for _, s := range multi.sinks {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"csv_audit", "json", "repository"}, names)

	require.NoError(t, multi.Write(context.Background(), sampleRecord("a", "2025-06-17")))
	assert.FileExists(t, cfg.Audit.CSVPath)
}

func TestFromConfig_CloudParquetUsesFactory(t *testing.T) {
	factory := &fakeFactory{objects: map[string]*memoryWriter{}}
	cfg := &models.Config{
		Output:       models.OutputConfig{Format: models.OutputFormatParquet, Folder: "p", Destination: models.DestinationCloud},
		CloudStorage: models.CloudStorageConfig{Provider: "s3", BucketName: "b"},
	}
	multi, err := FromConfig(context.Background(), cfg, logger.NewNop(), Options{CloudFactory: factory})
	require.NoError(t, err)
	require.Equal(t, 1, multi.Len())

	require.NoError(t, multi.Write(context.Background(), sampleRecord("a", "2025-06-17")))
	require.NoError(t, multi.Close())
	assert.Equal(t, "b", factory.bucket)
	assert.Len(t, factory.objects, 1)
}
