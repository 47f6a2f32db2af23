// Package memory keeps the per-vendor state document on disk.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/chrisdamba/vendorcast/internal/models"
	"go.uber.org/zap"
)

// Store is the process-local memory document plus the file it lives in.
// It is not safe for concurrent use; callers serialize access.
type Store struct {
	path   string
	doc    *models.MemoryDocument
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Store)

// WithClock overrides the time source used for last_updated.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads the document at path. A missing file yields an empty store;
// an unreadable or malformed one is an error.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.doc = doc
	s.logger.Debug("memory loaded",
		zap.String("path", path),
		zap.Int("vendors", len(doc.Vendors)))
	return s, nil
}

// Load reads and validates a memory document without wrapping it in a Store.
func Load(path string) (*models.MemoryDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.NewMemoryDocument(), nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, &PermissionError{Path: path, Op: "read", Fix: permissionFix(path), Err: err}
		}
		return nil, fmt.Errorf("read memory file: %w", err)
	}

	var doc models.MemoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptStateError{Path: path, Reason: "cannot be decoded", Err: err}
	}
	if err := validateDocument(data); err != nil {
		return nil, &CorruptStateError{Path: path, Reason: "unexpected structure", Err: err}
	}
	doc.Normalize()
	return &doc, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// GetOrCreate returns the record for vendorID, creating it from profile on
// first sight. Existing history, patterns and metrics are kept; the profile
// snapshot is replaced with profile on every call.
func (s *Store) GetOrCreate(vendorID string, profile models.VendorProfile) *models.VendorRecord {
	rec, ok := s.doc.Vendors[vendorID]
	if !ok {
		rec = models.NewVendorRecord(profile)
		s.doc.Vendors[vendorID] = rec
		s.logger.Info("new vendor registered", zap.String("vendor_id", vendorID))
		return rec
	}
	rec.Profile = profile.Clone()
	return rec
}

// Get returns the stored record for vendorID or ErrVendorNotFound.
func (s *Store) Get(vendorID string) (*models.VendorRecord, error) {
	rec, ok := s.doc.Vendors[vendorID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVendorNotFound, vendorID)
	}
	return rec, nil
}

// VendorIDs lists every known vendor id in sorted order.
func (s *Store) VendorIDs() []string {
	ids := make([]string, 0, len(s.doc.Vendors))
	for id := range s.doc.Vendors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) Len() int {
	return len(s.doc.Vendors)
}

func (s *Store) LastUpdated() string {
	return s.doc.LastUpdated
}

// Snapshot returns the document exactly as Persist would write it, without
// touching last_updated.
func (s *Store) Snapshot() ([]byte, error) {
	return json.MarshalIndent(s.doc, "", "  ")
}

// Persist stamps last_updated and writes the whole document: validate, back
// up the previous file, then write atomically. On failure the in-memory
// timestamp is rolled back.
func (s *Store) Persist() error {
	previous := s.doc.LastUpdated
	s.doc.LastUpdated = s.now().Format(time.RFC3339)

	if err := s.write(); err != nil {
		s.doc.LastUpdated = previous
		return err
	}
	s.logger.Debug("memory persisted",
		zap.String("path", s.path),
		zap.Int("vendors", len(s.doc.Vendors)),
		zap.String("last_updated", s.doc.LastUpdated))
	return nil
}

func (s *Store) write() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}
	if err := validateDocument(data); err != nil {
		return fmt.Errorf("refusing to persist memory: %w", err)
	}

	if err := backupFile(s.path); err != nil {
		s.logger.Warn("failed to back up memory file", zap.String("path", s.path), zap.Error(err))
	}
	return atomicWrite(s.path, data)
}
