package models

// VendorRecord is everything remembered about one vendor. History, learned
// patterns and metrics are reserved and stay empty until something fills them.
type VendorRecord struct {
	Profile            VendorProfile    `json:"profile"`
	SalesHistory       []map[string]any `json:"sales_history"`
	LearnedPatterns    map[string]any   `json:"learned_patterns"`
	PerformanceMetrics map[string]any   `json:"performance_metrics"`
}

// NewVendorRecord seeds a record from profile with empty history.
func NewVendorRecord(profile VendorProfile) *VendorRecord {
	return &VendorRecord{
		Profile:            profile.Clone(),
		SalesHistory:       []map[string]any{},
		LearnedPatterns:    map[string]any{},
		PerformanceMetrics: map[string]any{},
	}
}

// MemoryDocument is the persisted memory file.
type MemoryDocument struct {
	Vendors     map[string]*VendorRecord `json:"vendors"`
	Patterns    map[string]any           `json:"patterns"`
	LastUpdated string                   `json:"last_updated"`
}

// NewMemoryDocument returns an empty document.
func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{
		Vendors:  make(map[string]*VendorRecord),
		Patterns: make(map[string]any),
	}
}

// Normalize replaces nil collections left by a sparse file with empty ones so
// a load/persist round trip writes [] and {} rather than null.
func (d *MemoryDocument) Normalize() {
	if d.Vendors == nil {
		d.Vendors = make(map[string]*VendorRecord)
	}
	if d.Patterns == nil {
		d.Patterns = make(map[string]any)
	}
	for id, rec := range d.Vendors {
		if rec == nil {
			delete(d.Vendors, id)
			continue
		}
		if rec.SalesHistory == nil {
			rec.SalesHistory = []map[string]any{}
		}
		if rec.LearnedPatterns == nil {
			rec.LearnedPatterns = map[string]any{}
		}
		if rec.PerformanceMetrics == nil {
			rec.PerformanceMetrics = map[string]any{}
		}
	}
}
