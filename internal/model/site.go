package model

import "sync"

// Producer defaults for absent scores.
// Analyzers never enforce these; they are applied by whoever builds a SiteRecord
// from incomplete data (YAML catalogs, remote responses).
const (
	// DefaultPrivacy is used when a source does not report a privacy score.
	DefaultPrivacy = 0

	// DefaultSecurity is used when a source does not report a security score.
	DefaultSecurity = 50

	// NotAvailable is the display string for unknown values.
	NotAvailable = "N/A"
)

// SiteRecord holds the privacy and security scores of a single website.
// Scores are stored on the canonical rank scale (see Scale).
type SiteRecord struct {
	// Name is the normalized site identifier (e.g. "google.ca").
	// It is the unique key of a record inside a Catalog.
	Name string `json:"name" yaml:"name"`

	// Privacy is the privacy score. Non-negative.
	Privacy int `json:"privacy" yaml:"privacy"`

	// Security is the security score. Non-negative.
	Security int `json:"security" yaml:"security"`

	// LastScan is an opaque, display-only description of when the site
	// was last scanned (e.g. "Oct 18, 2025" or "recently").
	LastScan string `json:"last_scan,omitempty" yaml:"lastScan,omitempty"`

	// Trackers is the total number of trackers the analysis backend saw.
	// Zero when unknown.
	Trackers int `json:"trackers,omitempty" yaml:"trackers,omitempty"`
}

// SentinelRecord returns the record reported when there is nothing to report,
// such as the best site of an empty catalog.
func SentinelRecord() SiteRecord {
	return SiteRecord{Name: NotAvailable}
}

// IsSentinel reports whether r is the "N/A" placeholder record.
func (r SiteRecord) IsSentinel() bool {
	return r.Name == NotAvailable
}

// Catalog maps site identifiers to SiteRecords.
//
// Keys are unique. The catalog remembers first-insertion order so that
// Records always iterates deterministically; overwriting an existing site
// keeps its original position. Records are never deleted.
//
// A Catalog is safe for concurrent use. The batch pipeline inserts freshly
// analyzed sites from several goroutines at once.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	records map[string]SiteRecord
}

// NewCatalog creates a catalog holding the given records in order.
// Later duplicates overwrite earlier ones in place.
func NewCatalog(records ...SiteRecord) *Catalog {
	c := &Catalog{
		order:   make([]string, 0, len(records)),
		records: make(map[string]SiteRecord, len(records)),
	}
	for _, r := range records {
		c.Put(r)
	}
	return c
}

// Put inserts or overwrites the record keyed by r.Name.
// It returns true when the site was not in the catalog before.
func (c *Catalog) Put(r SiteRecord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.records == nil {
		c.records = make(map[string]SiteRecord)
	}
	_, exists := c.records[r.Name]
	if !exists {
		c.order = append(c.order, r.Name)
	}
	c.records[r.Name] = r
	return !exists
}

// Get returns the record for name and whether it exists.
func (c *Catalog) Get(name string) (SiteRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.records[name]
	return r, ok
}

// Has reports whether name is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Len returns the number of sites in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.order)
}

// Names returns site identifiers in insertion order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Records returns a copy of all records in insertion order.
// The returned slice is owned by the caller.
func (c *Catalog) Records() []SiteRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]SiteRecord, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.records[name])
	}
	return out
}

// Merge puts every record of other into c, in other's order.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	for _, r := range other.Records() {
		c.Put(r)
	}
}
