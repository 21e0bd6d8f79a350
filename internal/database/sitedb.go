package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/privacyrank/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "privacyrank.db"

// ErrNotClassified is returned when recording an analysis that has no
// classification.
var ErrNotClassified = errors.New("analysis has no classification")

// SiteDB stores the site catalog and the history of analyses.
//
// Sites are never deleted. Overwriting a site keeps its original position
// in the catalog because the position is the SQLite rowid.
type SiteDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures SiteDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the database in dbDir.
func Open(dbDir string, opts Options) (*SiteDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; the batch pipeline writes concurrently.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SiteDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return sdb, nil
}

// Close closes the database connection.
func (sdb *SiteDB) Close() error {
	return sdb.db.Close()
}

// Path returns the database file path.
func (sdb *SiteDB) Path() string {
	return sdb.dbPath
}

func (sdb *SiteDB) createTables() error {
	schema := `
	-- One row per known site. rowid is the catalog position.
	CREATE TABLE IF NOT EXISTS sites (
		name TEXT PRIMARY KEY,
		privacy INTEGER NOT NULL CHECK (privacy >= 0),
		security INTEGER NOT NULL CHECK (security >= 0),
		last_scan TEXT NOT NULL DEFAULT '',
		trackers INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);

	-- One row per completed analysis.
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		site TEXT NOT NULL,
		privacy INTEGER NOT NULL,
		security INTEGER NOT NULL,
		average REAL NOT NULL,
		level TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		fingerprint TEXT NOT NULL DEFAULT '',
		analyzed_at TEXT NOT NULL,
		analysis_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_site ON analyses(site);
	CREATE INDEX IF NOT EXISTS idx_analyses_time ON analyses(analyzed_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// UpsertSite inserts or overwrites a site.
func (sdb *SiteDB) UpsertSite(ctx context.Context, r model.SiteRecord) error {
	return upsertSite(ctx, sdb.db, r)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertSite(ctx context.Context, db execer, r model.SiteRecord) error {
	query := `
	INSERT INTO sites (name, privacy, security, last_scan, trackers, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		privacy = excluded.privacy,
		security = excluded.security,
		last_scan = excluded.last_scan,
		trackers = excluded.trackers,
		updated_at = excluded.updated_at
	`

	_, err := db.ExecContext(ctx, query,
		r.Name,
		r.Privacy,
		r.Security,
		r.LastScan,
		r.Trackers,
		formatTimestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert site %s: %w", r.Name, err)
	}
	return nil
}

// GetSite returns the stored site and whether it exists.
func (sdb *SiteDB) GetSite(ctx context.Context, name string) (model.SiteRecord, bool, error) {
	query := `
	SELECT name, privacy, security, last_scan, trackers
	FROM sites
	WHERE name = ?
	`

	var r model.SiteRecord
	err := sdb.db.QueryRowContext(ctx, query, name).Scan(&r.Name, &r.Privacy, &r.Security, &r.LastScan, &r.Trackers)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SiteRecord{}, false, nil
	}
	if err != nil {
		return model.SiteRecord{}, false, fmt.Errorf("failed to get site: %w", err)
	}
	return r, true, nil
}

// ListSites returns every stored site in catalog order.
func (sdb *SiteDB) ListSites(ctx context.Context) ([]model.SiteRecord, error) {
	query := `
	SELECT name, privacy, security, last_scan, trackers
	FROM sites
	ORDER BY rowid
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []model.SiteRecord
	for rows.Next() {
		var r model.SiteRecord
		if err := rows.Scan(&r.Name, &r.Privacy, &r.Security, &r.LastScan, &r.Trackers); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, r)
	}
	return sites, rows.Err()
}

// SaveCatalog upserts every site of catalog in one transaction.
func (sdb *SiteDB) SaveCatalog(ctx context.Context, catalog *model.Catalog) error {
	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range catalog.Records() {
		if err := upsertSite(ctx, tx, r); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

// LoadCatalog returns the stored sites as a catalog.
func (sdb *SiteDB) LoadCatalog(ctx context.Context) (*model.Catalog, error) {
	sites, err := sdb.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewCatalog(sites...), nil
}

// AnalysisRecord is a stored analysis.
type AnalysisRecord struct {
	// ID is a random UUID.
	ID string `json:"id"`

	// Site is the normalized site identifier.
	Site string `json:"site"`

	Privacy  int             `json:"privacy"`
	Security int             `json:"security"`
	Average  float64         `json:"average"`
	Level    model.RiskLevel `json:"level"`

	// Source is where the scores came from (catalog or remote).
	Source string `json:"source"`

	// Fingerprint identifies the catalog the analysis ran against.
	Fingerprint string `json:"fingerprint,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// RecordAnalysis stores a classified analysis and returns its ID.
func (sdb *SiteDB) RecordAnalysis(ctx context.Context, a *model.Analysis, fingerprint string) (string, error) {
	if a.Classification == nil {
		return "", ErrNotClassified
	}

	analysisJSON, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to serialize analysis: %w", err)
	}

	id := uuid.NewString()
	query := `
	INSERT INTO analyses (id, site, privacy, security, average, level, source, fingerprint, analyzed_at, analysis_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = sdb.db.ExecContext(ctx, query,
		id,
		a.Site,
		a.Record.Privacy,
		a.Record.Security,
		a.Classification.Average,
		a.Classification.Level.String(),
		a.Source,
		fingerprint,
		formatTimestamp(a.AnalyzedAt),
		string(analysisJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record analysis: %w", err)
	}
	return id, nil
}

// AnalysisHistory returns the analyses of site, newest first.
// An empty site returns the history of every site.
func (sdb *SiteDB) AnalysisHistory(ctx context.Context, site string) ([]AnalysisRecord, error) {
	query := `
	SELECT id, site, privacy, security, average, level, source, fingerprint, analyzed_at
	FROM analyses
	`
	args := make([]any, 0, 1)
	if site != "" {
		query += " WHERE site = ?"
		args = append(args, site)
	}
	query += " ORDER BY analyzed_at DESC, rowid DESC"

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis history: %w", err)
	}
	defer rows.Close()

	var results []AnalysisRecord
	for rows.Next() {
		var (
			rec       AnalysisRecord
			level     string
			timestamp string
		)
		if err := rows.Scan(&rec.ID, &rec.Site, &rec.Privacy, &rec.Security, &rec.Average,
			&level, &rec.Source, &rec.Fingerprint, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if rec.Level, err = model.ParseRiskLevel(level); err != nil {
			return nil, fmt.Errorf("analysis %s: %w", rec.ID, err)
		}
		rec.AnalyzedAt = parseTimestamp(timestamp)
		results = append(results, rec)
	}
	return results, rows.Err()
}

// GetAnalysis returns the full stored analysis by ID, or nil if absent.
func (sdb *SiteDB) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	var analysisJSON string
	err := sdb.db.QueryRowContext(ctx, "SELECT analysis_json FROM analyses WHERE id = ?", id).Scan(&analysisJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var a model.Analysis
	if err := json.Unmarshal([]byte(analysisJSON), &a); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	return &a, nil
}

// ListAnalyzedSites returns the distinct sites with at least one analysis.
func (sdb *SiteDB) ListAnalyzedSites(ctx context.Context) ([]string, error) {
	rows, err := sdb.db.QueryContext(ctx, "SELECT DISTINCT site FROM analyses ORDER BY site")
	if err != nil {
		return nil, fmt.Errorf("failed to list analyzed sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

// timestampLayout sorts lexically in chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the formats parseTimestamp accepts.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp returns the zero time when s matches no known format.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
