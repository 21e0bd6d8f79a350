// Package database provides SQLite-based storage for privacyrank.
//
// SiteDB stores:
//   - The site catalog, in insertion order
//   - One row per completed analysis, for history queries
//
// SQLite comes from modernc.org/sqlite, a CGO-free driver, so the database
// is a single file in the XDG data directory and the binary cross-compiles.
package database
