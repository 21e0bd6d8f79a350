// Package provider loads site catalogs.
//
// A Provider produces a *model.Catalog from one source:
//   - Static: the built-in sample data, used as the fallback
//   - File: a YAML catalog on disk
//   - Remote: an analysis backend reached over HTTP, optionally via SOCKS5
//   - Store: the catalog persisted in the local database
//
// LoadWithFallback tries a primary provider once and substitutes the
// fallback catalog when it fails, reporting the failure as a warning
// rather than an error. There is no retry.
package provider
