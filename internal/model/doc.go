// Package model defines the core data structures used throughout privacyrank.
//
// This package contains the following main types:
//   - SiteRecord: Privacy and security scores for one website
//   - Catalog: The ordered set of known SiteRecords
//   - RiskLevel and Classification: The outcome of classifying a site
//   - Analysis: The result of running the analysis pipeline for one site
//   - Dashboard and Comparison: Report views rendered by the report package
//
// Models live in their own package so that score, provider, pipeline,
// database and report can all share them without import cycles.
// All report-facing types are JSON serializable.
package model
