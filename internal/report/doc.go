// Package report renders dashboards, comparisons and analysis history.
//
// Three formats are available:
//   - SimpleWriter: tables for the terminal, optionally colored
//   - JSONWriter: versioned JSON documents for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown with a mermaid pie chart
//
// All writers implement Writer and can be combined with MultiWriter.
// Scores are stored on the rank scale and converted to the dashboard's
// display scale when rendered.
package report
