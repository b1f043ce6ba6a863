// Package truncate shortens text for previews and reports.
//
// Text cuts at the last word boundary that fits, so words are not split:
//
//	truncate.Text("Hello world this is a test", 15, "...") // "Hello world..."
//
// Preview is the hard cut used for log lines and CSV columns.
//
// All lengths are counted in runes, so multi-byte characters are never split.
package truncate
