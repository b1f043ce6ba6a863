// Package sanitize screens generation inputs and cleans model output.
//
// ValidateInput is the coarse gate run before a template is rendered: it
// checks the template name charset, rejects nil and blank values, enforces
// length and numeric ceilings, and applies a SQL-injection DenyList.
// CleanOutput strips script markup from generated text and normalizes
// typographic punctuation and whitespace. RedactSensitive masks emails,
// phone numbers, and SSNs before text is logged.
//
// The pattern lists are heuristics. They over-match some prose and miss
// plenty of real attacks; callers that need different behavior can build
// their own DenyList with Compile.
package sanitize
