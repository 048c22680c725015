// Package inbound resolves callbacks to action keys and maps action keys to
// executor factories.
//
// Exact registrations win over wildcard registrations; among wildcards the
// most specific match wins. Overlapping wildcards of equal specificity are
// rejected when registered, so lookups are never ambiguous.
package inbound
