// Package core defines the vulnerability index domain model.
//
// # Overview
//
// The package provides:
//   - Entity types (Vulnerability, Vendor, Product and the AffectedProduct association)
//   - The severity classifier mapping CVSS scores onto qualitative bands
//   - Error categories shared by the storage, service and HTTP layers
//   - A Redis-backed response cache
//
// # Severity bands
//
//	CRITICAL  score >= 9.0
//	HIGH      7.0 <= score < 9.0
//	MEDIUM    4.0 <= score < 7.0
//	LOW       0.0 <  score < 4.0
//	NONE      score == 0 or absent
//
// Severity is always derived from the score at read time and is never
// persisted alongside a record.
package core
