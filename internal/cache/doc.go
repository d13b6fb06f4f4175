// Package cache provides a file-based store with TTL expiration for parsed
// reference data.
//
// Material sheets exported from spreadsheets are parsed on every run; the
// store keeps the parsed rows under ~/.pcfcalc/cache/ keyed by the sheet's
// path, size, modification time and ID base, so an unchanged sheet is read
// once per TTL window. A changed sheet produces a new key.
package cache
