// Package id generates monotonically increasing 64-bit identifiers used for
// segment ids. Ids embed a millisecond timestamp so newer segments always
// sort after older ones, with a per-millisecond sequence to disambiguate.
package id
