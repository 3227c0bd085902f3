// Package querysvc resolves searches across a partition's sealed segments:
// fuzzy text query, timestamp range, optional CEL entry filter, and a match
// limit. Each segment is drained through the segment iterator protocol.
package querysvc
