// Package ingest implements Pathivu's write path: buffering incoming log
// lines into per-partition segment builders and sealing them into immutable
// segment files with their term indexes and posting lists.
package ingest
