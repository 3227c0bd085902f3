// Package pebblestore provides a thin wrapper around Pebble with fsync policy,
// batches, and minimal metrics hooks. It backs Pathivu's posting lists and
// segment registry.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data/store",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	// Atomic updates with batches
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(context.Background(), b)
//	b.Close()
//
//	// Point ops; Get reports presence explicitly
//	_ = db.Set([]byte("k2"), []byte("v2"))
//	v, found, _ := db.Get([]byte("k2"))
package pebblestore
