//go:build !unix

package storage

import "os"

// Without flock the in-process mutex in the record store is the only guard.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
