// Package storage defines the data directory abstraction behind the record store.
package storage

// Provider is the interface for data file operations. All paths are
// relative to the provider root.
type Provider interface {
	// Read returns the raw bytes of the file at path. A missing file yields
	// an error wrapping fs.ErrNotExist.
	Read(path string) ([]byte, error)
	// Write replaces the file at path with content, creating parent
	// directories as needed. Readers never observe a partial file.
	Write(path string, content []byte) error
	// Lock takes an exclusive advisory lock associated with path and
	// returns the function that releases it.
	Lock(path string) (unlock func() error, err error)
	// Root returns the absolute root directory.
	Root() string
}
