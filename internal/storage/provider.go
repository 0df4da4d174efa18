// Package storage defines the library file-system abstraction.
package storage

// DocumentExt is the recognized document file extension.
const DocumentExt = ".ssce"

// Provider is the interface for library file operations. The catalog
// only ever enumerates, reads, and existence-checks library files; it
// never writes them. All paths are absolute: the absolute path is the
// natural identity of a catalog entry.
type Provider interface {
	// List recursively enumerates every document file under root and
	// returns their absolute paths. Fails when root does not exist.
	List(root string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Exists reports whether a file exists at path.
	Exists(path string) bool
}
