package index

// LibraryIndex defines the interface for catalog operations. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type LibraryIndex interface {
	UpsertFile(f FileRow) (int64, error)
	DeleteFile(path string) error
	TouchLastOpened(path, timestamp string) error
	GetFile(path string) (*FileRow, error)
	RecentFiles(limit int) ([]FileRow, error)
	Search(p SearchParams) ([]FileRow, error)
	AllPaths() ([]string, error)
	Close() error
}

// Verify *DB satisfies LibraryIndex at compile time.
var _ LibraryIndex = (*DB)(nil)
