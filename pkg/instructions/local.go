package instructions

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// GenericDriver is the canonical identifier of the packaged fallback
// document. It must always be loadable; its absence means the package itself
// is broken.
const GenericDriver = "generic"

//go:embed docs/*.json
var packagedDocs embed.FS

// fileNames maps canonical identifiers to packaged document file names when
// the two differ. Identifiers not listed here map to "<id>.json".
var fileNames = map[string]string{
	"azuredevops":    "azure-devops.json",
	"sqlserver":      "sql-server.json",
	"googlebigquery": "google-bigquery.json",
}

// ErrNotFound reports that no packaged document exists for an identifier.
var ErrNotFound = errors.New("no packaged instruction document")

// LocalStore reads instruction documents from a static, read-only document
// collection, one JSON file per supported driver plus the generic fallback.
type LocalStore struct {
	fsys fs.FS
}

// NewLocalStore returns a store backed by the documents compiled into the
// binary.
func NewLocalStore() *LocalStore {
	sub, err := fs.Sub(packagedDocs, "docs")
	if err != nil {
		// The embed directive guarantees docs/ exists.
		panic(err)
	}
	return &LocalStore{fsys: sub}
}

// NewLocalStoreFS returns a store backed by an arbitrary filesystem. Used by
// tests to simulate missing or corrupt documents.
func NewLocalStoreFS(fsys fs.FS) *LocalStore {
	return &LocalStore{fsys: fsys}
}

// Load reads and decodes the document for the given canonical identifier.
// A missing file is reported as ErrNotFound; the caller decides whether that
// is fatal (it is only for GenericDriver).
func (s *LocalStore) Load(canonicalID string) (*DriverInstructions, error) {
	name := fileNames[canonicalID]
	if name == "" {
		name = canonicalID + ".json"
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w for %q", ErrNotFound, canonicalID)
		}
		return nil, fmt.Errorf("reading instruction document %s: %w", name, err)
	}

	var doc DriverInstructions
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing instruction document %s: %w", name, err)
	}
	return &doc, nil
}
