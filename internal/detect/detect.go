// Package detect sniffs a lexicon source to determine its format.
package detect

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Format represents a recognized lexicon format.
type Format int

const (
	Unknown Format = iota
	YAML           // YAML lexicon document
	SQLite         // SQLite database built by `morphd lexicon import`
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case SQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// sqliteMagic is the 16-byte header of every SQLite 3 database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// Sniff examines the first bytes of a source to determine its format.
func Sniff(data []byte) Format {
	if bytes.HasPrefix(data, sqliteMagic) {
		return SQLite
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Unknown
	}
	// Binary content that is not SQLite cannot be a YAML document.
	if bytes.IndexByte(data, 0) >= 0 {
		return Unknown
	}
	return YAML
}

// File sniffs the file at path.
func File(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	header := make([]byte, 512)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Unknown, fmt.Errorf("reading %s: %w", path, err)
	}
	return Sniff(header[:n]), nil
}
