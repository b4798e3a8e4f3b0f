package apkg

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// EntryName is the single archive entry the importer reads.
const EntryName = "collection.anki2"

// Extension is the file extension of a package.
const Extension = ".apkg"

// Archive wraps a collection image in a zip container holding exactly one
// entry, EntryName.
func Archive(image []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(EntryName)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive entry: %w", err)
	}
	if _, err := w.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write archive entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Unarchive returns the collection image from a package.
func Unarchive(pkg []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != EntryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", EntryName, err)
		}
		defer rc.Close()
		image, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", EntryName, err)
		}
		return image, nil
	}
	return nil, fmt.Errorf("archive has no %s entry", EntryName)
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// FileName returns the download name for a deck, "<deckName>.apkg".
func FileName(deckName string) string {
	return fileNameReplacer.Replace(deckName) + Extension
}
