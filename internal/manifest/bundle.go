package manifest

import (
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zip"
)

// BundleFile is one entry of a ZIP bundle.
type BundleFile struct {
	Name string
	Data []byte
	// Store skips compression, for payloads that are already compressed.
	Store bool
}

// WriteBundle writes files into a ZIP archive at path.
func WriteBundle(path string, files []BundleFile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}

	zw := zip.NewWriter(f)
	now := time.Now()
	for _, bf := range files {
		method := zip.Deflate
		if bf.Store {
			method = zip.Store
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     bf.Name,
			Method:   method,
			Modified: now,
		})
		if err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("bundle %s: %w", bf.Name, err)
		}
		if _, err := w.Write(bf.Data); err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("bundle %s: %w", bf.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize bundle: %w", err)
	}
	return f.Close()
}
