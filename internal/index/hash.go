package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// hashChunkSize is the read buffer size for streaming file hashing.
// Files are never loaded whole; memory use is bounded regardless of
// file size.
const hashChunkSize = 4096

// supportedExtensions is the fixed allow-list of file types the index
// will sweep. Matching is case-insensitive.
var supportedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"tiff": true,
	"bmp":  true,
	"gif":  true,
}

// isSupported reports whether the file's extension is in the allow-list.
func isSupported(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return supportedExtensions[ext]
}

// hashFile computes the SHA-256 of the file's content, streaming it in
// fixed-size chunks, and returns the hex digest.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
