package fileutil

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HashContent returns a short hex digest of content.
func HashContent(content []byte) string {
	return FormatHash(xxhash.Sum64(content))
}

// FormatHash renders a 64-bit digest as 16 lowercase hex characters.
func FormatHash(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return FormatHash(h.Sum64()), nil
}
