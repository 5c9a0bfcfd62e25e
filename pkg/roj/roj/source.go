package roj

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadSourceFile reads a program from path. Files are UTF-8 unless they start
// with a UTF-8, UTF-16LE or UTF-16BE byte order mark; the mark is removed.
func ReadSourceFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeSource(raw)
}

// DecodeSource decodes program bytes the same way ReadSourceFile does.
func DecodeSource(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("decoding source: %w", err)
	}
	return string(decoded), nil
}
