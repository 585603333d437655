package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fingerprint returns the hex-encoded SHA-256 of the given bytes. It is
// the identity key for an uploaded document: chunk indexing and pipeline
// caching are both keyed on it.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SaveUpload writes uploaded bytes into uploadDir under a sanitized,
// timestamped name and returns the destination path.
func SaveUpload(data []byte, uploadDir, originalName string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %v", err)
	}

	ext := filepath.Ext(originalName)
	baseFileName := strings.TrimSuffix(filepath.Base(originalName), ext)
	timestamp := time.Now().Unix()
	destFileName := SanitizeFileName(fmt.Sprintf("%s_%d%s", baseFileName, timestamp, ext))
	destPath := filepath.Join(uploadDir, destFileName)

	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload: %v", err)
	}
	return destPath, nil
}

// SanitizeFileName replaces characters outside [a-zA-Z0-9-_.] with '_'.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}

// GetFileNameWithoutExt extracts the base filename without extension.
func GetFileNameWithoutExt(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[:idx]
	}
	return base
}
