package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint([]byte("hello"))
	b := Fingerprint([]byte("hello"))
	c := Fingerprint([]byte("hello!"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "my_report_2024.pdf", SanitizeFileName("my report 2024.pdf"))
	assert.Equal(t, "a-b_c.d", SanitizeFileName("a-b_c.d"))
}

func TestGetFileNameWithoutExt(t *testing.T) {
	assert.Equal(t, "doc", GetFileNameWithoutExt("/tmp/uploads/doc.pdf"))
	assert.Equal(t, "archive.tar", GetFileNameWithoutExt("archive.tar.gz"))
	assert.Equal(t, "plain", GetFileNameWithoutExt("plain"))
}
