package service

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantFilename(t *testing.T) {
	assert.Equal(t, "email_variant1.txt", VariantFilename("Email", 1))
	assert.Equal(t, "twitter_dm_variant2.txt", VariantFilename("Twitter DM", 2))
	assert.Equal(t, "sms_variant3.txt", VariantFilename(" SMS ", 3))
}

func TestWriteVariants(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session")

	paths, err := WriteVariants(dir, "LinkedIn", []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	body, err := os.ReadFile(filepath.Join(dir, "linkedin_variant2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(body))
}

func TestZipVariants(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ZipVariants(&buf, "Twitter DM", []string{"one", "two"}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "twitter_dm_variant1.txt", zr.File[0].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "two", string(body))
}
