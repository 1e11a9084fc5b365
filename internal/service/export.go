package service

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// VariantFilename names the export file for the n-th (1-based) variant,
// e.g. "Twitter DM", 2 -> "twitter_dm_variant2.txt".
func VariantFilename(platform string, n int) string {
	base := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(platform)), "_")
	return fmt.Sprintf("%s_variant%d.txt", base, n)
}

// WriteVariants writes one text file per variant into dir and returns the paths
func WriteVariants(dir, platform string, variants []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	paths := make([]string, 0, len(variants))
	for i, v := range variants {
		path := filepath.Join(dir, VariantFilename(platform, i+1))
		if err := os.WriteFile(path, []byte(v), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ZipVariants streams the same files WriteVariants would produce as a zip archive
func ZipVariants(w io.Writer, platform string, variants []string) error {
	zw := zip.NewWriter(w)
	for i, v := range variants {
		f, err := zw.Create(VariantFilename(platform, i+1))
		if err != nil {
			return fmt.Errorf("adding variant %d: %w", i+1, err)
		}
		if _, err := io.WriteString(f, v); err != nil {
			return fmt.Errorf("writing variant %d: %w", i+1, err)
		}
	}
	return zw.Close()
}
