package ioext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const dirMode = 0755

var (
	ErrUnsafePath         = errors.New("archive entry escapes destination")
	ErrUnsupportedArchive = errors.New("unsupported archive format")
)

// Extractor unpacks zip and tar.gz archives, picking the format from the
// archive's extension.
type Extractor struct{}

// Extract unpacks archivePath into destDir and returns destDir.
func (Extractor) Extract(ctx context.Context, archivePath, destDir string) (string, error) {
	name := strings.ToLower(archivePath)
	var err error
	switch {
	case strings.HasSuffix(name, ".zip"):
		err = ZipExtractTo(ctx, archivePath, destDir)
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		err = TarGzExtractTo(ctx, archivePath, destDir)
	default:
		return "", errors.Wrapf(ErrUnsupportedArchive, "%s", archivePath)
	}
	if err != nil {
		return "", err
	}
	return destDir, nil
}

func safeJoin(destDir, name string) (string, error) {
	root := filepath.Clean(destDir)
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrUnsafePath, "%q", name)
	}
	return target, nil
}
