package tool

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/moyoez/dropvault-go/types"
)

const defaultMimeType = "application/octet-stream"

// FileHandleFromPath reads name, size and MIME type of a local file.
func FileHandleFromPath(filePath string) (types.FileHandle, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return types.FileHandle{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if fileInfo.IsDir() {
		return types.FileHandle{}, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	fileType, err := DetectMimeType(filePath)
	if err != nil {
		DefaultLogger.Debugf("MIME detection failed for %s: %v", filePath, err)
		fileType = defaultMimeType
	}

	return types.FileHandle{
		Name:     filepath.Base(filePath),
		Size:     fileInfo.Size(),
		MimeType: fileType,
		Path:     filePath,
	}, nil
}

// DetectMimeType prefers the extension, like a browser file picker does, and
// falls back to sniffing the content.
func DetectMimeType(filePath string) (string, error) {
	if byExt := mime.TypeByExtension(filepath.Ext(filePath)); byExt != "" {
		return stripMimeParams(byExt), nil
	}
	mt, err := mimetype.DetectFile(filePath)
	if err != nil {
		return defaultMimeType, err
	}
	return stripMimeParams(mt.String()), nil
}

func stripMimeParams(s string) string {
	base, _, _ := strings.Cut(s, ";")
	return strings.TrimSpace(base)
}

// FileHandlesFromPaths resolves every path, failing on the first bad one.
func FileHandlesFromPaths(paths []string) ([]types.FileHandle, error) {
	handles := make([]types.FileHandle, 0, len(paths))
	for _, p := range paths {
		h, err := FileHandleFromPath(p)
		if err != nil {
			return nil, fmt.Errorf("failed to process file %s: %w", p, err)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// ValidateFileHandle checks a handle supplied without a backing path.
func ValidateFileHandle(h types.FileHandle) error {
	if h.Name == "" {
		return fmt.Errorf("name is required")
	}
	if h.Size < 0 {
		return fmt.Errorf("size must be >= 0")
	}
	return nil
}
