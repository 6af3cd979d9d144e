package tool

import "strings"

// FileKind is the display category of a file, used to pick an icon.
type FileKind string

const (
	KindImage        FileKind = "image"
	KindVideo        FileKind = "video"
	KindAudio        FileKind = "audio"
	KindDocument     FileKind = "document"
	KindSpreadsheet  FileKind = "spreadsheet"
	KindPresentation FileKind = "presentation"
	KindArchive      FileKind = "archive"
	KindFile         FileKind = "file"
)

// FileKindFor maps a MIME type to a FileKind. Order matters: "spreadsheet"
// types contain "document" in some vendors' names.
func FileKindFor(mimeType string) FileKind {
	t := strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(t, "image/"):
		return KindImage
	case strings.HasPrefix(t, "video/"):
		return KindVideo
	case strings.HasPrefix(t, "audio/"):
		return KindAudio
	case strings.Contains(t, "pdf"):
		return KindDocument
	case strings.Contains(t, "spreadsheet"), strings.Contains(t, "excel"):
		return KindSpreadsheet
	case strings.Contains(t, "word"), strings.Contains(t, "document"):
		return KindDocument
	case strings.Contains(t, "presentation"), strings.Contains(t, "powerpoint"):
		return KindPresentation
	case strings.Contains(t, "zip"), strings.Contains(t, "compressed"):
		return KindArchive
	}
	return KindFile
}
