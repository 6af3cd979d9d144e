package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileKindFor(t *testing.T) {
	cases := []struct {
		mimeType string
		want     FileKind
	}{
		{"image/png", KindImage},
		{"video/mp4", KindVideo},
		{"audio/mpeg", KindAudio},
		{"application/pdf", KindDocument},
		{"application/msword", KindDocument},
		{"application/vnd.ms-excel", KindSpreadsheet},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", KindSpreadsheet},
		{"application/vnd.ms-powerpoint", KindPresentation},
		{"application/zip", KindArchive},
		{"application/x-7z-compressed", KindArchive},
		{"text/plain", KindFile},
		{"", KindFile},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FileKindFor(tc.mimeType), tc.mimeType)
	}
}
