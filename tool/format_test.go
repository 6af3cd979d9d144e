package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{-5, "0 Bytes"},
		{1000, "1000 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{2_000_000, "1.91 MB"},
		{5_000_000_000, "4.66 GB"},
		{1 << 50, "1024 TB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatBytes(tc.in, 2), "FormatBytes(%d)", tc.in)
	}
}

func TestFormatBytesDecimals(t *testing.T) {
	assert.Equal(t, "2 MB", FormatBytes(2_000_000, 0))
	assert.Equal(t, "2 MB", FormatBytes(2_000_000, -3))
	assert.Equal(t, "1.907 MB", FormatBytes(2_000_000, 3))
}
