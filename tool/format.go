package tool

import (
	"math"
	"strconv"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with 1024-based units, e.g. 2000000 -> "1.91 MB".
// Trailing zeros are trimmed; values past TB stay in TB.
func FormatBytes(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}

	const k = 1024.0
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(k)))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}

	scale := math.Pow(10, float64(decimals))
	value := math.Round(float64(bytes)/math.Pow(k, float64(i))*scale) / scale
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + byteUnits[i]
}
