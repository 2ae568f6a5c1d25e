package bytes

import (
	"fmt"
	"math"
	"strconv"
)

var units = [...]string{"Bytes", "KB", "MB", "GB"}

// FmtMem renders a byte count in the largest unit (up to GB) keeping the value >= 1,
// rounded to two decimals with trailing zeros dropped: 0 -> "0 Bytes", 1536 -> "1.5 KB".
func FmtMem(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	value, i := float64(bytes), 0
	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}
	value = math.Round(value*100) / 100

	return strconv.FormatFloat(value, 'f', -1, 64) + " " + units[i]
}

// FmtPercent renders part/whole as a percentage with two decimals, e.g. "42.00%".
// A zero whole yields "0.00%".
func FmtPercent(part, whole int64) string {
	if whole <= 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(whole)*100)
}
