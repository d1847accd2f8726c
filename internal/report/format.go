package report

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

const notAvailable = "n/a"

// volume formats gallons with thousands separators and no decimals.
func volume(v float64) string {
	return humanize.FormatFloat("#,###.", v)
}

// volume2 formats gallons with thousands separators and two decimals.
func volume2(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// rate formats per-capita figures and percentages with two decimals.
func rate(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// plain formats a threshold without trailing zeros.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ratePtr(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return rate(*v)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}
