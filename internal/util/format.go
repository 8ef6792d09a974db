package util

import (
	"fmt"
	"strings"

	"github.com/mohammeder55/CS50-finance/internal/domain"
)

// FormatUSD renders a cent amount as a dollar string, e.g. 123456789
// becomes "$1,234,567.89" and negative amounts "-$12.34".
func FormatUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(whole), frac)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}

// FormatPrice renders a unit price in dollars without grouping,
// matching what trade responses and exports display.
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%.2f", domain.CentsToDollars(cents))
}
