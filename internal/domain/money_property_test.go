package domain

import (
	"testing"

	"pgregory.net/rapid"
)

func TestProperty_MonetaryRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Generate a cent value in a reasonable monetary range so the
		// float64 representation has at most 2 decimal places.
		cents := rapid.Int64Range(-99_999_999_99, 99_999_999_99).Draw(t, "cents")

		dollars := CentsToDollars(cents)
		gotCents, err := DollarsToCents(dollars)
		if err != nil {
			t.Fatalf("DollarsToCents(%v) returned error for value derived from %d cents: %v", dollars, cents, err)
		}
		if gotCents != cents {
			t.Fatalf("round-trip failed: cents=%d → dollars=%v → cents=%d", cents, dollars, gotCents)
		}
	})
}

func TestProperty_PriceRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cents := rapid.Int64Range(0, 99_999_999_99).Draw(t, "cents")

		got, err := PriceToCents(CentsToDollars(cents))
		if err != nil {
			t.Fatalf("PriceToCents returned error for %d cents: %v", cents, err)
		}
		if got != cents {
			t.Fatalf("round-trip failed: cents=%d → got=%d", cents, got)
		}
	})
}
