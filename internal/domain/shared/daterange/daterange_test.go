package daterange

import (
	"errors"
	"testing"

	"stayhub/internal/domain/shared/civil"
)

func mustRange(t *testing.T, in, out string) DateRange {
	t.Helper()
	dr, err := Parse(in, out)
	if err != nil {
		t.Fatalf("parse range %s..%s: %v", in, out, err)
	}
	return dr
}

func TestNewRejectsZeroNights(t *testing.T) {
	d := civil.MustParseDate("2024-06-01")
	if _, err := New(d, d); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := New(d.AddDays(1), d); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted range, got %v", err)
	}
}

func TestNights(t *testing.T) {
	dr := mustRange(t, "2024-06-01", "2024-06-04")
	if got := dr.Nights(); got != 3 {
		t.Fatalf("Nights = %d, want 3", got)
	}
}

func TestDatesExcludesCheckout(t *testing.T) {
	dr := mustRange(t, "2024-06-01", "2024-06-04")
	dates := dr.Dates()
	want := []string{"2024-06-01", "2024-06-02", "2024-06-03"}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d", len(dates), len(want))
	}
	for i, w := range want {
		if dates[i].String() != w {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i], w)
		}
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	a := mustRange(t, "2024-06-01", "2024-06-05")
	cases := []struct {
		in, out string
		want    bool
	}{
		{"2024-06-05", "2024-06-08", false}, // back-to-back: checkout day is free
		{"2024-06-04", "2024-06-07", true},
		{"2024-05-28", "2024-06-01", false},
		{"2024-05-28", "2024-06-02", true},
		{"2024-06-02", "2024-06-03", true}, // fully inside
		{"2024-05-01", "2024-07-01", true}, // fully covering
	}
	for _, tc := range cases {
		b := mustRange(t, tc.in, tc.out)
		if got := a.Overlaps(b); got != tc.want {
			t.Errorf("[%s,%s) overlaps [%s,%s) = %v, want %v", a.CheckIn, a.CheckOut, tc.in, tc.out, got, tc.want)
		}
		if got := b.Overlaps(a); got != tc.want {
			t.Errorf("overlap not symmetric for [%s,%s)", tc.in, tc.out)
		}
	}
}

func TestContainsDate(t *testing.T) {
	dr := mustRange(t, "2024-06-01", "2024-06-05")
	if !dr.ContainsDate(civil.MustParseDate("2024-06-01")) {
		t.Error("check-in date should be contained")
	}
	if !dr.ContainsDate(civil.MustParseDate("2024-06-04")) {
		t.Error("last night should be contained")
	}
	if dr.ContainsDate(civil.MustParseDate("2024-06-05")) {
		t.Error("checkout date must not be contained")
	}
}

func TestClamp(t *testing.T) {
	stay := mustRange(t, "2024-05-28", "2024-06-03")
	window := mustRange(t, "2024-06-01", "2024-06-30")
	clamped, ok := stay.Clamp(window)
	if !ok {
		t.Fatal("expected intersection")
	}
	if clamped.CheckIn.String() != "2024-06-01" || clamped.CheckOut.String() != "2024-06-03" {
		t.Fatalf("clamped = [%s,%s)", clamped.CheckIn, clamped.CheckOut)
	}

	if _, ok := mustRange(t, "2024-04-01", "2024-04-05").Clamp(window); ok {
		t.Fatal("disjoint ranges must not clamp")
	}
}
