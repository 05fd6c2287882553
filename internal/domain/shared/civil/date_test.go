package civil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year != 2024 || d.Month != time.June || d.Day != 1 {
		t.Fatalf("unexpected date: %+v", d)
	}
	if got := d.String(); got != "2024-06-01" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "2024-02-30", "01/06/2024", "2024-06-01T00:00:00Z"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestAddDaysCrossesMonthAndYear(t *testing.T) {
	cases := []struct {
		start string
		days  int
		want  string
	}{
		{"2024-06-30", 1, "2024-07-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-06-05", -5, "2024-05-31"},
	}
	for _, tc := range cases {
		got := MustParseDate(tc.start).AddDays(tc.days)
		if got.String() != tc.want {
			t.Errorf("%s + %d days = %s, want %s", tc.start, tc.days, got, tc.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	a := MustParseDate("2024-06-01")
	b := MustParseDate("2024-06-04")
	if got := a.DaysUntil(b); got != 3 {
		t.Fatalf("DaysUntil = %d, want 3", got)
	}
	if got := b.DaysUntil(a); got != -3 {
		t.Fatalf("reverse DaysUntil = %d, want -3", got)
	}
	if got := a.DaysUntil(a); got != 0 {
		t.Fatalf("self DaysUntil = %d, want 0", got)
	}
}

func TestOrdering(t *testing.T) {
	a := MustParseDate("2024-06-01")
	b := MustParseDate("2024-06-02")
	if !a.Before(b) || b.Before(a) || !b.After(a) {
		t.Fatal("ordering broken")
	}
}

func TestTextRoundTrip(t *testing.T) {
	d := MustParseDate("2024-02-29")
	raw, err := d.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Date
	if err := back.UnmarshalText(raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip mismatch: %v vs %v", back, d)
	}
}
