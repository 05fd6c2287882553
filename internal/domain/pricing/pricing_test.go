package pricing

import (
	"testing"
	"time"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

func testRoom(t *testing.T) *property.Room {
	t.Helper()
	room, err := property.NewRoom("room-1", "prop-1", "Garden View", money.Must(10000, "USD"), 2, time.Now())
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	return room
}

func mustStay(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	if err != nil {
		t.Fatalf("parse stay: %v", err)
	}
	return dr
}

// $100/night, no overrides, three nights -> $300.00.
func TestQuoteDefaultPriceOnly(t *testing.T) {
	b, err := Quote(testRoom(t), mustStay(t, "2024-06-01", "2024-06-04"), nil)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if b.Nights != 3 {
		t.Fatalf("nights = %d, want 3", b.Nights)
	}
	if b.Total.Amount != 30000 || b.Total.Currency != "USD" {
		t.Fatalf("total = %s, want USD 300.00", b.Total)
	}
}

// Override sets 2024-06-02 to $150 -> $100+$150+$100 = $350.00.
func TestQuoteWithOverridePrice(t *testing.T) {
	price := money.Must(15000, "USD")
	overrides := map[civil.Date]availability.Override{
		civil.MustParseDate("2024-06-02"): {Status: availability.StatusAvailable, Price: &price},
	}
	b, err := Quote(testRoom(t), mustStay(t, "2024-06-01", "2024-06-04"), overrides)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if b.Total.Amount != 35000 {
		t.Fatalf("total = %s, want USD 350.00", b.Total)
	}
	if !b.Lines[1].Overridden || b.Lines[0].Overridden {
		t.Fatalf("override flags wrong: %+v", b.Lines)
	}
}

// An override with no price only changes status; the default rate applies.
func TestQuoteStatusOnlyOverrideKeepsDefault(t *testing.T) {
	overrides := map[civil.Date]availability.Override{
		civil.MustParseDate("2024-06-02"): {Status: availability.StatusAvailable},
	}
	b, err := Quote(testRoom(t), mustStay(t, "2024-06-01", "2024-06-04"), overrides)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if b.Total.Amount != 30000 {
		t.Fatalf("total = %s, want USD 300.00", b.Total)
	}
	if b.Lines[1].Overridden {
		t.Fatal("status-only override must not flag the line as price-overridden")
	}
}

// Requoting the same range with the same overrides returns the same
// total to the cent.
func TestQuoteIdempotent(t *testing.T) {
	price := money.Must(17550, "USD")
	overrides := map[civil.Date]availability.Override{
		civil.MustParseDate("2024-06-03"): {Price: &price},
	}
	stay := mustStay(t, "2024-06-01", "2024-06-05")
	first, err := Quote(testRoom(t), stay, overrides)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	second, err := Quote(testRoom(t), stay, overrides)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if first.Total != second.Total {
		t.Fatalf("totals differ: %s vs %s", first.Total, second.Total)
	}
}

// The checkout date is not a night and must never be priced, even
// when it carries an expensive override.
func TestQuoteIgnoresCheckoutDate(t *testing.T) {
	price := money.Must(99900, "USD")
	overrides := map[civil.Date]availability.Override{
		civil.MustParseDate("2024-06-04"): {Price: &price},
	}
	b, err := Quote(testRoom(t), mustStay(t, "2024-06-01", "2024-06-04"), overrides)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if b.Total.Amount != 30000 {
		t.Fatalf("total = %s, checkout-date override leaked in", b.Total)
	}
}

func TestQuoteNilRoom(t *testing.T) {
	if _, err := Quote(nil, mustStay(t, "2024-06-01", "2024-06-02"), nil); err != property.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}
