package pricing

import (
	"context"
	"errors"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

var (
	ErrNoNights      = errors.New("pricing: stay must cover at least one night")
	ErrCurrencyUnset = errors.New("pricing: room price currency must be defined")
)

// NightLine is the resolved price of one night of a stay.
type NightLine struct {
	Date       civil.Date
	Price      money.Money
	Overridden bool
}

// PriceBreakdown is the per-night decomposition of a stay total.
// Once captured on a booking it is immutable: later override edits
// never change an already-quoted total.
type PriceBreakdown struct {
	Nights int
	Lines  []NightLine
	Total  money.Money
}

func (p PriceBreakdown) Copy() PriceBreakdown {
	clone := p
	clone.Lines = append([]NightLine(nil), p.Lines...)
	return clone
}

// Quote prices a stay: each night resolves to the override price for
// that date when present, else the room default. This is the same
// resolution rule the availability reconciler uses, so a preview
// always matches what booking persists.
func Quote(room *property.Room, stay daterange.DateRange, overrides map[civil.Date]availability.Override) (PriceBreakdown, error) {
	if room == nil {
		return PriceBreakdown{}, property.ErrRoomNotFound
	}
	if room.DefaultPrice.Currency == "" {
		return PriceBreakdown{}, ErrCurrencyUnset
	}
	nights := stay.Dates()
	if len(nights) == 0 {
		return PriceBreakdown{}, ErrNoNights
	}

	breakdown := PriceBreakdown{Nights: len(nights), Lines: make([]NightLine, 0, len(nights))}
	total := money.Money{Amount: 0, Currency: room.DefaultPrice.Currency}
	for _, night := range nights {
		price := availability.NightPrice(room, overrides, night)
		_, overridden := overrides[night]
		overridden = overridden && overrides[night].Price != nil
		breakdown.Lines = append(breakdown.Lines, NightLine{Date: night, Price: price, Overridden: overridden})
		sum, err := total.Add(price)
		if err != nil {
			return PriceBreakdown{}, err
		}
		total = sum
	}
	breakdown.Total = total
	return breakdown, nil
}

// Quoter is the application-facing pricing port.
type Quoter interface {
	QuoteStay(ctx context.Context, room *property.Room, stay daterange.DateRange) (PriceBreakdown, error)
}

// OverrideQuoter prices stays off the override repository, the
// default production implementation of Quoter.
type OverrideQuoter struct {
	Overrides availability.OverrideRepository
}

func (q OverrideQuoter) QuoteStay(ctx context.Context, room *property.Room, stay daterange.DateRange) (PriceBreakdown, error) {
	if room == nil {
		return PriceBreakdown{}, property.ErrRoomNotFound
	}
	if err := stay.Validate(); err != nil {
		return PriceBreakdown{}, err
	}
	// Only nights matter, so the lookup stops the day before checkout.
	rows, err := q.Overrides.InRange(ctx, room.ID, stay.CheckIn, stay.CheckOut.AddDays(-1))
	if err != nil {
		return PriceBreakdown{}, err
	}
	return Quote(room, stay, availability.IndexOverrides(rows))
}
