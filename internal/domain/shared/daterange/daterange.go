package daterange

import (
	"errors"

	"stayhub/internal/domain/shared/civil"
)

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
)

// DateRange represents a half-open stay interval [CheckIn, CheckOut).
// The checkout date is never an occupied night.
type DateRange struct {
	CheckIn  civil.Date
	CheckOut civil.Date
}

func New(checkIn, checkOut civil.Date) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn, CheckOut: checkOut}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two ISO calendar date strings.
func Parse(checkIn, checkOut string) (DateRange, error) {
	in, err := civil.ParseDate(checkIn)
	if err != nil {
		return DateRange{}, err
	}
	out, err := civil.ParseDate(checkOut)
	if err != nil {
		return DateRange{}, err
	}
	return New(in, out)
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

func (dr DateRange) Nights() int {
	return dr.CheckIn.DaysUntil(dr.CheckOut)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(d civil.Date) bool {
	return !d.Before(dr.CheckIn) && d.Before(dr.CheckOut)
}

// Dates enumerates every night of the stay in order. The checkout
// date is excluded.
func (dr DateRange) Dates() []civil.Date {
	nights := dr.Nights()
	if nights <= 0 {
		return nil
	}
	out := make([]civil.Date, 0, nights)
	for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// Clamp narrows the range to the queried window, keeping half-open
// semantics. The second return is false when there is no intersection.
func (dr DateRange) Clamp(window DateRange) (DateRange, bool) {
	if !dr.Overlaps(window) {
		return DateRange{}, false
	}
	out := dr
	if out.CheckIn.Before(window.CheckIn) {
		out.CheckIn = window.CheckIn
	}
	if window.CheckOut.Before(out.CheckOut) {
		out.CheckOut = window.CheckOut
	}
	return out, true
}
