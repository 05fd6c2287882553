package money

import (
	"errors"
	"testing"
)

func TestNewNormalizesCurrency(t *testing.T) {
	m, err := New(10000, "usd")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Currency != "USD" {
		t.Fatalf("currency = %q", m.Currency)
	}
}

func TestNewRejectsBadCurrency(t *testing.T) {
	if _, err := New(1, "US"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestAddCurrencyMismatch(t *testing.T) {
	usd := Must(100, "USD")
	eur := Must(100, "EUR")
	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestArithmetic(t *testing.T) {
	m := Must(10000, "USD") // 100.00
	sum, err := m.Add(Must(15000, "USD"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.Amount != 25000 {
		t.Fatalf("sum = %d", sum.Amount)
	}
	if got := m.Multiply(3).Amount; got != 30000 {
		t.Fatalf("Multiply = %d", got)
	}
	if got := m.Neg().Amount; got != -10000 {
		t.Fatalf("Neg = %d", got)
	}
}

func TestString(t *testing.T) {
	if got := Must(35000, "USD").String(); got != "USD 350.00" {
		t.Fatalf("String = %q", got)
	}
	if got := Must(-205, "USD").String(); got != "USD -2.05" {
		t.Fatalf("negative String = %q", got)
	}
}
