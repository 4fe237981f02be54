// Package cashcut computes the daily cash cut and records quick cash
// entries and exits.
//
// A cut covers one calendar day in the server time zone. Cash on hand is
// expected to equal the cash sales plus the quick entries minus the quick
// exits; card and transfer sales never reach the drawer. Credit sales are
// reported apart as well as inside the sales totals.
package cashcut

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods and sale types as stored on sales.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"

	SaleCredit = "credito"
)

// Movement types.
const (
	TypeEntrada = "entrada"
	TypeSalida  = "salida"
)

// Sale is a completed sale as the cut sees it.
type Sale struct {
	Total         decimal.Decimal
	PaymentMethod string
	SaleType      string
}

// Movement is a quick cash entry or exit.
type Movement struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Concept   string          `json:"concept"`
	CreatedAt time.Time       `json:"created_at"`
}

// SalesSummary totals the day's sales.
type SalesSummary struct {
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	Transfer decimal.Decimal `json:"transfer"`
}

// Tally is a count and sum.
type Tally struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func (t *Tally) add(amount decimal.Decimal) {
	t.Count++
	t.Total = t.Total.Add(amount)
}

// CashCut is the summary for one day.
type CashCut struct {
	Date         string          `json:"date"`
	Sales        SalesSummary    `json:"sales"`
	Entries      Tally           `json:"entries"`
	Exits        Tally           `json:"exits"`
	Credits      Tally           `json:"credits"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	NetTotal     decimal.Decimal `json:"net_total"`
}

// Compute aggregates the sales and movements of day. Movements of an
// unknown type are ignored.
func Compute(day time.Time, sales []Sale, movements []Movement) CashCut {
	cut := CashCut{Date: day.Format(time.DateOnly)}

	for _, s := range sales {
		cut.Sales.Count++
		cut.Sales.Total = cut.Sales.Total.Add(s.Total)

		switch s.PaymentMethod {
		case PaymentCash:
			cut.Sales.Cash = cut.Sales.Cash.Add(s.Total)
		case PaymentCard:
			cut.Sales.Card = cut.Sales.Card.Add(s.Total)
		case PaymentTransfer:
			cut.Sales.Transfer = cut.Sales.Transfer.Add(s.Total)
		}

		if s.SaleType == SaleCredit {
			cut.Credits.add(s.Total)
		}
	}

	for _, m := range movements {
		switch m.Type {
		case TypeEntrada:
			cut.Entries.add(m.Amount)
		case TypeSalida:
			cut.Exits.add(m.Amount)
		}
	}

	drawer := cut.Entries.Total.Sub(cut.Exits.Total)
	cut.ExpectedCash = cut.Sales.Cash.Add(drawer)
	cut.NetTotal = cut.Sales.Total.Add(drawer)
	return cut
}

// DayBounds returns [start of day, start of next day) for t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
