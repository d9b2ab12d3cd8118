package usecase

import (
	"transit-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

// Fare is the priced breakdown stored on a reservation.
type Fare struct {
	DiscountPct    int
	TotalCost      decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalCost      decimal.Decimal
}

type FareCalculator struct {
	memberDiscountPct int
}

func NewFareCalculator(memberDiscountPct int) *FareCalculator {
	return &FareCalculator{memberDiscountPct: memberDiscountPct}
}

// Calculate prices seats at unitFare. Members get the configured discount,
// rounded half-up to cents; guests pay the full total.
func (c *FareCalculator) Calculate(seats int, unitFare decimal.Decimal, passenger *entity.Passenger) Fare {
	total := unitFare.Mul(decimal.NewFromInt(int64(seats))).Round(2)

	pct := 0
	if passenger.IsMember() {
		pct = c.memberDiscountPct
	}

	discount := total.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Round(2)

	return Fare{
		DiscountPct:    pct,
		TotalCost:      total,
		DiscountAmount: discount,
		FinalCost:      total.Sub(discount),
	}
}

func (f Fare) apply(r *entity.Reservation) {
	r.DiscountPct = f.DiscountPct
	r.TotalCost = f.TotalCost
	r.DiscountAmount = f.DiscountAmount
	r.FinalCost = f.FinalCost
}
