package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleRun is one scheduled departure with a fixed seat capacity.
type VehicleRun struct {
	Base
	Versioned
	Code           string          `db:"code"`
	Origin         string          `db:"origin"`
	Destination    string          `db:"destination"`
	DepartureTime  time.Duration   `db:"departure_time"` // offset from midnight
	ArrivalTime    time.Duration   `db:"arrival_time"`   // offset from midnight
	Fare           decimal.Decimal `db:"fare"`
	Capacity       int             `db:"capacity"`
	AvailableSeats int             `db:"available_seats"`
}

// Schedule returns departure and arrival instants for travel on date. An
// arrival time-of-day not after the departure means the run arrives next day.
func (v *VehicleRun) Schedule(date time.Time) (departure, arrival time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	departure = day.Add(v.DepartureTime)
	arrival = day.Add(v.ArrivalTime)
	if !arrival.After(departure) {
		arrival = arrival.AddDate(0, 0, 1)
	}
	return departure, arrival
}
