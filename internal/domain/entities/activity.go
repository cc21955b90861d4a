package entities

import "time"

// Activity is one entry of the festival programme. Activities belong to the
// content pack, not to the sync core; the core only reads the identifier,
// the price (initial payment amount) and the schedule (calendar export).
type Activity struct {
	ID          string
	Title       string
	ShortName   string
	StartsAt    time.Time
	EndsAt      time.Time // zero = one hour after StartsAt
	Location    string
	Category    string
	PriceEUR    *float64
	Responsible string
	Notes       string
}
