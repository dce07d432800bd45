package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO calendar date format reservations are stored with.
const DateLayout = "2006-01-02"

// NotAvailable is shown in place of an empty optional field.
const NotAvailable = "N/A"

type View string

const (
	ViewAll   View = "all"
	ViewToday View = "today"
	ViewDate  View = "date"
)

// ParseView maps a query value onto a View. Unknown values mean ViewAll.
func ParseView(s string) View {
	switch View(s) {
	case ViewToday:
		return ViewToday
	case ViewDate:
		return ViewDate
	default:
		return ViewAll
	}
}

// ReturnView is the view shown after a delete. Only the today view is
// preserved; everything else goes back to all bookings.
func (v View) ReturnView() View {
	if v == ViewToday {
		return ViewToday
	}
	return ViewAll
}

type Reservation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Date      string    `db:"booking_date" json:"date"`
	Time      string    `db:"booking_time" json:"time"`
	Service   string    `db:"service" json:"service"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Renderable reports whether the reservation has the fields a table row needs.
func (r *Reservation) Renderable() bool {
	return r.Name != "" && r.Date != "" && r.Time != ""
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func (r *Reservation) DisplayPhone() string   { return orNA(r.Phone) }
func (r *Reservation) DisplayService() string { return orNA(r.Service) }

// Listing is the result of one panel query.
type Listing struct {
	View         View           `json:"view"`
	Date         string         `json:"date,omitempty"`
	Reservations []*Reservation `json:"reservations"`
}

func (l *Listing) Title() string {
	switch l.View {
	case ViewToday:
		return "Today's Bookings"
	case ViewDate:
		return fmt.Sprintf("Bookings for %s", l.Date)
	default:
		return "All Bookings"
	}
}

// Renderable returns the reservations that can be shown as table rows, in
// query order, plus the IDs of those that were skipped.
func (l *Listing) Renderable() ([]*Reservation, []uuid.UUID) {
	rows := make([]*Reservation, 0, len(l.Reservations))
	var skipped []uuid.UUID
	for _, r := range l.Reservations {
		if r == nil {
			continue
		}
		if !r.Renderable() {
			skipped = append(skipped, r.ID)
			continue
		}
		rows = append(rows, r)
	}
	return rows, skipped
}
