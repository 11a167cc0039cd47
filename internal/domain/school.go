package domain

import "time"

type School struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`

	// OpeningHour and ClosingHour are "HH:MM" strings; both empty means
	// the canteen takes orders at any time of day.
	OpeningHour string `json:"opening_hour,omitempty"`
	ClosingHour string `json:"closing_hour,omitempty"`

	Weekdays WeekdayFlags `json:"weekdays"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderingAllowedAt reports whether orders may be placed at the given
// local time: the day-of-week flag must be enabled, and when both bounds
// are set the "HH:MM" time of day must fall within [opening, closing].
// Lexicographic comparison is valid because the strings are zero-padded.
func (s School) OrderingAllowedAt(t time.Time) bool {
	if !s.Weekdays.Enabled(t.Weekday()) {
		return false
	}
	if s.OpeningHour != "" && s.ClosingHour != "" {
		now := t.Format("15:04")
		if now < s.OpeningHour || now > s.ClosingHour {
			return false
		}
	}
	return true
}

// WeekdayFlags holds one enable flag per day of the week.
type WeekdayFlags struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

func (w WeekdayFlags) Enabled(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	}
	return false
}
