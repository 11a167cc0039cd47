package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lunchpass/lunchpass-api/internal/domain"
)

func TestSchoolOrderingAllowedAt(t *testing.T) {
	school := domain.School{
		OpeningHour: "08:00",
		ClosingHour: "14:00",
		Weekdays: domain.WeekdayFlags{
			Monday:    true,
			Tuesday:   true,
			Wednesday: true,
			Thursday:  true,
			Friday:    true,
		},
	}

	wednesdayNoon := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	assert.True(t, school.OrderingAllowedAt(wednesdayNoon))

	saturdayNoon := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	assert.False(t, school.OrderingAllowedAt(saturdayNoon), "weekend flag is off")

	tooEarly := time.Date(2026, 3, 4, 7, 59, 0, 0, time.UTC)
	assert.False(t, school.OrderingAllowedAt(tooEarly))

	atOpening := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
	assert.True(t, school.OrderingAllowedAt(atOpening), "bounds are inclusive")

	atClosing := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
	assert.True(t, school.OrderingAllowedAt(atClosing), "bounds are inclusive")

	afterClosing := time.Date(2026, 3, 4, 14, 1, 0, 0, time.UTC)
	assert.False(t, school.OrderingAllowedAt(afterClosing))
}

func TestSchoolOrderingAllowedAtWithoutHours(t *testing.T) {
	school := domain.School{
		Weekdays: domain.WeekdayFlags{Monday: true},
	}

	mondayMidnight := time.Date(2026, 3, 2, 0, 30, 0, 0, time.UTC)
	assert.True(t, school.OrderingAllowedAt(mondayMidnight), "no hours configured means all day")
}

func TestUserCanActOnKid(t *testing.T) {
	kid := domain.Kid{ID: "kid-1", ParentID: "parent-1"}

	assert.True(t, domain.User{ID: "admin-1", Role: domain.RoleAdmin}.CanActOnKid(kid))
	assert.True(t, domain.User{ID: "staff-1", Role: domain.RoleStaff}.CanActOnKid(kid))
	assert.True(t, domain.User{ID: "parent-1", Role: domain.RoleParent}.CanActOnKid(kid))
	assert.False(t, domain.User{ID: "parent-2", Role: domain.RoleParent}.CanActOnKid(kid))
}
