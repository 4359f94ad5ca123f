package age

import (
	"fmt"
	"time"
)

const (
	daysInYear  = 365
	daysInMonth = 30
)

type AgeService struct{}

// NewAgeService constructs an object that holds the
// logic for computing the age of users' accounts and
// server memberships.
func NewAgeService() *AgeService {
	return &AgeService{}
}

// Days returns the number of whole days that passed between
// from and now. Negative durations (clock skew) count as 0.
func (service *AgeService) Days(from time.Time, now time.Time) int {
	d := now.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// AccountAge formats the provided number of days as
// "{years}y {months}m {days}d ago".
// NOTE: a year is always 365 days and a month always 30 days,
// so the result drifts from the calendar for older accounts.
func (service *AgeService) AccountAge(days int) string {
	if days < 0 {
		days = 0
	}
	years, rem := days/daysInYear, days%daysInYear
	months, days := rem/daysInMonth, rem%daysInMonth
	return fmt.Sprintf("%dy %dm %dd ago", years, months, days)
}

// MembershipAge formats the provided number of days
// as "{days} days ago".
func (service *AgeService) MembershipAge(days int) string {
	if days < 0 {
		days = 0
	}
	return fmt.Sprintf("%d days ago", days)
}
