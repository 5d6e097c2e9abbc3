package service

import (
	"time"

	"github.com/ayorahman/reimburse-bbm-api/internal/modules/reimburse/repository"
)

// GetDateFilter maps a filter token to a half-open interval in now's
// local calendar. Both listing queries and the monthly-limit sum rely on
// the >= start / < end contract: a record created exactly at a boundary
// belongs to the later interval.
func GetDateFilter(filter string, now time.Time) *repository.DateRange {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch filter {
	case "today":
		return &repository.DateRange{Start: today, End: today.AddDate(0, 0, 1)}
	case "yesterday":
		return &repository.DateRange{Start: today.AddDate(0, 0, -1), End: today}
	case "this_month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &repository.DateRange{Start: start, End: start.AddDate(0, 1, 0)}
	default:
		return nil
	}
}

// monthRange is the this_month interval used for limit accounting.
func monthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}
