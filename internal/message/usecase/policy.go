package usecase

import (
	"time"

	settingsdomain "triago-backend/internal/settings/domain"
)

// ShouldAutoReply is the auto-reply policy: a pure decision over the user's
// settings and one wall-clock instant. Eligibility is per-user, not
// per-message; the sync loop re-evaluates it for every candidate, so a batch
// straddling a window boundary can split.
func ShouldAutoReply(settings *settingsdomain.AutoReplySettings, now time.Time) bool {
	if settings == nil || !settings.Enabled {
		return false
	}

	day := int(now.Weekday()) // 0 = Sunday
	active := false
	for _, d := range settings.ActiveDays {
		if d == day {
			active = true
			break
		}
	}
	if !active {
		return false
	}

	// Lexicographic comparison on zero-padded HH:MM matches numeric order.
	// Both boundaries are inclusive.
	current := now.Format("15:04")
	return settings.StartTime <= current && current <= settings.EndTime
}
