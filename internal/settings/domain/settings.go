package domain

import "time"

// AutoReplySettings gates automatic replies for one user. Rows are created
// lazily with defaults on first access; validation of the time window lives
// in the update path, not here.
type AutoReplySettings struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"uniqueIndex;not null"`
	Enabled    bool      `json:"enabled"`
	Message    string    `json:"message"`
	StartTime  string    `json:"startTime"` // "HH:MM", 24h
	EndTime    string    `json:"endTime"`
	ActiveDays []int     `json:"activeDays" gorm:"serializer:json"` // 0=Sunday .. 6=Saturday
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DayLabels maps weekday indexes to the short labels the mobile client shows.
var DayLabels = []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

const DefaultMessage = "Recebi sua mensagem! No momento estou em atendimento, mas retorno assim que possível. Obrigado pela compreensão."

// Defaults returns the settings created on first access: enabled,
// 08:00-18:00, Monday through Friday.
func Defaults(userID string) *AutoReplySettings {
	return &AutoReplySettings{
		UserID:     userID,
		Enabled:    true,
		Message:    DefaultMessage,
		StartTime:  "08:00",
		EndTime:    "18:00",
		ActiveDays: []int{1, 2, 3, 4, 5},
	}
}

// Labels returns the display labels for the active days, in stored order.
func (s *AutoReplySettings) Labels() []string {
	labels := make([]string, 0, len(s.ActiveDays))
	for _, d := range s.ActiveDays {
		if d >= 0 && d < len(DayLabels) {
			labels = append(labels, DayLabels[d])
		}
	}
	return labels
}
