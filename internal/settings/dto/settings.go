package dto

import "time"

type AutoReplyResponse struct {
	Enabled          bool     `json:"enabled"`
	Message          string   `json:"message"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	ActiveDays       []int    `json:"activeDays"`
	ActiveDaysLabels []string `json:"activeDaysLabels"`
}

// UpdateAutoReplyRequest carries partial settings updates. Pointer fields
// distinguish "absent" from zero values.
type UpdateAutoReplyRequest struct {
	Enabled    *bool   `json:"enabled"`
	Message    *string `json:"message" binding:"omitempty,min=10,max=500"`
	StartTime  *string `json:"startTime"`
	EndTime    *string `json:"endTime"`
	ActiveDays *[]int  `json:"activeDays" binding:"omitempty,min=1,dive,min=0,max=6"`
}

type ToggleResponse struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

type ConnectionInfo struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connectedAt"`
	IsExpired   bool      `json:"isExpired"`
}

type ProviderAvailability struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
}

type ConnectionsResponse struct {
	Connections        []ConnectionInfo       `json:"connections"`
	AvailableProviders []ProviderAvailability `json:"availableProviders"`
}

type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}
