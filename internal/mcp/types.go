package mcp

import (
	"time"

	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/domain/timeline"
)

type EmptyParams struct{}

type BuildDailyTimelineParams struct {
	EmployeeID string `json:"employee_id,omitempty" jsonschema:"employee whose day is shown; defaults to the acting user"`
	Date       string `json:"date,omitempty" jsonschema:"day in YYYY-MM-DD; defaults to today"`
}

type LogActivityParams struct {
	EmployeeID string `json:"employee_id,omitempty" jsonschema:"employee to log for; defaults to the acting user"`
	Date       string `json:"date,omitempty" jsonschema:"day in YYYY-MM-DD; defaults to today"`
	Hour       *int   `json:"hour,omitempty" jsonschema:"hour of the day, 0 to 23"`
	Text       string `json:"text" jsonschema:"activity description"`
}

type CreateNotificationParams struct {
	UserID  string `json:"user_id,omitempty" jsonschema:"recipient; defaults to the acting user"`
	Type    string `json:"type,omitempty" jsonschema:"info, warning or error; defaults to info"`
	Message string `json:"message" jsonschema:"notification text"`
}

type NotificationIDParams struct {
	ID string `json:"id" jsonschema:"notification id"`
}

type HourView struct {
	timeline.HourActivity
	Label          string                  `json:"label"`
	Classification timeline.Classification `json:"classification"`
	Placeholder    bool                    `json:"placeholder"`
}

type TimelineResponse struct {
	EmployeeID string           `json:"employee_id"`
	Date       string           `json:"date"`
	Hours      []HourView       `json:"hours"`
	Summary    timeline.Summary `json:"summary"`
}

type NotificationView struct {
	ID        string            `json:"id"`
	Type      notification.Type `json:"type"`
	Message   string            `json:"message"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
	Relative  string            `json:"relative"`
}

type NotificationListResponse struct {
	Notifications []NotificationView `json:"notifications"`
	Unread        int                `json:"unread"`
}

// NotificationMutationResponse is the refreshed list after a mutation.
// WriteError is set when the mutation did not take effect.
type NotificationMutationResponse struct {
	NotificationListResponse
	WriteError *APIError `json:"write_error,omitempty"`
	Failed     []string  `json:"failed,omitempty"`
}
