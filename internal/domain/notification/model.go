package notification

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// Type is the severity of a notification.
type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeInfo, TypeWarning, TypeError:
		return true
	}
	return false
}

// Notification is a message addressed to a single user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayType returns the type to render; unknown types render as info.
func (n Notification) DisplayType() Type {
	if n.Type.Valid() {
		return n.Type
	}
	return TypeInfo
}

// Relative formats the creation time relative to now, e.g. "3 hours ago".
func (n Notification) Relative(now time.Time) string {
	return humanize.RelTime(n.CreatedAt, now, "ago", "from now")
}

// SortNewestFirst orders notifications by creation time, most recent first.
// Equal timestamps keep their incoming order.
func SortNewestFirst(list []Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// CountUnread returns the number of unread notifications.
func CountUnread(list []Notification) int {
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count
}
