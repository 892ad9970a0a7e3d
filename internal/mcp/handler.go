package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/domain/timeline"
)

// TimelineService defines timeline operations needed by MCP.
type TimelineService interface {
	BuildDailyTimeline(ctx context.Context, employeeID, date string) ([]timeline.HourActivity, error)
	LogActivity(ctx context.Context, employeeID, date string, hour int, text string) (*timeline.HourActivity, error)
}

// NotificationService defines notification operations needed by MCP.
type NotificationService interface {
	LoadForUser(ctx context.Context, userID string) ([]notification.Notification, error)
	MarkAsRead(ctx context.Context, userID, id string) (*notification.Result, error)
	MarkAllAsRead(ctx context.Context, userID string) (*notification.Result, error)
	DeleteOne(ctx context.Context, userID, id string) (*notification.Result, error)
	ClearAllForUser(ctx context.Context, userID string) (*notification.Result, error)
	Create(ctx context.Context, req notification.CreateRequest) (*notification.Notification, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Timeline      TimelineService
	Notifications NotificationService
}

// Handler dispatches dashboard commands.
type Handler struct {
	timeline      TimelineService
	notifications NotificationService
	now           func() time.Time
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{
		timeline:      services.Timeline,
		notifications: services.Notifications,
		now:           time.Now,
	}
}

// Handle dispatches requests to domain services on behalf of userID.
func (h *Handler) Handle(ctx context.Context, userID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "build_daily_timeline":
		var req BuildDailyTimelineParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		employeeID := firstNonEmpty(req.EmployeeID, userID)
		hours, err := h.timeline.BuildDailyTimeline(ctx, employeeID, req.Date)
		if err != nil {
			return nil, mapError(err)
		}
		return newTimelineResponse(employeeID, hours), nil
	case "log_activity":
		var req LogActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Hour == nil {
			return nil, mapError(fmt.Errorf("%w: hour is required", timeline.ErrInvalidHour))
		}
		rec, err := h.timeline.LogActivity(ctx, firstNonEmpty(req.EmployeeID, userID), req.Date, *req.Hour, req.Text)
		if err != nil {
			return nil, mapError(err)
		}
		return newHourView(*rec), nil
	case "list_notifications":
		list, err := h.notifications.LoadForUser(ctx, userID)
		if err != nil {
			return nil, mapError(err)
		}
		return h.newNotificationList(list), nil
	case "create_notification":
		var req CreateNotificationParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		n, err := h.notifications.Create(ctx, notification.CreateRequest{
			UserID:  firstNonEmpty(req.UserID, userID),
			Type:    notification.Type(strings.ToLower(req.Type)),
			Message: req.Message,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return h.newNotificationView(*n), nil
	case "mark_notification_read":
		var req NotificationIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.notifications.MarkAsRead(ctx, userID, req.ID)
		return h.mutationResponse(result, err)
	case "mark_all_notifications_read":
		result, err := h.notifications.MarkAllAsRead(ctx, userID)
		return h.mutationResponse(result, err)
	case "delete_notification":
		var req NotificationIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.notifications.DeleteOne(ctx, userID, req.ID)
		return h.mutationResponse(result, err)
	case "clear_notifications":
		result, err := h.notifications.ClearAllForUser(ctx, userID)
		return h.mutationResponse(result, err)
	default:
		return nil, mapError(fmt.Errorf("%w: %s", ErrUnknownMethod, method))
	}
}

func (h *Handler) mutationResponse(result *notification.Result, err error) (any, error) {
	if err != nil {
		return nil, mapError(err)
	}
	resp := NotificationMutationResponse{
		NotificationListResponse: h.newNotificationList(result.Notifications),
		Failed:                   result.Failed,
	}
	if result.WriteErr != nil {
		resp.WriteError = writeError(result.WriteErr)
	}
	return resp, nil
}

func (h *Handler) newNotificationList(list []notification.Notification) NotificationListResponse {
	views := make([]NotificationView, 0, len(list))
	for _, n := range list {
		views = append(views, h.newNotificationView(n))
	}
	return NotificationListResponse{
		Notifications: views,
		Unread:        notification.CountUnread(list),
	}
}

func (h *Handler) newNotificationView(n notification.Notification) NotificationView {
	return NotificationView{
		ID:        n.ID,
		Type:      n.DisplayType(),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		Relative:  n.Relative(h.now()),
	}
}

func newTimelineResponse(employeeID string, hours []timeline.HourActivity) TimelineResponse {
	views := make([]HourView, 0, len(hours))
	for _, rec := range hours {
		views = append(views, newHourView(rec))
	}
	date := ""
	if len(hours) > 0 {
		date = hours[0].Date
	}
	return TimelineResponse{
		EmployeeID: employeeID,
		Date:       date,
		Hours:      views,
		Summary:    timeline.Summarize(hours),
	}
}

func newHourView(rec timeline.HourActivity) HourView {
	if rec.Activities == nil {
		rec.Activities = []string{}
	}
	return HourView{
		HourActivity:   rec,
		Label:          rec.Label(),
		Classification: timeline.Classify(rec),
		Placeholder:    rec.IsPlaceholder(),
	}
}

func writeError(err error) *APIError {
	// An aggregate keeps every cause; mapping it whole would report only the
	// first recognized one.
	if errs := multierr.Errors(err); len(errs) > 1 {
		causes := make([]*APIError, 0, len(errs))
		for _, e := range errs {
			causes = append(causes, writeError(e))
		}
		return &APIError{
			Code:         "WRITE_FAILED",
			Message:      fmt.Sprintf("%d writes failed", len(errs)),
			Details:      causes,
			RecoveryHint: "Retry later",
		}
	}
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return &APIError{Code: "WRITE_FAILED", Message: err.Error(), RecoveryHint: "Retry later"}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return mapError(fmt.Errorf("%w: %v", ErrInvalidParams, err))
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// isAPIError reports whether err carries a mapped error code.
func isAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
