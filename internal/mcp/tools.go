package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools exposes every handler method as an MCP tool.
func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Timeline
	addTool[BuildDailyTimelineParams](server, handler, logger, "build_daily_timeline",
		"Build the 24-hour activity timeline of an employee for a day, with lock state, classification and summary")
	addTool[LogActivityParams](server, handler, logger, "log_activity",
		"Append an activity entry to an open hour of an employee's day")

	// Notifications
	addTool[EmptyParams](server, handler, logger, "list_notifications",
		"List the acting user's notifications, newest first, with unread count")
	addTool[CreateNotificationParams](server, handler, logger, "create_notification",
		"Create an unread notification for a user")
	addTool[NotificationIDParams](server, handler, logger, "mark_notification_read",
		"Mark one notification as read and return the refreshed list")
	addTool[EmptyParams](server, handler, logger, "mark_all_notifications_read",
		"Mark every unread notification as read and return the refreshed list with any failed ids")
	addTool[NotificationIDParams](server, handler, logger, "delete_notification",
		"Delete one notification and return the refreshed list")
	addTool[EmptyParams](server, handler, logger, "clear_notifications",
		"Delete all of the acting user's notifications")
}

func addTool[In any](server *sdkmcp.Server, handler *Handler, logger *slog.Logger, name, description string) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		params, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("encode params: %w", err)
		}
		start := time.Now()
		userID := getUserID(ctx)
		log := logger.With("tool", name, "session_id", getSessionID(ctx), "user_id", userID)

		result, err := handler.Handle(ctx, userID, name, params)
		if err != nil {
			if isAPIError(err) {
				log.Debug("tool rejected", "error", err)
			} else {
				log.Error("tool failed", "error", err)
			}
			return nil, nil, err
		}
		log.Debug("tool call", "duration", time.Since(start))
		return nil, result, nil
	})
}
