package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `staffboard serves the data behind an employee dashboard: a daily hour-by-hour activity timeline and a per-user notification center.

Core concepts:
- Timeline: always 24 hours (00:00 - 01:00 through 23:00 - 00:00). Hours nobody logged are placeholders with ids like temp_7.
- Locked hour: an hour whose window has closed. Locked hours reject new activity.
- Notification: belongs to exactly one user; listed newest first.

Typical flow:
1) build_daily_timeline (employee_id optional, date optional) to render a day.
2) log_activity for an open hour; rebuild the timeline afterwards.
3) list_notifications; then mark_notification_read / mark_all_notifications_read / delete_notification / clear_notifications.
   Mutations always return the refreshed list. If write_error is present the change did not take effect.

Docs:
- staffboard://docs/timeline
- staffboard://docs/notifications
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "staffboard://docs/timeline",
		Name:        "docs_timeline",
		Title:       "Daily timeline",
		Description: "How the 24-hour timeline is built, what lock state means, and how hours are classified.",
		Content: `# Daily timeline

` + "`build_daily_timeline`" + ` returns exactly 24 hours in ascending order for one employee and one day.

## Hours

- Hours with logged activity come from storage unchanged.
- Missing hours are placeholders: id ` + "`temp_<hour>`" + `, empty ` + "`activities`" + `, ` + "`placeholder: true`" + `.
- ` + "`label`" + ` is the display window, e.g. ` + "`09:00 - 10:00`" + `; the last hour is ` + "`23:00 - 00:00`" + `.

## Classification

- ` + "`logged`" + `: the hour has at least one activity.
- ` + "`empty-locked`" + `: nothing logged and the window has closed.
- ` + "`empty-open`" + `: nothing logged yet and activity can still be added.

## Summary

` + "`summary`" + ` counts hours with activities, empty hours, and locked hours. ` + "`total`" + ` is always 24.

## Logging activity

` + "`log_activity`" + ` appends text to an hour. It fails with ` + "`HOUR_LOCKED`" + ` once the hour has closed and with ` + "`INVALID_HOUR`" + ` outside 0-23.
`,
	},
	{
		URI:         "staffboard://docs/notifications",
		Name:        "docs_notifications",
		Title:       "Notification center",
		Description: "Listing, marking, deleting and clearing notifications, and how write failures surface.",
		Content: `# Notification center

Every call acts on the authenticated user only. Other users' notifications are never read or changed.

## Listing

` + "`list_notifications`" + ` returns notifications newest first with ` + "`unread`" + ` count and a relative time such as ` + "`3 hours ago`" + `.

## Mutations

- ` + "`mark_notification_read`" + ` and ` + "`delete_notification`" + ` take an ` + "`id`" + `.
- ` + "`mark_all_notifications_read`" + ` marks each unread notification on its own. Ids that failed are listed in ` + "`failed`" + `.
- ` + "`clear_notifications`" + ` removes all of your notifications.

Each mutation reloads and returns the list. When the write failed, ` + "`write_error`" + ` explains why and the list shows what is still stored.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
