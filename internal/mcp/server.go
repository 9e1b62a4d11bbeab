package mcp

import (
	"net/http"

	"github.com/2beens/gymsessions/internal/auth"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with read-only session tools: schema, active session,
// session history, latest plan and stats summary.
// A positive boundUserID scopes every tool to that user, otherwise tools take a user_id argument.
func NewServer(service contextService, boundUserID int) *mcp.Server {
	h := NewHandler(service, boundUserID)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymsessions-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_sessions_schema",
		Description: "Returns the DB schema of the plan and session tables (workout_plan, workout_session, session_day, session_exercise, session_set): columns, types, nullable, default.",
	}, h.GetSessionsSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_active_session",
		Description: "Returns the user's active workout session with all days, exercises and sets, or a note that there is none.",
	}, h.GetActiveSessionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_sessions",
		Description: "Returns a page of the user's finished (completed or canceled) sessions, newest first. Optional: page (default 1), size (default 10, max 100).",
	}, h.ListSessionsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_latest_plan",
		Description: "Returns the user's most recently generated workout plan snapshot: days, exercises, prescribed sets, reps and weights.",
	}, h.GetLatestPlanTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_stats_summary",
		Description: "Returns workouts count, total duration, volume (kg), sets and reps over completed sessions, plus volume per muscle group and an overall volume chart per day. Optional: period (all_time, last_month, last_week).",
	}, h.GetStatsSummaryTool())

	return s
}

// NewHTTPHandler serves the tools over streamable HTTP, one stateless server per request,
// bound to the user resolved by the auth middleware.
func NewHTTPHandler(service contextService) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			return nil
		}
		return NewServer(service, userID)
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})
}
