package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/gymsessions/internal/stats"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListSize = 10

// Handler handles MCP tool requests: parses input, calls the service, formats the MCP result.
type Handler struct {
	service contextService
	// boundUserID, when set, wins over any user_id argument (HTTP mode, user from the auth token).
	boundUserID int
}

func NewHandler(service contextService, boundUserID int) *Handler {
	return &Handler{
		service:     service,
		boundUserID: boundUserID,
	}
}

type UserInput struct {
	UserID int `json:"user_id,omitempty" jsonschema:"Id of the user, ignored when the server is bound to an authenticated user"`
}

type ListSessionsInput struct {
	UserID int `json:"user_id,omitempty" jsonschema:"Id of the user, ignored when the server is bound to an authenticated user"`
	Page   int `json:"page,omitempty" jsonschema:"Page number starting at 1 (default 1)"`
	Size   int `json:"size,omitempty" jsonschema:"Page size between 1 and 100 (default 10)"`
}

type StatsSummaryInput struct {
	UserID int    `json:"user_id,omitempty" jsonschema:"Id of the user, ignored when the server is bound to an authenticated user"`
	Period string `json:"period,omitempty" jsonschema:"One of all_time, last_month, last_week (default all_time)"`
}

func (h *Handler) resolveUser(requested int) (int, error) {
	if h.boundUserID > 0 {
		return h.boundUserID, nil
	}
	if requested <= 0 {
		return 0, fmt.Errorf("user_id is required")
	}
	return requested, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// GetSessionsSchemaTool returns the MCP tool handler for get_sessions_schema.
func (h *Handler) GetSessionsSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// GetActiveSessionTool returns the MCP tool handler for get_active_session.
func (h *Handler) GetActiveSessionTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, err := h.resolveUser(in.UserID)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		session, err := h.service.GetActiveSession(ctx, userID)
		if err != nil {
			return errorResult("Error fetching active session: " + err.Error()), nil, nil
		}
		if session == nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "No active session."}},
			}, nil, nil
		}
		return jsonResult(session), nil, nil
	}
}

// ListSessionsTool returns the MCP tool handler for list_sessions.
func (h *Handler) ListSessionsTool() func(context.Context, *mcp.CallToolRequest, ListSessionsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ListSessionsInput) (*mcp.CallToolResult, any, error) {
		userID, err := h.resolveUser(in.UserID)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		page, size := in.Page, in.Size
		if page == 0 {
			page = 1
		}
		if size == 0 {
			size = defaultListSize
		}
		list, err := h.service.ListSessions(ctx, userID, page, size)
		if err != nil {
			return errorResult("Error listing sessions: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// GetLatestPlanTool returns the MCP tool handler for get_latest_plan.
func (h *Handler) GetLatestPlanTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, err := h.resolveUser(in.UserID)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		plan, err := h.service.GetLatestPlan(ctx, userID)
		if err != nil {
			return errorResult("Error fetching latest plan: " + err.Error()), nil, nil
		}
		return jsonResult(plan), nil, nil
	}
}

// GetStatsSummaryTool returns the MCP tool handler for get_stats_summary.
func (h *Handler) GetStatsSummaryTool() func(context.Context, *mcp.CallToolRequest, StatsSummaryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in StatsSummaryInput) (*mcp.CallToolResult, any, error) {
		userID, err := h.resolveUser(in.UserID)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		period, err := stats.ParsePeriod(in.Period)
		if err != nil {
			return errorResult("Invalid period: use all_time, last_month or last_week"), nil, nil
		}
		summary, err := h.service.GetStatsSummary(ctx, userID, period)
		if err != nil {
			return errorResult("Error fetching stats summary: " + err.Error()), nil, nil
		}
		return jsonResult(summary), nil, nil
	}
}
