package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/gymsessions/internal/plans"
	"github.com/2beens/gymsessions/internal/sessions"
	"github.com/2beens/gymsessions/internal/stats"
)

type sessionsReader interface {
	GetActive(ctx context.Context, userID int) (*sessions.Session, error)
	List(ctx context.Context, userID, page, size int) ([]*sessions.Session, int, error)
}

type plansReader interface {
	Latest(ctx context.Context, userID int) (*plans.Snapshot, error)
}

type statsSummarizer interface {
	Summary(ctx context.Context, userID int, period stats.Period) (*stats.Summary, error)
}

// contextService is what the tool handlers read from. All reads are scoped to one user.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	GetActiveSession(ctx context.Context, userID int) (*sessions.Session, error)
	ListSessions(ctx context.Context, userID, page, size int) (*sessions.ListResponse, error)
	GetLatestPlan(ctx context.Context, userID int) (*plans.Snapshot, error)
	GetStatsSummary(ctx context.Context, userID int, period stats.Period) (*stats.Summary, error)
}

// ContextService implements the read-only session context the tools expose.
type ContextService struct {
	schema   SchemaRepo
	sessions sessionsReader
	plans    plansReader
	stats    statsSummarizer
}

func NewContextService(
	schemaRepo SchemaRepo,
	sessionsReader sessionsReader,
	plansReader plansReader,
	statsSummarizer statsSummarizer,
) *ContextService {
	return &ContextService{
		schema:   schemaRepo,
		sessions: sessionsReader,
		plans:    plansReader,
		stats:    statsSummarizer,
	}
}

// GetSchema returns the DB schema of the plan and session tables as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetSessionColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols), nil
}

func formatSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Gym Sessions DB Schema\n\nNo session tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Gym Sessions DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(sessionTables, ", ") + " (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// GetActiveSession returns nil when the user has no active session.
func (s *ContextService) GetActiveSession(ctx context.Context, userID int) (*sessions.Session, error) {
	return s.sessions.GetActive(ctx, userID)
}

func (s *ContextService) ListSessions(ctx context.Context, userID, page, size int) (*sessions.ListResponse, error) {
	list, total, err := s.sessions.List(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}
	return &sessions.ListResponse{Sessions: list, Total: total}, nil
}

func (s *ContextService) GetLatestPlan(ctx context.Context, userID int) (*plans.Snapshot, error) {
	return s.plans.Latest(ctx, userID)
}

func (s *ContextService) GetStatsSummary(ctx context.Context, userID int, period stats.Period) (*stats.Summary, error) {
	return s.stats.Summary(ctx, userID, period)
}
