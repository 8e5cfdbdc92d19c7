// Package mcpserver exposes read-only case tracking queries as MCP tools.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"casetrack/internal/analyze"
	"casetrack/internal/cases"
	"casetrack/internal/history"
	"casetrack/internal/logging"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server. Every tool call re-reads the case list
// and history file, so the server never holds stale data.
type Server struct {
	MCPServer   *sdkmcp.Server
	CasesFile   string
	HistoryFile string
	Strict      bool

	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStrict makes malformed history rows fail tool calls.
func WithStrict(strict bool) Option {
	return func(s *Server) { s.Strict = strict }
}

// WithLogger sets the logger used for tool calls.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates an MCP server answering from casesFile and historyFile.
func NewServer(casesFile, historyFile, version string, opts ...Option) *Server {
	s := &Server{
		CasesFile:   casesFile,
		HistoryFile: historyFile,
		logger:      logging.New("mcp"),
	}
	for _, o := range opts {
		o(s)
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "casetrack", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "analyze_cases",
		Description: "Compare the case list against the history file. Returns each case's outcome, its key status entries, and history cases missing from the list.",
	}, s.handleAnalyzeCases)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "case_history",
		Description: "Return every stored history row for one case and its current key status entries (case received, interview cancelled, last status).",
	}, s.handleCaseHistory)
}

// --- Tool input/output types ---

type analyzeCasesInput struct {
	CaseIDs []string `json:"case_ids,omitempty" jsonschema:"analyze these case identifiers instead of the case list file"`
}

type analyzeCasesOutput struct {
	Cases        []analyze.CaseResult `json:"cases"`
	Orphans      []string             `json:"orphans,omitempty"`
	TrackedCases int                  `json:"tracked_cases"`
	KeyEntries   int                  `json:"key_entries"`
	Average      float64              `json:"average_entries_per_case"`
	SkippedRows  []string             `json:"skipped_rows,omitempty"`
}

type caseHistoryInput struct {
	CaseID string `json:"case_id" jsonschema:"case identifier, for example a receipt number"`
}

type caseHistoryOutput struct {
	CaseID string           `json:"case_id"`
	Found  bool             `json:"found"`
	Rows   []history.Record `json:"rows"`
	Latest []history.Record `json:"latest"`
}

// --- Tool handlers ---

func (s *Server) handleAnalyzeCases(_ context.Context, _ *sdkmcp.CallToolRequest, input analyzeCasesInput) (*sdkmcp.CallToolResult, analyzeCasesOutput, error) {
	ids := cases.NewSet(input.CaseIDs...)
	if len(input.CaseIDs) == 0 {
		var err error
		if ids, err = cases.Load(s.CasesFile); err != nil {
			return nil, analyzeCasesOutput{}, err
		}
	}
	h, err := s.loadHistory()
	if err != nil {
		return nil, analyzeCasesOutput{}, err
	}

	res := analyze.Analyze(ids, h, nil)
	s.logger.Info("analyze_cases", "cases", ids.Len(), "orphans", len(res.Orphans))

	out := analyzeCasesOutput{
		Cases:        res.Cases,
		Orphans:      res.Orphans,
		TrackedCases: res.TrackedCases,
		KeyEntries:   res.KeyEntries,
		Average:      res.Average(),
	}
	if out.Cases == nil {
		out.Cases = []analyze.CaseResult{}
	}
	for _, row := range h.Skipped {
		out.SkippedRows = append(out.SkippedRows, row.Error())
	}
	return nil, out, nil
}

func (s *Server) handleCaseHistory(_ context.Context, _ *sdkmcp.CallToolRequest, input caseHistoryInput) (*sdkmcp.CallToolResult, caseHistoryOutput, error) {
	id := strings.TrimSpace(input.CaseID)
	if id == "" {
		s.logger.Warn("case_history rejected: empty case_id")
		return nil, caseHistoryOutput{}, fmt.Errorf("case_id is required")
	}
	h, err := s.loadHistory()
	if err != nil {
		return nil, caseHistoryOutput{}, err
	}

	out := caseHistoryOutput{
		CaseID: id,
		Rows:   h.Rows(id),
		Latest: h.Latest(id),
	}
	out.Found = len(out.Rows) > 0
	if out.Rows == nil {
		out.Rows = []history.Record{}
	}
	s.logger.Info("case_history", "case", id, "rows", len(out.Rows))
	return nil, out, nil
}

func (s *Server) loadHistory() (*history.History, error) {
	return history.Load(s.HistoryFile, history.WithStrict(s.Strict))
}
