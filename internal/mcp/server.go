// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/salonsuite/bella/application/service"
	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/template"
	"github.com/salonsuite/bella/domain/trend"
)

// CalendarGenerator generates content calendars for MCP tools.
type CalendarGenerator interface {
	Generate(ctx context.Context, params service.GenerateParams) (calendar.Calendar, error)
}

// TrendLookup resolves the current trend set for a niche.
type TrendLookup interface {
	Lookup(ctx context.Context, niche string) (trend.Set, error)
}

// TemplateLister lists reusable content templates.
type TemplateLister interface {
	List(ctx context.Context, params service.TemplateListParams) ([]template.Template, error)
}

// Server wraps the MCP server with bella-specific tools.
type Server struct {
	mcpServer *server.MCPServer
	calendars CalendarGenerator
	trends    TrendLookup
	templates TemplateLister
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(calendars CalendarGenerator, trends TrendLookup, templates TemplateLister, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		calendars: calendars,
		trends:    trends,
		templates: templates,
		logger:    logger,
	}

	mcpServer := server.NewMCPServer(
		"bella",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all bella tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	generateTool := mcp.NewTool("generate_calendar",
		mcp.WithDescription("Generate a social media content calendar for a salon business"),
		mcp.WithString("niche",
			mcp.Required(),
			mcp.Description("Business niche, e.g. 'hair salon' or 'nail salon'"),
		),
		mcp.WithString("city",
			mcp.Required(),
			mcp.Description("City the business operates in"),
		),
		mcp.WithNumber("days",
			mcp.Description("Number of days to generate (default: 7, max: 30)"),
		),
		mcp.WithBoolean("persist",
			mcp.Description("Store the generated calendar (default: true)"),
		),
	)
	mcpServer.AddTool(generateTool, s.handleGenerateCalendar)

	trendsTool := mcp.NewTool("get_trends",
		mcp.WithDescription("Get the current trending audio and hashtags for a niche"),
		mcp.WithString("niche",
			mcp.Required(),
			mcp.Description("Business niche to look up trends for"),
		),
	)
	mcpServer.AddTool(trendsTool, s.handleGetTrends)

	templatesTool := mcp.NewTool("list_templates",
		mcp.WithDescription("List reusable content templates"),
		mcp.WithString("niche",
			mcp.Description("Filter by niche"),
		),
		mcp.WithString("theme",
			mcp.Description("Filter by theme: transformation, education, behind_scenes, client_focus, trends"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum templates to return (default: 20)"),
		),
	)
	mcpServer.AddTool(templatesTool, s.handleListTemplates)
}

// handleGenerateCalendar handles the generate_calendar tool invocation.
func (s *Server) handleGenerateCalendar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	niche, err := request.RequireString("niche")
	if err != nil {
		return mcp.NewToolResultError("niche is required"), nil
	}
	city, err := request.RequireString("city")
	if err != nil {
		return mcp.NewToolResultError("city is required"), nil
	}

	days := request.GetInt("days", 7)
	persist := request.GetBool("persist", true)

	cal, err := s.calendars.Generate(ctx, service.GenerateParams{
		Niche:       niche,
		City:        city,
		Days:        days,
		SkipPersist: !persist,
	})
	if err != nil {
		s.logger.Error("calendar generation failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	type entryResult struct {
		Day      int    `json:"day"`
		Activity string `json:"activity"`
		Script   string `json:"script"`
		Caption  string `json:"caption"`
		Hashtags string `json:"hashtags"`
		PostTime string `json:"post_time"`
		CTA      string `json:"cta"`
	}
	type calendarResult struct {
		ID      int64         `json:"id,omitempty"`
		Niche   string        `json:"niche"`
		City    string        `json:"city"`
		Days    int           `json:"days"`
		Method  string        `json:"generation_method"`
		Entries []entryResult `json:"entries"`
	}

	entries := make([]entryResult, 0, len(cal.Entries()))
	for _, e := range cal.Entries() {
		entries = append(entries, entryResult{
			Day:      e.Day(),
			Activity: e.Activity(),
			Script:   e.Script(),
			Caption:  e.Caption(),
			Hashtags: e.Hashtags(),
			PostTime: e.PostTime(),
			CTA:      e.CTA(),
		})
	}

	jsonBytes, err := json.Marshal(calendarResult{
		ID:      cal.ID(),
		Niche:   cal.Niche(),
		City:    cal.City(),
		Days:    cal.DaysGenerated(),
		Method:  string(cal.Method()),
		Entries: entries,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleGetTrends handles the get_trends tool invocation.
func (s *Server) handleGetTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	niche, err := request.RequireString("niche")
	if err != nil {
		return mcp.NewToolResultError("niche is required"), nil
	}

	set, err := s.trends.Lookup(ctx, niche)
	if err != nil {
		s.logger.Error("trend lookup failed", slog.String("niche", niche), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("trend lookup failed: %v", err)), nil
	}

	jsonBytes, err := json.Marshal(map[string]string{
		"niche":    niche,
		"audio":    set.Audio(),
		"hashtags": set.Hashtags(),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleListTemplates handles the list_templates tool invocation.
func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := service.TemplateListParams{
		Niche: request.GetString("niche", ""),
		Theme: request.GetString("theme", ""),
		Limit: request.GetInt("limit", 20),
	}

	templates, err := s.templates.List(ctx, params)
	if err != nil {
		s.logger.Error("template listing failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("template listing failed: %v", err)), nil
	}

	type templateResult struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Niche      string `json:"niche"`
		Theme      string `json:"theme"`
		Activity   string `json:"activity"`
		Script     string `json:"script"`
		UsageCount int64  `json:"usage_count"`
	}

	results := make([]templateResult, len(templates))
	for i, t := range templates {
		results[i] = templateResult{
			ID:         strconv.FormatInt(t.ID(), 10),
			Name:       t.Name(),
			Niche:      t.Niche(),
			Theme:      string(t.Theme()),
			Activity:   t.Activity(),
			Script:     t.Script(),
			UsageCount: t.UsageCount(),
		}
	}

	jsonBytes, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
