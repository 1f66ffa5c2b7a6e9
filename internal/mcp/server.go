package mcp

import (
	"log/slog"

	"github.com/claude/planfit/internal/catalog"
	"github.com/claude/planfit/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
// The dialogue controller (an LLM agent host) drives the whole
// conversation through these tools; every call is self-contained and
// all cross-turn state lives in the stores.
func New(db *storage.DB, cat *catalog.Catalog, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("PlanFit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("PlanFit workout plan generator. Collect a user profile through the form, validate and save it, generate a personalized weekly workout plan, and manage sessions, refinements, and feedback."),
	)

	h := &handlers{db: db, cat: cat, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolCollectProfileForm, Handler: h.collectProfileForm},
		server.ServerTool{Tool: toolValidateProfile, Handler: h.validateProfile},
		server.ServerTool{Tool: toolSaveProfile, Handler: h.saveProfile},
		server.ServerTool{Tool: toolGetLatestProfile, Handler: h.getLatestProfile},
		server.ServerTool{Tool: toolGeneratePlan, Handler: h.generatePlan},
		server.ServerTool{Tool: toolSaveSession, Handler: h.saveSession},
		server.ServerTool{Tool: toolGetUserSessions, Handler: h.getUserSessions},
		server.ServerTool{Tool: toolGetLatestSession, Handler: h.getLatestSession},
		server.ServerTool{Tool: toolAddRefinement, Handler: h.addRefinement},
		server.ServerTool{Tool: toolCollectFeedback, Handler: h.collectFeedback},
	)

	s.AddResources(
		server.ServerResource{Resource: resProfileForm, Handler: h.profileForm},
		server.ServerResource{Resource: resCatalogSummary, Handler: h.catalogSummary},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	db  *storage.DB
	cat *catalog.Catalog
	log *slog.Logger
}

// --- Resource definitions ---

var resProfileForm = mcp.NewResource(
	"planfit://profile_form",
	"Profile Form",
	mcp.WithResourceDescription("The profile registration form schema: fields, bounds, and goal options"),
	mcp.WithMIMEType("application/json"),
)

var resCatalogSummary = mcp.NewResource(
	"planfit://catalog_summary",
	"Catalog Summary",
	mcp.WithResourceDescription("Exercise dataset summary: totals by type, body part, and difficulty level"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"planfit://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The ten most recently updated sessions across all users"),
	mcp.WithMIMEType("application/json"),
)
