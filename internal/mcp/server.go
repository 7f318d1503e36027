package mcp

import (
	"log/slog"

	"github.com/claude/cardcarnage/internal/app"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(svc *app.Service, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Cards of Carnage", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Cards of Carnage card-deck workout server. Pick a deck, start a workout, then complete cards one at a time. Each card is an exercise and a rep count; wildcards are 10 reps of a bonus exercise. End early to record a partial workout."),
	)

	h := &handlers{app: svc, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListDecks, Handler: h.listDecks},
		server.ServerTool{Tool: toolStartWorkout, Handler: h.startWorkout},
		server.ServerTool{Tool: toolGetCurrentCard, Handler: h.getCurrentCard},
		server.ServerTool{Tool: toolCompleteCard, Handler: h.completeCard},
		server.ServerTool{Tool: toolEndWorkout, Handler: h.endWorkout},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetSettings, Handler: h.getSettings},
		server.ServerTool{Tool: toolUpdateSettings, Handler: h.updateSettings},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resStats, Handler: h.stats},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	app *app.Service
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"carnage://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every deck with its exercises, instructions, target muscles and wildcard pool"),
	mcp.WithMIMEType("application/json"),
)

var resStats = mcp.NewResource(
	"carnage://stats",
	"All-Time Stats",
	mcp.WithResourceDescription("Total workouts, reps, time and completed decks, plus reps per exercise"),
	mcp.WithMIMEType("application/json"),
)
