package mcp

import (
	"context"
	"errors"

	"github.com/claude/cardcarnage/internal/app"
	"github.com/claude/cardcarnage/internal/settings"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultHistoryLimit = 10

// --- Tool definitions ---

var toolListDecks = mcp.NewTool("list_decks",
	mcp.WithDescription("List the available decks with their exercises. Use a deck id with start_workout."),
)

var toolStartWorkout = mcp.NewTool("start_workout",
	mcp.WithDescription("Shuffle a fresh deck and start a workout. Fails if a workout is already in progress."),
	mcp.WithString("deck", mcp.Required(), mcp.Description("Deck id"), mcp.Enum("upper-body", "lower-body", "core-cardio", "full-body")),
)

var toolGetCurrentCard = mcp.NewTool("get_current_card",
	mcp.WithDescription("Show the in-progress workout: current card, progress and elapsed time."),
)

var toolCompleteCard = mcp.NewTool("complete_card",
	mcp.WithDescription("Mark the current card done and advance. Completing the last card finishes the workout and returns its summary."),
)

var toolEndWorkout = mcp.NewTool("end_workout",
	mcp.WithDescription("Stop the in-progress workout early. It is recorded in history as partial."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Past workouts, newest first, with all-time stats."),
	mcp.WithNumber("limit", mcp.Description("Page size. Defaults to 10.")),
	mcp.WithNumber("offset", mcp.Description("Number of workouts to skip. Defaults to 0.")),
)

var toolGetSettings = mcp.NewTool("get_settings",
	mcp.WithDescription("Current settings: wildcards, face card and ace rep values, sound, haptics and theme."),
)

var toolUpdateSettings = mcp.NewTool("update_settings",
	mcp.WithDescription("Change settings. Omitted fields keep their value. Rep values below 1 are raised to 1. Changes apply to the next deck built."),
	mcp.WithBoolean("include_wildcards", mcp.Description("Add two wildcard cards to each deck")),
	mcp.WithNumber("face_card_value", mcp.Description("Reps for J, Q and K")),
	mcp.WithNumber("ace_value", mcp.Description("Reps for an ace")),
	mcp.WithBoolean("sound_effects", mcp.Description("Play sounds")),
	mcp.WithBoolean("haptics", mcp.Description("Vibrate on card actions")),
	mcp.WithString("theme", mcp.Description("Color theme"), mcp.Enum("dark", "light")),
)

// --- Tool handlers ---

func (h *handlers) listDecks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.app.Decks())
}

func (h *handlers) startWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deckID, err := req.RequireString("deck")
	if err != nil {
		return mcp.NewToolResultError("deck parameter is required"), nil
	}

	v, err := h.app.Start(ctx, deckID)
	if err != nil {
		return h.serviceError("start_workout", err), nil
	}
	return jsonResult(v)
}

func (h *handlers) getCurrentCard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.app.Current(ctx)
	if err != nil {
		return h.serviceError("get_current_card", err), nil
	}
	return jsonResult(v)
}

func (h *handlers) completeCard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.app.Complete(ctx)
	if err != nil {
		return h.serviceError("complete_card", err), nil
	}
	return jsonResult(v)
}

func (h *handlers) endWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.app.End(ctx)
	if err != nil {
		return h.serviceError("end_workout", err), nil
	}
	return jsonResult(v)
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultHistoryLimit)
	offset := req.GetInt("offset", 0)
	if limit < 0 || offset < 0 {
		return mcp.NewToolResultError("limit and offset must not be negative"), nil
	}

	page, stats := h.app.History(ctx, limit, offset)
	return jsonResult(map[string]any{
		"workouts": page,
		"stats":    stats,
	})
}

func (h *handlers) getSettings(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.app.Settings(ctx))
}

func (h *handlers) updateSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var p settings.Patch
	if _, ok := args["include_wildcards"]; ok {
		v := req.GetBool("include_wildcards", true)
		p.IncludeWildcards = &v
	}
	if _, ok := args["face_card_value"]; ok {
		v := req.GetInt("face_card_value", 10)
		p.FaceCardValue = &v
	}
	if _, ok := args["ace_value"]; ok {
		v := req.GetInt("ace_value", 11)
		p.AceValue = &v
	}
	if _, ok := args["sound_effects"]; ok {
		v := req.GetBool("sound_effects", true)
		p.SoundEffects = &v
	}
	if _, ok := args["haptics"]; ok {
		v := req.GetBool("haptics", true)
		p.Haptics = &v
	}
	if _, ok := args["theme"]; ok {
		v := req.GetString("theme", string(settings.ThemeDark))
		p.Theme = &v
	}
	return jsonResult(h.app.UpdateSettings(ctx, p))
}

// serviceError turns expected service errors into tool errors and logs the
// rest.
func (h *handlers) serviceError(tool string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, app.ErrUnknownDeck),
		errors.Is(err, app.ErrNoWorkout),
		errors.Is(err, app.ErrWorkoutInProgress):
		return mcp.NewToolResultError(err.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("request failed: " + err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
