// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido puzzle tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/puzzleservice"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *puzzleservice.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *puzzleservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_puzzle",
		mcp.WithDescription("Get the current word-chain puzzle: start word, target word, "+
			"minimum step count and theme. The solution path is NOT included; use "+
			"get_solution if you are a trusted consumer."),
	), s.getPuzzle)

	s.mcp.AddTool(mcp.NewTool("get_solution",
		mcp.WithDescription("Get the hidden solution path of the current puzzle. "+
			"Trusted consumers only; never reveal the path to players."),
	), s.getSolution)

	s.mcp.AddTool(mcp.NewTool("generate_puzzle",
		mcp.WithDescription("Run a new puzzle generation round and make the result the "+
			"current puzzle. May take several seconds while association lookups run."),
	), s.generatePuzzle)

	s.mcp.AddTool(mcp.NewTool("get_associations",
		mcp.WithDescription("Get the association candidates for a word, exactly as the "+
			"puzzle engine sees them. Served from the cache when possible."),
		mcp.WithString("word", mcp.Required(), mcp.Description("Word to look up")),
	), s.getAssociations)

	s.mcp.AddTool(mcp.NewTool("list_puzzles",
		mcp.WithDescription("List previously generated puzzles, newest first."),
	), s.listPuzzles)

	s.mcp.AddTool(mcp.NewTool("cache_stats",
		mcp.WithDescription("Report the size of the association cache. Useful for "+
			"judging how warm the engine is before triggering generation."),
	), s.cacheStats)

	s.mcp.AddTool(mcp.NewTool("get_play_contract",
		mcp.WithDescription("Returns the canonical description of how a word-chain "+
			"puzzle is played and judged. Call this before guiding a player."),
	), s.getPlayContract)

	// Resource: how-to-play contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://how-to-play", "How To Play",
			mcp.WithResourceDescription("Canonical rules of the word-chain puzzle."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readHowToPlayResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getPuzzle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.svc.Current()
	if err != nil {
		return mcp.NewToolResultError("no puzzle available yet; run generate_puzzle first"), nil
	}
	view := map[string]any{
		"id":           p.ID,
		"start":        p.Start,
		"target":       p.Target,
		"min_steps":    p.MinSteps,
		"theme":        p.Theme,
		"generated_at": p.GeneratedAt,
	}
	out, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getSolution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.svc.Current()
	if err != nil {
		return mcp.NewToolResultError("no puzzle available yet"), nil
	}
	return mcp.NewToolResultText(strings.Join(p.Path, " -> ")), nil
}

func (s *Server) generatePuzzle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.svc.Generate(ctx)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrQuotaExceeded):
			return mcp.NewToolResultError("oracle call budget exhausted; try again later"), nil
		case errors.Is(err, apperr.ErrNoPathFound):
			return mcp.NewToolResultError("no valid puzzle path found this round"), nil
		default:
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("generated: %s (%s -> %s, %d steps)",
		p.ID, p.Start, p.Target, p.MinSteps)), nil
}

func (s *Server) getAssociations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Associations(ctx, word)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPuzzles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	puzzles, err := s.svc.History(0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(puzzles) == 0 {
		return mcp.NewToolResultText("no puzzles generated yet"), nil
	}
	var lines []string
	for _, p := range puzzles {
		lines = append(lines, fmt.Sprintf("%s  %s -> %s  (%d steps, %s)",
			p.ID, p.Start, p.Target, p.MinSteps, p.GeneratedAt.Format("2006-01-02 15:04")))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) cacheStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(fmt.Sprintf("cached words: %d", s.svc.CachedWords())), nil
}

func (s *Server) getPlayContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(HowToPlayContract), nil
}

func (s *Server) readHowToPlayResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://how-to-play",
			MIMEType: "text/markdown",
			Text:     HowToPlayContract,
		},
	}, nil
}
