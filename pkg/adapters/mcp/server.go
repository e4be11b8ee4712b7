package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunArgs are the arguments of the run_machine tool.
type RunArgs struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description"`
	Input       string `json:"input"`
	MaxSteps    int    `json:"max_steps,omitempty"`
	Blank       string `json:"blank,omitempty"`
}

// RunResponse is the structured output of run_machine.
type RunResponse struct {
	Result *domain.Result `json:"result" jsonschema_description:"The outcome of the run"`
	Halted bool           `json:"halted" jsonschema_description:"Whether the machine reached accept or reject"`
}

// ValidateArgs are the arguments of the validate_machine tool.
type ValidateArgs struct {
	Description string `json:"description"`
	Strict      bool   `json:"strict,omitempty"`
}

// ValidateResponse is the structured output of validate_machine.
type ValidateResponse struct {
	Valid  bool              `json:"valid" jsonschema_description:"False when an error (or, in strict mode, any issue) was found"`
	Issues []validator.Issue `json:"issues" jsonschema_description:"Findings about the machine"`
}

// Server wraps the turing engine and exposes it as an MCP Server.
type Server struct {
	mcpServer *server.MCPServer
	store     ports.ResultStore
	logger    *slog.Logger
	maxSteps  int
	blank     byte
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists every run and exposes the stored runs as resources.
func WithStore(store ports.ResultStore) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMaxSteps caps every run; tool calls may only lower the cap.
func WithMaxSteps(n int) Option {
	return func(s *Server) { s.maxSteps = n }
}

// WithBlank sets the default blank symbol.
func WithBlank(b byte) Option {
	return func(s *Server) { s.blank = b }
}

// NewServer creates a new MCP Server instance.
func NewServer(opts ...Option) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	if s.store != nil {
		s.registerResources()
	}
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+hostFor(addr)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func hostFor(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func (s *Server) registerTools() {
	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Load a Turing machine description (initial, accept and reject states on the first three lines, then one (STATE,READ)->(NEXT,WRITE,MOVE) rule per line with MOVE in G/S/D) and run it on an input."),
		mcp.WithString("name", mcp.Description("Machine name recorded on the result (optional)")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Machine description text")),
		mcp.WithString("input", mcp.Description("Initial tape contents")),
		mcp.WithNumber("max_steps", mcp.Description("Stop after this many steps (optional)")),
		mcp.WithString("blank", mcp.Description("Blank symbol, a single character (default NUL)")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: validate_machine
	validateTool := mcp.NewTool("validate_machine",
		mcp.WithDescription("Check a machine description for load errors and suspicious rules."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Machine description text")),
		mcp.WithBoolean("strict", mcp.Description("Treat warnings as failures")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: graph_machine
	s.mcpServer.AddTool(mcp.NewTool("graph_machine",
		mcp.WithDescription("Render a machine description as a Mermaid state diagram."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Machine description text")),
	), s.handleGraph)
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (RunResponse, error) {
	blank := s.blank
	switch len(args.Blank) {
	case 0:
	case 1:
		blank = args.Blank[0]
	default:
		return RunResponse{}, fmt.Errorf("blank must be a single character, got %q", args.Blank)
	}
	limit := s.maxSteps
	if args.MaxSteps > 0 && (limit == 0 || args.MaxSteps < limit) {
		limit = args.MaxSteps
	}

	opts := []turing.Option{turing.WithLogger(s.logger), turing.WithBlank(blank), turing.WithMaxSteps(limit)}
	if s.store != nil {
		opts = append(opts, turing.WithStore(s.store))
	}

	var eng ports.Runner = turing.New(opts...)
	m, err := eng.Load(ctx, memory.NewSource(args.Description))
	if err != nil {
		return RunResponse{}, fmt.Errorf("invalid description: %w", err)
	}
	m.Name = args.Name

	result, err := eng.Execute(ctx, m, args.Input)
	if result == nil {
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}
	if err != nil && !errors.Is(err, domain.ErrStuck) && !errors.Is(err, domain.ErrStepLimit) {
		s.logger.Warn("MCP run_machine: run interrupted", "error", err)
	}
	return RunResponse{Result: result, Halted: result.Status.Halted()}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (ValidateResponse, error) {
	m, err := turing.New(turing.WithLogger(s.logger)).Load(ctx, memory.NewSource(args.Description))
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("invalid description: %w", err)
	}
	report := validator.Validate(m)
	issues := report.Issues
	if issues == nil {
		issues = []validator.Issue{}
	}
	return ValidateResponse{Valid: report.OK(args.Strict), Issues: issues}, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	desc, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := turing.New(turing.WithLogger(s.logger)).Load(ctx, memory.NewSource(desc))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid description: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(m, nil)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: turing://runs
	s.mcpServer.AddResource(mcp.NewResource("turing://runs", "Stored run IDs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "turing://runs",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
