// Package mcp exposes a taxaquery engine as a Model Context Protocol server, so agents
// can expand and validate taxonomy queries as tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/taxaquery"
	"github.com/aretw0/taxaquery/internal/logging"
	"github.com/aretw0/taxaquery/internal/sanitize"
	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/aretw0/taxaquery/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine is the part of the taxaquery engine the MCP server needs.
type Engine interface {
	Parse(text string) (domain.Tree, error)
	Expand(ctx context.Context, tree domain.Tree) (domain.Result, error)
	Taxonomy() ports.TaxonomyClient
}

// ExpandResponse is the structured output of the expand_query tool.
type ExpandResponse struct {
	Query  string        `json:"query" jsonschema_description:"The query in canonical form"`
	Result domain.Result `json:"result" jsonschema_description:"Nested arrays of taxon names"`
}

// ParseResponse is the structured output of the parse_query tool.
type ParseResponse struct {
	Query string `json:"query" jsonschema_description:"The query in canonical form"`
	Depth int    `json:"depth" jsonschema_description:"Nesting depth of the query"`
}

// LookupResponse is the structured output of the lookup_taxon tool.
type LookupResponse struct {
	Taxon     string   `json:"taxon" jsonschema_description:"The taxon that was looked up"`
	Extension string   `json:"extension" jsonschema_description:"children, parent or siblings"`
	Taxa      []string `json:"taxa" jsonschema_description:"Related taxa (a single element for parent)"`
}

type queryArgs struct {
	Query string `json:"query"`
}

type lookupArgs struct {
	Taxon     string `json:"taxon"`
	Extension string `json:"extension"`
}

// Server wraps an Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("taxaquery-mcp", taxaquery.Version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
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

func (s *Server) registerTools() {
	expandTool := mcp.NewTool("expand_query",
		mcp.WithDescription("Expand a taxonomy query such as '(Coleoptera:siblings, (Homo, Pan))' into nested lists of taxon names. "+
			"A ':children', ':parent' or ':siblings' suffix is replaced by the related taxa; parentheses nest."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Query text")),
		mcp.WithOutputSchema[ExpandResponse](),
	)
	s.mcpServer.AddTool(expandTool, mcp.NewStructuredToolHandler(s.handleExpand))

	parseTool := mcp.NewTool("parse_query",
		mcp.WithDescription("Validate a taxonomy query without resolving it and return its canonical form."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Query text")),
		mcp.WithOutputSchema[ParseResponse](),
	)
	s.mcpServer.AddTool(parseTool, mcp.NewStructuredToolHandler(s.handleParse))

	lookupTool := mcp.NewTool("lookup_taxon",
		mcp.WithDescription("Look up the children, parent or siblings of a single taxon."),
		mcp.WithString("taxon", mcp.Required(), mcp.Description("Taxon name")),
		mcp.WithString("extension", mcp.Required(), mcp.Description("Relation to resolve"),
			mcp.Enum("children", "parent", "siblings")),
		mcp.WithOutputSchema[LookupResponse](),
	)
	s.mcpServer.AddTool(lookupTool, mcp.NewStructuredToolHandler(s.handleLookup))
}

func (s *Server) handleExpand(ctx context.Context, request mcp.CallToolRequest, args queryArgs) (ExpandResponse, error) {
	query, err := sanitize.Query(args.Query)
	if err != nil {
		return ExpandResponse{}, err
	}
	tree, err := s.engine.Parse(query)
	if err != nil {
		return ExpandResponse{}, err
	}
	result, err := s.engine.Expand(ctx, tree)
	if err != nil {
		s.logger.Warn("expand_query failed", "query", query, "err", err)
		return ExpandResponse{}, err
	}
	return ExpandResponse{Query: tree.String(), Result: result}, nil
}

func (s *Server) handleParse(ctx context.Context, request mcp.CallToolRequest, args queryArgs) (ParseResponse, error) {
	query, err := sanitize.Query(args.Query)
	if err != nil {
		return ParseResponse{}, err
	}
	tree, err := s.engine.Parse(query)
	if err != nil {
		return ParseResponse{}, err
	}
	return ParseResponse{Query: tree.String(), Depth: tree.Depth()}, nil
}

var errUnknownExtension = errors.New("extension must be children, parent or siblings")

func (s *Server) handleLookup(ctx context.Context, request mcp.CallToolRequest, args lookupArgs) (LookupResponse, error) {
	client := s.engine.Taxonomy()
	resp := LookupResponse{Taxon: args.Taxon, Extension: args.Extension}

	var err error
	switch args.Extension {
	case domain.ExtensionChildren.Keyword():
		resp.Taxa, err = client.Children(ctx, args.Taxon)
	case domain.ExtensionSiblings.Keyword():
		resp.Taxa, err = client.Siblings(ctx, args.Taxon)
	case domain.ExtensionParent.Keyword():
		var parent string
		parent, err = client.Parent(ctx, args.Taxon)
		resp.Taxa = []string{parent}
	default:
		return LookupResponse{}, fmt.Errorf("%w, got %q", errUnknownExtension, args.Extension)
	}
	if err != nil {
		return LookupResponse{}, err
	}
	if resp.Taxa == nil {
		resp.Taxa = []string{}
	}
	return resp, nil
}
