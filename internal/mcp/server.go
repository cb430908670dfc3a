package mcp

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jlcsearch/jlcsearch-mcp/internal/catalog"
	"github.com/jlcsearch/jlcsearch-mcp/internal/config"
	"github.com/jlcsearch/jlcsearch-mcp/internal/live"
	"github.com/jlcsearch/jlcsearch-mcp/internal/searcher"
)

const (
	// ServerName is the MCP server name
	ServerName = "jlcsearch-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	store    catalog.Store
	searcher *searcher.Searcher
	ingestor *catalog.Ingestor
	cfg      *config.Config
	log      *zap.Logger
}

// NewServer creates a new MCP server instance. When the catalog database
// is missing or empty, the first snapshot is downloaded before serving.
func NewServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	needsIngest := !catalog.Valid(cfg.DatabasePath)

	store, err := catalog.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	ingestor := catalog.NewIngestor(store,
		catalog.WithMirrorURL(cfg.MirrorURL),
		catalog.WithIngestWorkers(cfg.IngestWorkers),
		catalog.WithIngestLogger(log),
	)

	if needsIngest {
		log.Info("catalog database missing or empty, downloading snapshot",
			zap.String("path", cfg.DatabasePath))
		if err := ingestor.Update(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("initial catalog download failed: %w", err)
		}
	}

	client := live.NewClient(
		live.WithBaseURL(cfg.LiveAPIURL),
		live.WithTimeout(time.Duration(cfg.LiveTimeoutSeconds)*time.Second),
		live.WithLogger(log),
	)

	srch, err := searcher.New(store, client,
		searcher.WithWorkers(cfg.LiveWorkers),
		searcher.WithLogger(log),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize searcher: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		store:    store,
		searcher: srch,
		ingestor: ingestor,
		cfg:      cfg,
		log:      log,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() {
		s.searcher.Close()
		_ = s.store.Close()
	}()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchComponentsTool(), s.handleSearchComponents)
	s.mcp.AddTool(getComponentDetailsTool(), s.handleGetComponentDetails)
	s.mcp.AddTool(updateDatabaseTool(), s.handleUpdateDatabase)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
