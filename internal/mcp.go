package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/libservice"
	"github.com/starford/othala/internal/mcpserver"
	"github.com/starford/othala/internal/storage"
)

// RunMCP serves the library tools over MCP stdio transport. Stdout is
// owned by the protocol, so logs go to stderr.
func RunMCP(cfg *Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store := storage.NewFS()

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	svc := libservice.NewService(store, db, logger)
	return mcpserver.New(svc).ServeStdio()
}
