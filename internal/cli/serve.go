package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/feed"
	"github.com/roostlabs/roost/internal/index"
	"github.com/roostlabs/roost/internal/session"
	"github.com/roostlabs/roost/internal/ui"
	"github.com/roostlabs/roost/internal/watcher"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a live feed of the workspace over WebSocket",
	Long: `Serve the workspace as a live feed for editors and level viewers.

A connecting client immediately receives a full snapshot of every
indexed catalog, then a fresh snapshot each time a catalog file
changes on disk. Clients may send ping messages and get pong replies
with server time for latency probes.

Endpoints:
  /ws        WebSocket feed
  /snapshot  current snapshot as plain JSON (curl-friendly)
  /health    liveness probe

Examples:
  roost serve
  roost serve --addr 0.0.0.0:7433`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workspacePath := getWorkspacePath()

		wcfg, err := loadWorkspaceConfigSafe(workspacePath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix roost.yaml and try again")
		}

		db, err := index.Open(workspacePath)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		logger := log.New(os.Stderr, "[roost-serve] ", log.LstdFlags)

		// Bring the index current before the first snapshot goes out.
		if err := refreshIndex(db, workspacePath, wcfg.GetPatterns()); err != nil {
			return handleError(ErrDatabaseError, err, "Run 'roost reindex' and retry")
		}

		hub := feed.NewHub(logger)
		publish := func() {
			snap, err := feed.BuildSnapshot(db)
			if err != nil {
				logger.Printf("snapshot build failed: %v", err)
				return
			}
			if err := hub.Publish(snap); err != nil {
				logger.Printf("publish failed: %v", err)
			}
		}
		publish()

		w, err := watcher.New(watcher.Config{
			WorkspacePath: workspacePath,
			Database:      db,
			Patterns:      wcfg.GetPatterns(),
			OnReindex: func(path string, err error) {
				if err != nil {
					logger.Printf("reindex %s: %v", path, err)
					return
				}
				publish()
			},
		})
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		srv := feed.NewServer(feed.ServerConfig{
			Addr:   serveAddr,
			Hub:    hub,
			Logger: logger,
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Println("\nShutting down feed server...")
			cancel()
		}()

		fmt.Printf("Serving workspace feed: %s\n", ui.FilePath(workspacePath))
		fmt.Printf("  ws://%s/ws\n", srv.Addr())
		fmt.Println("Press Ctrl+C to stop")

		errCh := make(chan error, 2)
		go func() { errCh <- w.Start(ctx) }()
		go func() { errCh <- srv.Start(ctx) }()

		err = <-errCh
		cancel()
		<-errCh

		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// refreshIndex walks the workspace and reindexes files whose mtime is
// newer than what the index recorded, dropping rows for deleted files.
func refreshIndex(db *index.Database, workspacePath string, patterns []string) error {
	if _, err := db.RemoveDeletedFiles(workspacePath); err != nil {
		return err
	}
	return session.WalkCatalogFiles(workspacePath, patterns, func(result session.WalkResult) error {
		if result.Error != nil {
			return nil
		}
		indexedMtime, err := db.FileMtime(result.RelativePath)
		if err == nil && indexedMtime > 0 && result.FileMtime <= indexedMtime {
			return nil
		}
		return db.IndexParse(result.RelativePath, result.FileMtime, result.Result)
	})
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default 127.0.0.1:7433)")

	rootCmd.AddCommand(serveCmd)
}
