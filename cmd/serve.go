package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/watch"
)

const shutdownTimeout = 5 * time.Second

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Builds the site, serves it and rebuilds on changes",
	Long: `The serve command runs a build, then serves the site directory over HTTP
while watching the docs directory. Any change rebuilds the site after a
short quiet period. Stop it with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	if _, err := runBuildProcess(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	w, err := watch.New(watch.Config{
		BaseDir: appConfig.DocsDir,
		Ignore:  serveIgnores(),
		Logger:  logger,
		OnChange: func(_ context.Context, changed []string) error {
			logger.Info("rebuilding site", "changed", len(changed))
			_, err := runBuildProcess()
			return err
		},
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", serverPort),
		Handler:           noCacheHandler(appFs, appConfig.SiteDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() { errCh <- w.Run(ctx) }()
	go func() {
		logger.Info("serving site", "dir", appConfig.SiteDir, "url", fmt.Sprintf("http://localhost:%d", serverPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("server shutdown", "err", shutdownErr)
	}
	return err
}

// serveIgnores keeps the site folder out of the watch when it lives inside
// the docs folder, so writing the site never triggers a rebuild.
func serveIgnores() []string {
	rel, err := filepath.Rel(appConfig.DocsDir, appConfig.SiteDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	rel = filepath.ToSlash(rel)
	return []string{rel, rel + "/**"}
}

// noCacheHandler serves dir with caching disabled and without directory
// listings.
func noCacheHandler(fs afero.Fs, dir string) http.Handler {
	site := afero.NewBasePathFs(fs, dir)
	files := http.FileServer(afero.NewHttpFs(site))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			if ok, _ := afero.Exists(site, path.Join(r.URL.Path, "index.html")); !ok {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8000, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
