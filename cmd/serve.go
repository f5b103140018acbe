package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lfarias/normanav/internal/config"
	"github.com/lfarias/normanav/internal/db"
	"github.com/lfarias/normanav/internal/index"
	"github.com/lfarias/normanav/internal/markers"
	"github.com/lfarias/normanav/internal/norma"
	"github.com/lfarias/normanav/internal/reader"
	"github.com/lfarias/normanav/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the normanav HTTP server",
	Long:  `Loads the document and index artifacts and serves the navigation API: search, index resolution, subject pill, version diff, markers and preferences.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}

		doc, err := norma.Load(filepath.Join(cfg.DataDir, "document.json"))
		if err != nil {
			return fmt.Errorf("loading document: %w", err)
		}
		idx, err := index.Load(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("loading indexes: %w", err)
		}

		dbPath := filepath.Join(cfg.StateDir, "normanav.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		rd := reader.New(doc, idx, cfg.Reading.ReadingLine)

		srv := server.New(server.Config{
			Port:     cfg.Port,
			DataDir:  cfg.DataDir,
			AllowAll: cfg.AllowAll,
		}, database, rd)

		reader.RegisterRoutes(srv.Router(), rd)
		markers.RegisterRoutes(srv.Router(), markers.NewStore(database))

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "normanav v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Data: %s\n", cfg.DataDir)
		fmt.Fprintf(os.Stderr, "  Articles: %d\n", len(doc.Articles()))

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
