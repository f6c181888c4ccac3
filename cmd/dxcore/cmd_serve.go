package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cognicore/dxcore/internal/httpapi"
)

var serveFlags struct {
	port   string
	tables string
	store  string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API",
	Long: `Serve starts the HTTP API: POST /v1/analyze plus assessment history,
reverse keyword lookup and aggregate statistics.

Configuration comes from flags and the environment (.env is loaded when
present): PORT, DXCORE_DB or DATABASE_URL for history, DXCORE_TABLES
for rule tables, DXCORE_LLM_URL, DXCORE_LLM_MODEL and DXCORE_LLM_KEY
for generative guidance.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.port, "port", "", "listen port (default $PORT or 8080)")
	f.StringVar(&serveFlags.tables, "tables", "", "directory of rule table YAML files")
	f.StringVar(&serveFlags.store, "store", "", "SQLite path for assessment history")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	gin.SetMode(getEnv("GIN_MODE", gin.ReleaseMode))

	port := serveFlags.port
	if port == "" {
		port = getEnv("PORT", "8080")
	}

	comp, err := loadComponents(serveFlags.tables)
	if err != nil {
		return err
	}
	engine := newEngine(comp)

	ctx := cmd.Context()
	st, err := openStore(ctx, serveFlags.store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st != nil {
		defer st.Close()
	} else {
		log.Println("no history store configured; assessments will not be persisted")
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           httpapi.New(engine, st).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("dxcore API listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	waitForShutdown(server)
	return nil
}

// waitForShutdown blocks until SIGINT or SIGTERM, then drains in-flight
// requests for up to five seconds.
func waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
