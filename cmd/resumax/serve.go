package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"resumax/internal/api"
	"resumax/internal/compiler"
	"resumax/internal/engine"
	"resumax/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the resumax HTTP API.

Endpoints:
  POST /api/parse-sections   decompose LaTeX into section blocks
  POST /api/filter-latex     reassemble a document from selections
  POST /api/compile-latex    compile LaTeX to PDF
  GET  /api/templates        list supported resume formats
  GET  /api/health           liveness and compiler availability`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config and RESUMAX_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfgManager.GetListenAddr()
	}

	eng, err := engine.New(cfgManager.GetDebugDirectory(), cfgManager.GetLookbackOverrides())
	if err != nil {
		return err
	}

	comp := compiler.New(
		cfgManager.GetDefaultCompiler(),
		cfgManager.GetWorkDirectory(),
		time.Duration(cfgManager.GetCompileTimeoutSec())*time.Second,
	)

	srv := api.NewServer(eng, comp, logger.GetLogger())

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM via the command context.
	go func() {
		<-cmd.Context().Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting resumax server", logger.String("addr", addr))
	fmt.Println("resumax listening on", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
