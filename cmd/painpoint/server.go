package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/api"
	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/scheduler"
)

const reanalyzeJob = "reanalyze"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the re-analysis schedule, if enabled)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, "")
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Scheduler.Enabled {
		sched, err := scheduler.New(a.cfg.Scheduler.Location().String(), a.logger)
		if err != nil {
			return err
		}
		if err := sched.AddJob(reanalyzeJob, a.cfg.Scheduler.CronExpression, a.reanalyze); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			<-sched.Stop().Done()
		}()
		for _, job := range sched.ListJobs() {
			printStatus("Scheduled", "%s next at %s", job.Name, job.NextRun.Format(time.RFC3339))
		}
	}

	handler := api.NewHandler(api.AppDeps{
		Analyzer:   a.analyzer,
		Classifier: a.classifier,
		Store:      a.store,
		Logger:     a.logger,
		Token:      a.cfg.Server.Token,
		ModelName:  a.cfg.Model.Name,
	})
	if a.cfg.Server.Token == "" {
		printWarning("no server token configured; the API is unauthenticated")
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Start server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		printSuccess("painpoint %s listening on %s", version, a.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		printStep("shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
