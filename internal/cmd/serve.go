package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jlkcz/auditparser/internal/aggregator"
	"github.com/jlkcz/auditparser/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var servePortFlag string

var serveCmd = &cobra.Command{
	Use:   "serve [paths...]",
	Short: "Follow audit logs and serve the event stream over HTTP",
	Long: `Run the follow pipeline and expose it over HTTP: /api/stats returns a
live snapshot of event counts per profile and action, /ws streams every
classified event as JSON, and /healthz reports pipeline health.

Examples:
  auditparser serve
  auditparser serve --port 9090 "/var/log/audit/audit.log*"`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePortFlag, "port", "", "HTTP listen port (default: 8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nauditparser shutting down...")
		cancel()
	}()

	pipeline, err := startPipeline(ctx, args)
	if err != nil {
		return err
	}

	agg := aggregator.New(pipeline.events, pipeline.hub.Dropped, func() int {
		return len(pipeline.watcher.Paths())
	})
	go agg.Start(ctx)

	port := servePortFlag
	if port == "" {
		port = viper.GetString("port")
	}

	fmt.Fprintf(os.Stderr, "auditparser serving on :%s\n", port)
	return server.New(pipeline.hub, agg, port).Start()
}
