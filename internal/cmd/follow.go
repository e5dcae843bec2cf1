package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jlkcz/auditparser/internal/hub"
	"github.com/jlkcz/auditparser/internal/model"
	"github.com/jlkcz/auditparser/internal/output"
	"github.com/jlkcz/auditparser/internal/source"
	"github.com/jlkcz/auditparser/internal/tailer"
	"github.com/jlkcz/auditparser/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	followOutputFlag  string
	followProfileFlag string
	followRegexFlag   string
)

var followCmd = &cobra.Command{
	Use:   "follow [paths...]",
	Short: "Follow audit logs and stream AppArmor events live",
	Long: `Watch one or more audit logs (or glob patterns) and print each new
AppArmor AVC event as it is written. Tailing resumes from the last
checkpointed offset, so a restarted session does not replay old events.

Examples:
  auditparser follow
  auditparser follow /var/log/audit/audit.log
  auditparser follow "/var/log/audit/audit.log*" --output json
  auditparser follow -p apache2`,
	RunE: runFollow,
}

func init() {
	rootCmd.AddCommand(followCmd)

	followCmd.Flags().StringVarP(&followOutputFlag, "output", "o", "text", "output format: text, json")
	followCmd.Flags().StringVarP(&followProfileFlag, "profile", "p", "", "stream only events whose profile equals this name")
	followCmd.Flags().StringVarP(&followRegexFlag, "regex", "r", "", "stream only events whose profile matches this pattern")
	followCmd.MarkFlagsMutuallyExclusive("profile", "regex")
}

func runFollow(cmd *cobra.Command, args []string) error {
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

	var renderer output.Renderer
	switch strings.ToLower(followOutputFlag) {
	case "json":
		renderer = output.NewJSONRenderer()
	default:
		renderer = output.NewTextRenderer()
	}

	for rec := range pipeline.events {
		if err := renderer.Render(rec); err != nil {
			log.Printf("render error: %v", err)
		}
	}

	return nil
}

// pipeline bundles the running live components.
type pipeline struct {
	watcher *watcher.Watcher
	hub     *hub.Hub
	events  <-chan model.Record
}

// startPipeline wires watcher, tailer, and hub, and starts them. The
// returned events channel closes when the context is cancelled.
func startPipeline(ctx context.Context, args []string) (*pipeline, error) {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{viper.GetString("logfile")}
	}

	w, err := watcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if len(w.Paths()) == 0 {
		return nil, fmt.Errorf("no files matched the given patterns: %v", patterns)
	}

	fmt.Fprintf(os.Stderr, "auditparser watching %d file(s):\n", len(w.Paths()))
	for _, p := range w.Paths() {
		fmt.Fprintf(os.Stderr, "  - %s\n", p)
	}
	fmt.Fprintln(os.Stderr)

	ckpt, err := tailer.NewCheckpoint(filepath.Join(".", ".auditparser-state.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	tail := tailer.New(w, ckpt)

	filter, err := followFilter()
	if err != nil {
		return nil, err
	}

	// Cutoff 0: tailing starts at the end of the file, so age is moot.
	h := hub.New(tail.Lines(), source.New(0, filter))
	events := h.Subscribe()

	go w.Start(ctx)
	go tail.Start(ctx)
	go h.Start(ctx)

	return &pipeline{watcher: w, hub: h, events: events}, nil
}

// followFilter builds the scan filter from the follow flags.
func followFilter() (source.Filter, error) {
	switch {
	case followProfileFlag != "":
		return source.ExactProfile(followProfileFlag), nil
	case followRegexFlag != "":
		return source.ProfilePattern(followRegexFlag)
	default:
		return source.NoFilter(), nil
	}
}
