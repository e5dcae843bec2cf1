package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jlkcz/auditparser/internal/model"
)

// Renderer writes classified records to an output stream, one at a time.
// Used by the live (follow) pipeline.
type Renderer interface {
	Render(rec model.Record) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleAllowed = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))             // yellow
	styleDenied  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)  // red bold
	styleAudit   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))             // gray
	styleProfile = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)  // cyan
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))   // cyan bold
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")) // red bold
)

// TextRenderer prints events to the terminal with action-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(rec model.Record) error {
	row := rec.Row()
	ts := time.Unix(rec.Time(), 0).Format("15:04:05")
	tag := styleActionTag(row.Apparmor)
	profile := styleProfile.Render(rec.Profile())

	line := fmt.Sprintf("%s %s %s %s %s", ts, tag, profile, row.Operation, row.Content)
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func styleActionTag(action string) string {
	padded := fmt.Sprintf("%-7s", action)
	switch action {
	case "DENIED":
		return styleDenied.Render(padded)
	case "ALLOWED":
		return styleAllowed.Render(padded)
	default:
		return styleAudit.Render(padded)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each event as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

type jsonEvent struct {
	Kind    model.Kind `json:"kind"`
	Profile string     `json:"profile"`
	model.Row
}

func (r *JSONRenderer) Render(rec model.Record) error {
	return r.enc.Encode(jsonEvent{
		Kind:    rec.Kind(),
		Profile: rec.Profile(),
		Row:     rec.Row(),
	})
}
