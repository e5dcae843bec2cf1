package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jlkcz/auditparser/internal/aggregator"
	"github.com/jlkcz/auditparser/internal/model"
)

const fixWarning = `*****************************************************************************
** WARNING! These are only suggestions. Admins discretion needed! WARNING! **
*****************************************************************************`

// Reporter writes the grouped batch report to an output stream.
type Reporter struct {
	w     io.Writer
	table bool
}

// NewReporter creates a Reporter. With table set, profile sections render
// as tables instead of one line per record.
func NewReporter(w io.Writer, table bool) *Reporter {
	return &Reporter{w: w, table: table}
}

// Report emits every profile section in report mode: a header per profile,
// then its records in count-descending order.
func (r *Reporter) Report(groups []aggregator.ProfileGroup) error {
	for _, g := range groups {
		if err := r.header(fmt.Sprintf("===== profile %s ======", g.Profile)); err != nil {
			return err
		}
		if r.table {
			if err := r.renderTable(g.Records); err != nil {
				return err
			}
			continue
		}
		for _, rec := range g.Records {
			if _, err := fmt.Fprintf(r.w, "%3dx: %s\n", rec.Count(), rec.Render()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Fixes emits candidate policy rules instead of report rows. Records whose
// kind has no actionable fix are skipped; order matches Report.
func (r *Reporter) Fixes(groups []aggregator.ProfileGroup) error {
	if _, err := fmt.Fprintln(r.w, styleWarning.Render(fixWarning)); err != nil {
		return err
	}
	for _, g := range groups {
		if err := r.header(fmt.Sprintf("===== profile %s ======", g.Profile)); err != nil {
			return err
		}
		for _, rec := range g.Records {
			fix, ok := rec.SuggestFix()
			if !ok {
				continue
			}
			if _, err := fmt.Fprintln(r.w, fix); err != nil {
				return err
			}
		}
	}
	return nil
}

// Unknown emits the unparseable lines verbatim under their own section.
func (r *Reporter) Unknown(unknown []model.UnknownRecord) error {
	if len(unknown) == 0 {
		return nil
	}
	if err := r.header("===== Unknown/unparseable lines ======"); err != nil {
		return err
	}
	for _, u := range unknown {
		if _, err := fmt.Fprintln(r.w, u.Render()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) header(text string) error {
	_, err := fmt.Fprintln(r.w, styleHeader.Render(text))
	return err
}

// renderTable formats one profile's records as a bordered table.
func (r *Reporter) renderTable(records []model.Record) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("245"))).
		Headers("COUNT", "OPERATION", "CONTENT", "APPARMOR", "TIME")

	for _, rec := range records {
		row := rec.Row()
		t.Row(
			strconv.Itoa(row.Count),
			row.Operation,
			row.Content,
			row.Apparmor,
			time.Unix(row.Time, 0).Format(time.DateTime),
		)
	}

	_, err := fmt.Fprintln(r.w, t.String())
	return err
}
