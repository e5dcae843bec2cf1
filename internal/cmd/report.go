package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jlkcz/auditparser/internal/aggregator"
	"github.com/jlkcz/auditparser/internal/output"
	"github.com/jlkcz/auditparser/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	sinceFlag       string
	profileFlag     string
	regexFlag       string
	logfileFlag     string
	stdinFlag       bool
	unknownOnlyFlag bool
	fixFlag         bool
	tableFlag       bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize AppArmor events from an audit log",
	Long: `Read an audit log (or stdin), classify the AppArmor AVC events since a
given age, deduplicate them with occurrence counts, and print them grouped
by profile. With --fix, print candidate policy rules instead.

Examples:
  auditparser report
  auditparser report -t 2h -p apache2
  auditparser report -r 'apache2.*' --table
  journalctl -u auditd | auditparser report -s --fix`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&sinceFlag, "since", "t", "", "age of the oldest events to show, like 30m, 2h, 1d, 1w (default: 1d)")
	reportCmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "show only events whose profile equals this name")
	reportCmd.Flags().StringVarP(&regexFlag, "regex", "r", "", "show only events whose profile matches this pattern")
	reportCmd.Flags().BoolVarP(&unknownOnlyFlag, "unknown-only", "u", false, "show only unknown lines")
	reportCmd.Flags().BoolVarP(&fixFlag, "fix", "f", false, "show policy fix suggestions instead of event lines")
	reportCmd.Flags().StringVarP(&logfileFlag, "logfile", "l", "", "location of the audit.log file (default: /var/log/audit/audit.log)")
	reportCmd.Flags().BoolVarP(&stdinFlag, "stdin", "s", false, "read log data from stdin")
	reportCmd.Flags().BoolVar(&tableFlag, "table", false, "render profile sections as tables")

	reportCmd.MarkFlagsMutuallyExclusive("logfile", "stdin")
	reportCmd.MarkFlagsMutuallyExclusive("profile", "regex")
}

func runReport(cmd *cobra.Command, args []string) error {
	since := sinceFlag
	if since == "" {
		since = viper.GetString("since")
	}
	cutoff, err := parseSince(since, time.Now())
	if err != nil {
		return err
	}

	filter, err := profileFilter()
	if err != nil {
		return err
	}

	scanner := source.New(cutoff, filter)

	var res *source.Result
	if stdinFlag {
		res, err = scanner.Scan(os.Stdin)
	} else {
		logfile := logfileFlag
		if logfile == "" {
			logfile = viper.GetString("logfile")
		}
		if _, statErr := os.Stat(logfile); statErr != nil {
			fmt.Fprintf(os.Stderr, "No such logfile: %s\n", logfile)
			os.Exit(1)
		}
		res, err = scanner.ScanFile(logfile)
	}
	if err != nil {
		return err
	}

	rep := output.NewReporter(os.Stdout, tableFlag)

	// Known events are processed only without --unknown-only.
	if !unknownOnlyFlag {
		groups := aggregator.GroupByProfile(aggregator.Deduplicate(res.Records))
		if fixFlag {
			err = rep.Fixes(groups)
		} else {
			err = rep.Report(groups)
		}
		if err != nil {
			return err
		}
	}

	return rep.Unknown(aggregator.DeduplicateUnknown(res.Unknown))
}

// profileFilter builds the scan filter from the report flags.
func profileFilter() (source.Filter, error) {
	switch {
	case profileFlag != "":
		return source.ExactProfile(profileFlag), nil
	case regexFlag != "":
		return source.ProfilePattern(regexFlag)
	default:
		return source.NoFilter(), nil
	}
}
