package build

import (
	"fmt"
	"io"

	"windjammer/internal/errors"
)

// Report prints the diagnostics of a build grouped by file, followed by the
// error and warning summary
func Report(w io.Writer, res *Result) {
	files, groups := res.Diagnostics.ByFile()
	for _, file := range files {
		reporter := errors.NewErrorReporter(file, res.Sources[file])
		fmt.Fprint(w, reporter.FormatAll(groups[file]))
	}
	if res.Diagnostics.Len() > 0 {
		fmt.Fprintln(w, res.Diagnostics.Summary())
	}
}

// RecordStatistics adds the diagnostics of a build to the statistics file
// under home
func RecordStatistics(home string, res *Result) error {
	if res.Diagnostics.Len() == 0 {
		return nil
	}
	stats, err := errors.LoadStatistics(home)
	if err != nil {
		return err
	}
	stats.Record(res.Diagnostics.Items())
	return stats.Save()
}
