package errors

import (
	"fmt"
	"sort"
)

// Diagnostics collects the diagnostics of one compiler run in discovery order
type Diagnostics struct {
	items []CompilerError
}

// Add appends a diagnostic
func (d *Diagnostics) Add(err CompilerError) {
	d.items = append(d.items, err)
}

// AddAll appends diagnostics in order
func (d *Diagnostics) AddAll(errs []CompilerError) {
	d.items = append(d.items, errs...)
}

// Merge appends every diagnostic of other
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other != nil {
		d.items = append(d.items, other.items...)
	}
}

// Items returns the collected diagnostics
func (d *Diagnostics) Items() []CompilerError {
	return d.items
}

// Len returns the number of collected diagnostics
func (d *Diagnostics) Len() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int {
	return d.count(Error)
}

// WarningCount returns the number of warning-level diagnostics
func (d *Diagnostics) WarningCount() int {
	return d.count(Warning)
}

func (d *Diagnostics) count(level ErrorLevel) int {
	n := 0
	for _, item := range d.items {
		if item.Level == level {
			n++
		}
	}
	return n
}

// HasErrors reports whether at least one error-level diagnostic was collected
func (d *Diagnostics) HasErrors() bool {
	return d.ErrorCount() > 0
}

// Summary renders the final "N error(s), M warning(s)" line
func (d *Diagnostics) Summary() string {
	return fmt.Sprintf("%d error(s), %d warning(s)", d.ErrorCount(), d.WarningCount())
}

// ByFile groups diagnostics by file name. Files keep the order in which their first
// diagnostic was discovered; diagnostics inside a file are ordered by position.
func (d *Diagnostics) ByFile() ([]string, map[string][]CompilerError) {
	var files []string
	groups := make(map[string][]CompilerError)
	for _, item := range d.items {
		name := item.Position.Filename
		if _, seen := groups[name]; !seen {
			files = append(files, name)
		}
		groups[name] = append(groups[name], item)
	}
	for _, name := range files {
		group := groups[name]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Position.Offset < group[j].Position.Offset
		})
	}
	return files, groups
}
