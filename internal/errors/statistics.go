package errors

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	statsDir      = ".windjammer"
	statsFile     = "error_stats.yaml"
	maxRecentKept = 50
)

// Statistics aggregates diagnostics across compiler runs and persists them as YAML
type Statistics struct {
	TotalErrors   int            `yaml:"totalErrors"`
	TotalWarnings int            `yaml:"totalWarnings"`
	ByCode        map[string]int `yaml:"byCode"`
	ByFile        map[string]int `yaml:"byFile"`
	Recent        []RecentError  `yaml:"recent,omitempty"`

	path string
	now  func() time.Time
}

// RecentError is one recorded diagnostic
type RecentError struct {
	Code     string    `yaml:"code"`
	Message  string    `yaml:"message"`
	File     string    `yaml:"file"`
	Line     int       `yaml:"line"`
	Recorded time.Time `yaml:"recorded"`
}

// CodeCount pairs an error code with how often it was seen
type CodeCount struct {
	Code  string
	Count int
}

// StatisticsPath returns the location of the statistics file under home
func StatisticsPath(home string) string {
	return filepath.Join(home, statsDir, statsFile)
}

// LoadStatistics reads the statistics file under home, starting empty when it does not exist
func LoadStatistics(home string) (*Statistics, error) {
	stats := &Statistics{
		ByCode: make(map[string]int),
		ByFile: make(map[string]int),
		path:   StatisticsPath(home),
		now:    time.Now,
	}

	buf, err := os.ReadFile(stats.path)
	if os.IsNotExist(err) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read error statistics: %w", err)
	}
	if err := yaml.Unmarshal(buf, stats); err != nil {
		return nil, fmt.Errorf("failed to parse error statistics %s: %w", stats.path, err)
	}
	if stats.ByCode == nil {
		stats.ByCode = make(map[string]int)
	}
	if stats.ByFile == nil {
		stats.ByFile = make(map[string]int)
	}
	return stats, nil
}

// Record adds errors and warnings to the aggregate; notes are not counted
func (s *Statistics) Record(errs []CompilerError) {
	for _, err := range errs {
		switch err.Level {
		case Error:
			s.TotalErrors++
		case Warning:
			s.TotalWarnings++
		default:
			continue
		}
		if err.Code != "" {
			s.ByCode[err.Code]++
		}
		if err.Position.Filename != "" {
			s.ByFile[err.Position.Filename]++
		}
		s.Recent = append(s.Recent, RecentError{
			Code:     err.Code,
			Message:  err.Message,
			File:     err.Position.Filename,
			Line:     err.Position.Line,
			Recorded: s.now().UTC(),
		})
	}
	if over := len(s.Recent) - maxRecentKept; over > 0 {
		s.Recent = append([]RecentError(nil), s.Recent[over:]...)
	}
}

// TopCodes returns the n most frequent codes, most frequent first
func (s *Statistics) TopCodes(n int) []CodeCount {
	counts := make([]CodeCount, 0, len(s.ByCode))
	for code, count := range s.ByCode {
		counts = append(counts, CodeCount{Code: code, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Code < counts[j].Code
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Save writes the statistics file, creating its directory when needed
func (s *Statistics) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create statistics directory: %w", err)
	}
	buf, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode error statistics: %w", err)
	}
	if err := os.WriteFile(s.path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write error statistics: %w", err)
	}
	return nil
}
