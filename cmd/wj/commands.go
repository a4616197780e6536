// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ComedicChimera/olive"
	"github.com/fatih/color"

	"windjammer/internal/build"
	"windjammer/internal/config"
	"windjammer/internal/query"
)

// execBuildCommand runs the build subcommand and reports whether it succeeded
func execBuildCommand(result *olive.ArgParseResult) bool {
	startTime := time.Now()
	input, _ := result.PrimaryArg()

	cfg, err := config.Load(input)
	if err != nil {
		build.PrintErrorMessage("Config Error", err)
		return false
	}
	if err := cfg.Apply(overrides(result)); err != nil {
		build.PrintErrorMessage("CLI Usage Error", err)
		return false
	}

	res, err := build.Build(input, build.Options{
		Config:  cfg,
		NoCargo: result.HasFlag("no-cargo"),
		Display: build.NewDisplay(),
	})
	if err != nil {
		build.PrintErrorMessage("Build Error", err)
		return false
	}

	build.Report(os.Stdout, res)
	if home, err := os.UserHomeDir(); err == nil {
		if err := build.RecordStatistics(home, res); err != nil {
			build.PrintWarningMessage("Statistics", err.Error())
		}
	}

	duration := formatDuration(time.Since(startTime))
	if !res.Succeeded() {
		color.Red("Compilation failed after %s", duration)
		return false
	}
	color.Green("Wrote %d file(s) to %s in %s", len(res.Artifacts), res.Output, duration)
	return true
}

func overrides(result *olive.ArgParseResult) config.Overrides {
	var o config.Overrides
	if v, ok := result.Arguments["target"]; ok {
		o.Target = v.(string)
	}
	if v, ok := result.Arguments["output"]; ok {
		o.Output = v.(string)
	}
	return o
}

// execInitCommand writes a project file with default values
func execInitCommand(result *olive.ArgParseResult) bool {
	dir, _ := result.PrimaryArg()
	if err := os.MkdirAll(dir, 0755); err != nil {
		build.PrintErrorMessage("Path Error", err)
		return false
	}

	cfg, err := config.Load(dir)
	if err != nil {
		build.PrintErrorMessage("Config Error", err)
		return false
	}
	if cfg.Path != "" {
		build.PrintWarningMessage("Init", fmt.Sprintf("%s already exists", cfg.Path))
		return false
	}
	if v, ok := result.Arguments["target"]; ok {
		if err := cfg.Apply(config.Overrides{Target: v.(string)}); err != nil {
			build.PrintErrorMessage("CLI Usage Error", err)
			return false
		}
	}

	if err := config.Write(dir, cfg); err != nil {
		build.PrintErrorMessage("Init Error", err)
		return false
	}
	build.PrintInfoMessage("Init", "created "+filepath.Join(dir, config.FileName))
	return true
}

// execCacheCommand runs the lsp-cache subcommands
func execCacheCommand(result *olive.ArgParseResult) bool {
	subcmdName, _, _ := result.Subcommand()
	switch subcmdName {
	case "clean":
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			build.PrintErrorMessage("Path Error", err)
			return false
		}
		path := query.CachePath(cacheDir)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			build.PrintInfoMessage("Cache", "nothing to clean")
			return true
		}

		cache, err := query.OpenDiskCache(path)
		if err != nil {
			build.PrintErrorMessage("Cache Error", err)
			return false
		}
		defer cache.Close()

		n, err := cache.Len()
		if err == nil {
			err = cache.Clear()
		}
		if err != nil {
			build.PrintErrorMessage("Cache Error", err)
			return false
		}
		build.PrintInfoMessage("Cache", fmt.Sprintf("removed %d record(s)", n))
	default:
		build.PrintWarningMessage("lsp-cache", "expected a subcommand: clean")
		return false
	}
	return true
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
