// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"
	"strings"

	"github.com/ComedicChimera/olive"

	"windjammer/internal/build"
)

const version = "0.1.0"

// valueArgs name the options that take a value, by long and short name
var valueArgs = map[string]bool{"target": true, "t": true, "output": true, "o": true}

func newCLI() *olive.Command {
	cli := olive.NewCLI("wj", "wj compiles Windjammer sources to Rust, JavaScript and WebAssembly", true)

	buildCmd := cli.AddSubcommand("build", "compile a source file or project directory", true)
	buildCmd.AddPrimaryArg("path", "the .wj file or project directory to build", true)
	buildCmd.AddSelectorArg("target", "t", "the backend to generate code for", false, []string{"systems", "script", "wasm"})
	buildCmd.AddStringArg("output", "o", "the directory generated files are written to", false)
	buildCmd.AddFlag("no-cargo", "nc", "only generate sources; do not run cargo afterwards")

	initCmd := cli.AddSubcommand("init", "write a wj.toml project file", true)
	initCmd.AddPrimaryArg("path", "the project directory", true)
	initCmd.AddSelectorArg("target", "t", "the default backend of the project", false, []string{"systems", "script", "wasm"})

	cacheCmd := cli.AddSubcommand("lsp-cache", "manage the language server cache", true)
	cacheCmd.AddSubcommand("clean", "remove every cached file record", false)

	cli.AddSubcommand("version", "print the wj version", false)
	return cli
}

// parseArgs parses a command line, accepting both `--output out` and
// `--output=out`
func parseArgs(args []string) (*olive.ArgParseResult, error) {
	return olive.ParseArgs(newCLI(), joinValues(args))
}

// joinValues rewrites `--name value` into the `--name=value` form olive reads
func joinValues(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name := strings.TrimLeft(arg, "-")
		if i > 0 && strings.HasPrefix(arg, "-") && !strings.Contains(arg, "=") &&
			valueArgs[name] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, arg+"="+args[i+1])
			i++
			continue
		}
		out = append(out, arg)
	}
	return out
}

func main() {
	result, err := parseArgs(os.Args)
	if err != nil {
		build.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(2)
	}

	ok := true
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		ok = execBuildCommand(subResult)
	case "init":
		ok = execInitCommand(subResult)
	case "lsp-cache":
		ok = execCacheCommand(subResult)
	case "version":
		build.PrintInfoMessage("wj version", version)
	}
	if !ok {
		os.Exit(1)
	}
}
