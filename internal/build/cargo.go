package build

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"windjammer/internal/decorators"
)

// wasmTriple is the cargo target of wasm builds
const wasmTriple = "wasm32-unknown-unknown"

// CargoRunner builds the crate generated in dir
type CargoRunner func(dir string, target decorators.Target) error

// CargoArgs returns the cargo command line for a target
func CargoArgs(target decorators.Target) []string {
	args := []string{"build", "--release"}
	if target == decorators.WASM {
		args = append(args, "--target", wasmTriple)
	}
	return args
}

// ExecCargo runs cargo in dir, returning its diagnostics output on failure
func ExecCargo(dir string, target decorators.Target) error {
	cmd := exec.Command("cargo", CargoArgs(target)...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		out := strings.TrimSpace(stderr.String())
		if out == "" {
			return fmt.Errorf("cargo %s: %w", strings.Join(CargoArgs(target), " "), err)
		}
		return fmt.Errorf("cargo %s: %w\n%s", strings.Join(CargoArgs(target), " "), err, out)
	}
	return nil
}
