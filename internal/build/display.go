package build

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// Build phases, in the order they run
const (
	PhaseParsing   = "Parsing"
	PhaseAnalyzing = "Analyzing"
	PhaseLowering  = "Lowering"
	PhaseEmitting  = "Emitting"
	PhaseWriting   = "Writing"
	PhaseCargo     = "Cargo"
)

const maxPhaseLength = len(PhaseAnalyzing)

// Display shows build progress. Interactive displays animate a spinner per
// phase; plain displays print one line per finished phase; a nil display
// prints nothing.
type Display struct {
	out         io.Writer
	interactive bool

	spinner    *pterm.SpinnerPrinter
	phase      string
	phaseStart time.Time
}

// NewDisplay returns a display on stdout, animated when stdout is a terminal
func NewDisplay() *Display {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return &Display{out: os.Stdout, interactive: interactive}
}

// NewPlainDisplay returns a display writing unanimated lines to out
func NewPlainDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

// Header prints the target line shown before a build
func (d *Display) Header(name, target string) {
	if d == nil {
		return
	}
	fmt.Fprint(d.out, "wj building ")
	fmt.Fprint(d.out, d.paint(InfoColorFG, name))
	fmt.Fprint(d.out, " -- target: ")
	fmt.Fprintln(d.out, d.paint(InfoColorFG, target))
}

// BeginPhase starts a phase
func (d *Display) BeginPhase(phase string) {
	if d == nil {
		return
	}
	d.phase = phase
	d.phaseStart = time.Now()
	if !d.interactive {
		return
	}

	d.spinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))
	d.spinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}
	d.spinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}
	d.spinner.Start(phase + "..." + d.padding())
}

// EndPhase finishes the current phase
func (d *Display) EndPhase(success bool) {
	if d == nil || d.phase == "" {
		return
	}
	elapsed := fmt.Sprintf("(%.3fs)", time.Since(d.phaseStart).Seconds())
	switch {
	case d.spinner != nil && success:
		d.spinner.Success(d.phase+d.padding(), elapsed)
	case d.spinner != nil:
		d.spinner.Fail(d.phase + d.padding())
	case success:
		fmt.Fprintf(d.out, "Done %s%s%s\n", d.phase, d.padding(), elapsed)
	default:
		fmt.Fprintf(d.out, "Fail %s\n", d.phase)
	}
	d.spinner = nil
	d.phase = ""
}

func (d *Display) padding() string {
	n := maxPhaseLength - len(d.phase) + 2
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}

// Finished prints the closing line of a build
func (d *Display) Finished(success bool, summary string) {
	if d == nil {
		return
	}
	fmt.Fprintln(d.out)
	if success {
		fmt.Fprint(d.out, d.paint(SuccessColorFG, "All done! "))
	} else {
		fmt.Fprint(d.out, d.paint(ErrorColorFG, "Build failed. "))
	}
	fmt.Fprintf(d.out, "(%s)\n", summary)
}

func (d *Display) paint(c pterm.Color, s string) string {
	if !d.interactive {
		return s
	}
	return c.Sprint(s)
}

// PrintErrorMessage prints a Go error with a tag
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message with a tag
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message with a tag
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// errNoSources is returned when a directory build finds nothing to compile
var errNoSources = errors.New("no .wj source files found")
