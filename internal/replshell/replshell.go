// Package replshell is a thin line-edited REPL front end driving
// computeTerm over the editor channel (§4.3, §6): a liner-backed
// prompt/history/completion loop generalized to vela's
// normalize-and-render evaluation.
package replshell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/velalang/vela/internal/channel"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

const historyFileName = ".vela_history"

// Shell is a REPL front end over a channel.Server's computeTerm handler.
type Shell struct {
	Server  *channel.Server
	URI     string // synthetic URI the REPL's input is attributed to
	Version string
}

// New creates a Shell.
func New(server *channel.Server, version string) *Shell {
	return &Shell{Server: server, URI: "<repl>", Version: version}
}

// Run drives the read-eval-print loop until EOF or :quit.
func (s *Shell) Run(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyPath := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("vela"), bold(s.Version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if strings.HasPrefix(input, ":") {
			for _, cmd := range []string{":help", ":quit"} {
				if strings.HasPrefix(cmd, input) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt("vela> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case ":quit", ":q":
			fmt.Fprintln(out, green("Goodbye!"))
			return
		case ":help", ":h":
			fmt.Fprintln(out, "Commands: :help, :quit")
			continue
		}

		resp := s.Server.ComputeTerm(channel.ComputeTermRequest{URI: s.URI, Kind: channel.FullyNormalize})
		if resp.BadInput {
			fmt.Fprintf(out, "%s: no term at this position\n", red("Error"))
			continue
		}
		fmt.Fprintln(out, resp.Rendered)
	}

	if f, err := os.Create(historyPath); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}
