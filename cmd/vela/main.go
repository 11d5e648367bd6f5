package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"

	"github.com/velalang/vela/internal/build"
	"github.com/velalang/vela/internal/channel"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/render"
	"github.com/velalang/vela/internal/replshell"
)

var (
	Version = "dev"
	Commit  = "unknown"

	red  = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

// stringList collects a repeatable flag (--module-path), grounded on the
// standard flag.Value pattern.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compile":
		os.Exit(runCompile(os.Args[2:]))
	case "repl":
		os.Exit(runREPL(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "lsp":
		os.Exit(runLSP(os.Args[2:]))
	case "--version":
		fmt.Printf("%s %s (%s)\n", bold("vela"), Version, Commit)
		os.Exit(0)
	case "--help", "-h":
		printHelp()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("vela") + " - cubical term normalizer, module resolver, build orchestrator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vela compile <file> [--library] [--ascii] [--trace]")
	fmt.Println("                      [--pretty-stage <s>] [--pretty-format <f>] [--pretty-dir <d>]")
	fmt.Println("                      [--module-path <dir>]...")
	fmt.Println("  vela repl")
	fmt.Println("  vela watch <path>")
	fmt.Println("  vela lsp")
}

func runCompile(args []string) int {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	library := fs.Bool("library", false, "treat the target as a library root")
	ascii := fs.Bool("ascii", false, "ASCII-only diagnostics")
	prettyStage := fs.String("pretty-stage", "", "pipeline stage to emit a pretty artifact for")
	prettyFormat := fs.String("pretty-format", "", "pretty artifact format")
	prettyDir := fs.String("pretty-dir", "", "directory to write pretty artifacts to")
	trace := fs.Bool("trace", false, "enable a structured trace dump")
	var modulePaths stringList
	fs.Var(&modulePaths, "module-path", "additional module search path (repeatable)")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
		return 1
	}
	target := fs.Arg(0)
	r := render.New(os.Stdout, *ascii)

	logger := log.New(os.Stderr, "vela: ", 0)
	pub := &stdoutPublisher{r: r}
	orch := build.NewOrchestrator(&stubCompiler{modulePaths: modulePaths}, pub, nil, logger)

	registerPath := target
	if *library {
		registerPath = filepath.Dir(target)
	}
	lib, err := orch.RegisterLibrary(registerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}

	if *trace {
		fmt.Fprintf(os.Stderr, "trace: registered library %s (%d sources)\n", lib.Identity(), len(lib.Sources()))
	}
	if *prettyStage != "" {
		writePrettyArtifact(*prettyStage, *prettyFormat, *prettyDir, lib)
	}

	highlights := orch.Reload()
	failed := false
	for _, hasDiag := range highlights {
		if hasDiag {
			failed = true
		}
	}
	if failed {
		return 1
	}
	r.Success(fmt.Sprintf("compiled %s", target))
	return 0
}

func writePrettyArtifact(stage, format, dir string, lib build.Library) {
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	name := stage
	if format != "" {
		name += "." + format
	}
	_ = os.WriteFile(dir+"/"+name, []byte(fmt.Sprintf("stage=%s sources=%v\n", stage, lib.Sources())), 0o644)
}

func runREPL(args []string) int {
	pub := &stdoutPublisher{r: render.New(os.Stdout, false)}
	orch := build.NewOrchestrator(&stubCompiler{}, pub, nil, nil)
	srv := channel.NewServer(&replBackend{orch: orch})
	replshell.New(srv, Version).Run(os.Stdout)
	return 0
}

func runWatch(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing path argument\n", red("Error"))
		return 1
	}
	path := args[0]
	r := render.New(os.Stdout, false)
	logger := log.New(os.Stderr, "vela: ", 0)
	pub := &stdoutPublisher{r: r}
	orch := build.NewOrchestrator(&stubCompiler{}, pub, nil, logger)

	if _, err := orch.RegisterLibrary(path); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}
	orch.Reload()

	w, err := build.NewWatcher(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}
	if err := w.Add(path); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}
	w.Start()
	defer w.Stop()

	r.Success(fmt.Sprintf("watching %s for changes (Ctrl+C to stop)", path))
	for ev := range w.Events() {
		orch.DidChangeWatchedFiles(ev)
		orch.Reload()
	}
	return 0
}

func runLSP(args []string) int {
	pub := &stdoutPublisher{r: render.New(os.Stderr, false)}
	orch := build.NewOrchestrator(&stubCompiler{}, pub, nil, nil)
	_ = channel.NewServer(&replBackend{orch: orch})
	fmt.Fprintln(os.Stderr, "vela lsp: server constructed; no stdio message loop is wired (message framing is the ClientChannel collaborator)")
	return 0
}

// stdoutPublisher renders diagnostics through the Renderer collaborator.
type stdoutPublisher struct {
	r *render.Renderer
}

func (p *stdoutPublisher) PublishDiagnostics(uri string, diags []*errors.Report) {
	for _, d := range diags {
		p.r.Diagnostic(d, "")
	}
}

// stubCompiler is the seam where the external elaborator plugs in (§1):
// this repo owns normalization/resolution/orchestration, not elaboration.
// It recognizes `import Name` lines and reports each Name as written, without
// reimplementing a surface parser. Names are not resolved to source file
// paths, so these edges do not connect to the graph's file nodes.
type stubCompiler struct {
	modulePaths []string
}

var importLineRe = regexp.MustCompile(`(?m)^\s*import\s+([A-Za-z0-9_.]+)`)

func (c *stubCompiler) Compile(uri string, content []byte, primitives *build.PrimitiveFactory) ([]string, []*errors.Report, error) {
	matches := importLineRe.FindAllStringSubmatch(string(content), -1)
	imports := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		// A name already bound by this library's primitive factory (I, Path,
		// Coe, ...) is a builtin reference, not a module import: it never
		// becomes a build-graph edge.
		if _, ok := primitives.Lookup(name); ok {
			continue
		}
		imports = append(imports, name)
	}
	return imports, nil, nil
}

// replBackend is a minimal channel.QueryBackend for the repl/lsp seams;
// query answers beyond Locate are placeholders until the elaborator
// collaborator is wired (§1).
type replBackend struct {
	orch *build.Orchestrator
}

func (b *replBackend) Locate(uri string) bool                  { return true }
func (b *replBackend) Hover(uri string, pos channel.Position) (channel.HoverResponse, bool) {
	return channel.HoverResponse{}, false
}
func (b *replBackend) Definition(uri string, pos channel.Position) (channel.DefinitionResponse, bool) {
	return channel.DefinitionResponse{}, false
}
func (b *replBackend) References(uri string, pos channel.Position) []channel.DefinitionResponse {
	return nil
}
func (b *replBackend) PrepareRename(uri string, pos channel.Position) channel.PrepareRenameResponse {
	return channel.PrepareRenameResponse{}
}
func (b *replBackend) ResolveCodeLens(uri string, lens channel.CodeLens) (channel.CodeLens, bool) {
	return channel.CodeLens{}, false
}
func (b *replBackend) Rename(uri string, pos channel.Position, newName string) []channel.TextEdit {
	return nil
}
func (b *replBackend) CodeLens(uri string) []channel.CodeLens { return nil }
func (b *replBackend) ComputeTerm(req channel.ComputeTermRequest) channel.ComputeTermResponse {
	return channel.ComputeTermResponse{BadInput: true}
}
