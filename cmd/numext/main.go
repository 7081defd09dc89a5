// Command numext evaluates numext operations from the command line, either
// in-process through the native boundary or through the wasm module.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/reglet-dev/numext/boundary"
	"github.com/reglet-dev/numext/config"
	"github.com/reglet-dev/numext/domain/entities"
	"github.com/reglet-dev/numext/host"
	"github.com/reglet-dev/numext/internal/abi"
	numextlog "github.com/reglet-dev/numext/log"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to a YAML config file (default: $"+config.EnvVar+")")
		wasmFile    = flag.String("wasm", "", "Evaluate through this wasm module instead of in-process")
		list        = flag.Bool("list", false, "List operations matching an optional glob pattern and exit")
		describe    = flag.Bool("describe", false, "Print the manifest as JSON and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: numext [-config file] [-wasm file] <op> <args...>")
		fmt.Fprintln(os.Stderr, "       numext -list [pattern]")
		fmt.Fprintln(os.Stderr, "       numext [-wasm file] -describe")
		fmt.Fprintln(os.Stderr, "       numext [-wasm file] -i  (interactive mode)")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*configFile, *wasmFile, *list, *describe, *interactive, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, wasmFile string, listOnly, describe, interactive bool, args []string, out io.Writer) error {
	ctx := context.Background()

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	if listOnly {
		return printOperations(out, args, isTerminal(out))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	host.SetLogger(logger)

	ev, err := newEvaluator(ctx, cfg, wasmFile)
	if err != nil {
		return err
	}
	defer ev.Close(ctx)

	switch {
	case describe:
		m, err := ev.Describe(ctx)
		if err != nil {
			return fmt.Errorf("describe: %w", err)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case interactive:
		return runInteractive(ev, wasmFile)
	}

	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("no operation given")
	}
	op, ok := boundary.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown operation %q (see -list)", args[0])
	}
	result, err := ev.Eval(ctx, op, args[1:])
	if err != nil {
		return err
	}
	logger.Debug("evaluated", zap.String("op", op.Name), zap.Strings("args", args[1:]), zap.String("result", result))
	fmt.Fprintln(out, result)
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		cfg, err := config.FromEnv()
		if err != nil {
			return cfg, fmt.Errorf("load config from $%s: %w", config.EnvVar, err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func newEvaluator(ctx context.Context, cfg config.Config, wasmFile string) (evaluator, error) {
	if wasmFile == "" {
		slogger := numextlog.Setup(cfg.SlogLevel(), os.Stderr)
		b := boundary.New(abi.NewLedger(abi.NewHeapAllocator()),
			boundary.WithConfig(cfg),
			boundary.WithLogger(slogger),
		)
		return &nativeEvaluator{b: b}, nil
	}

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	rt, err := host.New(ctx, data, host.WithStdio(os.Stdout, os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	return &wasmEvaluator{rt: rt}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printOperations(out io.Writer, patterns []string, styled bool) error {
	ops, err := boundary.MatchOperations(patterns...)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		return fmt.Errorf("no operation matches %s", strings.Join(patterns, ", "))
	}
	for _, op := range ops {
		fmt.Fprintln(out, formatOperation(op, styled))
	}
	return nil
}

func formatOperation(op entities.OperationManifest, styled bool) string {
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	ps := params(op)
	parts := make([]string, len(ps))
	for i, p := range ps {
		if p.typ == "" {
			parts[i] = render(typeStyle, p.name)
			continue
		}
		parts[i] = p.name + ": " + render(typeStyle, p.typ)
	}
	line := render(funcStyle, op.Name) + "(" + strings.Join(parts, ", ") + ") -> " + render(typeStyle, op.Result)

	var notes []string
	for _, s := range op.Sentinels {
		notes = append(notes, s.Condition+" => "+s.Value)
	}
	if op.Release != "" {
		notes = append(notes, "release with "+op.Release)
	}
	if len(notes) > 0 {
		line += "  " + render(helpStyle, "["+strings.Join(notes, "; ")+"]")
	}
	return line
}
