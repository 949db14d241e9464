// easel は Easel言語のインタプリタ。
// ファイルを指定すれば実行し、指定しなければREPLを起動する。
//
//	easel [--dbg] [--config FILE] [--max-depth N] [FILE]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"easel/config"
	"easel/diag"
	"easel/evaluator"
	"easel/lexer"
	"easel/object"
	"easel/parser"
	"easel/repl"
	"easel/term"
)

// 終了コード。
const (
	exitOK    = 0
	exitError = 1 // プログラムのエラー（字句・構文・実行時）
	exitUsage = 2 // 引数や設定の誤り
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("easel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("dbg", false, "trace the parser and log evaluation events to stderr")
	configPath := fs.String("config", "", "configuration file (default ./"+config.DefaultFile+" if present)")
	maxDepth := fs.Int("max-depth", 0, "maximum function call depth")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: easel [flags] [FILE]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	// フラグは設定ファイルと環境変数より優先する
	if *debug {
		cfg.Debug = true
	}
	if *maxDepth != 0 {
		cfg.MaxDepth = *maxDepth
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if cfg.Path != "" {
		logger.Debug("config loaded", "path", cfg.Path)
	}

	opts := []evaluator.Option{
		evaluator.WithMaxDepth(cfg.MaxDepth),
		evaluator.WithLogger(logger),
	}
	color := cfg.UseColor(term.IsTerminal(os.Stderr))
	var trace io.Writer
	if cfg.Debug {
		trace = stderr
	}

	if fs.NArg() == 0 {
		if term.IsTerminal(stdin) {
			if err := repl.StartInteractive(stdout, trace, cfg.History, color, opts...); err != nil {
				fmt.Fprintln(stderr, err)
				return exitError
			}
			return exitOK
		}
		repl.Start(stdin, stdout, trace, opts...)
		return exitOK
	}

	path := fs.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "easel: %v\n", err)
		return exitError
	}

	opts = append(opts, evaluator.WithOutput(stdout))
	if err := runFile(string(src), trace, logger, opts...); err != nil {
		fmt.Fprint(stderr, diag.Render(err, path, string(src), color))
		return exitError
	}
	return exitOK
}

// runFile はソースを字句解析・構文解析・実行する。
// trace が nil でなければパーサーのトレースを書き出す。
func runFile(src string, trace io.Writer, logger *slog.Logger, opts ...evaluator.Option) error {
	start := time.Now()
	tokens, err := lexer.Scan(src)
	if err != nil {
		return err
	}
	logger.Debug("scanned", "tokens", len(tokens), "elapsed", time.Since(start))

	start = time.Now()
	p := parser.New(tokens)
	p.Trace(trace)
	program, err := p.ParseProgram()
	if err != nil {
		return err
	}
	logger.Debug("parsed", "statements", len(program.Statements), "elapsed", time.Since(start))

	start = time.Now()
	_, err = evaluator.New(opts...).Run(program, object.NewEnvironment())
	logger.Debug("evaluated", "elapsed", time.Since(start), "ok", err == nil)
	return err
}
