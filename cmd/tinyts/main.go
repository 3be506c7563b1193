package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/funvibe/tinyts/internal/ast"
	"github.com/funvibe/tinyts/internal/cache"
	"github.com/funvibe/tinyts/internal/config"
	"github.com/funvibe/tinyts/internal/driver"
	"github.com/funvibe/tinyts/internal/prettyprinter"
	"github.com/funvibe/tinyts/internal/report"
	"github.com/funvibe/tinyts/internal/termcodec"
)

const usage = `Usage: tinyts [options] <file|dir>...
       tinyts cache clean|stats
       tinyts print <file>...

Type-checks term trees (YAML or JSON) and prints each program's type.

Options:
  -v               log cache activity to stderr
  -o text|yaml     output format (default text)
  --no-cache       do not read or write the result cache
  --color MODE     auto, always or never (default from tinyts.yaml)
  -help            show this message
`

// options holds the parsed command line.
type options struct {
	verbose bool
	format  string
	noCache bool
	color   string
	args    []string
}

func parseArgs(args []string) (*options, error) {
	opts := &options{format: report.FormatText}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-v" || arg == "--verbose":
			opts.verbose = true
		case arg == "--no-cache":
			opts.noCache = true
		case arg == "-o" || arg == "--output" || arg == "--color":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			i++
			if arg == "--color" {
				opts.color = args[i]
			} else {
				opts.format = args[i]
			}
		case strings.HasPrefix(arg, "--color="):
			opts.color = strings.TrimPrefix(arg, "--color=")
		case strings.HasPrefix(arg, "-o="):
			opts.format = strings.TrimPrefix(arg, "-o=")
		case arg == "--":
			opts.args = append(opts.args, args[i+1:]...)
			return opts, nil
		case strings.HasPrefix(arg, "-") && arg != "-":
			return nil, fmt.Errorf("unknown option %s", arg)
		default:
			opts.args = append(opts.args, arg)
		}
	}
	return opts, nil
}

// expandPaths replaces directories with the term files they contain.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Missing files are reported per file by the driver
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if driver.IsSourceFile(path) && d.Name() != config.ProjectFileName {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(wd)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if opts.color != "" {
		cfg.Color = opts.color
	}
	if opts.noCache {
		cfg.NoCache = true
	}
	return cfg, cfg.Validate()
}

func runCache(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("cache: expected clean or stats")
	}
	store, err := cache.Open(ctx, cfg.CachePath())
	if err != nil {
		return err
	}
	defer store.Close()

	switch args[0] {
	case "clean":
		if err := store.Clean(ctx); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "cleaned %s\n", store.Path())
	case "stats":
		st, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: %d entries, %d failed, %d runs\n", store.Path(), st.Entries, st.Failures, st.Runs)
	default:
		return fmt.Errorf("cache: unknown command %q", args[0])
	}
	return nil
}

func decodeFile(path string) (ast.Term, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return termcodec.DecodeTerm(path, source)
}

// runPrint shows each term file as TypeScript source.
func runPrint(paths []string, stdout io.Writer) int {
	code := 0
	for i, path := range paths {
		term, err := decodeFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tinyts: %v\n", err)
			code = 1
			continue
		}
		if len(paths) > 1 {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "// %s\n", path)
		}
		fmt.Fprint(stdout, prettyprinter.Format(term))
	}
	return code
}

func runCheck(ctx context.Context, cfg *config.Config, opts *options, stdout io.Writer) (int, error) {
	printer, err := report.NewPrinter(stdout, opts.format, cfg.Color)
	if err != nil {
		return 2, err
	}

	paths, err := expandPaths(opts.args)
	if err != nil {
		return 2, err
	}
	if len(paths) == 0 {
		return 2, fmt.Errorf("no term files found")
	}

	var store *cache.Store
	if !cfg.NoCache {
		store, err = cache.Open(ctx, cfg.CachePath())
		if err != nil {
			// Checking still works without the cache
			log.Printf("cache disabled: %v", err)
		} else {
			defer store.Close()
		}
	}

	d, err := driver.New(cfg, store)
	if err != nil {
		return 2, err
	}
	d.Verbose = opts.verbose
	if opts.verbose {
		log.Printf("run %s: %d file(s), %d worker(s)", d.RunID, len(paths), d.Workers)
	}

	results, err := d.CheckFiles(ctx, paths)
	if err != nil {
		return 2, err
	}
	if err := printer.Print(results); err != nil {
		return 2, err
	}
	if driver.Failed(results) > 0 {
		return 1, nil
	}
	return 0, nil
}

func run(args []string, stdout io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	switch args[0] {
	case "-help", "--help", "help", "-h":
		fmt.Fprint(stdout, usage)
		return 0
	}

	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tinyts: %v\n\n%s", err, usage)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tinyts: %v\n", err)
		return 2
	}

	if len(opts.args) > 0 && opts.args[0] == "cache" {
		if err := runCache(ctx, cfg, opts.args[1:], stdout); err != nil {
			fmt.Fprintf(os.Stderr, "tinyts: %v\n", err)
			return 2
		}
		return 0
	}

	if len(opts.args) > 0 && opts.args[0] == "print" {
		paths, err := expandPaths(opts.args[1:])
		if err != nil || len(paths) == 0 {
			fmt.Fprintf(os.Stderr, "tinyts: print: no term files\n")
			return 2
		}
		return runPrint(paths, stdout)
	}

	code, err := runCheck(ctx, cfg, opts, stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tinyts: %v\n", err)
	}
	return code
}

func main() {
	log.SetFlags(0)          // Disable timestamp in logs
	log.SetOutput(os.Stderr) // Keep stdout for results
	os.Exit(run(os.Args[1:], os.Stdout))
}
