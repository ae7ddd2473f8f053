// Command paintmix is a terminal front door for the spectral paint mixing
// engine: it parses flags, calls pkg/engine, and formats output. It owns no
// colour-science logic of its own, matching the teacher's pattern of keeping
// host commands thin over a library package.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"log/slog"

	"github.com/colormix/paintmix/pkg/catalog"
	"github.com/colormix/paintmix/pkg/engine"
	"github.com/colormix/paintmix/pkg/recipe"
)

var (
	verbose = flag.Int("v", 0, "Set log verbosity level (0=ERROR, 1=WARN, 2=INFO, 3=DEBUG)")
	vv      = flag.Bool("vv", false, "Shortcut for -v=3 (maximum verbosity)")
)

func main() {
	verboseCount := 0
	hasVV := false
	for _, arg := range os.Args {
		if arg == "-v" {
			verboseCount++
		} else if arg == "-vv" {
			hasVV = true
			verboseCount = 3
			break
		}
	}

	flag.Parse()

	logLevel := *verbose
	if hasVV {
		logLevel = 3
	} else if *verbose == 0 && verboseCount > 0 {
		logLevel = verboseCount
	}
	setupLogging(logLevel)

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	commandArgs := args[1:]

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch command {
	case "reconstruct":
		err = runReconstruct(ctx, commandArgs)
	case "mix":
		err = runMix(ctx, commandArgs)
	case "search":
		err = runSearch(ctx, commandArgs)
	case "brands":
		err = runBrands(ctx, commandArgs)
	case "batch":
		err = runBatch(ctx, commandArgs)
	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func setupLogging(level int) {
	var logLevel slog.Level
	switch level {
	case 0:
		logLevel = slog.LevelError
	case 1:
		logLevel = slog.LevelWarn
	case 2:
		logLevel = slog.LevelInfo
	default:
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: paintmix <command> [options]

Commands:
  reconstruct -rgb R,G,B        Reconstruct a 31-band reflectance from sRGB
  mix -weights W,W,... file...  Forward-mix reflectance files under K-M theory
  search -rgb R,G,B -strategy S -catalog dir    Search for recipes
  brands                        List the recognized catalog brand ids
  batch config.yaml             Run a batch of recipe searches from a YAML config

Common flags:
  -v=N                          Set log verbosity (0=ERROR .. 3=DEBUG)
  -vv                           Shortcut for -v=3
  -h, --help, help              Show this help message
`)
}

func runReconstruct(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("reconstruct", flag.ContinueOnError)
	rgbFlag := fs.String("rgb", "", "sRGB triple as R,G,B (0-255 each)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, g, b, err := parseRGB(*rgbFlag)
	if err != nil {
		return err
	}

	e := engine.New()
	reflectance, err := e.ReconstructReflectance(r, g, b)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(reflectance)
}

func runMix(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("mix", flag.ContinueOnError)
	weightsFlag := fs.String("weights", "", "comma-separated weights, one per reflectance file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	files := fs.Args()
	if len(files) == 0 {
		return fmt.Errorf("mix: at least one reflectance file required")
	}

	weights, err := parseFloats(*weightsFlag)
	if err != nil {
		return err
	}
	if len(weights) != len(files) {
		return fmt.Errorf("mix: %d weights for %d files", len(weights), len(files))
	}

	reflectances := make([][]float64, len(files))
	for i, path := range files {
		r, err := readReflectanceFile(path)
		if err != nil {
			return err
		}
		reflectances[i] = r
	}

	e := engine.New()
	hex := e.MixedHex(reflectances, weights)
	fmt.Fprintln(os.Stdout, hex)
	return nil
}

func runSearch(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	rgbFlag := fs.String("rgb", "", "target sRGB triple as R,G,B")
	strategyFlag := fs.String("strategy", "all available colours", "recipe search strategy name")
	catalogFlag := fs.String("catalog", "", "directory of <pigment-id>.bin reflectance blobs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, g, b, err := parseRGB(*rgbFlag)
	if err != nil {
		return err
	}

	strategy, err := recipe.ParseStrategy(*strategyFlag)
	if err != nil {
		return err
	}

	pool, err := loadCatalogDir(*catalogFlag)
	if err != nil {
		return err
	}

	e := engine.New()
	target, err := e.ReconstructReflectance(r, g, b)
	if err != nil {
		return err
	}

	results, err := e.RecipeSearch(target, pool, strategy)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(results)
}

func runBrands(_ context.Context, _ []string) error {
	for _, b := range catalog.Brands() {
		fmt.Fprintln(os.Stdout, b)
	}
	return nil
}

func parseRGB(raw string) (r, g, b uint8, err error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected R,G,B, got %q", raw)
	}
	vals := [3]uint8{}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return 0, 0, 0, fmt.Errorf("invalid channel %q", p)
		}
		vals[i] = uint8(n)
	}
	return vals[0], vals[1], vals[2], nil
}

func parseFloats(raw string) ([]float64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func readReflectanceFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := catalog.DecodePigmentBlob(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r[:], nil
}

// loadCatalogDir loads every <id>.bin file in dir as a pigment named after
// its basename, using the hex colour "#000000" as a placeholder display
// value (the real catalog host would supply canonical_hex out of band).
func loadCatalogDir(dir string) ([]catalog.Pigment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var pool []catalog.Pigment
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".bin") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".bin")
		r, err := readReflectanceFile(dir + "/" + entry.Name())
		if err != nil {
			slog.Warn("skipping malformed pigment file", "file", entry.Name(), "error", err)
			continue
		}
		var reflectance [31]float64
		copy(reflectance[:], r)
		pool = append(pool, catalog.Pigment{ID: id, Reflectance: reflectance, CanonicalHex: "#000000"})
	}
	return pool, nil
}
