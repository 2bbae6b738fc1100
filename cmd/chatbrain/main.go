package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chatbrain/internal/audit"
	"chatbrain/internal/catalog"
	"chatbrain/internal/config"
	"chatbrain/internal/contracts"
	"chatbrain/internal/httpapi"
	"chatbrain/internal/pipeline"
	"chatbrain/internal/strategist"
)

const appName = "chatbrain"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: turn-by-turn paid-chat decision engine\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  serve   Run the HTTP service")
		fmt.Fprintln(os.Stderr, "  decide  Decide from a signals-in request file")
		fmt.Fprintln(os.Stderr, "  auto    Decide from raw messages (signals derived)")
		fmt.Fprintln(os.Stderr, "  plan    Strategist plan operations")
		fmt.Fprintln(os.Stderr, "  demo    Print a demo auto_decide payload")
		fmt.Fprintln(os.Stderr, "  help    Show this help")
	}

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	var err error
	switch args[0] {
	case "serve":
		err = runServe(args[1:])
	case "decide":
		err = runDecide(args[1:], false)
	case "auto":
		err = runDecide(args[1:], true)
	case "plan":
		err = runPlan(args[1:])
	case "demo":
		err = runDemo()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return log, nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	addr := fs.String("addr", "", "Listen address (overrides config)")
	auditDB := fs.String("audit-db", "", "Audit DB path (overrides config)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *auditDB != "" {
		cfg.AuditDB = *auditDB
	}

	log, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	var defaultCatalog []contracts.CatalogItem
	if cfg.CatalogDir != "" {
		defaultCatalog, err = catalog.LoadFromDir(cfg.CatalogDir)
		if err != nil {
			return err
		}
		log.Info("catalog loaded",
			zap.String("dir", cfg.CatalogDir),
			zap.Int("items", len(defaultCatalog)),
		)
	}

	server := httpapi.NewServer(log, audit.NewLogger(cfg.AuditDB), defaultCatalog)
	log.Info("serving", zap.String("addr", cfg.ListenAddr))
	return http.ListenAndServe(cfg.ListenAddr, server.Routes())
}

func runDecide(args []string, derive bool) error {
	name := "decide"
	if derive {
		name = "auto"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	inputPath := fs.String("input", "-", "Request JSON file (- for stdin)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInput(*inputPath)
	if err != nil {
		return err
	}

	log, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	var decision contracts.Decision
	if derive {
		var in contracts.AutoInput
		if err := json.Unmarshal(data, &in); err != nil {
			return fmt.Errorf("parse request: %w", err)
		}
		in.Catalog = catalog.Ensure(in.Catalog)
		decision, err = pipeline.AutoDecide(in, log)
	} else {
		var in contracts.BrainInput
		if err := json.Unmarshal(data, &in); err != nil {
			return fmt.Errorf("parse request: %w", err)
		}
		decision, err = pipeline.Decide(in, log)
	}
	if err != nil {
		return err
	}
	return printJSON(decision)
}

func runPlan(args []string) error {
	if len(args) == 0 {
		return errors.New("plan requires a subcommand: gen or check")
	}
	switch args[0] {
	case "gen":
		return runPlanGen(args[1:])
	case "check":
		return runPlanCheck(args[1:])
	default:
		return fmt.Errorf("unknown plan subcommand: %s", args[0])
	}
}

func runPlanGen(args []string) error {
	fs := flag.NewFlagSet("plan gen", flag.ExitOnError)
	inputPath := fs.String("input", "-", "StrategistInput JSON file (- for stdin)")
	configPath := fs.String("config", "", "Path to YAML config file")
	timeout := fs.Duration("timeout", 60*time.Second, "Generator call deadline")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInput(*inputPath)
	if err != nil {
		return err
	}
	var in strategist.StrategistInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse strategist input: %w", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	gen, err := buildGenerator(cfg.Generator)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out, err := pipeline.Plan(ctx, in, gen, audit.NewLogger(cfg.AuditDB), nil)
	if err != nil {
		return err
	}
	return printJSON(out)
}

func runPlanCheck(args []string) error {
	fs := flag.NewFlagSet("plan check", flag.ExitOnError)
	showDiff := fs.Bool("diff", false, "Show unified diff against the canonical form")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("plan check requires exactly one plan file")
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plan: %w", err)
	}
	out, err := strategist.ParseAndValidate(string(data))
	if err != nil {
		return err
	}

	if *showDiff {
		diff, err := strategist.DiffCanonical(string(data), out)
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Println("plan is canonical")
			return nil
		}
		fmt.Print(diff)
		return nil
	}

	fmt.Printf("plan ok: mission=%s version=%s\n", out.Mission, out.PlanVersion)
	return nil
}

func buildGenerator(cfg config.Generator) (strategist.Generator, error) {
	switch cfg.Provider {
	case "mock":
		return &strategist.MockGenerator{}, nil
	case "http":
		gc := strategist.DefaultHTTPGeneratorConfig(cfg.APIKey())
		if cfg.Model != "" {
			gc.Model = cfg.Model
		}
		if cfg.BaseURL != "" {
			gc.BaseURL = cfg.BaseURL
		}
		return strategist.NewHTTPGenerator(gc)
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Provider)
	}
}

func runDemo() error {
	return printJSON(map[string]any{
		"messages": map[string]any{
			"fan_last":     []map[string]string{{"text": "hey babe 😊 what do you like? any pics"}},
			"creator_last": []map[string]string{},
		},
		"memory":  map[string]any{"storybook": "we joked about tacos yesterday"},
		"profile": map[string]any{"fan_id": "u1", "tier": "silver", "relationship_age_days": 3},
		"budgets": contracts.DefaultBudgets(),
		"context": map[string]any{"local_hour": 21, "consecutive_no_reply": 0},
		"catalog": []any{},
	})
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
