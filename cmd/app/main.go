package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/llm"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/sprinkle"
	pkgconfig "github.com/starford/raido/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(cfg)
}

func runReview(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if p := cmd.String("preset"); p != "" {
		cfg.Review.Preset = p
	}
	if err := cfg.Review.Validate(); err != nil {
		return err
	}

	svc, _, closeFn, err := internal.NewService(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	res, err := svc.GenerateReview(ctx, time.Now())
	if err != nil {
		var lerr *llm.Error
		switch {
		case errors.Is(err, apperr.ErrNoNotes):
			return fmt.Errorf("no notes were modified in the selected period")
		case errors.As(err, &lerr):
			return fmt.Errorf("model call failed: %w", lerr)
		default:
			return err
		}
	}

	fmt.Printf("Review written to %s (%d of %d notes, %s)\n",
		res.Path, res.Included, res.Scanned, res.Period.Label)
	return nil
}

func runSummarize(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cmd.String("path")
	if path == "" {
		return fmt.Errorf("--path is required")
	}

	svc, _, closeFn, err := internal.NewService(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	summary, err := svc.SummarizeNote(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("note not found: %s", path)
		}
		return err
	}

	fmt.Printf("Updated %s\n\n%s\n", path, summary)
	return nil
}

// terminalInteractor runs the sprinkle prompts over stdin/stdout.
type terminalInteractor struct {
	in  *bufio.Reader
	out io.Writer
}

func (t *terminalInteractor) Instruction(prior string) (string, bool, error) {
	if prior != "" {
		fmt.Fprintf(t.out, "Instruction [%s]: ", prior)
	} else {
		fmt.Fprint(t.out, "Instruction (empty to cancel): ")
	}
	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, err
	}
	line = strings.TrimSpace(line)
	if line == "" && prior != "" {
		return prior, true, nil
	}
	if line == "" {
		return "", false, nil
	}
	return line, true, nil
}

func (t *terminalInteractor) Review(replacement string) (sprinkle.Decision, error) {
	fmt.Fprintf(t.out, "\n--- proposed replacement ---\n%s\n----------------------------\n", replacement)
	for {
		fmt.Fprint(t.out, "[a]ccept / [r]etry / re[j]ect: ")
		line, err := t.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return sprinkle.DecisionReject, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "accept":
			return sprinkle.DecisionAccept, nil
		case "r", "retry":
			return sprinkle.DecisionRetry, nil
		case "j", "reject", "q":
			return sprinkle.DecisionReject, nil
		}
		if err == io.EOF {
			return sprinkle.DecisionReject, nil
		}
	}
}

func runSprinkle(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	selection := cmd.String("selection")
	if f := cmd.String("selection-file"); f != "" {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read selection: %w", err)
		}
		selection = string(data)
	}
	if selection == "" {
		return fmt.Errorf("--selection or --selection-file is required")
	}

	svc, _, closeFn, err := internal.NewService(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	it := &terminalInteractor{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	outcome, err := sprinkle.Run(ctx, svc, selection, it)
	if err != nil {
		return err
	}
	if !outcome.Accepted {
		fmt.Println("No changes made.")
		return nil
	}

	fmt.Printf("\nAccepted replacement:\n\n%s\n", outcome.Replacement)
	return nil
}

func runRuns(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, _, closeFn, err := internal.NewService(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	runs, err := svc.Runs(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %s  (%d/%d notes)\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.OutputPath, r.PeriodLabel,
			r.NotesIncluded, r.NotesScanned)
	}
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "raido",
		Usage: "Periodic review generator for Markdown note vaults",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "review",
				Usage:  "Generate a review document for the configured period",
				Action: runReview,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "preset",
						Usage: fmt.Sprintf("Period preset override (%s)", strings.Join(presetNames(), ", ")),
					},
				},
			},
			{
				Name:   "summarize",
				Usage:  "Summarize one note and merge the summary into it",
				Action: runSummarize,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Vault-relative path of the note",
					},
				},
			},
			{
				Name:   "sprinkle",
				Usage:  "Interactively rewrite a text selection with the model",
				Action: runSprinkle,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "selection",
						Usage: "Text to rewrite",
					},
					&cli.StringFlag{
						Name:  "selection-file",
						Usage: "File holding the text to rewrite",
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "List recently recorded review runs",
				Action: runRuns,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum runs to list",
						Value: 10,
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Serve review tools over MCP stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func presetNames() []string {
	return []string{
		string(models.PresetCurrentWeek),
		string(models.PresetCurrentMonth),
		string(models.PresetLast7Days),
		string(models.PresetLast30Days),
		string(models.PresetCustom),
	}
}
