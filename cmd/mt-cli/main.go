package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goliatone/go-modeltranslation/internal/app"
	"github.com/goliatone/go-modeltranslation/internal/config"
	"github.com/goliatone/go-modeltranslation/internal/prompt"
	pkgopenapi "github.com/goliatone/go-modeltranslation/pkg/openapi"
	"github.com/goliatone/go-modeltranslation/pkg/panel"
	"github.com/goliatone/go-modeltranslation/pkg/status"
)

const usage = `usage: mt-cli <command> [flags]

commands:
  status         print the translation status grid of a model
  translate      walk cells needing attention and fix them interactively
  registrations  print the registrations declared by an OpenAPI document
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "status":
		err = runStatus(ctx, args, os.Stdout)
	case "translate":
		err = runTranslate(ctx, args, prompt.NewSurveyDriver(os.Stdout))
	case "registrations":
		err = runRegistrations(ctx, args, os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if errors.Is(err, prompt.ErrAborted) {
		os.Exit(130)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

type common struct {
	env    string
	model  string
	lang   string
	status string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.env, "env", ".env", "dotenv file to load before reading MT_* variables")
	fs.StringVar(&c.model, "model", "", `model id ("app.model"); defaults to the first registered model`)
	fs.StringVar(&c.lang, "lang", "", "restrict to one language")
	fs.StringVar(&c.status, "status", "", "comma separated status labels to keep")
}

func (c *common) open(ctx context.Context) (*app.App, *panel.Service, error) {
	cfg, err := config.Load(c.env)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if c.model == "" {
		return a, a.Services[0], nil
	}
	svc, ok := a.Service(c.model)
	if !ok {
		_ = a.Close()
		return nil, nil, fmt.Errorf("unknown model %q", c.model)
	}
	return a, svc, nil
}

func (c *common) statuses() ([]status.Label, error) {
	var out []status.Label
	for _, part := range strings.Split(c.status, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		label, ok := status.ParseLabel(part)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", part)
		}
		out = append(out, label)
	}
	return out, nil
}

func runStatus(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	statuses, err := c.statuses()
	if err != nil {
		return err
	}
	a, svc, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return printGrid(ctx, svc, panel.Query{Language: c.lang, Statuses: statuses}, out)
}

func printGrid(ctx context.Context, svc *panel.Service, q panel.Query, out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for q.Page = 1; ; q.Page++ {
		grid, err := svc.Grid(ctx, q)
		if err != nil {
			return err
		}
		if q.Page == 1 {
			header := []string{"ID"}
			for _, col := range grid.Columns {
				header = append(header, col.Name)
			}
			fmt.Fprintln(w, strings.Join(header, "\t"))
		}
		for _, row := range grid.Rows {
			line := []string{row.ID}
			for _, cell := range row.Cells {
				line = append(line, string(cell.Status))
			}
			fmt.Fprintln(w, strings.Join(line, "\t"))
		}
		if grid.Page >= grid.Pages {
			break
		}
	}
	return w.Flush()
}

func runTranslate(ctx context.Context, args []string, driver prompt.Driver) error {
	var c common
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	statuses, err := c.statuses()
	if err != nil {
		return err
	}
	a, svc, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := prompt.NewSession(driver, svc)
	if err != nil {
		return err
	}
	sum, err := session.Run(ctx, c.lang, statuses...)
	if infoErr := driver.Info(ctx, fmt.Sprintf("visited %d, written %d, confirmed %d, skipped %d",
		sum.Visited, sum.Written, sum.Confirmed, sum.Skipped)); infoErr != nil && err == nil {
		err = infoErr
	}
	return err
}

func runRegistrations(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("registrations", flag.ContinueOnError)
	source := fs.String("source", "", "OpenAPI document path or URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	src := parseSource(*source)
	if src == nil {
		return fmt.Errorf("invalid source: %q", *source)
	}
	doc, err := pkgopenapi.NewLoader(pkgopenapi.WithHTTPFallback(10*time.Second)).Load(ctx, src)
	if err != nil {
		return err
	}
	regs, err := pkgopenapi.Registrations(ctx, doc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(regs)
}

func parseSource(raw string) pkgopenapi.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path)
}
