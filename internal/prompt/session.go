package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-modeltranslation/pkg/model"
	"github.com/goliatone/go-modeltranslation/pkg/panel"
	"github.com/goliatone/go-modeltranslation/pkg/status"
)

// Choices offered for every cell, in menu order.
const (
	ChoiceWrite   = "write a new value"
	ChoiceConfirm = "confirm current value"
	ChoiceSkip    = "skip"
	ChoiceStop    = "stop"
)

// DefaultStatuses are the labels visited when a session is given none.
var DefaultStatuses = []status.Label{status.Missing, status.NotUpdated, status.Equal}

// Summary counts what a session did.
type Summary struct {
	Visited   int
	Written   int
	Confirmed int
	Skipped   int
}

// Session walks the cells of one model that need attention and applies the
// user's choice through the panel service.
type Session struct {
	driver Driver
	svc    *panel.Service
}

// NewSession binds driver to svc.
func NewSession(driver Driver, svc *panel.Service) (*Session, error) {
	if driver == nil {
		return nil, errors.New("prompt: nil driver")
	}
	if svc == nil {
		return nil, errors.New("prompt: nil panel service")
	}
	return &Session{driver: driver, svc: svc}, nil
}

type target struct {
	row    string
	cell   panel.Cell
	col    panel.Column
	base   string
	labels string
}

// Run visits every non-default cell of lang (or of every language when lang
// is empty) carrying one of statuses. Stopping or aborting returns the
// summary so far; aborting also returns ErrAborted.
func (s *Session) Run(ctx context.Context, lang string, statuses ...status.Label) (Summary, error) {
	if len(statuses) == 0 {
		statuses = DefaultStatuses
	}
	targets, err := s.collect(ctx, lang, statuses)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	if len(targets) == 0 {
		return sum, s.driver.Info(ctx, "Nothing to translate.")
	}
	for idx, t := range targets {
		sum.Visited++
		header := fmt.Sprintf("[%d/%d] #%s %s (%s)", idx+1, len(targets), t.row, t.cell.Name, t.labels)
		if err := s.driver.Info(ctx, header+"\n  base: "+t.base+"\n  now:  "+t.cell.Preview); err != nil {
			return sum, err
		}

		options := []string{ChoiceWrite}
		if t.col.Tracked {
			options = append(options, ChoiceConfirm)
		}
		options = append(options, ChoiceSkip, ChoiceStop)
		choice, err := s.driver.Select(ctx, SelectConfig{Message: "Action", Options: options})
		if err != nil {
			return sum, err
		}
		if choice < 0 || choice >= len(options) {
			return sum, fmt.Errorf("prompt: invalid choice %d", choice)
		}

		change := panel.Change{Language: t.cell.Language, Name: t.cell.Name, Instance: t.row}
		switch options[choice] {
		case ChoiceWrite:
			value, err := s.ask(ctx, t)
			if err != nil {
				return sum, err
			}
			change.Value = &value
			if _, err := s.svc.Write(ctx, change); err != nil {
				return sum, err
			}
			sum.Written++
		case ChoiceConfirm:
			if _, err := s.svc.Confirm(ctx, change); err != nil {
				return sum, err
			}
			sum.Confirmed++
		case ChoiceSkip:
			sum.Skipped++
		case ChoiceStop:
			return sum, nil
		}
	}
	return sum, nil
}

func (s *Session) ask(ctx context.Context, t target) (string, error) {
	message := t.col.Label
	if s.isText(t.cell.Field) {
		return s.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: t.cell.Value, Help: t.base})
	}
	return s.driver.Input(ctx, InputConfig{Message: message, Default: t.cell.Value, Help: t.base})
}

func (s *Session) isText(field string) bool {
	col, ok := s.svc.Admin().Registry().Column(field)
	return ok && col.Type == model.FieldTypeText
}

// collect snapshots the targets up front so writes do not shift the pages
// being walked.
func (s *Session) collect(ctx context.Context, lang string, statuses []status.Label) ([]target, error) {
	var out []target
	for page := 1; ; page++ {
		grid, err := s.svc.Grid(ctx, panel.Query{Language: lang, Statuses: statuses, Page: page})
		if err != nil {
			return nil, err
		}
		for _, row := range grid.Rows {
			base := make(map[string]string)
			for _, cell := range row.Cells {
				if cell.Language == grid.DefaultLanguage {
					base[cell.Field] = cell.Preview
				}
			}
			for idx, cell := range row.Cells {
				col := grid.Columns[idx]
				if col.Default || !col.Editable || !hasAny(cell, statuses) {
					continue
				}
				out = append(out, target{row: row.ID, cell: cell, col: col, base: base[cell.Field], labels: cell.Labels})
			}
		}
		if grid.Page >= grid.Pages {
			return out, nil
		}
	}
}

func hasAny(cell panel.Cell, statuses []status.Label) bool {
	for _, label := range statuses {
		if cell.Has(label) {
			return true
		}
	}
	return false
}
