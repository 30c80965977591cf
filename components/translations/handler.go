package translations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-modeltranslation/pkg/panel"
	"github.com/goliatone/go-modeltranslation/pkg/status"
)

const (
	ActionUpdate  = "update_translations"
	ActionProcess = "process_translations"
	ActionGrid    = "translations"
)

type writeRequest struct {
	Lang     string     `json:"lang"`
	Name     string     `json:"name"`
	Value    jsonValue  `json:"value"`
	Instance instanceID `json:"instance"`
}

// jsonValue records whether the value key was present; null is a valid
// value and stores the field's empty value.
type jsonValue struct {
	set   bool
	value *string
}

func (v *jsonValue) UnmarshalJSON(data []byte) error {
	v.set = true
	if string(data) == "null" {
		v.value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("value must be a string or null")
	}
	v.value = &s
	return nil
}

// instanceID accepts both JSON strings and numbers.
type instanceID string

func (id *instanceID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = instanceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("instance must be a string or a number")
	}
	*id = instanceID(n.String())
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Component) serveWrite(action string, svc *panel.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if !c.authorise(w, r) {
			return
		}
		if c.limiter != nil && !c.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: http.StatusText(http.StatusTooManyRequests)})
			return
		}

		var req writeRequest
		body := http.MaxBytesReader(w, r.Body, c.opts.MaxBodyBytes)
		dec := json.NewDecoder(body)
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed body: " + err.Error()})
			return
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed body: trailing data"})
			return
		}
		if action == ActionProcess && !req.Value.set {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed body: missing value"})
			return
		}

		change := panel.Change{
			Language: req.Lang,
			Name:     req.Name,
			Instance: string(req.Instance),
			Value:    req.Value.value,
		}
		var (
			result panel.Result
			err    error
		)
		if action == ActionUpdate {
			result, err = svc.Confirm(r.Context(), change)
		} else {
			result, err = svc.Write(r.Context(), change)
		}
		reg := svc.Admin().Registry()
		if err != nil {
			code := statusOf(err)
			c.opts.Logger.Warn("translation write failed",
				"action", action, "model", reg.Model(), "instance", change.Instance,
				"field", change.Name, "status", code, "error", err)
			writeJSON(w, code, errorResponse{Error: err.Error()})
			return
		}
		c.opts.Logger.Info("translation written",
			"action", action, "model", reg.Model(), "instance", result.InstanceID,
			"field", result.FieldName, "label", string(result.Status))
		writeJSON(w, http.StatusOK, result)
	})
}

func (c *Component) serveGrid(svc *panel.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if !c.authorise(w, r) {
			return
		}

		query, err := parseQuery(r, svc.Admin().ListFilter())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		grid, err := svc.Grid(r.Context(), query)
		if err != nil {
			writeJSON(w, statusOf(err), errorResponse{Error: err.Error()})
			return
		}

		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, grid)
			return
		}
		page, err := c.renderGrid(svc, grid)
		if err != nil {
			c.opts.Logger.Error("translation grid render failed", "model", grid.Model, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.WriteString(w, page)
	})
}

func (c *Component) authorise(w http.ResponseWriter, r *http.Request) bool {
	if c.opts.Guard == nil {
		return true
	}
	err := c.opts.Guard(r)
	if err == nil {
		return true
	}
	code := guardStatus(err)
	http.Error(w, http.StatusText(code), code)
	return false
}

func parseQuery(r *http.Request, listFilter []string) (panel.Query, error) {
	values := r.URL.Query()
	q := panel.Query{
		Language: values.Get("lang"),
		Page:     parseInt(values.Get("page")),
		PerPage:  parseInt(values.Get("per_page")),
	}
	for _, name := range listFilter {
		if !values.Has(name) {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[name] = values.Get(name)
	}
	for _, raw := range values["status"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			label, ok := status.ParseLabel(part)
			if !ok {
				return panel.Query{}, fmt.Errorf("unknown status %q", part)
			}
			q.Statuses = append(q.Statuses, label)
		}
	}
	return q, nil
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
