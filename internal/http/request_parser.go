// Parsing of entry submissions, date windows and sanitized body values.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"healthlog/internal/core"
)

// EntryParams holds a submitted morning or night entry.
type EntryParams struct {
	Mode  core.Mode
	Date  string
	Value string
}

// ParseEntryParams reads mode, date and value. The date defaults to today;
// the mode defaults to the one implied by the field that was sent.
func ParseEntryParams(get func(string) string, today string) EntryParams {
	p := EntryParams{
		Mode: core.Mode(get("mode")),
		Date: get("date"),
	}
	if p.Date == "" {
		p.Date = today
	}

	switch {
	case get("value") != "":
		p.Value = get("value")
	case get("weight") != "":
		p.Value = get("weight")
		if p.Mode == "" {
			p.Mode = core.ModeMorning
		}
	case get("total_calorie") != "":
		p.Value = get("total_calorie")
		if p.Mode == "" {
			p.Mode = core.ModeNight
		}
	}
	return p
}

// ParseRangeParams reads start and end, falling back to def for missing
// bounds. A present but malformed bound is a validation error.
func ParseRangeParams(query url.Values, def core.DateRange) (core.DateRange, error) {
	rng := def
	if v := strings.TrimSpace(query.Get("start")); v != "" {
		if err := core.ValidateDate(v); err != nil {
			return core.DateRange{}, err
		}
		rng.Start = v
	}
	if v := strings.TrimSpace(query.Get("end")); v != "" {
		if err := core.ValidateDate(v); err != nil {
			return core.DateRange{}, err
		}
		rng.End = v
	}
	return rng, nil
}

// maxEntryBody bounds an entry submission; a real one is a few dozen bytes.
const maxEntryBody = 8 << 10

var errBodyTooLarge = errors.New("request body too large")

// RequestBodyParser reads an entry submitted either as a form (HTMX) or as a
// JSON object (scripts). The body is read once at construction.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxEntryBody+1))
	if p.err == nil && len(p.body) > maxEntryBody {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse decodes the body. A body starting with '{' is JSON, anything else
// is form encoded. Repeated calls return the first result.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		// Numbers stay as written, so 1800 is not turned into 1800.0 or 1.8e+03.
		dec.UseNumber()
		if err := dec.Decode(&p.jsonData); err != nil {
			p.jsonData, p.err = nil, err
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(trimmed))
	return p.err
}

// Get returns the trimmed, control-character free value for key.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		return sanitizeInput(stringValue(p.jsonData[key]))
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
