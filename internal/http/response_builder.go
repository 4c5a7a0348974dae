// Package http serves the health log web UI and its JSON and CSV endpoints.
//
// Responses to HTMX requests carry client events in the HX-Trigger header;
// HTMXResponseBuilder assembles them together with status and body.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"healthlog/internal/core"
)

// Client events dispatched through HX-Trigger.
const (
	EventRecordSaved = "record:saved"
	EventFormReset   = "form:reset"
	EventNotice      = "show-notification"
)

// How long a notice stays on screen, in milliseconds.
const (
	noticeShortMs = 3000
	noticeLongMs  = 6000
)

// HTMXResponseBuilder collects HX-Trigger events, headers and a body before
// writing them in one go.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse starts a 200 response with no triggers.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds an event; a later call with the same name replaces the payload.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerRecordSaved makes the records table and the chart reload.
func (b *HTMXResponseBuilder) TriggerRecordSaved(date string, mode core.Mode) *HTMXResponseBuilder {
	return b.Trigger(EventRecordSaved, map[string]string{"date": date, "mode": string(mode)})
}

// TriggerFormReset selects the value field again for the next entry.
func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(EventFormReset, struct{}{})
}

// TriggerNotice shows n as a transient notification. Failures stay longer.
// An empty notice adds nothing.
func (b *HTMXResponseBuilder) TriggerNotice(n core.Notice) *HTMXResponseBuilder {
	if n.Kind == core.NoticeNone || n.Message == "" {
		return b
	}
	duration := noticeShortMs
	if n.Kind != core.NoticeSuccess {
		duration = noticeLongMs
	}
	return b.Trigger(EventNotice, map[string]any{
		"kind":     string(n.Kind),
		"message":  n.Message,
		"duration": duration,
	})
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets a raw body; callers set Content-Type with Header.
func (b *HTMXResponseBuilder) Body(content []byte) *HTMXResponseBuilder {
	b.body = content
	return b
}

// BodyJSON encodes v as the body. An unencodable value turns the whole
// response into a 500.
func (b *HTMXResponseBuilder) BodyJSON(v any) *HTMXResponseBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		return InternalServerError("Could not encode response")
	}
	b.headers["Content-Type"] = "application/json"
	b.body = append(data, '\n')
	return b
}

func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends headers, HX-Trigger, status and body.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse renders message as a failure notice with the given status.
// The message is HTML-escaped.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="notice-` + string(core.NoticeFailure) + `" role="alert">` +
			template.HTMLEscapeString(message) + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
