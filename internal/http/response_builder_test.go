package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"healthlog/internal/core"
)

func decodeTriggers(t *testing.T, rr *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	raw := rr.Header().Get("HX-Trigger")
	if raw == "" {
		return nil
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v (%s)", err, raw)
	}
	return out
}

func TestHTMXResponseBuilder_SavedEntry(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerRecordSaved("2024-01-02", core.ModeMorning).
		TriggerNotice(core.Notice{Kind: core.NoticeSuccess, Message: "Saved"}).
		TriggerFormReset().
		BodyHTML("<p>ok</p>").
		Write(rr)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	triggers := decodeTriggers(t, rr)
	if got := string(triggers[EventRecordSaved]); got != `{"date":"2024-01-02","mode":"morning"}` {
		t.Errorf("%s payload = %s", EventRecordSaved, got)
	}
	if _, ok := triggers[EventFormReset]; !ok {
		t.Errorf("missing %s", EventFormReset)
	}
	var notice struct {
		Kind     string `json:"kind"`
		Message  string `json:"message"`
		Duration int    `json:"duration"`
	}
	if err := json.Unmarshal(triggers[EventNotice], &notice); err != nil {
		t.Fatalf("notice payload: %v", err)
	}
	if notice.Kind != "success" || notice.Message != "Saved" || notice.Duration != noticeShortMs {
		t.Errorf("notice = %+v", notice)
	}
}

func TestHTMXResponseBuilder_TriggerNotice(t *testing.T) {
	tests := []struct {
		name         string
		notice       core.Notice
		wantTrigger  bool
		wantDuration int
	}{
		{"none", core.Notice{}, false, 0},
		{"kind without message", core.Notice{Kind: core.NoticeFailure}, false, 0},
		{"success", core.Notice{Kind: core.NoticeSuccess, Message: "Saved"}, true, noticeShortMs},
		{"validation", core.Notice{Kind: core.NoticeInvalid, Message: "weight: invalid weight"}, true, noticeLongMs},
		{"failure", core.Notice{Kind: core.NoticeFailure, Message: "Could not save"}, true, noticeLongMs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHTMXResponse().TriggerNotice(tt.notice).Write(rr)

			raw, ok := decodeTriggers(t, rr)[EventNotice]
			if ok != tt.wantTrigger {
				t.Fatalf("trigger present = %v, want %v", ok, tt.wantTrigger)
			}
			if !ok {
				return
			}
			var got struct {
				Kind     string `json:"kind"`
				Duration int    `json:"duration"`
			}
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatal(err)
			}
			if got.Kind != string(tt.notice.Kind) || got.Duration != tt.wantDuration {
				t.Errorf("payload = %+v", got)
			}
		})
	}
}

func TestHTMXResponseBuilder_BodyJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().BodyJSON(map[string]string{"date": "2024-01-01"}).Write(rr)

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if got := rr.Body.String(); got != "{\"date\":\"2024-01-01\"}\n" {
		t.Errorf("body = %q", got)
	}

	rr = httptest.NewRecorder()
	NewHTMXResponse().BodyJSON(make(chan int)).Write(rr)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("unencodable value: status = %d, want 500", rr.Code)
	}
}

func TestHTMXResponseBuilder_RawBody(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().
		Header("Content-Type", "text/csv; charset=utf-8").
		Status(http.StatusCreated).
		Body([]byte("date,weight,total_calorie")).
		Write(rr)

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", rr.Header().Get("Content-Type"))
	}
	if rr.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger set without triggers")
	}
	if rr.Body.String() != "date,weight,total_calorie" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponseBuilder
		wantStatus int
		wantBody   string
	}{
		{"bad request", BadRequestError("Unknown entry mode"), http.StatusBadRequest,
			`<div class="notice-failure" role="alert">Unknown entry mode</div>`},
		{"validation", ErrorResponse(http.StatusUnprocessableEntity, "date: invalid date"), http.StatusUnprocessableEntity,
			`<div class="notice-failure" role="alert">date: invalid date</div>`},
		{"internal", InternalServerError("Could not access stored records"), http.StatusInternalServerError,
			`<div class="notice-failure" role="alert">Could not access stored records</div>`},
		{"escaped", BadRequestError("<script>alert('x')</script>"), http.StatusBadRequest,
			`<div class="notice-failure" role="alert">&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.builder.Write(rr)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if rr.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rr.Body.String(), tt.wantBody)
			}
			if strings.Contains(rr.Body.String(), "<script>") {
				t.Error("message not escaped")
			}
		})
	}
}
