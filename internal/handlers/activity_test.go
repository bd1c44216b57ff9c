package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Terjeeld/lasviewer/internal/models"
	"github.com/Terjeeld/lasviewer/internal/service"
)

func TestGetActivity_Success(t *testing.T) {
	log := &mockActivityLog{resp: []models.ActivityEvent{
		{EventID: "e1", Type: "UPLOAD", Description: "uploaded well.las"},
		{EventID: "e2", Type: "PLOT", Description: "plotted GR"},
	}}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, ActivityLog: log}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil)
	w := doAuthed(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Count  int                    `json:"count"`
		Events []models.ActivityEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 || len(resp.Events) != 2 {
		t.Fatalf("bad response: %+v", resp)
	}
}

func TestGetActivity_FiltersForwarded(t *testing.T) {
	log := &mockActivityLog{}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, ActivityLog: log}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/activity?from=2026-08-01&to=2026-08-20&type=upload", nil)
	w := doAuthed(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	wantFrom := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	if !log.lastFrom.Equal(wantFrom) {
		t.Fatalf("from = %v; want %v", log.lastFrom, wantFrom)
	}
	// Date-only 'to' extends to end of day.
	wantTo := time.Date(2026, time.August, 20, 23, 59, 59, 999999999, time.UTC)
	if !log.lastTo.Equal(wantTo) {
		t.Fatalf("to = %v; want %v", log.lastTo, wantTo)
	}
	if log.lastType != "UPLOAD" {
		t.Fatalf("type = %q; want UPLOAD (uppercased)", log.lastType)
	}
}

func TestGetActivity_RFC3339Timestamps(t *testing.T) {
	log := &mockActivityLog{}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, ActivityLog: log}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/activity?to=2026-08-20T12:30:00Z", nil)
	w := doAuthed(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	// A 'to' with a time component is taken as-is, no end-of-day expansion.
	wantTo := time.Date(2026, time.August, 20, 12, 30, 0, 0, time.UTC)
	if !log.lastTo.Equal(wantTo) {
		t.Fatalf("to = %v; want %v", log.lastTo, wantTo)
	}
}

func TestGetActivity_BadInput(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"bad from", "?from=not-a-date"},
		{"bad to", "?to=31/08/2026"},
		{"from after to", "?from=2026-08-20&to=2026-08-01"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s := &service.Service{Authorization: &mockAuth{parseID: 7}, ActivityLog: &mockActivityLog{}}
			r := newTestRouter(s)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/activity"+tc.query, nil)
			w := doAuthed(r, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d; want 400 (body=%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetActivity_ServiceErrorIs500(t *testing.T) {
	log := &mockActivityLog{err: errors.New("db gone")}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, ActivityLog: log}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil)
	w := doAuthed(r, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d; want 500", w.Code)
	}
}

func TestParseQueryTime(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2026-08-20T10:00:00Z", time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), false},
		{"2026-08-20 10:00:00", time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), false},
		{"2026-08-20", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), false},
		{"20-08-2026", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tc := range cases {
		got, err := parseQueryTime(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseQueryTime(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseQueryTime(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("parseQueryTime(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}
