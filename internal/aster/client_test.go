package aster

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/juliexu77/aster-tray/internal/models"
)

func TestGetRecentEvents(t *testing.T) {
	var gotPath, gotAuth, gotCount string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotCount = r.URL.Query().Get("count")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"_id":"e1","kind":"feed","date":1767996000000,"feed":{"amountMl":120,"unit":"ml"}},
			{"_id":"e2","kind":"sleep","date":1768003200000,"sleep":{"startTime":"9:00 AM","endTime":"9:45 AM"}}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token123")
	events, err := client.GetRecentEvents(50)
	if err != nil {
		t.Fatalf("GetRecentEvents failed: %v", err)
	}

	if gotPath != "/api/v1/events" {
		t.Errorf("path = %s, want /api/v1/events", gotPath)
	}
	if gotAuth != "Bearer token123" {
		t.Errorf("auth = %q, want Bearer token123", gotAuth)
	}
	if gotCount != "50" {
		t.Errorf("count = %s, want 50", gotCount)
	}

	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Kind != models.KindFeed || events[0].Feed == nil || events[0].Feed.AmountML != 120 {
		t.Errorf("first event = %+v, want 120 ml feed", events[0])
	}
	if events[1].Kind != models.KindSleep || events[1].Sleep == nil || events[1].Sleep.StartClock != "9:00 AM" {
		t.Errorf("second event = %+v, want sleep with start clock", events[1])
	}
}

func TestGetEventsTimeRange(t *testing.T) {
	var query string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	from := time.UnixMilli(1767996000000)
	to := time.UnixMilli(1768003200000)

	if _, err := client.GetEvents(from, to, 100); err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}

	for _, want := range []string{"1767996000000", "1768003200000", "count=100"} {
		if !strings.Contains(query, want) {
			t.Errorf("query %q missing %q", query, want)
		}
	}
}

func TestGetBaby(t *testing.T) {
	t.Run("single object", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"_id":"b1","name":"Mira","birthDate":"2025-11-20"}`))
		}))
		defer server.Close()

		baby, err := NewClient(server.URL, "").GetBaby()
		if err != nil {
			t.Fatalf("GetBaby failed: %v", err)
		}
		if baby.Name != "Mira" || baby.BirthDate != "2025-11-20" {
			t.Errorf("baby = %+v", baby)
		}
	})

	t.Run("array form", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"_id":"b1","name":"Mira","birthDate":"2025-11-20"}]`))
		}))
		defer server.Close()

		baby, err := NewClient(server.URL, "").GetBaby()
		if err != nil {
			t.Fatalf("GetBaby failed: %v", err)
		}
		if baby.Name != "Mira" {
			t.Errorf("baby = %+v", baby)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		if _, err := NewClient(server.URL, "").GetBaby(); err == nil {
			t.Error("expected an error for an empty profile list")
		}
	})
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetRecentEvents(10)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "API error 500") {
		t.Errorf("error = %v, want API error 500", err)
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"ok","version":"1.0"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if err := client.TestConnection(); err != nil {
		t.Fatalf("TestConnection failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("auth header = %q, want empty without a token", gotAuth)
	}
}

func TestGetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","version":"2.3.1"}`))
	}))
	defer server.Close()

	status, err := NewClient(server.URL, "").GetStatus()
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if status.Status != "ok" || status.Version != "2.3.1" {
		t.Errorf("status = %+v", status)
	}
}

func TestTrailingSlashTrimmed(t *testing.T) {
	client := NewClient("https://aster.example.com/", "t")
	if client.baseURL != "https://aster.example.com" {
		t.Errorf("baseURL = %s, want trailing slash trimmed", client.baseURL)
	}
}
