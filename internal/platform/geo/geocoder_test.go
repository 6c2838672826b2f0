package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, apiKey string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, apiKey, 2*time.Second, zerolog.Nop())
}

func TestReverse(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, "k123", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address":{"road":"MG Road","city":"Pune","state":"MH","country":"India"}}`))
	})

	addr, err := c.Reverse(context.Background(), 18.5204, 73.8567)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	want := Address{Street: "MG Road", City: "Pune", Region: "MH", Country: "India"}
	if addr != want {
		t.Errorf("addr = %+v, want %+v", addr, want)
	}
	if gotQuery != "format=jsonv2&key=k123&lat=18.5204000&lon=73.8567000" {
		t.Errorf("query = %s", gotQuery)
	}
}

func TestReverseCityFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"town when no city", `{"address":{"road":"Main St","town":"Lonavala","country":"India"}}`, "Lonavala"},
		{"village when no town", `{"address":{"road":"Main St","village":"Khandala","country":"India"}}`, "Khandala"},
		{"city wins over town", `{"address":{"city":"Pune","town":"Ignored"}}`, "Pune"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			addr, err := c.Reverse(context.Background(), 0, 0)
			if err != nil {
				t.Fatalf("Reverse: %v", err)
			}
			if addr.City != tt.want {
				t.Errorf("city = %q, want %q", addr.City, tt.want)
			}
		})
	}
}

func TestReverseNormalizesComponents(t *testing.T) {
	// NFD の "é" (e + U+0301) は NFC の1文字へ畳まれる
	c := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"address":{"road":"  Rue Réaumur ","city":"Paris"}}`))
	})
	addr, err := c.Reverse(context.Background(), 48.86, 2.35)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if addr.Street != "Rue Réaumur" {
		t.Errorf("street = %q, want NFC-normalized trimmed form", addr.Street)
	}
}

func TestReverseNon200(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	if _, err := c.Reverse(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
