package face

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDetect(t *testing.T) {
	var gotReq detectRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"faces":[{"box":[1,2,3,4]},{"box":[5,6,7,8]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	n, err := c.Detect(context.Background(), "file:///selfie.jpg")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if n != 2 {
		t.Errorf("faces = %d, want 2", n)
	}
	if gotReq.Image != "file:///selfie.jpg" || gotReq.Mode != "fast" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestDetectNoFaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"faces":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	n, err := c.Detect(context.Background(), "file:///wall.jpg")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if n != 0 {
		t.Errorf("faces = %d, want 0", n)
	}
}

func TestDetectNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	if _, err := c.Detect(context.Background(), "file:///selfie.jpg"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
