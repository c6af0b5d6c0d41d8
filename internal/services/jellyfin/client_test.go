package jellyfin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type countingDoer struct {
	calls int
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	return nil, errors.New("should not be reached")
}

func TestRefreshMissingKeyMakesNoRequest(t *testing.T) {
	doer := &countingDoer{}
	client := New("http://10.0.0.8:8096", "", "", doer)

	err := client.Refresh(context.Background())
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
	if doer.calls != 0 {
		t.Fatalf("expected no network calls, got %d", doer.calls)
	}
}

func TestRefreshURLWithoutLibraryID(t *testing.T) {
	client := New("http://10.0.0.8:8096/", "key", "", nil)
	want := "http://10.0.0.8:8096/Library/Refresh?Recursive=true&MetadataRefreshMode=Default"
	if got := client.RefreshURL(); got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestRefreshURLWithLibraryID(t *testing.T) {
	client := New("http://10.0.0.8:8096", "key", "music-1", nil)
	want := "http://10.0.0.8:8096/Library/Refresh?Recursive=true&MetadataRefreshMode=Default&ItemIds=music-1"
	if got := client.RefreshURL(); got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestRefreshTriggersJellyfin(t *testing.T) {
	refreshCalled := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Library/Refresh" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if token := r.Header.Get("X-Emby-Token"); token != "token-123" {
			t.Fatalf("unexpected token: %q", token)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %q", ct)
		}
		if r.URL.Query().Get("Recursive") != "true" {
			t.Fatal("missing Recursive parameter")
		}
		refreshCalled = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL, "token-123", "", nil)
	if err := client.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	if !refreshCalled {
		t.Fatal("expected refresh endpoint to be called")
	}
}

func TestRefreshServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "token", "", nil)
	if err := client.Refresh(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestRefreshConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, "token", "", nil)
	if err := client.Refresh(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestConfigured(t *testing.T) {
	if New("", "", "", nil).Configured() {
		t.Fatal("empty client should not be configured")
	}
	if !New("http://host", "key", "", nil).Configured() {
		t.Fatal("expected configured client")
	}
}
