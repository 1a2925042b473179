package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{Timeout: 5 * time.Second, UserAgent: "catalog-test"})
}

func TestFetchHTML(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><title>x</title></html>"))
	}))
	defer ts.Close()

	page, err := newTestFetcher().Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch err: %v", err)
	}
	if page.Status != 200 || page.URL == "" || page.ContentType == "" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if string(page.Body) != "<html><title>x</title></html>" {
		t.Errorf("body: got %q", page.Body)
	}
	if gotUA != "catalog-test" {
		t.Errorf("User-Agent: got %q", gotUA)
	}
}

func TestFetchStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newTestFetcher().Fetch(context.Background(), ts.URL)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("code: got %d, want 404", se.Code)
	}
}

func TestFetchRejectsInvalidURL(t *testing.T) {
	if _, err := newTestFetcher().Fetch(context.Background(), "/relative/only"); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestFetchErrorUnwraps(t *testing.T) {
	inner := &StatusError{Code: 500}
	err := error(&FetchError{Stage: StageDetail, URL: "https://example.com/r/1", Err: inner})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 500 {
		t.Fatalf("FetchError should unwrap to StatusError, got %v", err)
	}
}
