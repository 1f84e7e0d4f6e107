package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func newRemoteServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) *Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w)
	}))
	t.Cleanup(ts.Close)
	return NewClient(ts.URL+"/", ts.Client(), nil)
}

func TestFetchModelNames(t *testing.T) {
	c := newRemoteServer(t, map[string]func(w http.ResponseWriter){
		"/api/config": func(w http.ResponseWriter) {
			io.WriteString(w, `{"openai_model_names":["text-davinci-003","",7,"text-chat-davinci-002"]}`)
		},
	})

	names, err := c.FetchModelNames(context.Background())
	if err != nil {
		t.Fatalf("FetchModelNames failed: %v", err)
	}
	want := []string{"text-davinci-003", "text-chat-davinci-002"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestFetchModelNamesErrors(t *testing.T) {
	testCases := map[string]func(w http.ResponseWriter){
		"missing field": func(w http.ResponseWriter) { io.WriteString(w, `{"other":1}`) },
		"invalid json":  func(w http.ResponseWriter) { io.WriteString(w, `{`) },
		"server error":  func(w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) },
	}
	for name, handler := range testCases {
		t.Run(name, func(t *testing.T) {
			c := newRemoteServer(t, map[string]func(w http.ResponseWriter){"/api/config": handler})
			if _, err := c.FetchModelNames(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFetchPromotion(t *testing.T) {
	c := newRemoteServer(t, map[string]func(w http.ResponseWriter){
		"/api/promotion": func(w http.ResponseWriter) {
			io.WriteString(w, `{"title":"Try it","text":"Answers everywhere","url":"https://example.com"}`)
		},
	})

	p, err := c.FetchPromotion(context.Background())
	if err != nil {
		t.Fatalf("FetchPromotion failed: %v", err)
	}
	want := &Promotion{Title: "Try it", Text: "Answers everywhere", URL: "https://example.com"}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("promotion = %+v, want %+v", p, want)
	}
}

func TestFetchPromotionNone(t *testing.T) {
	testCases := map[string]func(w http.ResponseWriter){
		"no content": func(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) },
		"null":       func(w http.ResponseWriter) { io.WriteString(w, `null`) },
		"empty":      func(w http.ResponseWriter) {},
		"no title":   func(w http.ResponseWriter) { io.WriteString(w, `{"url":"https://example.com"}`) },
	}
	for name, handler := range testCases {
		t.Run(name, func(t *testing.T) {
			c := newRemoteServer(t, map[string]func(w http.ResponseWriter){"/api/promotion": handler})
			p, err := c.FetchPromotion(context.Background())
			if err != nil {
				t.Fatalf("FetchPromotion failed: %v", err)
			}
			if p != nil {
				t.Errorf("expected no promotion, got %+v", p)
			}
		})
	}

	missing := newRemoteServer(t, nil)
	if p, err := missing.FetchPromotion(context.Background()); err != nil || p != nil {
		t.Errorf("404 should mean no promotion, got %+v, %v", p, err)
	}
}

func TestUnconfiguredClient(t *testing.T) {
	c := NewClient("", nil, nil)
	if _, err := c.FetchModelNames(context.Background()); err == nil {
		t.Error("expected error without base url")
	}
}
