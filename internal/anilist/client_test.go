package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/anisync/internal/shared"
	tu "github.com/desertthunder/anisync/internal/testing"
)

// newTestClient points a fresh client at a stub GraphQL endpoint.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient("id", "secret", "http://localhost:3000/callback", shared.NewLogger(io.Discard))
	client.SetBaseURL(srv.URL)
	return client
}

func respond(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("failed to write response: %v", err)
	}
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("ListEntry", func(t *testing.T) {
		t.Run("returns the entry", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if auth := r.Header.Get("Authorization"); auth != "Bearer token" {
					t.Errorf("expected bearer token, got %q", auth)
				}
				respond(t, w, `{"data":{"Media":{"mediaListEntry":{"id":7,"mediaId":21,"progress":3,"status":"CURRENT","repeat":0}}}}`)
			})

			entry, err := client.ListEntry(ctx, "token", 21)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entry == nil || entry.ID == nil || *entry.ID != 7 {
				t.Fatalf("expected entry id 7, got %+v", entry)
			}
			if entry.Progress != 3 || entry.Status != StatusCurrent {
				t.Errorf("unexpected entry: %+v", entry)
			}
		})

		t.Run("not on list is nil, not an error", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(t, w, `{"data":{"Media":{"mediaListEntry":null}}}`)
			})

			entry, err := client.ListEntry(ctx, "token", 21)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entry != nil {
				t.Errorf("expected nil entry, got %+v", entry)
			}
		})
	})

	t.Run("EpisodeCount", func(t *testing.T) {
		t.Run("known count", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(t, w, `{"data":{"Media":{"episodes":26}}}`)
			})

			episodes, err := client.EpisodeCount(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if episodes == nil || *episodes != 26 {
				t.Errorf("expected 26 episodes, got %v", episodes)
			}
		})

		t.Run("airing title has no count", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(t, w, `{"data":{"Media":{"episodes":null}}}`)
			})

			episodes, err := client.EpisodeCount(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if episodes != nil {
				t.Errorf("expected nil count, got %v", episodes)
			}
		})
	})

	t.Run("SaveListEntry", func(t *testing.T) {
		t.Run("sends only set fields", func(t *testing.T) {
			var received map[string]any
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					Variables map[string]any `json:"variables"`
				}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				received = body.Variables
				respond(t, w, `{"data":{"SaveMediaListEntry":{"id":7,"mediaId":21,"progress":4,"status":"CURRENT","repeat":0}}}`)
			})

			progress := 4
			status := StatusCurrent
			entryID := 7
			saved, err := client.SaveListEntry(ctx, "token", SaveEntryInput{
				EntryID:  &entryID,
				Progress: &progress,
				Status:   &status,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if saved.Progress != 4 {
				t.Errorf("expected progress 4, got %d", saved.Progress)
			}

			if _, ok := received["mediaId"]; ok {
				t.Error("unset mediaId should be omitted from variables")
			}
			if _, ok := received["repeat"]; ok {
				t.Error("unset repeat should be omitted from variables")
			}
			if received["id"] != float64(7) {
				t.Errorf("expected id 7 in variables, got %v", received["id"])
			}
		})

		t.Run("requires a token", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request should be sent without a token")
			})

			if _, err := client.SaveListEntry(ctx, "", SaveEntryInput{}); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("Viewer", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, `{"data":{"Viewer":{"id":5,"name":"thunder"}}}`)
		})

		viewer, err := client.Viewer(ctx, "token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if viewer.ID != 5 || viewer.Name != "thunder" {
			t.Errorf("unexpected viewer: %+v", viewer)
		}
	})

	t.Run("error classification", func(t *testing.T) {
		t.Run("structured API errors", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				respond(t, w, `{"errors":[{"message":"Not Found.","status":404,"locations":[{"line":1,"column":2}]}]}`)
			})

			_, err := client.ListEntry(ctx, "token", 404)
			reqErr, ok := AsRequestError(err)
			if !ok {
				t.Fatalf("expected RequestError, got %v", err)
			}
			if reqErr.Status() != 404 {
				t.Errorf("expected status 404, got %d", reqErr.Status())
			}
		})

		t.Run("undecodable body", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(t, w, `<html>bad gateway</html>`)
			})

			_, err := client.ListEntry(ctx, "token", 1)
			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("empty envelope", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(t, w, `{}`)
			})

			_, err := client.ListEntry(ctx, "token", 1)
			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("network failure", func(t *testing.T) {
			client := NewClient("id", "secret", "", shared.NewLogger(io.Discard))
			client.SetHTTPClient(&http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
			})

			_, err := client.ListEntry(ctx, "token", 1)
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})
	})
}
