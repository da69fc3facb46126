package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "mixtape/internal/platform/errors"
	phttp "mixtape/internal/platform/net/http"
)

type pageIn struct {
	Limit int    `json:"limit" validate:"omitempty,min=1"`
	Sort  string `json:"sortBy"`
}

func newMux(mount func(Router)) *chi.Mux {
	mux := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(mux), nil, mount)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) (int, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	var env Envelope
	if rr.Code != http.StatusNoContent {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v body=%s", method, path, err, rr.Body.String())
		}
	}
	return rr.Code, env
}

func TestGet_WrapsResultAndErrors(t *testing.T) {
	mux := newMux(func(r Router) {
		Get(r, "/library", func(*http.Request) (any, error) { return map[string]int{"tracks": 2}, nil })
		Get(r, "/missing", func(*http.Request) (any, error) { return nil, perr.NotFoundf("no such track") })
		Get(r, "/raw", func(*http.Request) (any, error) { return nil, errors.New("pq: secret detail") })
		Get(r, "/accepted", func(*http.Request) (any, error) { return phttp.Response{Status: http.StatusAccepted, Body: "queued"}, nil })
	})

	code, env := do(t, mux, http.MethodGet, "/api/v1/library", "")
	if code != 200 || env.Data.(map[string]any)["tracks"].(float64) != 2 {
		t.Fatalf("ok = %d %+v", code, env)
	}
	code, env = do(t, mux, http.MethodGet, "/api/v1/missing", "")
	if code != 404 || env.Code != perr.ErrorCodeNotFound || env.Error != "no such track" {
		t.Fatalf("not found = %d %+v", code, env)
	}
	code, env = do(t, mux, http.MethodGet, "/api/v1/raw", "")
	if code != 500 || strings.Contains(env.Error, "secret") {
		t.Fatalf("foreign error leaked = %d %+v", code, env)
	}
	code, env = do(t, mux, http.MethodGet, "/api/v1/accepted", "")
	if code != http.StatusAccepted || env.Data != "queued" {
		t.Fatalf("passthrough = %d %+v", code, env)
	}
}

func TestPostJSON_BindsAndValidates(t *testing.T) {
	var got pageIn
	calls := 0
	mux := newMux(func(r Router) {
		PostJSON(r, "/library", func(_ *http.Request, in pageIn) (any, error) {
			calls++
			got = in
			return in, nil
		})
	})

	code, _ := do(t, mux, http.MethodPost, "/api/v1/library", `{"limit":5,"sortBy":"artist"}`)
	if code != 200 || got.Limit != 5 || got.Sort != "artist" {
		t.Fatalf("bind = %d %+v", code, got)
	}
	for _, body := range []string{`{"limit":0.5}`, `{"limit":-1}`, `{"nope":1}`, `[`} {
		code, env := do(t, mux, http.MethodPost, "/api/v1/library", body)
		if code != 400 || env.Code != perr.ErrorCodeInvalidInput {
			t.Fatalf("body %s = %d %+v", body, code, env)
		}
	}
	if calls != 1 {
		t.Fatalf("handler ran on invalid bodies, calls = %d", calls)
	}
}

func TestMountAPI_VersionAndMiddleware(t *testing.T) {
	mux := chi.NewRouter()
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Scope", "v2")
			next.ServeHTTP(w, r)
		})
	}
	MountAPI(phttp.AdaptChi(mux), "/v2", []func(http.Handler) http.Handler{mw}, func(r Router) {
		Get(r, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil))
	if rr.Code != 200 || rr.Header().Get("X-Scope") != "v2" {
		t.Fatalf("status = %d scope = %q", rr.Code, rr.Header().Get("X-Scope"))
	}
}

func TestJSONBodies(t *testing.T) {
	h := JSONBodies()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	req := httptest.NewRequest(http.MethodPost, "/library", strings.NewReader("users=alice"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("form body = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/library?users=alice", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("bodiless get = %d", rr.Code)
	}
}
