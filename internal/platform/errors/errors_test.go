package errors

import (
	"encoding/json"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodes(t *testing.T) {
	cases := []struct {
		code   ErrorCode
		name   string
		status int
	}{
		{ErrorCodeInvalidInput, "INVALID_INPUT", http.StatusBadRequest},
		{ErrorCodeNotFound, "NOT_FOUND", http.StatusNotFound},
		{ErrorCodeStaleCursor, "STALE_CURSOR", http.StatusConflict},
		{ErrorCodeCanceled, "CANCELED", StatusClientClosed},
		{ErrorCodeUnavailable, "UNAVAILABLE", http.StatusServiceUnavailable},
		{ErrorCodeTimeout, "TIMEOUT", http.StatusGatewayTimeout},
		{ErrorCodeQueryFailed, "QUERY_FAILED", http.StatusBadGateway},
		{ErrorCodePanic, "INTERNAL", http.StatusInternalServerError},
		{ErrorCode(4242), "INTERNAL", http.StatusInternalServerError},
	}
	for _, c := range cases {
		if c.code.String() != c.name || c.code.Status() != c.status {
			t.Fatalf("code %d = %s/%d, want %s/%d", c.code, c.code, c.code.Status(), c.name, c.status)
		}
	}
}

func TestCodeJSON(t *testing.T) {
	type body struct {
		Code ErrorCode `json:"code"`
	}
	b, err := json.Marshal(body{ErrorCodeStaleCursor})
	if err != nil || string(b) != `{"code":"STALE_CURSOR"}` {
		t.Fatalf("marshal = %s, %v", b, err)
	}

	for in, want := range map[string]ErrorCode{
		`{"code":"QUERY_FAILED"}`: ErrorCodeQueryFailed,
		`{"code":"INTERNAL"}`:     ErrorCodeUnknown,
		`{"code":"NO_SUCH"}`:      ErrorCodeUnknown,
	} {
		var got body
		if err := json.Unmarshal([]byte(in), &got); err != nil || got.Code != want {
			t.Fatalf("unmarshal %s = %v, %v", in, got.Code, err)
		}
	}
}

func TestWrapAndInspect(t *testing.T) {
	cause := stderrs.New("conn reset")
	err := fmt.Errorf("repo: %w", Wrap(cause, ErrorCodeQueryFailed, "fetch rows"))

	if !stderrs.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	if !IsCode(err, ErrorCodeQueryFailed) || HTTPStatus(err) != http.StatusBadGateway {
		t.Fatalf("code = %v status = %d", CodeOf(err), HTTPStatus(err))
	}
	e, ok := As(err)
	if !ok || e.Message() != "fetch rows" || e.Error() != "fetch rows: conn reset" {
		t.Fatalf("As = %v, %v", e, ok)
	}
	if CodeOf(cause) != ErrorCodeUnknown || HTTPStatus(nil) != http.StatusInternalServerError {
		t.Fatalf("foreign errors must be unknown")
	}
}

func TestWithField_Copies(t *testing.T) {
	base := InvalidInputf("limit must be at least %d", 1)
	named := WithField(base, "limit")

	if e, _ := As(base); e.Field() != "" {
		t.Fatalf("original mutated: %q", e.Field())
	}
	if e, _ := As(named); e.Field() != "limit" || e.Code() != ErrorCodeInvalidInput {
		t.Fatalf("named = %+v", e)
	}
	plain := stderrs.New("plain")
	if WithField(plain, "x") != plain {
		t.Fatalf("foreign error should pass through")
	}
}

func TestPublic(t *testing.T) {
	code, msg, field := Public(WithField(StaleCursorf("cursor %s is stale", "abc"), "cursor"))
	if code != ErrorCodeStaleCursor || msg != "cursor abc is stale" || field != "cursor" {
		t.Fatalf("Public = %v %q %q", code, msg, field)
	}

	code, msg, _ = Public(fmt.Errorf("dial tcp 10.0.0.3:5432: %w", stderrs.New("refused")))
	if code != ErrorCodeUnknown || msg != "internal error" {
		t.Fatalf("foreign error leaked: %v %q", code, msg)
	}

	code, msg, _ = Public(Wrap(stderrs.New("pq: secret detail"), ErrorCodeQueryFailed, "library query failed"))
	if code != ErrorCodeQueryFailed || msg != "library query failed" {
		t.Fatalf("cause leaked: %v %q", code, msg)
	}
}

func TestSugar(t *testing.T) {
	for err, want := range map[error]ErrorCode{
		NotFoundf("track %d", 7):      ErrorCodeNotFound,
		PanicErrf("boom"):             ErrorCodePanic,
		New(ErrorCodeTimeout, "slow"): ErrorCodeTimeout,
	} {
		if CodeOf(err) != want {
			t.Fatalf("%v has code %v, want %v", err, CodeOf(err), want)
		}
	}
}
