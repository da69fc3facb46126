package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"

	kit "mixtape/internal/platform/testkit"
)

func TestBuild_JSONLevelAndService(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: " WARN ", Format: "json", Service: "mixtape-api", Writer: &buf})
	l.Info().Msg("dropped")
	l.Warn().Str("mode", "global").Msg("kept")

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("dropped")) {
		t.Fatalf("info line passed a warn logger: %s", out)
	}
	kit.MustContain(t, out, `"service":"mixtape-api"`)
	kit.MustContain(t, out, `"mode":"global"`)
}

func TestBuild_UnknownLevelIsDebug(t *testing.T) {
	for _, lvl := range []string{"", "loud"} {
		if got := build(Options{Level: lvl, Format: "json", Writer: &bytes.Buffer{}}).GetLevel(); got != zerolog.DebugLevel {
			t.Fatalf("level %q = %v", lvl, got)
		}
	}
}

func TestBuild_ConsoleAndCaller(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "info", Format: "console", Writer: &buf, WithCaller: true})
	l.Info().Msg("hello")
	kit.MustContain(t, buf.String(), "hello")
	kit.MustContain(t, buf.String(), "logger_test.go")
}

func TestWithRequest_ChildCarriesID(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := base.WithContext(context.Background())

	ctx = WithRequest(ctx, "req-42")
	C(ctx).Info().Msg("page served")
	kit.MustContain(t, buf.String(), `"request_id":"req-42"`)

	if got := WithRequest(ctx, ""); got != ctx {
		t.Fatalf("empty id should keep ctx")
	}
}

func TestC_FallsBackToRoot(t *testing.T) {
	if C(context.Background()) != Get() {
		t.Fatalf("bare ctx should give the root logger")
	}
	Named("library").Debug().Msg("named")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "mixtape-api")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	o := FromEnv()
	if o.Level != "warn" || o.Format != "json" || o.Service != "mixtape-api" || !o.WithCaller || o.SampleEvery != 5 {
		t.Fatalf("FromEnv = %+v", o)
	}
}
