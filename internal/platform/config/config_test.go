package config

import (
	"slices"
	"testing"
	"time"

	kit "mixtape/internal/platform/testkit"
)

func TestPrefixComposes(t *testing.T) {
	c := New().Prefix("SERVICE_").Prefix("PGSQL_")
	if got := c.Key("DBURL"); got != "SERVICE_PGSQL_DBURL" {
		t.Fatalf("key = %q", got)
	}
	t.Setenv("SERVICE_PGSQL_DBURL", "  postgres://db/mixtape  ")
	if got := c.MustString("DBURL"); got != "postgres://db/mixtape" {
		t.Fatalf("MustString = %q", got)
	}
}

func TestMustString_PanicsWhenBlank(t *testing.T) {
	t.Setenv("CORE_API_TOKEN", "   ")
	kit.MustPanic(t, func() { New().Prefix("CORE_API_").MustString("TOKEN") })
	kit.MustPanic(t, func() { New().MustString("MIXTAPE_NEVER_SET") })
}

func TestMay_ParsesOrFallsBack(t *testing.T) {
	c := New().Prefix("LIBRARY_")
	t.Setenv("LIBRARY_MAX_LIMIT", "100")
	t.Setenv("LIBRARY_DEFAULT_LIMIT", "fifty")
	t.Setenv("LIBRARY_STRICT_CURSOR", "true")
	t.Setenv("LIBRARY_GLOBAL", "yes please")
	t.Setenv("LIBRARY_TIMEOUT", "3s")
	t.Setenv("LIBRARY_SLOW", "soon")
	t.Setenv("LIBRARY_TABLE", "analytics.q")

	if got := c.MayInt("MAX_LIMIT", 250); got != 100 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("DEFAULT_LIMIT", 50); got != 50 {
		t.Fatalf("bad int should fall back, got %d", got)
	}
	if !c.MayBool("STRICT_CURSOR", false) || c.MayBool("GLOBAL", false) {
		t.Fatalf("MayBool mismatch")
	}
	if c.MayDuration("TIMEOUT", time.Second) != 3*time.Second || c.MayDuration("SLOW", time.Second) != time.Second {
		t.Fatalf("MayDuration mismatch")
	}
	if c.MayString("TABLE", "x") != "analytics.q" || c.MayString("MISSING", "x") != "x" {
		t.Fatalf("MayString mismatch")
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CORE_API_")
	t.Setenv("CORE_API_CORS_ORIGINS", " https://a.example, ,https://b.example,")
	if got := c.MayCSV("CORS_ORIGINS", nil); !slices.Equal(got, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("MayCSV = %v", got)
	}
	t.Setenv("CORE_API_CORS_ORIGINS", " , ")
	if got := c.MayCSV("CORS_ORIGINS", []string{"*"}); !slices.Equal(got, []string{"*"}) {
		t.Fatalf("blank list should give default, got %v", got)
	}
}
