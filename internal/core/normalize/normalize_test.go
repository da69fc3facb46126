package normalize

import (
	"reflect"
	"testing"
)

func TestTerm_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "empty", in: "", out: ""},
		{name: "identity ascii", in: "nirvana", out: "nirvana"},
		{name: "case kept", in: "Smells Like TEEN Spirit", out: "Smells Like TEEN Spirit"},
		{name: "collapse whitespace and newlines", in: "  daft \n\t punk  ", out: "daft punk"},
		{name: "sharp s kept", in: "Straße", out: "Straße"},
		{name: "fullwidth kept", in: "ＡＢＣ", out: "ＡＢＣ"},
		{name: "composed accents kept", in: "Beyoncé", out: "Beyoncé"},
		{name: "control bytes dropped", in: "a\x00b\x7fc", out: "abc"},
		{name: "invalid utf8 dropped", in: string([]byte{0xff, 'o', 'k'}), out: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Term(tt.in); got != tt.out {
				t.Fatalf("Term(%q) = %q, want %q", tt.in, got, tt.out)
			}
		})
	}
}

func TestTag_StripsHashAndClamps(t *testing.T) {
	if got := Tag("  #Grunge "); got != "grunge" {
		t.Fatalf("Tag = %q, want grunge", got)
	}
	long := ""
	for range MaxTagLen + 10 {
		long += "x"
	}
	if got := Tag(long); len([]rune(got)) != MaxTagLen {
		t.Fatalf("Tag len = %d, want %d", len([]rune(got)), MaxTagLen)
	}
	if got := Tag("Straße"); got != "straße" {
		t.Fatalf("Tag = %q, want straße", got)
	}
	if got := Tag(" # "); got != "" {
		t.Fatalf("Tag of blank = %q, want empty", got)
	}
}

func TestTags_DedupesInOrder(t *testing.T) {
	got := Tags([]string{"Grunge", "90s", "grunge", "", "#90S", "Shoegaze"})
	want := []string{"grunge", "90s", "shoegaze"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tags = %v, want %v", got, want)
	}
	if Tags([]string{" ", "#"}) != nil {
		t.Fatalf("expected nil for all blank input")
	}
}

func TestNames_TrimsAtAndFolds(t *testing.T) {
	got := Names([]string{"@Alice", "alice", " bob ", ""})
	want := []string{"alice", "bob"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
}

func TestSanitize(t *testing.T) {
	for in, want := range map[string]string{
		"plain text\nwith tab\t":       "plain text\nwith tab\t",
		"bell\x07 and del\x7f":         "bell and del",
		"c1\u0085 control":             "c1 control",
		string([]byte{'a', 0xc3, 'b'}): "ab",
		"emoji \U0001F3B8 stays":       "emoji \U0001F3B8 stays",
	} {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLower(t *testing.T) {
	for in, want := range map[string]string{
		"":             "",
		"GRUNGE":       "grunge",
		"ÉCOLE Straße": "école straße",
		"a\x00B":       "ab",
	} {
		if got := Lower(in); got != want {
			t.Fatalf("Lower(%q) = %q, want %q", in, got, want)
		}
	}
}
