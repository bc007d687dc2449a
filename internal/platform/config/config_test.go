package config

import (
	"testing"

	kit "reports/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	root := New()
	rep := root.Prefix("REPORTS_")
	if got := rep.key("INPUT"); got != "REPORTS_INPUT" {
		t.Fatalf("key() = %q, want %q", got, "REPORTS_INPUT")
	}
	nested := rep.Prefix("CSV_")
	if got := nested.key("DELIMITER"); got != "REPORTS_CSV_DELIMITER" {
		t.Fatalf("nested key() = %q, want %q", got, "REPORTS_CSV_DELIMITER")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  reports ")
	if got := c.MustString("NAME"); got != "reports" {
		t.Fatalf("MustString = %q, want %q", got, "reports")
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
	t.Setenv("APP_WS", "   ")
	kit.MustPanic(t, func() { _ = c.MustString("WS") })
}

func TestMayString(t *testing.T) {
	c := New().Prefix("S_")
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q, want %q", got, "def")
	}
	t.Setenv("S_PATH", " ./logs/a.jsonl ")
	if got := c.MayString("PATH", "x"); got != "./logs/a.jsonl" {
		t.Fatalf("MayString value = %q", got)
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Fatalf("MayInt default = %d, want %d", got, 9)
	}
	t.Setenv("I_OK", " 7 ")
	if got := c.MayInt("OK", 0); got != 7 {
		t.Fatalf("MayInt ok = %d, want %d", got, 7)
	}
	t.Setenv("I_BAD", "x")
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt bad -> default = %d, want %d", got, 3)
	}
}

func TestMayRune(t *testing.T) {
	c := New().Prefix("R_")
	if got := c.MayRune("MISSING", ','); got != ',' {
		t.Fatalf("MayRune default = %q", got)
	}
	t.Setenv("R_SEMI", ";")
	if got := c.MayRune("SEMI", ','); got != ';' {
		t.Fatalf("MayRune = %q, want ';'", got)
	}
	t.Setenv("R_TAB", `\t`)
	if got := c.MayRune("TAB", ','); got != '\t' {
		t.Fatalf("MayRune tab = %q", got)
	}
	t.Setenv("R_LONG", ";;")
	if got := c.MayRune("LONG", ','); got != ',' {
		t.Fatalf("MayRune long -> default = %q", got)
	}
}
