package identity

import (
	"strings"
	"testing"
)

func TestUserIDDeterministic(t *testing.T) {
	a := UserID("Ravi", "Das", "9990001111")
	b := UserID("Ravi", "Das", "9990001111")
	if a != b {
		t.Errorf("expected identical ids, got %q and %q", a, b)
	}
}

func TestUserIDNormalization(t *testing.T) {
	base := UserID("ravi", "das", "9990001111")

	cases := []struct {
		name        string
		first, last string
		phone       string
	}{
		{"upper case", "RAVI", "DAS", "9990001111"},
		{"mixed case", "Ravi", "Das", "9990001111"},
		{"surrounding whitespace", "  ravi ", " das  ", " 9990001111 "},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := UserID(c.first, c.last, c.phone)
			if got != base {
				t.Errorf("expected %q, got %q", base, got)
			}
		})
	}
}

func TestUserIDFormat(t *testing.T) {
	id := UserID("Ravi", "Das", "9990001111")

	parts := strings.Split(id, "_")
	if len(parts) != 4 {
		t.Fatalf("expected 4 parts, got %d (%q)", len(parts), id)
	}
	if parts[0] != "9990001111" {
		t.Errorf("expected phone prefix, got %q", parts[0])
	}
	if parts[1] != "ravi" || parts[2] != "das" {
		t.Errorf("expected lowercased names, got %q %q", parts[1], parts[2])
	}
	if len(parts[3]) != 8 {
		t.Errorf("expected 8 char hash, got %q", parts[3])
	}
}

func TestUserIDEmptyInputs(t *testing.T) {
	// 空入力でもエラーにはせず固定の出力になる
	a := UserID("", "", "")
	b := UserID("", "", "")
	if a != b {
		t.Errorf("expected stable output for empty inputs, got %q and %q", a, b)
	}
	if !strings.HasPrefix(a, "___") {
		t.Errorf("unexpected shape for empty inputs: %q", a)
	}
}

func TestUserIDDistinctUsers(t *testing.T) {
	a := UserID("Ravi", "Das", "9990001111")
	b := UserID("Hari", "Das", "9990001111")
	if a == b {
		t.Errorf("different names must not collide: %q", a)
	}
}
