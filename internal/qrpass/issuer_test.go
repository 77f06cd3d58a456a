package qrpass

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIssueWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "qr_codes")
	iss := NewIssuer("https://example.org/", dir)

	path, err := iss.Issue("9990001111_ravi_das_abcd1234")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	want := filepath.Join(dir, "9990001111_ravi_das_abcd1234.png")
	if path != want {
		t.Errorf("expected path %q, got %q", want, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file at %q: %v", path, err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty png")
	}
}

func TestIssueIdempotent(t *testing.T) {
	dir := t.TempDir()
	iss := NewIssuer("https://example.org", dir)

	first, err := iss.Issue("user1")
	if err != nil {
		t.Fatalf("first Issue failed: %v", err)
	}

	// 再発行は複製ではなく上書き
	second, err := iss.Issue("user1")
	if err != nil {
		t.Fatalf("second Issue failed: %v", err)
	}
	if first != second {
		t.Errorf("re-issue must reuse the same path: %q vs %q", first, second)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file, got %d", len(entries))
	}
}

func TestPathMatchesIssue(t *testing.T) {
	iss := NewIssuer("https://example.org", t.TempDir())
	path, err := iss.Issue("user2")
	if err != nil {
		t.Fatal(err)
	}
	if got := iss.Path("user2"); got != path {
		t.Errorf("Path() = %q, Issue() wrote %q", got, path)
	}
}
