package shell

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/QingYi-Studio/tylddb/lib/database"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTemplateSession mirrors the fallback path of openOrTemplate without
// going through viper.
func newTemplateSession(t *testing.T) *database.Database {
	t.Helper()

	opts := database.DefaultOptions()
	opts.Logger = quietLogger()
	engine := database.New(opts)

	if err := engine.LoadTemplate(); err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	if _, err := engine.ParseEntries(); err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	return engine
}

// TestReloadTemplateSession covers reload in a session that runs over the
// built-in template. There is no backing file, so reload must re-seed the
// template instead of failing on the missing path.
func TestReloadTemplateSession(t *testing.T) {
	engine := newTemplateSession(t)
	defer engine.Close()

	if err := dispatch(engine, quietLogger(), []string{"reload"}); err != nil {
		t.Fatalf("reload in a template session failed: %v", err)
	}

	value, err := engine.Get("string", "command_mode")
	if err != nil {
		t.Fatalf("Get after reload failed: %v", err)
	}
	if value.Str != "cmd" {
		t.Errorf("Expected command_mode %q, got %q", "cmd", value.Str)
	}
	if name, ok := engine.Section(); !ok || name != database.TemplateSection {
		t.Errorf("Expected section %q after reload, got %q (ok=%v)", database.TemplateSection, name, ok)
	}
}

// TestReloadFileSession covers reload over a real file: edits on disk must
// become visible, and the selected section must survive the round trip.
func TestReloadFileSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.lddb")
	write := func(body string) {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}
	}
	write("console {\n    string command_mode = \"cmd\"\n}\n")

	opts := database.DefaultOptions()
	opts.Logger = quietLogger()
	engine := database.New(opts)
	defer engine.Close()

	engine.SetPath(path)
	if err := engine.ReadFile(); err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := engine.LoadSection("console"); err != nil {
		t.Fatalf("LoadSection failed: %v", err)
	}
	if _, err := engine.ParseEntries(); err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	write("console {\n    string command_mode = \"cmd\"\n    integer max_items = 32\n}\n")

	if err := dispatch(engine, quietLogger(), []string{"reload"}); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	value, err := engine.Get("integer", "max_items")
	if err != nil {
		t.Fatalf("Get after reload failed: %v", err)
	}
	if value.Int != 32 {
		t.Errorf("Expected max_items 32 after reload, got %d", value.Int)
	}
	if name, ok := engine.Section(); !ok || name != "console" {
		t.Errorf("Expected section %q after reload, got %q (ok=%v)", "console", name, ok)
	}
}
