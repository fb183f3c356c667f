package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLogFilePathDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	path, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default path failed: %v", err)
	}
	if filepath.Base(path) != defaultLogFilename {
		t.Fatalf("filename want %s got %s", defaultLogFilename, filepath.Base(path))
	}
	wantDir, err := filepath.EvalSymlinks(filepath.Join(tmpDir, defaultLogDirName))
	if err != nil {
		t.Fatalf("resolve want dir failed: %v", err)
	}
	gotDir, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		t.Fatalf("resolve got dir failed: %v", err)
	}
	if gotDir != wantDir {
		t.Fatalf("log dir want %s got %s", wantDir, gotDir)
	}
}

func TestReleaseModeWritesFileDebugModeDoesNot(t *testing.T) {
	tmpDir := t.TempDir()
	opts := Options{Dir: tmpDir, Filename: "checkout.log"}

	log := New("release", opts)
	log.Info("order_created")
	_ = log.Sync()
	raw, err := os.ReadFile(filepath.Join(tmpDir, "checkout.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(raw), "order_created") {
		t.Fatalf("release log missing event, got %s", raw)
	}

	debugDir := t.TempDir()
	debugLog := New("debug", Options{Dir: debugDir, Filename: "checkout.log"})
	debugLog.Info("order_created")
	_ = debugLog.Sync()
	if _, err := os.Stat(filepath.Join(debugDir, "checkout.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode must log to console only")
	}
}
