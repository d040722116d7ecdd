package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func withDiskRoot(t *testing.T, root string) {
	t.Helper()
	prev := DiskRoot
	DiskRoot = root
	t.Cleanup(func() { DiskRoot = prev })
}

func TestLoadGuardSpecEmbedded(t *testing.T) {
	withDiskRoot(t, t.TempDir())

	spec, err := LoadGuardSpec("")
	if err != nil {
		t.Fatalf("load guard spec: %v", err)
	}
	if spec.ArriveDistance != 50 || spec.ResetDelay != 3 {
		t.Fatalf("unexpected guard timings %+v", spec)
	}
	if spec.Sensing.SeePawns == nil || !*spec.Sensing.SeePawns {
		t.Fatalf("expected see_pawns to be set")
	}
	if spec.Script != "guard_indicator.tengo" {
		t.Fatalf("unexpected script %q", spec.Script)
	}
}

func TestDiskOverride(t *testing.T) {
	root := t.TempDir()
	withDiskRoot(t, root)

	if err := os.WriteFile(filepath.Join(root, "guard.yaml"), []byte("move_speed: 10\nreset_delay: 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := LoadGuardSpec("prefabs/guard.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.MoveSpeed != 10 || spec.ResetDelay != 1.5 {
		t.Fatalf("expected disk copy to win, got %+v", spec)
	}
}

func TestLoadGuardSpecErrors(t *testing.T) {
	root := t.TempDir()
	withDiskRoot(t, root)

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"missing", "nope.yaml", "", "load nope.yaml"},
		{"bad_yaml", "bad.yaml", "move_speed: [", "unmarshal bad.yaml"},
		{"negative", "neg.yaml", "reset_delay: -1\n", "negative"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.content != "" {
				if err := os.WriteFile(filepath.Join(root, tc.file), []byte(tc.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			_, err := LoadGuardSpec(tc.file)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadScript(t *testing.T) {
	withDiskRoot(t, t.TempDir())

	for _, name := range []string{"guard_indicator.tengo", "scripts/guard_indicator.tengo", "prefabs/scripts/guard_indicator.tengo"} {
		t.Run(name, func(t *testing.T) {
			src, err := LoadScript(name)
			if err != nil {
				t.Fatalf("load script: %v", err)
			}
			if !strings.Contains(string(src), "on_state_changed") {
				t.Fatalf("script missing handler")
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		ok   bool
		kind ChangeKind
	}{
		{"yaml_write", fsnotify.Event{Name: "prefabs/guard.yaml", Op: fsnotify.Write}, true, ChangeSpec},
		{"script_create", fsnotify.Event{Name: "prefabs/scripts/a.tengo", Op: fsnotify.Create}, true, ChangeScript},
		{"chmod_ignored", fsnotify.Event{Name: "prefabs/guard.yaml", Op: fsnotify.Chmod}, false, 0},
		{"other_ext", fsnotify.Event{Name: "prefabs/readme.md", Op: fsnotify.Write}, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			change, ok := classify(tc.ev)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && (change.Kind != tc.kind || change.Name != filepath.Base(tc.ev.Name)) {
				t.Fatalf("unexpected change %+v", change)
			}
		})
	}
}
