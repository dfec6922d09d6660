package vault

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		tmpDir := t.TempDir()
		root := filepath.Join(tmpDir, "vault")

		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "snapshots")); err != nil {
			t.Errorf("snapshot directory not created: %v", err)
		}

		if v.name != "test" {
			t.Errorf("name = %q, want %q", v.name, "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		_, err := NewFileSystemVault("test", tmpDir)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
	})
}

func TestFileSystemVault_PutSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
		data     string
		size     int64
		wantErr  bool
	}{
		{
			name:     "store snapshot successfully",
			snapshot: "journal-host-20250301.db",
			data:     "hello world",
			size:     11,
			wantErr:  false,
		},
		{
			name:     "size mismatch",
			snapshot: "mismatch.db",
			data:     "hello",
			size:     100,
			wantErr:  true,
		},
		{
			name:     "empty snapshot",
			snapshot: "empty.db",
			data:     "",
			size:     0,
			wantErr:  false,
		},
		{
			name:     "name escaping the directory",
			snapshot: "../evil.db",
			data:     "x",
			size:     1,
			wantErr:  true,
		},
		{
			name:     "empty name",
			snapshot: "",
			data:     "x",
			size:     1,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewFileSystemVault("test", t.TempDir())
			if err != nil {
				t.Fatalf("NewFileSystemVault() error = %v", err)
			}

			err = v.PutSnapshot(tt.snapshot, strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("PutSnapshot() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr {
				data, err := os.ReadFile(filepath.Join(v.snapshotDir, tt.snapshot))
				if err != nil {
					t.Fatalf("failed to read snapshot file: %v", err)
				}
				if string(data) != tt.data {
					t.Errorf("snapshot = %q, want %q", string(data), tt.data)
				}
			}
		})
	}
}

func TestFileSystemVault_PutSnapshot_Overwrites(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	name := "journal.db"
	for _, data := range []string{"version 1", "version 22"} {
		if err := v.PutSnapshot(name, strings.NewReader(data), int64(len(data))); err != nil {
			t.Fatalf("PutSnapshot(%q) error = %v", data, err)
		}
	}

	var buf bytes.Buffer
	if err := v.GetSnapshot(name, &buf); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if buf.String() != "version 22" {
		t.Errorf("snapshot = %q, want the latest version", buf.String())
	}
}

func TestFileSystemVault_GetSnapshot(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	t.Run("retrieve existing snapshot", func(t *testing.T) {
		name := "journal.db"
		data := "hello world"

		if err := v.PutSnapshot(name, strings.NewReader(data), int64(len(data))); err != nil {
			t.Fatalf("PutSnapshot() error = %v", err)
		}

		var buf bytes.Buffer
		if err := v.GetSnapshot(name, &buf); err != nil {
			t.Fatalf("GetSnapshot() error = %v", err)
		}

		if buf.String() != data {
			t.Errorf("snapshot = %q, want %q", buf.String(), data)
		}
	})

	t.Run("snapshot not found", func(t *testing.T) {
		var buf bytes.Buffer
		err := v.GetSnapshot("nonexistent.db", &buf)
		if err == nil {
			t.Error("GetSnapshot() expected error for nonexistent snapshot")
		}
		if !strings.Contains(err.Error(), "snapshot not found") {
			t.Errorf("error = %v, want error containing 'snapshot not found'", err)
		}
	})
}

func TestFileSystemVault_ListSnapshots(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	for _, n := range []string{"b.db", "a.db"} {
		if err := v.PutSnapshot(n, strings.NewReader("x"), 1); err != nil {
			t.Fatalf("PutSnapshot(%q) error = %v", n, err)
		}
	}

	names, err := v.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(names) != 2 || names[0] != "a.db" || names[1] != "b.db" {
		t.Errorf("ListSnapshots() = %v, want [a.db b.db]", names)
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	t.Run("valid setup", func(t *testing.T) {
		v, err := NewFileSystemVault("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if err := v.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("missing root directory", func(t *testing.T) {
		v := &FileSystemVault{
			name:        "test",
			root:        "/nonexistent/path",
			snapshotDir: "/nonexistent/path/snapshots",
		}

		if err := v.ValidateSetup(); err == nil {
			t.Error("ValidateSetup() expected error for missing root")
		}
	})
}

func TestFileSystemVault_AtomicWrite(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	// No temp files left after a successful write, and failed writes must
	// not leave partial snapshots either.
	if err := v.PutSnapshot("good.db", strings.NewReader("hello"), 5); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}
	if err := v.PutSnapshot("bad.db", strings.NewReader("short"), 100); err == nil {
		t.Fatal("PutSnapshot() expected size mismatch error")
	}

	entries, err := os.ReadDir(v.snapshotDir)
	if err != nil {
		t.Fatalf("failed to read snapshot dir: %v", err)
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
		if entry.Name() == "bad.db" {
			t.Error("failed write left a partial snapshot")
		}
	}
}
