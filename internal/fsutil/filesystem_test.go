package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fsys := OSFileSystem{}

	if !fsys.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fsys.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_CreateListRead(t *testing.T) {
	fsys := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "seed_2026-01-01_00-00-00")
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	for _, name := range []string{"frame_0001.png", "frame_0000.png"} {
		w, err := fsys.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := io.WriteString(w, name); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	names, err := fsys.List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"frame_0000.png", "frame_0001.png"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}

	data, err := fsys.ReadFile(filepath.Join(dir, "frame_0001.png"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "frame_0001.png" {
		t.Errorf("ReadFile() = %q", data)
	}
}

func TestMemoryFileSystem_CreateRequiresParent(t *testing.T) {
	mfs := NewMemoryFileSystem()

	_, err := mfs.Create("/out/run/frame_0000.png")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	if err := mfs.MkdirAll("/out/run", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if !mfs.Exists("/out") || !mfs.Exists("/out/run") {
		t.Error("MkdirAll should create every parent")
	}
	if _, err := mfs.Create("/out/run/frame_0000.png"); err != nil {
		t.Fatalf("Create after MkdirAll failed: %v", err)
	}
}

func TestMemoryFileSystem_RelativeRoot(t *testing.T) {
	mfs := NewMemoryFileSystem()
	w, err := mfs.Create("metrics.prom")
	if err != nil {
		t.Fatalf("Create in current dir failed: %v", err)
	}
	w.Close()
	if !mfs.Exists("metrics.prom") {
		t.Error("expected metrics.prom to exist")
	}
}

func TestMemoryFileSystem_WriteVisibleOnClose(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.MkdirAll("/run", 0755)

	w, err := mfs.Create("/run/a.gif")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w.Write([]byte("GIF89a"))

	data, _ := mfs.ReadFile("/run/a.gif")
	if len(data) != 0 {
		t.Errorf("data visible before Close: %q", data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, err = mfs.ReadFile("/run/a.gif")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "GIF89a" {
		t.Errorf("ReadFile() = %q", data)
	}

	if _, err := w.Write([]byte("x")); !errors.Is(err, fs.ErrClosed) {
		t.Errorf("write after close: got %v", err)
	}
	if err := w.Close(); !errors.Is(err, fs.ErrClosed) {
		t.Errorf("double close: got %v", err)
	}
}

func TestMemoryFileSystem_ReadMissing(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if _, err := mfs.ReadFile("/nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_ListAndPaths(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.MkdirAll("/out/run/sub", 0755)
	for _, name := range []string{"/out/run/frame_0002.png", "/out/run/frame_0000.png", "/out/run/sub/x", "/out/other"} {
		w, err := mfs.Create(name)
		if err != nil {
			t.Fatalf("Create(%s) failed: %v", name, err)
		}
		w.Close()
	}

	names, err := mfs.List("/out/run")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if want := []string{"frame_0000.png", "frame_0002.png"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}

	if _, err := mfs.List("/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("List(missing) = %v", err)
	}

	paths := mfs.Paths("/out/run/")
	if want := []string{"/out/run/frame_0000.png", "/out/run/frame_0002.png", "/out/run/sub/x"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("Paths() = %v, want %v", paths, want)
	}
}

func TestFileSystemInterface(t *testing.T) {
	var _ FileSystem = OSFileSystem{}
	var _ FileSystem = NewMemoryFileSystem()
}
