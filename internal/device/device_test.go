package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestIDPersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first, err := New(dir).ID()
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if uuid.Validate(first) != nil {
		t.Errorf("id %q is not a uuid", first)
	}

	second, err := New(dir).ID()
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if second != first {
		t.Errorf("id changed across instances: %q != %q", second, first)
	}
}

func TestIDReplacesCorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "device_id"), []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}

	id, err := New(dir).ID()
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if uuid.Validate(id) != nil {
		t.Errorf("id %q is not a uuid", id)
	}
}
