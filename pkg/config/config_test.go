package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	valid bool
}

func (s *sample) Validate() error {
	if s.Port == 0 {
		return errors.New("port required")
	}
	s.valid = true
	return nil
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOLIO_SET", "value")
	t.Setenv("FOLIO_EMPTY", "")

	cases := map[string]string{
		"${FOLIO_SET}":            "value",
		"$FOLIO_SET":              "value",
		"${FOLIO_EMPTY:-dflt}":    "dflt",
		"${FOLIO_UNSET_XYZ:-a:b}": "a:b",
		"${FOLIO_SET:-dflt}":      "value",
		"${FOLIO_UNSET_XYZ}":      "",
	}
	for in, want := range cases {
		if got := ExpandEnv(in); got != want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadKeepsDefaultsAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("port: 8081\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := &sample{Name: "default"}
	if err := Load(path, s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "default" || s.Port != 8081 || !s.valid {
		t.Errorf("got %+v", s)
	}
}

func TestLoadValidationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	_ = os.WriteFile(path, []byte("name: x\n"), 0o644)
	if err := Load(path, &sample{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "none.yaml"), &sample{Port: 1}); err == nil {
		t.Fatal("expected error for missing file")
	}
	s := &sample{Port: 1}
	if err := LoadOptional(filepath.Join(t.TempDir(), "none.yaml"), s); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if !s.valid {
		t.Error("LoadOptional skipped validation")
	}
}
