package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "prefs.toml"))
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.LastDir != "" {
		t.Fatalf("LastDir = %q, want empty", p.LastDir)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "custom.toml")
	content := "theme = \"Slate\"\nlast_dir = \"" + filepath.ToSlash(tmp) + "\"\n"
	if err := os.WriteFile(prefsFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(prefsFile)
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if filepath.Clean(p.LastDir) != filepath.Clean(tmp) {
		t.Fatalf("LastDir = %q, want %q", p.LastDir, tmp)
	}
}

func TestLoad_TildePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := os.WriteFile(filepath.Join(home, "prefs.toml"), []byte("theme = \"Kanagawa\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if p := Load("~/prefs.toml"); p.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want Kanagawa", p.Theme)
	}
}

func TestLoad_MissingLastDirIsDropped(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	content := "theme = \"Slate\"\nlast_dir = \"/definitely/not/here\"\n"
	if err := os.WriteFile(prefsFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if p := Load(prefsFile); p.LastDir != "" {
		t.Fatalf("LastDir = %q, want dropped", p.LastDir)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Slate", LastDir: tmp}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded := Load(prefsFile)
	if loaded.Theme != "Slate" || loaded.LastDir != tmp {
		t.Fatalf("loaded = %+v, want Slate and %q", loaded, tmp)
	}
}

func TestUpdate_KeepsOtherFields(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := Save(prefsFile, Prefs{Theme: "Slate", LastDir: tmp}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := Update(prefsFile, func(p *Prefs) { p.Theme = "Kanagawa" }); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	loaded := Load(prefsFile)
	if loaded.Theme != "Kanagawa" || loaded.LastDir != tmp {
		t.Fatalf("loaded = %+v, want Kanagawa with LastDir kept", loaded)
	}
}

func TestLoad_FallbacksToDefaultTheme(t *testing.T) {
	cases := map[string]string{
		"empty theme":  "theme = \"\"\n",
		"invalid toml": "not valid toml {{{\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(prefsFile, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if p := Load(prefsFile); p.Theme != defaultTheme {
				t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
			}
		})
	}
}
