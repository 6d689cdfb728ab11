package override

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	if registry.Count() != 0 {
		t.Errorf("Count() = %d, want 0", registry.Count())
	}
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(DefaultRules()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want 1", registry.Count())
	}

	set, ok := registry.Get("up-roster-defaults")
	if !ok {
		t.Fatal("Get() should find the registered set")
	}
	if !set.Patterns[0].IsCompiled() {
		t.Error("pattern rules should be compiled after Register")
	}
}

func TestRegistryRegister_Invalid(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(nil); err == nil {
		t.Error("Register(nil) should error")
	}
	if err := registry.Register(&RuleSet{Name: "empty"}); err == nil {
		t.Error("Register() of an empty set should error")
	}
	if err := registry.Register(&RuleSet{
		Name:     "bad-regex",
		Patterns: []PatternRule{{Name: "p", Pattern: `([`, Value: "v"}},
	}); err == nil {
		t.Error("Register() with an invalid pattern should error")
	}
}

func TestRegistrySets_KeepLoadOrder(t *testing.T) {
	registry := NewRegistry()

	first := &RuleSet{Name: "first", Exact: map[string]string{"a": "1"}}
	second := &RuleSet{Name: "second", Exact: map[string]string{"b": "2"}}
	if err := registry.Register(first); err != nil {
		t.Fatalf("Register(first) error = %v", err)
	}
	if err := registry.Register(second); err != nil {
		t.Fatalf("Register(second) error = %v", err)
	}

	sets := registry.Sets()
	if len(sets) != 2 || sets[0].Name != "first" || sets[1].Name != "second" {
		t.Errorf("Sets() out of load order: %v", []string{sets[0].Name, sets[1].Name})
	}

	// Re-registering keeps the original position.
	if err := registry.Register(&RuleSet{Name: "first", Exact: map[string]string{"a": "updated"}}); err != nil {
		t.Fatalf("Register(first again) error = %v", err)
	}
	sets = registry.Sets()
	if len(sets) != 2 || sets[0].Name != "first" {
		t.Errorf("re-registered set should keep its position: %v", sets)
	}
	if sets[0].Exact["a"] != "updated" {
		t.Errorf("re-registered set should replace content, got %q", sets[0].Exact["a"])
	}
}

func TestRegistryLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	ruleFile := filepath.Join(tmpDir, "district.yaml")

	yamlContent := `
name: "district-fixes"
exact:
  "DH BASTI": "जिला चिकित्सालय, बस्ती"
patterns:
  - name: "dh-basti"
    pattern: '\s*DH\s+BASTI\s*'
    value: "जिला चिकित्सालय, बस्ती"
`
	if err := os.WriteFile(ruleFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadFile(ruleFile); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	set, ok := registry.Get("district-fixes")
	if !ok {
		t.Fatal("Get() should find the loaded set")
	}
	if set.Exact["DH BASTI"] != "जिला चिकित्सालय, बस्ती" {
		t.Errorf("exact entry = %q", set.Exact["DH BASTI"])
	}
	if !set.Patterns[0].IsCompiled() {
		t.Error("patterns should be compiled after loading")
	}

	resolver, err := registry.Resolver()
	if err != nil {
		t.Fatalf("Resolver() error = %v", err)
	}
	if value, ok := resolver.Resolve("dh  basti"); !ok || value != "जिला चिकित्सालय, बस्ती" {
		t.Errorf("Resolve(dh  basti) = %q, %v", value, ok)
	}
}

func TestRegistryLoadFile_NameDefaultsToFileName(t *testing.T) {
	tmpDir := t.TempDir()
	ruleFile := filepath.Join(tmpDir, "local-fixes.yaml")

	yamlContent := `
exact:
  "X": "य"
`
	if err := os.WriteFile(ruleFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadFile(ruleFile); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if _, ok := registry.Get("local-fixes"); !ok {
		t.Error("set name should default to the file name")
	}
}

func TestRegistryLoadDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"a.yaml":    "name: set-a\nexact:\n  \"A\": \"क\"\n",
		"b.yml":     "name: set-b\nexact:\n  \"B\": \"ख\"\n",
		"ignore.md": "not a rule file",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}

	registry := NewRegistry()
	if err := registry.LoadDirectory(tmpDir); err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}

	sets := registry.Sets()
	if sets[0].Name != "set-a" || sets[1].Name != "set-b" {
		t.Errorf("sets should load in file-name order: %v", []string{sets[0].Name, sets[1].Name})
	}
}

func TestRegistryLoadDirectoryNonExistent(t *testing.T) {
	registry := NewRegistry()
	if err := registry.LoadDirectory("/non/existent/path"); err != nil {
		t.Errorf("LoadDirectory() of a missing directory should not error, got %v", err)
	}
	if registry.Count() != 0 {
		t.Errorf("Count() = %d, want 0", registry.Count())
	}
}

func TestRegistryReload(t *testing.T) {
	tmpDir := t.TempDir()
	ruleFile := filepath.Join(tmpDir, "set.yaml")

	if err := os.WriteFile(ruleFile, []byte("name: set\nexact:\n  \"A\": \"original\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	registry, err := NewRegistryWithDirectory(tmpDir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory() error = %v", err)
	}

	if err := os.WriteFile(ruleFile, []byte("name: set\nexact:\n  \"A\": \"updated\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := registry.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	set, _ := registry.Get("set")
	if set.Exact["A"] != "updated" {
		t.Errorf("after reload Exact[A] = %q, want %q", set.Exact["A"], "updated")
	}
}

func TestRegistryReloadNoDirectory(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Reload(); err == nil {
		t.Error("Reload() without a directory should error")
	}
}

func TestRegistryWatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping watch test in short mode")
	}

	tmpDir := t.TempDir()
	ruleFile := filepath.Join(tmpDir, "watched.yaml")
	if err := os.WriteFile(ruleFile, []byte("name: watched\nexact:\n  \"A\": \"original\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	registry, err := NewRegistryWithDirectory(tmpDir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory() error = %v", err)
	}

	changed := make(chan bool, 1)
	registry.SetOnChange(func(event string, set *RuleSet) {
		select {
		case changed <- true:
		default:
		}
	})

	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer registry.StopWatch()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(ruleFile, []byte("name: watched\nexact:\n  \"A\": \"updated\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-changed:
		time.Sleep(100 * time.Millisecond)
	case <-time.After(3 * time.Second):
		// File watching can be flaky in CI environments.
		t.Log("Watch() did not detect the change within timeout (may be CI environment)")
		return
	}

	set, _ := registry.Get("watched")
	if set.Exact["A"] != "updated" {
		t.Errorf("after watch reload Exact[A] = %q, want %q", set.Exact["A"], "updated")
	}
}

func TestRegistryWatchNoDirectory(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Watch(); err == nil {
		t.Error("Watch() without a directory should error")
	}
}
