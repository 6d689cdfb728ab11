package override

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

// Registry manages rule sets loaded from YAML files. Sets keep their load
// order, which fixes the order their pattern rules are consulted in when
// the registry is turned into a Resolver.
type Registry struct {
	mu       sync.RWMutex
	sets     map[string]*RuleSet
	order    []string
	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(event string, set *RuleSet)
}

// NewRegistry creates an empty rule-set registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]*RuleSet)}
}

// NewRegistryWithDirectory creates a registry and loads every rule file
// from dir.
func NewRegistryWithDirectory(dir string) (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Register validates, compiles and stores a rule set. Registering a name
// again replaces the previous set in place, keeping its position in the
// load order.
func (r *Registry) Register(set *RuleSet) error {
	if set == nil {
		return fmt.Errorf("rule set cannot be nil")
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid rule set: %w", err)
	}
	if err := set.Compile(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sets[set.Name]; !ok {
		r.order = append(r.order, set.Name)
	}
	r.sets[set.Name] = set
	return nil
}

// Get returns a rule set by name.
func (r *Registry) Get(name string) (*RuleSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[name]
	return set, ok
}

// Sets returns all registered rule sets in load order.
func (r *Registry) Sets() []*RuleSet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sets := make([]*RuleSet, 0, len(r.order))
	for _, name := range r.order {
		sets = append(sets, r.sets[name])
	}
	return sets
}

// Count returns the number of registered rule sets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}

// Resolver builds a resolver over the registered sets in load order.
func (r *Registry) Resolver() (*Resolver, error) {
	return NewResolver(r.Sets()...)
}

// LoadFile loads a single YAML rule-set file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if set.Name == "" {
		// Fall back to the file name so hand-written files stay terse.
		base := filepath.Base(path)
		set.Name = strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")
	}

	if err := r.Register(&set); err != nil {
		return fmt.Errorf("registering rule set from %s: %w", path, err)
	}
	return nil
}

// LoadDirectory loads every YAML rule file from a directory, in file-name
// order. A missing directory loads nothing.
func (r *Registry) LoadDirectory(dir string) error {
	r.mu.Lock()
	r.dir = dir
	r.mu.Unlock()

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		if err := r.LoadFile(filepath.Join(dir, name)); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", name, err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading rule sets: %s", strings.Join(loadErrors, "; "))
	}
	return nil
}

// Reload clears the registry and reloads from the configured directory.
func (r *Registry) Reload() error {
	r.mu.Lock()
	if r.dir == "" {
		r.mu.Unlock()
		return fmt.Errorf("no directory configured for reload")
	}
	dir := r.dir
	r.sets = make(map[string]*RuleSet)
	r.order = nil
	r.mu.Unlock()

	return r.LoadDirectory(dir)
}

// SetOnChange sets a callback invoked after a watched file changes the
// registry.
func (r *Registry) SetOnChange(fn func(event string, set *RuleSet)) {
	r.onChange = fn
}

// Watch starts watching the configured directory for rule-file changes.
func (r *Registry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	r.watcher = watcher
	r.stopChan = make(chan struct{})

	go r.watchLoop()

	if err := watcher.Add(r.dir); err != nil {
		r.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}
	return nil
}

// watchLoop handles file system events until StopWatch.
func (r *Registry) watchLoop() {
	for {
		select {
		case <-r.stopChan:
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				r.handleFileChange(event.Name, "create")
			case event.Op&fsnotify.Write == fsnotify.Write:
				r.handleFileChange(event.Name, "modify")
			case event.Op&fsnotify.Remove == fsnotify.Remove:
				r.handleFileRemove()
			case event.Op&fsnotify.Rename == fsnotify.Rename:
				r.handleFileRemove()
			}

		case _, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (r *Registry) handleFileChange(path, eventType string) {
	if err := r.LoadFile(path); err != nil {
		return
	}
	if r.onChange != nil {
		base := filepath.Base(path)
		name := strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")
		if set, ok := r.Get(name); ok {
			r.onChange(eventType, set)
		}
	}
}

func (r *Registry) handleFileRemove() {
	// No file-to-set mapping is tracked; rebuild from the directory.
	if err := r.Reload(); err != nil {
		return
	}
	if r.onChange != nil {
		r.onChange("remove", nil)
	}
}

// StopWatch stops watching the rule directory.
func (r *Registry) StopWatch() {
	if r.stopChan != nil {
		close(r.stopChan)
	}
	if r.watcher != nil {
		r.watcher.Close()
	}
}
