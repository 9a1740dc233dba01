package console

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// prefsFile is the settings document persisted between runs
type prefsFile struct {
	CelebrationsEnabled bool `json:"celebrations_enabled"`
}

// Prefs holds per-operator preferences persisted to a JSON file in the user
// config directory. Toggling a preference never interrupts detection; it
// only gates the cosmetic effects.
type Prefs struct {
	mu     sync.Mutex
	path   string
	state  prefsFile
	logger *zap.Logger
}

// LoadPrefs reads the preference file, falling back to defaults when it is
// missing or unreadable
func LoadPrefs(appName string, logger *zap.Logger) *Prefs {
	p := &Prefs{
		state:  prefsFile{CelebrationsEnabled: true},
		logger: logger,
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		logger.Warn("no user config dir, preferences will not persist", zap.Error(err))
		return p
	}
	p.path = filepath.Join(dir, appName, "prefs.json")

	data, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read preferences", zap.Error(err))
		}
		return p
	}
	if err := json.Unmarshal(data, &p.state); err != nil {
		logger.Warn("malformed preference file, using defaults", zap.Error(err))
		p.state = prefsFile{CelebrationsEnabled: true}
	}
	return p
}

// CelebrationsEnabled reports whether celebration effects should render
func (p *Prefs) CelebrationsEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.CelebrationsEnabled
}

// SetCelebrationsEnabled updates and persists the celebration preference
func (p *Prefs) SetCelebrationsEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.CelebrationsEnabled = enabled
	p.save()
}

func (p *Prefs) save() {
	if p.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		p.logger.Warn("failed to create preference dir", zap.Error(err))
		return
	}
	data, err := json.MarshalIndent(p.state, "", "  ")
	if err != nil {
		p.logger.Warn("failed to encode preferences", zap.Error(err))
		return
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		p.logger.Warn("failed to write preferences", zap.Error(err))
	}
}
