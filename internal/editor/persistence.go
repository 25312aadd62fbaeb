package editor

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/lowaak/smart-trainer/powertable-app/internal/config"
)

type editorPersistenceData struct {
	RecentFiles []string `json:"recent_files"`
}

// editorPersistence keeps UI state that outlives a session in a JSON file
type editorPersistence struct {
	filePath string
	data     editorPersistenceData
	logger   *log.Logger
}

// defaultStatePath is ~/.ptab-editor/state.json
func defaultStatePath() string {
	return filepath.Join(config.AppDir(), "state.json")
}

func newEditorPersistence(filePath string, logger *log.Logger) *editorPersistence {
	if filePath == "" {
		filePath = defaultStatePath()
	}
	p := &editorPersistence{
		filePath: filePath,
		logger:   logger,
	}
	p.load()
	return p
}

func (p *editorPersistence) recentFiles() []string {
	return slices.Clone(p.data.RecentFiles)
}

// addRecentFile moves path to the front of the recent list
func (p *editorPersistence) addRecentFile(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	recent := slices.DeleteFunc(slices.Clone(p.data.RecentFiles), func(s string) bool { return s == path })
	recent = append([]string{path}, recent...)
	if len(recent) > maxRecentFiles {
		recent = recent[:maxRecentFiles]
	}
	p.data.RecentFiles = recent
	p.logger.Printf("EditorPersistence: addRecentFile %q", path)
	p.save()
}

func (p *editorPersistence) load() {
	p.data = editorPersistenceData{}
	raw, err := os.ReadFile(p.filePath)
	if err != nil {
		p.logger.Printf("EditorPersistence: load %s (no existing file)", p.filePath)
		return
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		p.logger.Printf("EditorPersistence: load %s failed to parse: %v", p.filePath, err)
		p.data = editorPersistenceData{}
		return
	}
	p.logger.Printf("EditorPersistence: load %s -> %d recent files", p.filePath, len(p.data.RecentFiles))
}

func (p *editorPersistence) save() {
	if err := os.MkdirAll(filepath.Dir(p.filePath), 0755); err != nil {
		p.logger.Printf("EditorPersistence: save mkdir failed: %v", err)
		return
	}
	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		p.logger.Printf("EditorPersistence: save marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(p.filePath, raw, 0644); err != nil {
		p.logger.Printf("EditorPersistence: save %s failed: %v", p.filePath, err)
		return
	}
	p.logger.Printf("EditorPersistence: save %s -> %d recent files", p.filePath, len(p.data.RecentFiles))
}
