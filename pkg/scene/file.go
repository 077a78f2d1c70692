package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/token-hud/pkg/actor"
)

// Format is a scene file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Combat is the serialised combat tracker.
type Combat struct {
	Round      int      `json:"round,omitempty"`
	Combatants []string `json:"combatants,omitempty"`
}

// Settings are the serialised HUD settings of a scene.
type Settings struct {
	OnlyCombatants bool `json:"only_combatants,omitempty"`
}

// File is the on-disk and over-the-wire form of a scene.
type File struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Tokens   []actor.Token `json:"tokens"`
	Actors   []actor.Actor `json:"actors"`
	Combat   Combat        `json:"combat,omitempty"`
	Settings Settings      `json:"settings,omitempty"`
}

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported scene file extension %q", filepath.Ext(path))
	}
}

// Parse decodes a scene file. YAML documents use the same field names as JSON.
func Parse(data []byte, format Format) (*File, error) {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML scene: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML scene: %w", err)
		}
		data = converted
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return &f, nil
}

// ReadFile loads and decodes a scene file.
func ReadFile(path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Parse(data, format)
}

// Load reads a scene file and builds the scene.
func Load(path string) (*Scene, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromFile(f)
}

// Encode serialises a scene file.
func Encode(f *File, format Format) ([]byte, error) {
	if format == FormatYAML {
		var doc any
		data, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(f, "", "  ")
}

// Save writes the scene to path in the format its extension names.
func (s *Scene) Save(path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(s.File(), format)
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

// Validate reports every structural problem in a scene file.
func Validate(f *File) []string {
	var problems []string
	if f.ID == "" {
		problems = append(problems, "scene id is required")
	}

	actors := make(map[string]*actor.Actor, len(f.Actors))
	for i := range f.Actors {
		a := &f.Actors[i]
		if a.ID == "" {
			problems = append(problems, fmt.Sprintf("actor %d: id is required", i))
			continue
		}
		if _, dup := actors[a.ID]; dup {
			problems = append(problems, fmt.Sprintf("actor %q: duplicate id", a.ID))
		}
		actors[a.ID] = a
		if a.Resources.HP != nil && a.Resources.HP.Max <= 0 {
			problems = append(problems, fmt.Sprintf("actor %q: hp max must be positive", a.ID))
		}
		for _, ref := range a.PinnedMoves {
			itemID, moveID, ok := actor.ParsePinned(ref)
			if !ok {
				problems = append(problems, fmt.Sprintf("actor %q: malformed pinned move %q", a.ID, ref))
				continue
			}
			item, ok := a.Item(itemID)
			if !ok {
				problems = append(problems, fmt.Sprintf("actor %q: pinned move %q references missing item", a.ID, ref))
				continue
			}
			if _, ok := item.Move(moveID); !ok {
				problems = append(problems, fmt.Sprintf("actor %q: pinned move %q references missing move", a.ID, ref))
			}
		}
	}

	tokens := make(map[string]bool, len(f.Tokens))
	for i, t := range f.Tokens {
		if t.ID == "" {
			problems = append(problems, fmt.Sprintf("token %d: id is required", i))
			continue
		}
		if tokens[t.ID] {
			problems = append(problems, fmt.Sprintf("token %q: duplicate id", t.ID))
		}
		tokens[t.ID] = true
		if t.ActorID != "" && actors[t.ActorID] == nil {
			problems = append(problems, fmt.Sprintf("token %q: unknown actor %q", t.ID, t.ActorID))
		}
	}
	for _, id := range f.Combat.Combatants {
		if !tokens[id] {
			problems = append(problems, fmt.Sprintf("combatant %q: unknown token", id))
		}
	}
	return problems
}
