// internal/world/loader.go
//
// Loads the case definition from YAML.
//
// Initialization behavior (Load):
//   1. If a path is given (WORLD_FILE), read the case from that file.
//   2. Otherwise fall back to the embedded Blackwood Manor case in assets.
//
// Either way the parsed world is validated before it is returned.

package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/blackwood-mystery/assets"
)

type yamlWorld struct {
	Name           string            `yaml:"name"`
	StartRoom      string            `yaml:"start_room"`
	Rooms          []yamlRoom        `yaml:"rooms"`
	Clues          map[string]string `yaml:"clues"`
	Interrogations map[string]string `yaml:"interrogations"`
	ItemFacts      map[string]string `yaml:"item_facts"`
	ItemHints      map[string]string `yaml:"item_hints"`
	Collectibles   []yamlCollectible `yaml:"collectibles"`
	Solution       yamlSolution      `yaml:"solution"`
}

type yamlRoom struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description"`
	Exits       map[string]string `yaml:"exits"`
	Items       []string          `yaml:"items"`
	Suspects    []string          `yaml:"suspects"`
}

type yamlCollectible struct {
	ID           string `yaml:"id"`
	RequiresItem string `yaml:"requires_item"`
	Inventory    string `yaml:"inventory"`
	Fact         string `yaml:"fact"`
	Message      string `yaml:"message"`
}

type yamlSolution struct {
	Killer string `yaml:"killer"`
	Weapon string `yaml:"weapon"`
	Motive string `yaml:"motive"`
}

// Load reads the case from path, or the embedded default when path is empty.
func Load(path string) (*World, error) {
	if path == "" {
		data, err := assets.World()
		if err != nil {
			return nil, fmt.Errorf("read embedded world: %w", err)
		}
		return Parse(data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a case definition.
func Parse(data []byte) (*World, error) {
	var yw yamlWorld
	if err := yaml.Unmarshal(data, &yw); err != nil {
		return nil, fmt.Errorf("parse world yaml: %w", err)
	}
	w, err := convert(yw)
	if err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("validate world: %w", err)
	}
	return w, nil
}

// convert maps the YAML shapes onto domain types. Duplicate room or
// collectible IDs are rejected here since the maps would silently drop them.
func convert(yw yamlWorld) (*World, error) {
	w := &World{
		name:           yw.Name,
		startRoom:      yw.StartRoom,
		rooms:          make(map[string]Room, len(yw.Rooms)),
		clues:          orEmpty(yw.Clues),
		interrogations: make(map[Suspect]string, len(yw.Interrogations)),
		itemFacts:      orEmpty(yw.ItemFacts),
		itemHints:      orEmpty(yw.ItemHints),
		collectibles:   make(map[string]Collectible, len(yw.Collectibles)),
		solution:       Solution(yw.Solution),
	}

	for _, yr := range yw.Rooms {
		if _, dup := w.rooms[yr.ID]; dup {
			return nil, fmt.Errorf("duplicate room ID %q", yr.ID)
		}
		room := Room{
			ID:          yr.ID,
			Description: strings.TrimSpace(yr.Description),
			Exits:       make(map[Direction]string, len(yr.Exits)),
			Items:       append([]string{}, yr.Items...),
		}
		for dir, target := range yr.Exits {
			room.Exits[Direction(strings.ToLower(dir))] = target
		}
		for _, s := range yr.Suspects {
			room.Suspects = append(room.Suspects, Suspect(s))
		}
		w.rooms[room.ID] = room
	}

	for name, text := range yw.Interrogations {
		w.interrogations[Suspect(name)] = text
	}

	for _, yc := range yw.Collectibles {
		if _, dup := w.collectibles[yc.ID]; dup {
			return nil, fmt.Errorf("duplicate collectible ID %q", yc.ID)
		}
		w.collectibles[yc.ID] = Collectible(yc)
	}

	return w, nil
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
