// internal/world/world.go
//
// Read-only model of the crime scene.
// Responsibilities:
//   - Hold rooms, clue text, interrogation responses, the fact/hint tables and the solution.
//   - Validate the graph once at load time (exits, suspects, collectibles).
//   - Hand out copies so callers cannot mutate shared state.
//
// A World is built by Load/Parse and never changes afterwards, so it is safe for
// concurrent readers without locking.

package world

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
)

// World is the immutable case definition.
type World struct {
	name           string
	startRoom      string
	rooms          map[string]Room
	clues          map[string]string
	interrogations map[Suspect]string
	itemFacts      map[string]string
	itemHints      map[string]string
	collectibles   map[string]Collectible
	solution       Solution
}

// Name returns the display name of the case.
func (w *World) Name() string { return w.name }

// StartRoom returns the ID of the room a new game begins in.
func (w *World) StartRoom() string { return w.startRoom }

// Solution returns the hidden killer/weapon/motive triple.
func (w *World) Solution() Solution { return w.solution }

// Room returns a copy of the room with the given ID.
func (w *World) Room(id string) (Room, bool) {
	r, ok := w.rooms[id]
	if !ok {
		return Room{}, false
	}
	return Room{
		ID:          r.ID,
		Description: r.Description,
		Exits:       maps.Clone(r.Exits),
		Items:       slices.Clone(r.Items),
		Suspects:    slices.Clone(r.Suspects),
	}, true
}

// RoomIDs returns all room IDs in lexical order.
func (w *World) RoomIDs() []string {
	ids := make([]string, 0, len(w.rooms))
	for id := range w.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clue returns the text revealed by examining item.
func (w *World) Clue(item string) (string, bool) {
	c, ok := w.clues[item]
	return c, ok
}

// Interrogation returns what s says when questioned.
func (w *World) Interrogation(s Suspect) (string, bool) {
	t, ok := w.interrogations[s]
	return t, ok
}

// ItemFact returns the fact learned by examining item, if any.
func (w *World) ItemFact(item string) (string, bool) {
	f, ok := w.itemFacts[item]
	return f, ok
}

// ItemHint returns extra text appended after examining item, if any.
func (w *World) ItemHint(item string) (string, bool) {
	h, ok := w.itemHints[item]
	return h, ok
}

// Collectible returns the collectible registered under id.
func (w *World) Collectible(id string) (Collectible, bool) {
	c, ok := w.collectibles[id]
	return c, ok
}

// Validate checks the world invariants and reports every violation found.
func (w *World) Validate() error {
	var errs []error

	if _, ok := w.rooms[w.startRoom]; !ok {
		errs = append(errs, fmt.Errorf("start room %q not found", w.startRoom))
	}
	for _, id := range w.RoomIDs() {
		r := w.rooms[id]
		if r.Description == "" {
			errs = append(errs, fmt.Errorf("room %q: description must not be empty", id))
		}
		for dir, target := range r.Exits {
			if !dir.Valid() {
				errs = append(errs, fmt.Errorf("room %q: exit %q: %w", id, dir, ErrUnknownDirection))
			}
			if _, ok := w.rooms[target]; !ok {
				errs = append(errs, fmt.Errorf("room %q: exit %q targets unknown room %q", id, dir, target))
			}
		}
		for _, s := range r.Suspects {
			if !s.Valid() {
				errs = append(errs, fmt.Errorf("room %q: suspect %q: %w", id, s, ErrUnknownSuspect))
				continue
			}
			if _, ok := w.interrogations[s]; !ok {
				errs = append(errs, fmt.Errorf("room %q: suspect %q has no interrogation response", id, s))
			}
		}
	}
	for id, c := range w.collectibles {
		if c.RequiresItem == "" || !w.itemPlaced(c.RequiresItem) {
			errs = append(errs, fmt.Errorf("collectible %q: required item %q is not in any room", id, c.RequiresItem))
		}
		if c.Inventory == "" {
			errs = append(errs, fmt.Errorf("collectible %q: inventory entry must not be empty", id))
		}
	}
	if w.solution.Killer == "" || w.solution.Weapon == "" || w.solution.Motive == "" {
		errs = append(errs, errors.New("solution: killer, weapon and motive are required"))
	}
	return errors.Join(errs...)
}

func (w *World) itemPlaced(item string) bool {
	for _, r := range w.rooms {
		if r.HasItem(item) {
			return true
		}
	}
	return false
}
