// Package workspace defines the per-space configuration document and the
// mutations a space admin can apply to it.
package workspace

import "fmt"

// BaseRef is one selectable knowledge base in a space's configuration.
type BaseRef struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// Config is the per-space configuration document.
//
// LegacyBaseID carries the old single-base layout; it is folded into Bases
// by MigrateLegacy on first read and never written back.
type Config struct {
	APIKey        string    `json:"apiKey,omitempty"`
	Bases         []BaseRef `json:"baseIds,omitempty"`
	ActiveBaseID  string    `json:"activeBaseId,omitempty"`
	ActiveContext string    `json:"activeContext,omitempty"`
	LegacyBaseID  string    `json:"baseId,omitempty"`
}

// Partial is a merge patch for Config. Nil fields are left untouched by the
// store's merge-on-write.
type Partial struct {
	APIKey        *string    `json:"apiKey,omitempty"`
	Bases         *[]BaseRef `json:"baseIds,omitempty"`
	ActiveBaseID  *string    `json:"activeBaseId,omitempty"`
	ActiveContext *string    `json:"activeContext,omitempty"`
}

// ValidationError reports invalid user input on a config mutation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Complete reports whether the space is configured enough to talk upstream.
func (c *Config) Complete() bool {
	return c.APIKey != "" && c.ActiveBaseID != ""
}

// FindBase returns the base with the given id, or nil.
func (c *Config) FindBase(id string) *BaseRef {
	for i := range c.Bases {
		if c.Bases[i].ID == id {
			return &c.Bases[i]
		}
	}
	return nil
}

// DefaultBase returns the base marked as default, or nil.
func (c *Config) DefaultBase() *BaseRef {
	for i := range c.Bases {
		if c.Bases[i].IsDefault {
			return &c.Bases[i]
		}
	}
	return nil
}

// MigrateLegacy folds a legacy scalar baseId into the Bases slice.
// Returns true if the document changed and should be written back.
func (c *Config) MigrateLegacy() bool {
	if c.LegacyBaseID == "" {
		return false
	}
	legacy := c.LegacyBaseID
	c.LegacyBaseID = ""
	if len(c.Bases) > 0 {
		return true // newer layout wins, just drop the scalar
	}
	c.Bases = []BaseRef{{Name: legacy, ID: legacy, IsDefault: true}}
	if c.ActiveBaseID == "" {
		c.ActiveBaseID = legacy
	}
	return true
}

// Heal restores the document invariants: at most one default, a default
// present whenever Bases is non-empty, and ActiveBaseID referencing an
// existing entry. Returns true if anything changed.
func (c *Config) Heal() bool {
	changed := false

	// Collapse multiple defaults down to the first one.
	seenDefault := false
	for i := range c.Bases {
		if !c.Bases[i].IsDefault {
			continue
		}
		if seenDefault {
			c.Bases[i].IsDefault = false
			changed = true
		}
		seenDefault = true
	}
	if !seenDefault && len(c.Bases) > 0 {
		c.Bases[0].IsDefault = true
		changed = true
	}

	if len(c.Bases) == 0 {
		if c.ActiveBaseID != "" {
			c.ActiveBaseID = ""
			changed = true
		}
		return changed
	}
	if c.FindBase(c.ActiveBaseID) == nil {
		c.ActiveBaseID = c.DefaultBase().ID
		changed = true
	}
	return changed
}

// AddBase appends a new base. The first base added becomes the default and
// the active base.
func (c *Config) AddBase(name, id string) error {
	if name == "" || id == "" {
		return validationf("BASE ID name and value cannot be empty")
	}
	if c.FindBase(id) != nil {
		return validationf("a BASE ID with value %q already exists", id)
	}
	first := len(c.Bases) == 0
	c.Bases = append(c.Bases, BaseRef{Name: name, ID: id, IsDefault: first})
	if first {
		c.ActiveBaseID = id
	}
	return nil
}

// SetDefaultBase marks the given base as default and active.
func (c *Config) SetDefaultBase(id string) error {
	if len(c.Bases) == 0 {
		return validationf("no BASE IDs configured")
	}
	target := c.FindBase(id)
	if target == nil {
		return validationf("BASE ID %q not found", id)
	}
	for i := range c.Bases {
		c.Bases[i].IsDefault = false
	}
	target.IsDefault = true
	c.ActiveBaseID = id
	return nil
}

// DeleteBase removes the given base. If it was the default, the first
// surviving entry is promoted; if it was active, the active base follows the
// (possibly new) default, or is unset when nothing remains.
func (c *Config) DeleteBase(id string) (BaseRef, error) {
	if len(c.Bases) == 0 {
		return BaseRef{}, validationf("no BASE IDs configured")
	}
	idx := -1
	for i := range c.Bases {
		if c.Bases[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return BaseRef{}, validationf("BASE ID %q not found", id)
	}
	deleted := c.Bases[idx]
	c.Bases = append(c.Bases[:idx], c.Bases[idx+1:]...)

	if deleted.IsDefault && len(c.Bases) > 0 {
		c.Bases[0].IsDefault = true
	}
	if c.ActiveBaseID == id {
		if def := c.DefaultBase(); def != nil {
			c.ActiveBaseID = def.ID
		} else {
			c.ActiveBaseID = ""
		}
	}
	return deleted, nil
}

// SetActiveContext selects a named context within the active base.
func (c *Config) SetActiveContext(name string) {
	c.ActiveContext = name
}
