package assembler

import (
	"encoding/json"

	"resumax/internal/types"
)

// Selection is the per-section selection state: either a simple
// on/off toggle or a complex toggle with individually selected item
// indices. The JSON form mirrors the UI payload: a bare boolean for
// simple sections, {"enabled": bool, "items": [ints]} for complex
// ones.
type Selection struct {
	complex bool
	enabled bool
	items   []int
}

// Simple returns a whole-section selection.
func Simple(enabled bool) Selection {
	return Selection{enabled: enabled}
}

// Complex returns an item-level selection.
func Complex(enabled bool, items []int) Selection {
	return Selection{complex: true, enabled: enabled, items: items}
}

// IsComplex reports whether the selection carries item indices.
func (s Selection) IsComplex() bool { return s.complex }

// Enabled reports whether the section is selected at all.
func (s Selection) Enabled() bool { return s.enabled }

// Items returns the selected item indices. Only meaningful for
// complex selections.
func (s Selection) Items() []int { return s.items }

// UnmarshalJSON accepts either a bare boolean or an enabled/items
// object.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var enabled bool
	if err := json.Unmarshal(data, &enabled); err == nil {
		*s = Simple(enabled)
		return nil
	}

	var complexSel struct {
		Enabled bool  `json:"enabled"`
		Items   []int `json:"items"`
	}
	if err := json.Unmarshal(data, &complexSel); err != nil {
		return types.NewAppError(types.ErrInvalidInput,
			"selection must be a boolean or an enabled/items object", err)
	}
	*s = Complex(complexSel.Enabled, complexSel.Items)
	return nil
}

// MarshalJSON emits the UI wire form.
func (s Selection) MarshalJSON() ([]byte, error) {
	if !s.complex {
		return json.Marshal(s.enabled)
	}
	items := s.items
	if items == nil {
		items = []int{}
	}
	return json.Marshal(struct {
		Enabled bool  `json:"enabled"`
		Items   []int `json:"items"`
	}{Enabled: s.enabled, Items: items})
}

// Selections maps normalized section keys to their selection state.
type Selections map[types.SectionKey]Selection

// UnmarshalJSON validates section keys at the boundary: malformed
// keys are rejected outright rather than tolerated internally. Stale
// but well-formed keys are kept and ignored later at assembly time.
func (sel *Selections) UnmarshalJSON(data []byte) error {
	var raw map[string]Selection
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Selections, len(raw))
	for key, value := range raw {
		k := types.SectionKey(key)
		if !k.Valid() {
			return types.NewAppErrorWithDetails(types.ErrInvalidInput,
				"malformed section key", key, nil)
		}
		out[k] = value
	}
	*sel = out
	return nil
}
