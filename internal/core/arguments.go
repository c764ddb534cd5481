package core

import "encoding/json"

// UnmarshalJSON accepts either a bare string or an object of the form
// {"rules": [...], "value": "..."|["...", ...]}, matching the two shapes
// Mojang's structured arguments.game[]/arguments.jvm[] lists use.
func (e *ArgumentElement) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		e.Literal = literal
		e.Value = []string{literal}
		return nil
	}

	var obj struct {
		Rules []Rule          `json:"rules"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.Rules = obj.Rules

	var single string
	if err := json.Unmarshal(obj.Value, &single); err == nil {
		e.Value = []string{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(obj.Value, &many); err != nil {
		return err
	}
	e.Value = many
	return nil
}

// MarshalJSON round-trips a literal as a bare string and a rule-gated
// element as its object form, so ResolvedVspec values written back to a
// disk cache read back unchanged.
func (e ArgumentElement) MarshalJSON() ([]byte, error) {
	if e.Rules == nil {
		if len(e.Value) == 1 {
			return json.Marshal(e.Value[0])
		}
	}
	obj := struct {
		Rules []Rule `json:"rules,omitempty"`
		Value any    `json:"value"`
	}{Rules: e.Rules}
	if len(e.Value) == 1 {
		obj.Value = e.Value[0]
	} else {
		obj.Value = e.Value
	}
	return json.Marshal(obj)
}
