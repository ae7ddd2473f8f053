// Package settings parses the opaque user-settings payload at the boundary,
// per the "ad-hoc JSON for user pigment selection" redesign note: everything
// past Parse works with a typed Settings value, never a raw string or JSON
// blob. The persisted record splits into two independent fields (a
// stringified selections object and a free-text mix-choice column); Parse
// handles the former, pkg/recipe.ParseStrategy the latter.
package settings

import "encoding/json"

// Settings is a user's saved pigment selection: brand id to the pigment ids
// chosen from it.
type Settings struct {
	Selections map[string][]string
}

// Parse decodes the `{ "<brand_id>": ["pigment_id", ...] }` payload.
// Malformed or empty input yields an empty Settings; Parse never returns an
// error, since a corrupted user record degrades to "no selections" rather
// than failing the request it's attached to.
func Parse(raw string) Settings {
	selections := map[string][]string{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &selections)
	}
	if selections == nil {
		selections = map[string][]string{}
	}
	return Settings{Selections: selections}
}
