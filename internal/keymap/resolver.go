package keymap

import "github.com/charmbracelet/bubbles/key"

// Resolver maps key strings to actions.
type Resolver struct {
	bindings []Binding
	byKey    map[string]Action   // key -> action
	byAction map[Action][]string // action -> keys (for help/documentation)
}

// NewResolver creates a resolver from bindings. When two bindings claim a
// key, the first wins.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: bindings,
		byKey:    make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			if _, taken := r.byKey[k]; !taken {
				r.byKey[k] = b.Action
			}
		}
		r.byAction[b.Action] = append(r.byAction[b.Action], b.Keys...)
	}
	for action, keys := range r.byAction {
		r.byAction[action] = dedupe(keys)
	}
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(k string) Action {
	return r.byKey[k]
}

// KeysFor returns the keys bound to an action (for help/documentation).
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// ShortHelp implements help.KeyMap.
func (r *Resolver) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(r.bindings))
	seen := make(map[Action]bool)
	for _, b := range r.bindings {
		if seen[b.Action] {
			continue
		}
		seen[b.Action] = true
		out = append(out, b.Key())
	}
	return out
}

// FullHelp implements help.KeyMap, one column per context.
func (r *Resolver) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	index := make(map[string]int)
	for _, b := range r.bindings {
		i, ok := index[b.Context]
		if !ok {
			i = len(cols)
			index[b.Context] = i
			cols = append(cols, nil)
		}
		cols[i] = append(cols[i], b.Key())
	}
	return cols
}

// dedupe removes duplicate strings from a slice.
func dedupe(s []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
