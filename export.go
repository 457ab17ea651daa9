package selectable

import (
	"context"
	"fmt"
	"strings"

	"github.com/pitabwire/util"
)

// Export builds the nested translation tree of enums in the locale carried by
// ctx: scope path elements become nested maps and each leaf maps entry keys
// to names. Enumerations without a scope are skipped with a warning.
func Export(ctx context.Context, enums ...Exportable) (map[string]any, error) {
	out := map[string]any{}
	// Joined scope paths already holding entry names, and those holding nested scopes.
	leaves := map[string]bool{}
	branches := map[string]bool{}

	for _, e := range enums {
		scope := e.Scope()
		if len(scope) == 0 {
			util.Log(ctx).WithField("enumeration", e.Name()).
				Warn(fmt.Sprintf("no i18n_scope of %s", RegistryKey(e)))
			continue
		}

		if collides(scope, leaves, branches) {
			util.Log(ctx).WithField("enumeration", e.Name()).
				WithField("scope", strings.Join(scope, ".")).
				Warn(fmt.Sprintf("i18n_scope of %s overlaps the entries of another enumeration", RegistryKey(e)))
			continue
		}

		names, err := e.Translations(ctx)
		if err != nil {
			return nil, err
		}

		for i := 1; i < len(scope); i++ {
			branches[strings.Join(scope[:i], ".")] = true
		}
		leaves[strings.Join(scope, ".")] = true

		node := out
		for _, part := range scope[:len(scope)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}

		leafName := scope[len(scope)-1]
		leaf, ok := node[leafName].(map[string]any)
		if !ok {
			leaf = make(map[string]any, len(names))
			node[leafName] = leaf
		}
		for k, v := range names {
			leaf[k] = v
		}
	}
	return out, nil
}

// collides reports whether scope would nest inside another enumeration's
// entries or place entries where other scopes nest.
func collides(scope []string, leaves, branches map[string]bool) bool {
	if branches[strings.Join(scope, ".")] {
		return true
	}
	for i := 1; i < len(scope); i++ {
		if leaves[strings.Join(scope[:i], ".")] {
			return true
		}
	}
	return false
}
