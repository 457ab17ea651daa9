package selectable

import "context"

// Translator resolves display names from a translation catalog. The locale is
// read from ctx on every call. A miss is reported with ok == false and is
// never an error.
type Translator interface {
	Resolve(ctx context.Context, scope []string, key string) (string, bool)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(ctx context.Context, scope []string, key string) (string, bool)

func (f TranslatorFunc) Resolve(ctx context.Context, scope []string, key string) (string, bool) {
	return f(ctx, scope, key)
}

// resolveNames rewrites entry names in place with catalog hits. Entries keep
// the name produced by the merge on a miss.
func resolveNames[ID comparable](ctx context.Context, t Translator, scope []string, entries []Entry[ID]) {
	if t == nil || len(scope) == 0 {
		return
	}
	for i, e := range entries {
		if name, ok := t.Resolve(ctx, scope, e.key); ok && name != "" {
			entries[i] = e.withName(name)
		}
	}
}
