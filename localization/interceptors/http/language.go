package http

import (
	"net/http"

	"github.com/pitabwire/selectable/localization"
)

// LanguageHTTPMiddleware reads the lang query parameter and Accept-Language
// header and puts the languages on the request context.
func LanguageHTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := localization.ExtractLanguageFromHTTPRequest(r)
		if len(l) > 0 {
			r = r.WithContext(localization.ToContext(r.Context(), l))
		}

		next.ServeHTTP(w, r)
	})
}
