package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pitabwire/util"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pitabwire/selectable"
	languageHTTP "github.com/pitabwire/selectable/localization/interceptors/http"
)

// Handler serves the catalog in the locale named by the lang query parameter
// or the Accept-Language header:
//
//	GET /enumerations                     keys in declaration order
//	GET /enumerations/{name}              summary of one enumeration
//	GET /enumerations/{name}/options      [{"name": ..., "id": ...}]
//	GET /translations                     the exported translation tree
func Handler(c *Catalog) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /enumerations", c.serveKeys)
	mux.HandleFunc("GET /enumerations/{name}", c.serveSummary)
	mux.HandleFunc("GET /enumerations/{name}/options", c.serveOptions)
	mux.HandleFunc("GET /translations", c.serveTranslations)

	return otelhttp.NewHandler(languageHTTP.LanguageHTTPMiddleware(mux), "selectable")
}

func (c *Catalog) serveKeys(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"enumerations": c.Keys()})
}

func (c *Catalog) serveSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Summary(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (c *Catalog) serveOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := c.Options(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if opts == nil {
		opts = []selectable.SelectOption[string]{}
	}
	writeJSON(w, http.StatusOK, opts)
}

func (c *Catalog) serveTranslations(w http.ResponseWriter, r *http.Request) {
	tree, err := c.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrUnknownEnumeration) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	util.Log(r.Context()).WithError(err).WithField("path", r.URL.Path).Error("could not read enumeration")
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "override source unavailable"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
