package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/pitabwire/selectable/catalog"
)

func (s *CatalogSuite) get(srv *httptest.Server, path, acceptLanguage string) (int, []byte) {
	req, err := http.NewRequestWithContext(s.T().Context(), http.MethodGet, srv.URL+path, nil)
	s.Require().NoError(err)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}

	resp, err := srv.Client().Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	var body json.RawMessage
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func (s *CatalogSuite) TestHandlerOptions() {
	srv := httptest.NewServer(catalog.Handler(s.build()))
	defer srv.Close()

	status, body := s.get(srv, "/enumerations/"+productType+"/options", "ja-JP,ja;q=0.9,en;q=0.8")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[
		{"name": "Others", "id": "09"},
		{"name": "書籍", "id": "01"},
		{"name": "DVD", "id": "02"},
		{"name": "CD", "id": "03"}
	]`, string(body))

	status, body = s.get(srv, "/enumerations/Product.size_cd/options?lang=en", "ja")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[{"name": "Small", "id": "S"}, {"name": "Large", "id": "L"}]`, string(body),
		"the lang parameter outranks the header")

	status, body = s.get(srv, "/enumerations/colors/options", "")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[{"name": "Red", "id": "r"}, {"name": "Green", "id": "g"}]`, string(body))
}

func (s *CatalogSuite) TestHandlerListingAndSummary() {
	srv := httptest.NewServer(catalog.Handler(s.build()))
	defer srv.Close()

	status, body := s.get(srv, "/enumerations", "")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"enumerations": ["Product.product_type_cd", "Product.size_cd", "enum1", "colors"]}`, string(body))

	status, body = s.get(srv, "/enumerations/enum1", "ja")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{
		"name": "enum1",
		"scope": ["selectable_attrs", "enum1"],
		"locale": "ja",
		"entries": [
			{"id": "1", "key": "entry1", "name": "エントリ壱"},
			{"id": "2", "key": "entry2", "name": "エントリ弐"},
			{"id": "3", "key": "entry3", "name": "エントリ参"}
		]
	}`, string(body))

	status, body = s.get(srv, "/translations?lang=en", "")
	s.Equal(http.StatusOK, status)
	s.Contains(string(body), `"entry1":"entry one"`)
}

func (s *CatalogSuite) TestHandlerErrors() {
	srv := httptest.NewServer(catalog.Handler(s.build()))
	defer srv.Close()

	status, body := s.get(srv, "/enumerations/Product.color_cd/options", "")
	s.Equal(http.StatusNotFound, status)
	s.Contains(string(body), "unknown enumeration")

	s.fail.Store(true)
	status, body = s.get(srv, "/enumerations/"+productType+"/options", "")
	s.Equal(http.StatusBadGateway, status)
	s.NotContains(string(body), errDatabaseDown.Error())
}
