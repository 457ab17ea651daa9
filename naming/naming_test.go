package naming_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/selectable/naming"
)

type NamingSuite struct {
	suite.Suite
}

func TestNamingSuite(t *testing.T) {
	suite.Run(t, new(NamingSuite))
}

func (s *NamingSuite) TestDefaultPattern() {
	testCases := []struct {
		field string
		base  string
	}{
		{field: "product_type_cd", base: "product_type"},
		{field: "status_code", base: "status"},
		{field: "tag_cds", base: "tag"},
		{field: "region_codes", base: "region"},
		{field: "enum1", base: "enum1"},
		{field: "cd_reader", base: "cd_reader"},
		{field: "_cd", base: "_cd"},
	}

	for _, tc := range testCases {
		s.Run(tc.field, func() {
			s.Equal(tc.base, naming.New(tc.field).Base)
		})
	}
}

func (s *NamingSuite) TestCustomPattern() {
	names := naming.New("product_type_cd", naming.WithPattern(regexp.MustCompile(`^product_|_cd$`)))
	s.Equal("type", names.Base)
	s.Equal("type_name", names.Name())
	s.Equal("product_type_cd", names.Field)
}

func (s *NamingSuite) TestNilPatternKeepsDefault() {
	s.Equal("product_type", naming.New("product_type_cd", naming.WithPattern(nil)).Base)
}

func (s *NamingSuite) TestBaseName() {
	names := naming.New("product_type_cd", naming.WithBaseName("kind"))
	s.Equal("kind_options", names.Options())
}

func (s *NamingSuite) TestAccessors() {
	s.Equal([]string{
		"product_type_key", "product_type_name", "product_type_entry", "product_type_options",
		"product_type_ids", "product_type_keys", "product_type_names",
		"product_type_id_by_key", "product_type_key_by_id", "product_type_name_by_key", "product_type_name_by_id",
		"product_type_entries", "product_type_hash_array",
	}, naming.New("product_type_cd").Accessors())
}
