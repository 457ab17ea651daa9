package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/selectable"
	"github.com/pitabwire/selectable/catalog"
	"github.com/pitabwire/selectable/config"
	"github.com/pitabwire/selectable/datastore"
	"github.com/pitabwire/selectable/internal/testsupport"
)

type OpenSuite struct {
	suite.Suite
}

func TestOpenSuite(t *testing.T) {
	suite.Run(t, new(OpenSuite))
}

func (s *OpenSuite) TestOpenReadsItemMasters() {
	if testing.Short() {
		s.T().Skip("needs a postgres container")
	}
	ctx := context.Background()
	dsn := testsupport.Postgres(s.T())

	db, err := datastore.Open(ctx, dsn)
	s.Require().NoError(err)
	defer func() { s.NoError(datastore.Close(db)) }()
	s.Require().NoError(datastore.Migrate(ctx, db))

	book, toy := "Hon", "おもちゃ"
	for i, row := range []datastore.ItemMaster{
		{CategoryName: "product_type_cd", Locale: "ja", ItemCd: "04", Name: &toy},
		{CategoryName: "product_type_cd", Locale: "ja", ItemCd: "01"},
		{CategoryName: "product_type_cd", Locale: "en", ItemCd: "01", Name: &book},
	} {
		row.ItemNo = i + 1
		s.Require().NoError(db.WithContext(ctx).Create(&row).Error)
	}

	c, err := catalog.Open(ctx, &config.Configuration{
		DefaultLocale:        "en",
		TranslationsFolder:   translationsDir,
		TranslationLanguages: []string{"en", "ja"},
		DeclarationsDir:      declarationsDir,
		DatabaseURL:          dsn.String(),
		CacheURL:             "mem://",
		CacheName:            "selectable",
	})
	s.Require().NoError(err)
	defer func() { s.NoError(c.Close()) }()

	ja, err := c.Options(inLocale("ja"), productType)
	s.Require().NoError(err)
	s.Equal([]selectable.SelectOption[string]{
		{Name: "おもちゃ", ID: "04"}, {Name: "書籍", ID: "01"},
		{Name: "DVD", ID: "02"}, {Name: "CD", ID: "03"}, {Name: "Others", ID: "09"},
	}, ja)

	en, err := c.Options(inLocale("en"), productType)
	s.Require().NoError(err)
	s.Equal([]selectable.SelectOption[string]{
		{Name: "Hon", ID: "01"}, {Name: "DVD", ID: "02"}, {Name: "CD", ID: "03"}, {Name: "Others", ID: "09"},
	}, en)

	s.NoError(c.Check(inLocale("ja")))
}
