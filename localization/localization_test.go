package localization_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/pitabwire/selectable/localization"
	lconnect "github.com/pitabwire/selectable/localization/interceptors/connect"
	lgrpc "github.com/pitabwire/selectable/localization/interceptors/grpc"
	lhttp "github.com/pitabwire/selectable/localization/interceptors/http"
)

type LocalizationTestSuite struct {
	suite.Suite
	manager localization.Manager
}

func TestLocalizationSuite(t *testing.T) {
	suite.Run(t, &LocalizationTestSuite{})
}

func (s *LocalizationTestSuite) SetupSuite() {
	lm, err := localization.NewManager("test_data", "en", "en", "ja")
	s.Require().NoError(err)
	s.manager = lm
}

func (s *LocalizationTestSuite) TestNewManagerErrors() {
	_, err := localization.NewManager("test_data", "en", "sw")
	s.Require().Error(err, "missing message files are reported")

	_, err = localization.NewManager("test_data", "not a tag!", "en")
	s.Require().Error(err)
}

func (s *LocalizationTestSuite) TestDefaultLanguage() {
	s.Equal(language.English, s.manager.DefaultLanguage())
}

func (s *LocalizationTestSuite) TestResolve() {
	scope := []string{"selectable_attrs", "enum1"}

	testCases := []struct {
		name      string
		languages []string
		key       string
		expected  string
		found     bool
	}{
		{name: "japanese", languages: []string{"ja"}, key: "entry1", expected: "エントリ壱", found: true},
		{name: "english", languages: []string{"en"}, key: "entry2", expected: "entry two", found: true},
		{name: "regional tag", languages: []string{"en-US"}, key: "entry3", expected: "entry three", found: true},
		{name: "accept language weights", languages: []string{"ja", "en;q=0.8"}, key: "entry3", expected: "エントリ参", found: true},
		{name: "no locale uses default", languages: nil, key: "entry1", expected: "entry one", found: true},
		{name: "unknown key", languages: []string{"en"}, key: "entry9", found: false},
		{name: "fallback language is a miss", languages: []string{"fr"}, key: "entry1", found: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			ctx := context.Background()
			if tc.languages != nil {
				ctx = localization.ToContext(ctx, tc.languages)
			}

			name, ok := s.manager.Resolve(ctx, scope, tc.key)
			s.Equal(tc.found, ok)
			s.Equal(tc.expected, name)
		})
	}
}

func (s *LocalizationTestSuite) TestFallbackManager() {
	m := localization.NewFallbackManager(language.Japanese)
	ctx := localization.WithLocale(context.Background(), "ja")

	_, ok := m.Resolve(ctx, []string{"selectable_attrs", "enum1"}, "entry1")
	s.False(ok)
	s.Equal("one of A, B", m.Render(ctx, "validation.inclusion", "one of {{.Entries}}",
		map[string]any{"Entries": "A, B"}))
}

func (s *LocalizationTestSuite) TestResolveWithoutScope() {
	_, ok := s.manager.Resolve(context.Background(), nil, "entry1")
	s.False(ok)
}

func (s *LocalizationTestSuite) TestResolveTranslationMissingInOneLanguage() {
	scope := []string{"selectable_attrs", "ProductWithI18nDB1", "product_type_cd"}

	name, ok := s.manager.Resolve(localization.WithLocale(context.Background(), "ja"), scope, "book")
	s.True(ok)
	s.Equal("書籍", name)

	_, ok = s.manager.Resolve(localization.WithLocale(context.Background(), "en"), scope, "book")
	s.False(ok, "ja only messages do not leak into en")
}

func (s *LocalizationTestSuite) TestRender() {
	data := map[string]any{"Entries": "Small, Large"}

	en := s.manager.Render(localization.WithLocale(context.Background(), "en"),
		"validation.inclusion", "is not included in the list", data)
	s.Equal("must be one of Small, Large", en)

	ja := s.manager.Render(localization.WithLocale(context.Background(), "ja"),
		"validation.inclusion", "is not included in the list", data)
	s.Equal("は次のいずれかでなければなりません。 Small, Large", ja)

	fallback := s.manager.Render(context.Background(), "validation.unknown", "{{.Entries}} only", data)
	s.Equal("Small, Large only", fallback)
}

func (s *LocalizationTestSuite) TestLocale() {
	testCases := []struct {
		name      string
		languages []string
		expected  string
	}{
		{name: "none", languages: nil, expected: "en"},
		{name: "single", languages: []string{"ja"}, expected: "ja"},
		{name: "weighted", languages: []string{"en-US;q=0.9"}, expected: "en-US"},
		{name: "wildcard skipped", languages: []string{"*", "ja"}, expected: "ja"},
		{name: "invalid skipped", languages: []string{"!!", ""}, expected: "en"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			ctx := context.Background()
			if tc.languages != nil {
				ctx = localization.ToContext(ctx, tc.languages)
			}
			s.Equal(tc.expected, localization.Locale(ctx, "en"))
		})
	}
}

func (s *LocalizationTestSuite) TestLanguageHTTPMiddleware() {
	testCases := []struct {
		name       string
		target     string
		acceptLang string
		expected   string
	}{
		{name: "accept-language header", target: "/test", acceptLang: "en-US,en;q=0.9", expected: "en-US,en;q=0.9"},
		{name: "query parameter first", target: "/test?lang=ja", acceptLang: "en", expected: "ja,en"},
		{name: "nothing supplied", target: "/test", expected: ""},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			middleware := lhttp.LanguageHTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				lang := localization.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(strings.Join(lang, ",")))
			}))

			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.acceptLang != "" {
				req.Header.Set("Accept-Language", tc.acceptLang)
			}

			w := httptest.NewRecorder()
			middleware.ServeHTTP(w, req)

			s.Equal(tc.expected, w.Body.String())
		})
	}
}

func (s *LocalizationTestSuite) TestLanguageGrpcUnaryInterceptor() {
	interceptor := lgrpc.LanguageUnaryInterceptor()
	handler := func(ctx context.Context, _ any) (any, error) {
		return localization.Locale(ctx, "none"), nil
	}

	md := metadata.New(map[string]string{"accept-language": "ja, en"})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	result, err := interceptor(ctx, nil, nil, handler)
	s.Require().NoError(err)
	s.Equal("ja", result)

	result, err = interceptor(context.Background(), nil, nil, handler)
	s.Require().NoError(err)
	s.Equal("none", result)
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeServerStream) Context() context.Context {
	return f.ctx
}

func (s *LocalizationTestSuite) TestLanguageGrpcStreamInterceptor() {
	interceptor := lgrpc.LanguageStreamInterceptor()

	md := metadata.New(map[string]string{"accept-language": "ja"})
	stream := &fakeServerStream{ctx: metadata.NewIncomingContext(context.Background(), md)}

	var got []string
	err := interceptor(nil, stream, nil, func(_ any, ss grpc.ServerStream) error {
		got = localization.FromContext(ss.Context())
		return nil
	})
	s.Require().NoError(err)
	s.Equal([]string{"ja"}, got)
}

func (s *LocalizationTestSuite) TestLanguageConnectInterceptor() {
	interceptor := lconnect.NewLanguageInterceptor()

	var got []string
	next := interceptor.WrapUnary(func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		got = localization.FromContext(ctx)
		return connect.NewResponse(&struct{}{}), nil
	})

	req := connect.NewRequest(&struct{}{})
	req.Header().Set("Accept-Language", "ja,en;q=0.5")

	_, err := next(context.Background(), req)
	s.Require().NoError(err)
	s.Equal([]string{"ja", "en;q=0.5"}, got)
}

func (s *LocalizationTestSuite) TestLanguageFromGrpcRequest() {
	md := metadata.New(map[string]string{"accept-language": "en"})
	grpcCtx := metadata.NewIncomingContext(context.Background(), md)

	s.Equal([]string{"en"}, localization.ExtractLanguageFromGrpcRequest(grpcCtx))
	s.Nil(localization.ExtractLanguageFromGrpcRequest(context.Background()))
}
