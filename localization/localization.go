// Package localization carries the active locale on a context and resolves
// enumeration names and validation messages from go-i18n message files.
package localization

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"
	"google.golang.org/grpc/metadata"
	"gopkg.in/yaml.v3"
)

type contextKey string

func (c contextKey) String() string {
	return "selectable/localization/" + string(c)
}

const ctxKeyLanguage = contextKey("languageKey")

// ToContext adds language to the current supplied context.
func ToContext(ctx context.Context, lang []string) context.Context {
	return context.WithValue(ctx, ctxKeyLanguage, lang)
}

// FromContext extracts language from the supplied context if any exist.
func FromContext(ctx context.Context) []string {
	languages, ok := ctx.Value(ctxKeyLanguage).([]string)
	if !ok {
		return nil
	}

	return languages
}

// WithLocale is a shortcut for ToContext with a single locale.
func WithLocale(ctx context.Context, locale string) context.Context {
	return ToContext(ctx, []string{locale})
}

// Locale returns the preferred locale carried by ctx, normalised to a BCP 47
// tag, or fallback when ctx carries none.
func Locale(ctx context.Context, fallback string) string {
	for _, l := range FromContext(ctx) {
		l, _, _ = strings.Cut(l, ";")
		l = strings.TrimSpace(l)
		if l == "" || l == "*" {
			continue
		}
		tag, err := language.Parse(l)
		if err != nil {
			continue
		}
		return tag.String()
	}
	return fallback
}

// Manager resolves translated strings for the locale carried by a context.
type Manager interface {
	Bundle() *i18n.Bundle
	DefaultLanguage() language.Tag
	// Resolve looks up the message scope[0].scope[1]...key. Only a
	// translation in one of the requested languages counts as a hit.
	Resolve(ctx context.Context, scope []string, key string) (string, bool)
	// Render localizes messageID with data, falling back to defaultMessage.
	Render(ctx context.Context, messageID, defaultMessage string, data map[string]any) string
}

type managerImpl struct {
	bundle     *i18n.Bundle
	defaultTag language.Tag
}

// NewFallbackManager returns a manager with no message files loaded: every
// message renders its default text and no name resolves.
func NewFallbackManager(defaultTag language.Tag) Manager {
	return &managerImpl{bundle: newBundle(defaultTag), defaultTag: defaultTag}
}

func newBundle(defaultTag language.Tag) *i18n.Bundle {
	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	return bundle
}

// NewManager loads messages.<lang>.toml, .yaml or .yml from translationsFolder
// for every language. defaultLanguage is the bundle's fallback language.
func NewManager(translationsFolder, defaultLanguage string, languages ...string) (Manager, error) {
	if translationsFolder == "" {
		translationsFolder = "localization"
	}

	defaultTag := language.English
	if defaultLanguage != "" {
		tag, err := language.Parse(defaultLanguage)
		if err != nil {
			return nil, fmt.Errorf("default language %q: %w", defaultLanguage, err)
		}
		defaultTag = tag
	}

	bundle := newBundle(defaultTag)

	for _, lang := range languages {
		path, err := messageFile(translationsFolder, lang)
		if err != nil {
			return nil, err
		}
		if _, err = bundle.LoadMessageFile(path); err != nil {
			return nil, fmt.Errorf("load messages %s: %w", path, err)
		}
	}

	return &managerImpl{bundle: bundle, defaultTag: defaultTag}, nil
}

func messageFile(folder, lang string) (string, error) {
	for _, ext := range []string{"toml", "yaml", "yml"} {
		path := filepath.Join(folder, fmt.Sprintf("messages.%s.%s", lang, ext))
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no messages file for %q in %s: %w", lang, folder, os.ErrNotExist)
}

// Bundle Access the translation bundle instatiated in the system.
func (s *managerImpl) Bundle() *i18n.Bundle {
	return s.bundle
}

func (s *managerImpl) DefaultLanguage() language.Tag {
	return s.defaultTag
}

func (s *managerImpl) languages(ctx context.Context) []string {
	languages := FromContext(ctx)
	if len(languages) == 0 {
		return []string{s.DefaultLanguage().String()}
	}
	return languages
}

func (s *managerImpl) Resolve(ctx context.Context, scope []string, key string) (string, bool) {
	if len(scope) == 0 || key == "" {
		return "", false
	}

	messageID := strings.Join(scope, ".") + "." + key
	languages := s.languages(ctx)

	localizer := i18n.NewLocalizer(s.bundle, languages...)
	name, tag, err := localizer.LocalizeWithTag(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		var notFound *i18n.MessageNotFoundErr
		if !errors.As(err, &notFound) {
			util.Log(ctx).WithError(err).WithField("messageID", messageID).Warn("could not resolve name")
		}
		return "", false
	}

	if !requested(tag, languages) {
		return "", false
	}
	return name, true
}

// requested reports whether tag shares its base language with one of languages.
func requested(tag language.Tag, languages []string) bool {
	base, _ := tag.Base()
	for _, l := range languages {
		l, _, _ = strings.Cut(l, ";")
		candidate, err := language.Parse(strings.TrimSpace(l))
		if err != nil {
			continue
		}
		if b, _ := candidate.Base(); b == base {
			return true
		}
	}
	return false
}

func (s *managerImpl) Render(ctx context.Context, messageID, defaultMessage string, data map[string]any) string {
	localizer := i18n.NewLocalizer(s.bundle, s.languages(ctx)...)

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: messageID, Other: defaultMessage},
		TemplateData:   data,
	})
	if err != nil {
		var notFound *i18n.MessageNotFoundErr
		if !errors.As(err, &notFound) {
			util.Log(ctx).WithError(err).WithField("messageID", messageID).Error("could not render message")
		}
	}
	if msg == "" {
		return defaultMessage
	}
	return msg
}

func ExtractLanguageFromHTTPRequest(req *http.Request) []string {
	lang := req.URL.Query().Get("lang")

	acceptedLang := ExtractLanguageFromHTTPHeader(req.Header)

	var languages []string
	if lang != "" {
		languages = append(languages, lang)
	}

	return append(languages, acceptedLang...)
}

func ExtractLanguageFromHTTPHeader(req http.Header) []string {
	acceptLanguageHeader := req.Get("Accept-Language")
	if acceptLanguageHeader == "" {
		return nil
	}
	return splitLanguages(acceptLanguageHeader)
}

func ExtractLanguageFromGrpcRequest(ctx context.Context) []string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	header, ok := md["accept-language"]
	if !ok || len(header) == 0 {
		return nil
	}
	return splitLanguages(header[0])
}

func splitLanguages(header string) []string {
	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
