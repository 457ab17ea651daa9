package connect

import (
	"context"

	"connectrpc.com/connect"

	"github.com/pitabwire/selectable/localization"
)

// LanguageInterceptor implements connect.Interceptor, putting the request's
// Accept-Language values on the handler context.
type LanguageInterceptor struct{}

func NewLanguageInterceptor() *LanguageInterceptor {
	return &LanguageInterceptor{}
}

func (l *LanguageInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if lang := localization.ExtractLanguageFromHTTPHeader(req.Header()); len(lang) > 0 {
			ctx = localization.ToContext(ctx, lang)
		}
		return next(ctx, req)
	}
}

// WrapStreamingClient is a pass-through; only handlers read the locale.
func (l *LanguageInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (l *LanguageInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		if lang := localization.ExtractLanguageFromHTTPHeader(conn.RequestHeader()); len(lang) > 0 {
			ctx = localization.ToContext(ctx, lang)
		}
		return next(ctx, conn)
	}
}
