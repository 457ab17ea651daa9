package datastore

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pitabwire/util"
	glogger "gorm.io/gorm/logger"

	"github.com/pitabwire/selectable/config"
	"github.com/pitabwire/selectable/data"
)

// tint colour codes for the query attributes.
const (
	tintAttrCodeDuration = 214
	tintAttrCodeRows     = 12
	tintAttrCodeQuery    = 2
)

func datastoreLogger(ctx context.Context, cfg config.ConfigurationDatabaseTracing) glogger.Interface {
	ql := &queryLogger{
		slowThreshold: config.DefaultSlowQueryThreshold,
		base:          util.Log(ctx),
	}
	if cfg != nil {
		ql.slowThreshold = cfg.GetDatabaseSlowQueryLogThreshold()
		ql.logQueries = cfg.CanDatabaseTraceQueries()
	}
	return ql
}

// queryLogger routes gorm's logging through util. Failed queries are always
// logged, slow ones at warn level and every query when logQueries is set or
// the logger runs at debug level.
type queryLogger struct {
	base          *util.LogEntry
	logQueries    bool
	slowThreshold time.Duration
}

func (l *queryLogger) LogMode(_ glogger.LogLevel) glogger.Interface {
	return l
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	l.base.WithContext(ctx).Info(msg, args...)
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.base.WithContext(ctx).Warn(msg, args...)
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	l.base.WithContext(ctx).Error(msg, args...)
}

func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	log := l.base.WithContext(ctx)

	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold
	failed := err != nil && !data.ErrorIsNoRows(err)
	verbose := log.Enabled(ctx, slog.LevelDebug) || (l.logQueries && log.Enabled(ctx, slog.LevelInfo))

	if !failed && !verbose && !(slow && log.Enabled(ctx, slog.LevelWarn)) {
		return
	}

	sql, rows := fc()
	log = log.With(
		tint.Attr(tintAttrCodeDuration, slog.Any("duration", elapsed.String())),
		tint.Attr(tintAttrCodeRows, slog.Any("rows", strconv.FormatInt(rows, 10))),
		tint.Attr(tintAttrCodeQuery, slog.Any("query", sql)),
	)
	defer log.Release()

	if slow {
		log = log.WithField("slow_query", fmt.Sprintf(">= %v", l.slowThreshold))
	}

	switch {
	case failed:
		log.WithError(err).Error("query failed")
	case l.logQueries:
		log.Info("query executed")
	case verbose:
		log.Debug("query executed")
	default:
		log.Warn("query is slow")
	}
}
