package gormlog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ClubAdmin/ClubAdmin/internal/logger/adapter/gormlog"
)

func newLogger(buf *bytes.Buffer, slow time.Duration) *gormlog.Logger {
	zl := zerolog.New(buf)

	return gormlog.NewWithLogger(&zl, slow)
}

func TestTrace(t *testing.T) {
	fc := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		slow    time.Duration
		begin   time.Time
		err     error
		wantLog string
	}{
		{name: "error logged", level: gormlogger.Warn, begin: time.Now(), err: errors.New("boom"), wantLog: "query failed"}, //nolint:err113
		{name: "not found ignored", level: gormlogger.Warn, begin: time.Now(), err: gormlogger.ErrRecordNotFound},
		{name: "slow query", level: gormlogger.Warn, slow: time.Millisecond, begin: time.Now().Add(-time.Second), wantLog: "slow query"},
		{name: "fast query quiet at warn", level: gormlogger.Warn, slow: time.Hour, begin: time.Now()},
		{name: "info logs every query", level: gormlogger.Info, begin: time.Now(), wantLog: "SELECT 1"},
		{name: "silent", level: gormlogger.Silent, begin: time.Now(), err: errors.New("boom")}, //nolint:err113
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			l := newLogger(&buf, tt.slow).LogMode(tt.level)
			l.Trace(context.Background(), tt.begin, fc, tt.err)

			if tt.wantLog == "" {
				assert.Empty(t, buf.String())

				return
			}

			assert.Contains(t, buf.String(), tt.wantLog)
		})
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer

	l := newLogger(&buf, 0).LogMode(gormlogger.Error)
	l.Info(context.Background(), "info %d", 1)
	l.Warn(context.Background(), "warn %d", 2)
	assert.Empty(t, buf.String())

	l.Error(context.Background(), "error %d", 3)
	assert.Contains(t, buf.String(), "error 3")
}
