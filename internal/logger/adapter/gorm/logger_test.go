package gorm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	applog "github.com/apitemplate/apitemplate/internal/logger"
	adapter "github.com/apitemplate/apitemplate/internal/logger/adapter/gorm"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func sqlFunc() (string, int64) {
	return "SELECT * FROM items", 3
}

func TestTrace(t *testing.T) {
	tests := []struct {
		name      string
		cfg       applog.SQL
		begin     time.Time
		err       error
		wantEmpty bool
		wantMsg   string
		wantLevel string
	}{
		{
			name:      "statement logging disabled",
			cfg:       applog.SQL{},
			begin:     time.Now(),
			wantEmpty: true,
		},
		{
			name:      "statement logging enabled",
			cfg:       applog.SQL{Enabled: true},
			begin:     time.Now(),
			wantMsg:   "query",
			wantLevel: "debug",
		},
		{
			name:      "error always logged",
			cfg:       applog.SQL{},
			begin:     time.Now(),
			err:       errors.New("syntax error"), //nolint:goerr113
			wantMsg:   "query failed",
			wantLevel: "error",
		},
		{
			name:      "record not found is silent",
			cfg:       applog.SQL{},
			begin:     time.Now(),
			err:       gorm.ErrRecordNotFound,
			wantEmpty: true,
		},
		{
			name:      "slow query",
			cfg:       applog.SQL{SlowThreshold: time.Millisecond},
			begin:     time.Now().Add(-time.Second),
			wantMsg:   "slow query",
			wantLevel: "warn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureGlobal(t)

			adapter.New(tt.cfg).Trace(context.Background(), tt.begin, sqlFunc, tt.err)

			if tt.wantEmpty {
				assert.Empty(t, buf.String())
				return
			}

			out := buf.String()
			assert.Contains(t, out, `"message":"`+tt.wantMsg+`"`)
			assert.Contains(t, out, `"level":"`+tt.wantLevel+`"`)
			assert.Contains(t, out, "SELECT * FROM items")
		})
	}
}

func TestLogModeSilent(t *testing.T) {
	buf := captureGlobal(t)

	l := adapter.New(applog.SQL{Enabled: true}).LogMode(gormlogger.Silent)
	l.Trace(context.Background(), time.Now(), sqlFunc, errors.New("ignored")) //nolint:goerr113
	l.Error(context.Background(), "ignored %d", 1)

	assert.Empty(t, buf.String())
}

func TestInfoWarnError(t *testing.T) {
	buf := captureGlobal(t)

	l := adapter.New(applog.SQL{Enabled: true})
	l.Info(context.Background(), "info %s", "a")
	l.Warn(context.Background(), "warn %s", "b")
	l.Error(context.Background(), "error %s", "c")

	out := buf.String()
	assert.Contains(t, out, "info a")
	assert.Contains(t, out, "warn b")
	assert.Contains(t, out, "error c")
}
