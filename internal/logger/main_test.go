package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apitemplate/apitemplate/internal/logger"
)

func TestInit(t *testing.T) {
	type testCase struct {
		name             string
		cfg              logger.Log
		wantErr          error
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}

	testCases := []testCase{
		{
			name: "missing service name",
			cfg: logger.Log{
				LogLevel: "info",
				AppName:  "test",
			},
			wantErr: logger.ErrServiceNameIsEmpty,
		},
		{
			name: "missing app name",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
			},
			wantErr: logger.ErrAppNameIsEmpty,
		},
		{
			name: "no logger enabled log level not set",
			cfg: logger.Log{
				LogLevel:    "",
				ServiceName: "test",
				AppName:     "test",
			},
			shouldHaveOutPut: false,
		},
		{
			name: "console enabled log level info",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "console enabled console writer enabled",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled trace with caller expect json stack",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := captureOutput(t, tc.cfg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			if !tc.shouldHaveOutPut {
				assert.Empty(t, out)
				return
			}

			assert.NotEmpty(t, out)

			if tc.outPutIsJSON {
				for _, line := range strings.Split(out, "\n") {
					if line == "" {
						continue
					}

					var entry map[string]any
					require.NoError(t, json.Unmarshal([]byte(line), &entry), "line: %s", line)
					assert.Equal(t, "test", entry["app"])
				}
			}
		})
	}
}

func TestInitInvalidLevel(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "loud", AppName: "test", ServiceName: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestInitFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		AppName:     "test",
		ServiceName: "test",
		File: logger.LogFile{
			Enabled: true,
			Path:    dir,
			Info:    logger.Rotation{Name: "info.log"},
			Error:   logger.Rotation{Name: "error.log"},
			Warn:    logger.Rotation{Name: "warn.log"},
			Trace:   logger.Rotation{Name: "trace.log"},
		},
	})
	require.NoError(t, err)

	log.Info().Msg("to info file")
	log.Error().Msg("to error file")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "to info file")
	assert.NotContains(t, string(info), "to error file")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "to error file")
}

func TestLevelWriter(t *testing.T) {
	var info, warn, errs, trace bytes.Buffer

	lw := &logger.LevelWriter{
		ErrorWriter: &errs,
		InfoWriter:  &info,
		TraceWriter: &trace,
		WarnWriter:  &warn,
	}

	tests := []struct {
		level zerolog.Level
		want  *bytes.Buffer
	}{
		{zerolog.DebugLevel, &info},
		{zerolog.InfoLevel, &info},
		{zerolog.NoLevel, &info},
		{zerolog.WarnLevel, &warn},
		{zerolog.ErrorLevel, &errs},
		{zerolog.FatalLevel, &errs},
		{zerolog.TraceLevel, &trace},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			info.Reset()
			warn.Reset()
			errs.Reset()
			trace.Reset()

			_, err := lw.WriteLevel(tt.level, []byte("x"))
			require.NoError(t, err)
			assert.Equal(t, "x", tt.want.String())
		})
	}

	n, err := lw.WriteLevel(zerolog.Disabled, []byte("x"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func alwaysErrFunc() error {
	return errors.New("a test error") //nolint:goerr113
}

// captureOutput initialises the logger with stdout and stderr redirected
// into a pipe and returns what three log statements produced.
func captureOutput(t *testing.T, cfg logger.Log) (string, error) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	err := logger.Init(cfg)
	if err == nil {
		log.Info().Msg("this info message should be seen...")
		log.Error().Err(alwaysErrFunc()).Msg("this err message should be seen...")
		log.Trace().Err(alwaysErrFunc()).Msg("this trace message should be seen...")
	}

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC, err
}

func TestRotationWriter(t *testing.T) {
	w := logger.Rotation{Name: "info.log", MaxSize: 10, MaxBackups: 2, MaxAge: 7}.Writer("/var/log/app")

	assert.Equal(t, "/var/log/app/info.log", w.Filename)
	assert.Equal(t, 10, w.MaxSize)
	assert.Equal(t, 2, w.MaxBackups)
	assert.Equal(t, 7, w.MaxAge)
}
