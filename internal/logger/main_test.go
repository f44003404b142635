package logger_test

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/studyhive/studyhive/internal/logger"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = orig

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}

	return string(out)
}

func TestInit(t *testing.T) {
	testCases := []struct {
		name             string
		cfg              logger.Log
		wantErr          bool
		shouldHaveOutput bool
		outputIsJSON     bool
	}{
		{
			name: "missing service name",
			cfg: logger.Log{
				LogLevel: "info",
				AppName:  "test",
			},
			wantErr: true,
		},
		{
			name: "missing app name",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
			},
			wantErr: true,
		},
		{
			name: "unsupported level",
			cfg: logger.Log{
				LogLevel:    "loud",
				ServiceName: "test",
				AppName:     "test",
			},
			wantErr: true,
		},
		{
			name: "no writer enabled",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
			},
			shouldHaveOutput: false,
		},
		{
			name: "console writer enabled",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutput: true,
		},
		{
			name: "console enabled raw json",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutput: true,
			outputIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var err error

			// Init resolves os.Stdout into its writers, so it has to run while
			// stdout is already redirected.
			out := captureStdout(t, func() {
				if err = logger.Init(tc.cfg); err != nil {
					return
				}

				log.Info().Msg("logger test message")
			})

			if (err != nil) != tc.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tc.wantErr)
			}

			if tc.wantErr {
				return
			}

			if tc.shouldHaveOutput != strings.Contains(out, "logger test message") {
				t.Errorf("output = %q, shouldHaveOutput %v", out, tc.shouldHaveOutput)
			}

			if tc.outputIsJSON {
				var decoded map[string]any
				if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &decoded); err != nil {
					t.Errorf("expected JSON output, got %q: %v", out, err)
				}
			}
		})
	}
}
