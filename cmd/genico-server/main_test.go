package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/leeforge/genico/config"
	"github.com/leeforge/genico/logging"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr error
	}{
		{name: "no args", args: nil, want: options{}},
		{name: "port", args: []string{"8080"}, want: options{port: 8080}},
		{name: "config and port", args: []string{"--config", "/etc/genico", "9000"}, want: options{configPath: "/etc/genico", port: 9000}},
		{name: "mode", args: []string{"--mode", "prod"}, want: options{mode: "prod"}},
		{name: "version", args: []string{"-v"}, want: options{showVersion: true}},
		{name: "not a number", args: []string{"abc"}, wantErr: errUsage},
		{name: "out of range", args: []string{"70000"}, wantErr: errUsage},
		{name: "two ports", args: []string{"1", "2"}, wantErr: errUsage},
		{name: "help", args: []string{"--help"}, wantErr: pflag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			got, err := parseArgs(tt.args, &stderr)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyReloadSetsLogLevel(t *testing.T) {
	before := logging.CurrentLevel()
	t.Cleanup(func() { logging.SetLevel(before.String()) })

	applyReload(fsnotify.Event{Name: "config.yaml"}, &config.AppConfig{Log: logging.Config{Level: "debug"}})
	assert.Equal(t, zapcore.DebugLevel, logging.CurrentLevel())

	applyReload(fsnotify.Event{Name: "config.yaml"}, &config.AppConfig{})
	assert.Equal(t, zapcore.DebugLevel, logging.CurrentLevel())

	applyReload(fsnotify.Event{Name: "config.yaml"}, "not a config")
	assert.Equal(t, zapcore.DebugLevel, logging.CurrentLevel())
}
