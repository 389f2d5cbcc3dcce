/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"testing"

	spilog "github.com/hyperledger/aries-framework-go/spi/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hyperledger/aries-vcx-go/pkg/config"
)

func TestProvider_GetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewProviderFromCore(core)

	l := p.GetLogger("aries-vcx/test")
	l.Debugf("hidden %d", 1)
	l.Infof("connection %s", "thid-1")
	l.Warnf("state %s", "Invited")
	l.Errorf("failed: %v", "boom")

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, "aries-vcx/test", entries[0].LoggerName)
	require.Equal(t, "connection thid-1", entries[0].Message)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "failed: boom", entries[2].Message)

	require.Panics(t, func() { l.Panicf("panic %s", "now") })
}

func TestNewProvider(t *testing.T) {
	t.Run("formats", func(t *testing.T) {
		for _, format := range []string{"json", "console"} {
			p, err := NewProvider(config.LoggingConfig{Level: "debug", Format: format})
			require.NoError(t, err)
			require.NotNil(t, p.GetLogger("m"))
		}
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := NewProvider(config.LoggingConfig{Level: "trace", Format: "json"})
		require.EqualError(t, err, "unsupported log level: trace")
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := NewProvider(config.LoggingConfig{Level: "info", Format: "xml"})
		require.EqualError(t, err, "unsupported log format: xml")
	})
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name   string
		zap    zapcore.Level
		module spilog.Level
	}{
		{"debug", zapcore.DebugLevel, spilog.DEBUG},
		{"info", zapcore.InfoLevel, spilog.INFO},
		{"warn", zapcore.WarnLevel, spilog.WARNING},
		{"error", zapcore.ErrorLevel, spilog.ERROR},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			z, err := ParseLevel(tc.name)
			require.NoError(t, err)
			require.Equal(t, tc.zap, z)

			m, err := ModuleLevel(tc.name)
			require.NoError(t, err)
			require.Equal(t, tc.module, m)
		})
	}

	_, err := ModuleLevel("verbose")
	require.Error(t, err)
}

func TestInitialize(t *testing.T) {
	p, err := Initialize(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, p)

	_, err = Initialize(config.LoggingConfig{Level: "info", Format: "yaml"})
	require.Error(t, err)
}
