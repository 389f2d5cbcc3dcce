/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logging backs the framework module loggers with zap.
package logging

import (
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	spilog "github.com/hyperledger/aries-framework-go/spi/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hyperledger/aries-vcx-go/pkg/config"
)

// Provider hands out zap loggers named after the requesting module.
type Provider struct {
	base *zap.Logger
}

// NewProvider builds a zap logger for cfg. The json format uses the production encoder,
// console the development one.
func NewProvider(cfg config.LoggingConfig) (*Provider, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zapCfg zap.Config

	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	// the framework logger adds its own frame
	base, err := zapCfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return &Provider{base: base}, nil
}

// NewProviderFromCore wraps an existing zap core.
func NewProviderFromCore(core zapcore.Core) *Provider {
	return &Provider{base: zap.New(core)}
}

// GetLogger implements spi/log.LoggerProvider.
func (p *Provider) GetLogger(module string) spilog.Logger {
	return &zapLogger{sugar: p.base.Named(module).Sugar()}
}

// Sync flushes buffered log entries.
func (p *Provider) Sync() error {
	return p.base.Sync()
}

// Initialize installs a zap provider for cfg behind every module logger and applies the
// configured level as the default module level. Only the first call takes effect.
func Initialize(cfg config.LoggingConfig) (*Provider, error) {
	p, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	log.Initialize(p)

	level, err := ModuleLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	log.SetLevel("", level)

	return p, nil
}

// ParseLevel converts a configured level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}

	return zapcore.InfoLevel, fmt.Errorf("unsupported log level: %s", level)
}

// ModuleLevel converts a configured level name to a framework module level.
func ModuleLevel(level string) (spilog.Level, error) {
	switch level {
	case "debug":
		return spilog.DEBUG, nil
	case "info":
		return spilog.INFO, nil
	case "warn":
		return spilog.WARNING, nil
	case "error":
		return spilog.ERROR, nil
	}

	return spilog.INFO, fmt.Errorf("unsupported log level: %s", level)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Panicf(msg string, args ...interface{}) { l.sugar.Panicf(msg, args...) }

func (l *zapLogger) Fatalf(msg string, args ...interface{}) { l.sugar.Fatalf(msg, args...) }

func (l *zapLogger) Errorf(msg string, args ...interface{}) { l.sugar.Errorf(msg, args...) }

func (l *zapLogger) Warnf(msg string, args ...interface{}) { l.sugar.Warnf(msg, args...) }

func (l *zapLogger) Infof(msg string, args ...interface{}) { l.sugar.Infof(msg, args...) }

func (l *zapLogger) Debugf(msg string, args ...interface{}) { l.sugar.Debugf(msg, args...) }
