package logger_test

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/speedtest-bridge/pkg/config"
	"github.com/speedtest-bridge/pkg/logger"
)

func TestLoggerLevels(t *testing.T) {
	cfg := &config.ZapLogConfig{
		Level:     "debug",
		Format:    "json",
		Path:      t.TempDir(),
		MaxSize:   10,
		MaxBackup: 1,
		MaxAge:    1,
	}

	if err := logger.Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	logger.SetDefaultComponent("test")
	if got := logger.GetDefaultComponent(); got != "test" {
		t.Errorf("GetDefaultComponent = %q, want %q", got, "test")
	}

	// 普通日志
	logger.Debug("debug msg")
	logger.Info("info msg", zap.String("k", "v"))
	logger.Warn("warn msg")
	logger.Error("error msg")

	// Panic 测试
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic, but no panic occurred")
			}
		}()
		logger.Panic("panic msg")
	}()

	if logger.GetLogger() == nil {
		t.Errorf("GetLogger returned nil after Init")
	}

	if err := logger.Sync(); err != nil {
		t.Logf("Sync: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
}
