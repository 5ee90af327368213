package config

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestWatcherStopsOnCancel(t *testing.T) {
	path := writeTempConfig(t, "cfg.yaml", yamlConfig)
	w := Watcher{Path: path}
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately
	if err := w.Start(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestWatcherTriggersOnChange(t *testing.T) {
	path := writeTempConfig(t, "cfg.yaml", yamlConfig)
	updates := make(chan AppConfig, 4)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	started := make(chan struct{})
	go func() {
		close(started)
		_ = Watcher{Path: path}.Start(ctx, func(cfg AppConfig) { updates <- cfg })
	}()
	<-started

	// 等待 watcher 注册后再写入，必要时重复写入
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-updates:
			// 截断与写入可能各触发一次事件
			if cfg.Telemetry.MaxLength == 999 {
				return
			}
		case <-tick.C:
			if err := os.WriteFile(path, []byte("telemetry:\n  maxLength: 999\n"), 0o644); err != nil {
				t.Fatalf("rewrite config: %v", err)
			}
		case <-ctx.Done():
			t.Fatal("watcher did not trigger")
		}
	}
}

func TestWatcherReportsInvalidEdit(t *testing.T) {
	path := writeTempConfig(t, "cfg.yaml", yamlConfig)
	errs := make(chan error, 4)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		_ = Watcher{Path: path, OnError: func(err error) { errs <- err }}.Start(ctx, nil)
	}()

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case err := <-errs:
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		case <-tick.C:
			_ = os.WriteFile(path, []byte("limits: [1"), 0o644)
		case <-ctx.Done():
			t.Fatal("watcher did not report")
		}
	}
}
