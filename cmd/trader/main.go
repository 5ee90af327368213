package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"tick-trader/config"
	"tick-trader/harness"
	"tick-trader/infrastructure/logger"
	"tick-trader/infrastructure/monitor"
	"tick-trader/metrics"
	"tick-trader/trader"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径（.yaml/.yml/.toml），留空使用内置默认值")
	mode := flag.String("mode", "ws", "运行模式：ws | spool | replay")
	input := flag.String("input", "", "replay 模式输入文件（每行一个快照 JSON），留空读 stdin")
	output := flag.String("output", "", "replay 模式结果输出文件，留空不写")
	spoolDir := flag.String("spool", "", "spool 模式目录，覆盖配置 harness.spoolDir")
	watch := flag.Bool("watch", false, "配置文件变更时热加载")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Outputs:    cfg.Log.Outputs,
		OutputFile: cfg.Log.OutputFile,
		Format:     cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *cfgPath, *mode, *input, *output, *spoolDir, *watch); err != nil && ctx.Err() == nil {
		log.Error("trader exited", zap.Error(err))
		os.Exit(1)
	}
	log.Info("trader stopped")
}

func loadConfig(path string) (config.AppConfig, error) {
	if path != "" {
		return config.LoadWithEnvOverrides(path)
	}
	cfg := config.Default()
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, config.Validate(cfg)
}

func run(ctx context.Context, cfg config.AppConfig, log *logger.Logger, cfgPath, mode, input, output, spoolDir string, watch bool) error {
	mon := monitor.New(monitor.DefaultConfig())
	newTrader := func(c config.AppConfig) (*trader.Trader, error) {
		return trader.FromConfig(c, os.Stdout,
			trader.WithLogger(log.WithFields(map[string]interface{}{"component": "trader"})),
			trader.WithObserver(mon),
		)
	}
	tr, err := newTrader(cfg)
	if err != nil {
		return err
	}
	proc := harness.NewProcessor(tr, log)

	if cfg.Metrics.Addr != "" {
		addr, _, err := metrics.Serve(ctx, cfg.Metrics.Addr, mon.Registry())
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		log.Info("metrics listening", zap.String("addr", addr))
	}

	if watch && cfgPath != "" {
		w := config.Watcher{Path: cfgPath, OnError: func(err error) {
			log.Warn("config reload rejected", zap.Error(err))
		}}
		go func() {
			_ = w.Start(ctx, func(c config.AppConfig) {
				next, err := newTrader(c)
				if err != nil {
					log.Warn("config reload rejected", zap.Error(err))
					return
				}
				proc.Swap(next)
				log.Info("config reloaded", zap.Int("instruments", len(c.Instruments)))
			})
		}()
	}

	switch mode {
	case "ws":
		ws := harness.NewWSServer(proc, log, mon)
		defer notify(log, daemon.SdNotifyStopping)
		return ws.ListenAndServe(ctx, cfg.Harness.Listen, func(a net.Addr) {
			log.Info("harness listening", zap.String("addr", a.String()), zap.String("path", harness.TickPath))
			notify(log, daemon.SdNotifyReady)
		})
	case "spool":
		dir := spoolDir
		if dir == "" {
			dir = cfg.Harness.SpoolDir
		}
		if dir == "" {
			return fmt.Errorf("spool mode needs -spool or harness.spoolDir")
		}
		sp := harness.NewSpool(dir, proc, log)
		sp.OnFile = mon.RecordSpoolFile
		notify(log, daemon.SdNotifyReady)
		defer notify(log, daemon.SdNotifyStopping)
		log.Info("spool watching", zap.String("dir", dir))
		return sp.Start(ctx)
	case "replay":
		return replay(ctx, proc, log, input, output)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// replay 逐行读取快照并顺序执行，遥测仍写到 stdout。
func replay(ctx context.Context, proc *harness.Processor, log *logger.Logger, input, output string) error {
	in := io.Reader(os.Stdin)
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}
	out := io.Discard
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	ticks, lineNo := 0, 0
	for sc.Scan() {
		lineNo++
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		reply, err := proc.Process(line)
		if err != nil {
			log.Warn("replay tick failed", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		ticks++
		if _, err := fmt.Fprintf(out, "%s\n", reply); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	log.Info("replay finished", zap.Int("ticks", ticks))
	return nil
}

// notify 在 systemd 下报告状态，非 systemd 环境静默跳过。
func notify(log *logger.Logger, state string) {
	if ok, err := daemon.SdNotify(false, state); err != nil {
		log.Warn("sd_notify failed", zap.String("state", state), zap.Error(err))
	} else if ok {
		log.Debug("sd_notify sent", zap.String("state", state))
	}
}
