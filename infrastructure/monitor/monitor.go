package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor Prometheus监控指标收集器，使用独立 registry。
type Monitor struct {
	registry *prometheus.Registry

	// tick 指标
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram

	// 策略指标
	quotes   *prometheus.CounterVec
	skips    *prometheus.CounterVec
	position *prometheus.GaugeVec

	// 遥测指标
	telemetryBytes  prometheus.Histogram
	truncations     prometheus.Counter
	telemetryErrors prometheus.Counter

	// 接入层指标
	wsConnections prometheus.Counter
	spoolFiles    *prometheus.CounterVec
}

// Config 监控配置
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Namespace: "tick",
		Subsystem: "trader",
	}
}

// New 创建新的Monitor实例
func New(cfg Config) *Monitor {
	reg := prometheus.NewRegistry()

	// 创建factory
	factory := promauto.With(reg)

	return &Monitor{
		registry: reg,

		ticks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ticks_total",
			Help:      "处理的 tick 总数",
		}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "tick_duration_seconds",
			Help:      "单个 tick 的处理耗时（秒）",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),

		quotes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "quotes_total",
				Help:      "生成的报价数",
			},
			[]string{"symbol", "side"},
		),
		skips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "skips_total",
				Help:      "被跳过的品种评估次数",
			},
			[]string{"symbol", "reason"},
		),
		position: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "position",
				Help:      "快照中的持仓",
			},
			[]string{"symbol"},
		),

		telemetryBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "telemetry_record_bytes",
			Help:      "遥测记录字节数",
			Buckets:   prometheus.LinearBuckets(500, 500, 8),
		}),
		truncations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "telemetry_truncations_total",
			Help:      "被截断的遥测文本字段数",
		}),
		telemetryErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "telemetry_errors_total",
			Help:      "遥测序列化或写出失败次数",
		}),

		wsConnections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ws_connections_total",
			Help:      "WebSocket连接总数",
		}),
		spoolFiles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "spool_files_total",
				Help:      "spool 目录处理的快照文件数",
			},
			[]string{"result"},
		),
	}
}

// tick 相关方法
func (m *Monitor) ObserveTick(elapsed time.Duration) {
	m.ticks.Inc()
	m.tickDuration.Observe(elapsed.Seconds())
}

// 策略相关方法
func (m *Monitor) ObserveQuote(symbol, side string) {
	m.quotes.WithLabelValues(symbol, side).Inc()
}

func (m *Monitor) ObserveSkip(symbol, reason string) {
	m.skips.WithLabelValues(symbol, reason).Inc()
}

func (m *Monitor) ObservePosition(symbol string, position int) {
	m.position.WithLabelValues(symbol).Set(float64(position))
}

// 遥测相关方法
func (m *Monitor) ObserveTelemetry(bytes, truncated int, err error) {
	if err != nil {
		m.telemetryErrors.Inc()
		return
	}
	m.telemetryBytes.Observe(float64(bytes))
	m.truncations.Add(float64(truncated))
}

// 接入层相关方法
func (m *Monitor) RecordWSConnection() {
	m.wsConnections.Inc()
}

func (m *Monitor) RecordSpoolFile(result string) {
	m.spoolFiles.WithLabelValues(result).Inc()
}

// Handler 返回HTTP handler用于暴露指标
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 返回prometheus registry
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}
