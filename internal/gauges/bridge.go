package gauges

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Variant 部署变体（每个进程二选一）
type Variant string

const (
	VariantPoll Variant = "poll" // 每次抓取时主动拉取上游结果
	VariantPush Variant = "push" // 被动接收 webhook 推送
)

// Bridge 测速网关的固定 gauge 集合
// 进程启动时创建一次，之后只做 last-write-wins 的 Set，从不删除
// push 变体只注册前四个，jitter/low/high 为 nil
type Bridge struct {
	DownloadBps       prometheus.Gauge
	UploadBps         prometheus.Gauge
	PingMs            prometheus.Gauge
	PacketLossPercent prometheus.Gauge
	PingJitterMs      prometheus.Gauge
	PingLowMs         prometheus.Gauge
	PingHighMs        prometheus.Gauge
}

// NewBridge 按变体注册对应的 gauge 集合
func NewBridge(f *Factory, variant Variant) *Bridge {
	b := &Bridge{
		DownloadBps:       f.newGauge("internet_download_bps", "Download speed in bits per second"),
		UploadBps:         f.newGauge("internet_upload_bps", "Upload speed in bits per second"),
		PingMs:            f.newGauge("internet_ping_ms", "Ping latency in milliseconds"),
		PacketLossPercent: f.newGauge("internet_packet_loss_percent", "Packet loss percentage"),
	}
	if variant == VariantPoll {
		b.PingJitterMs = f.newGauge("internet_ping_jitter_ms", "Ping jitter in milliseconds")
		b.PingLowMs = f.newGauge("internet_ping_low_ms", "Lowest ping in milliseconds")
		b.PingHighMs = f.newGauge("internet_ping_high_ms", "Highest ping in milliseconds")
	}
	return b
}

// InitPromRegistry 初始化注册器与固定 gauge 集合（可选注册进程指标，禁用Go指标）
func InitPromRegistry(variant Variant, enableProcess bool) (*prometheus.Registry, *Bridge) {
	promRegistry := prometheus.NewRegistry()
	// 仅注册进程指标（可选），不注册Go指标
	if enableProcess {
		promRegistry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	}

	factory := NewFactory(NewPromRegistry(promRegistry))
	return promRegistry, NewBridge(factory, variant)
}
