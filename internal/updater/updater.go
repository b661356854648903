// Package updater 把松散的测速 JSON 文档映射到固定 gauge 集合。
// 核心性质：字段之间完全隔离，单个字段缺失/为空/类型错误只跳过该字段，
// 其余字段照常更新，一次坏字段不把整次抓取拖成全失败。
package updater

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/speedtest-bridge/internal/document"
	"github.com/speedtest-bridge/internal/gauges"
	"github.com/speedtest-bridge/pkg/logger"
)

// Mapping 单条映射：文档内点分路径 → gauge
type Mapping struct {
	Path   string // 文档内的点分路径（如 "data.ping.jitter"）
	Metric string // gauge 名称（日志用）
	Gauge  interface{ Set(float64) }
}

// FieldResult 单字段处理结果（成功带值 | 跳过带原因），替代异常控制流
type FieldResult struct {
	Metric  string
	Path    string
	Value   float64
	Updated bool
	Reason  string
}

// PollProfile poll 变体映射表（嵌套文档，键名为 *_bits）
func PollProfile(b *gauges.Bridge) []Mapping {
	return []Mapping{
		{Path: "ping", Metric: "internet_ping_ms", Gauge: b.PingMs},
		{Path: "download_bits", Metric: "internet_download_bps", Gauge: b.DownloadBps},
		{Path: "upload_bits", Metric: "internet_upload_bps", Gauge: b.UploadBps},
		{Path: "data.packetLoss", Metric: "internet_packet_loss_percent", Gauge: b.PacketLossPercent},
		{Path: "data.ping.jitter", Metric: "internet_ping_jitter_ms", Gauge: b.PingJitterMs},
		{Path: "data.ping.low", Metric: "internet_ping_low_ms", Gauge: b.PingLowMs},
		{Path: "data.ping.high", Metric: "internet_ping_high_ms", Gauge: b.PingHighMs},
	}
}

// PushProfile push 变体映射表（扁平文档，键名不同，两张表不可合并）
func PushProfile(b *gauges.Bridge) []Mapping {
	return []Mapping{
		{Path: "ping", Metric: "internet_ping_ms", Gauge: b.PingMs},
		{Path: "download", Metric: "internet_download_bps", Gauge: b.DownloadBps},
		{Path: "upload", Metric: "internet_upload_bps", Gauge: b.UploadBps},
		{Path: "packetLoss", Metric: "internet_packet_loss_percent", Gauge: b.PacketLossPercent},
	}
}

// Apply 按映射表逐字段处理文档，返回成功更新数与逐字段结果
// 字段缺失/为空 → 跳过（debug）；强转失败 → 跳过并告警（带字段名与原值）
// 处理完成后输出一行汇总；一个都没更新只算警告，不算错误
func Apply(doc document.Document, profile []Mapping) (int, []FieldResult) {
	results := make([]FieldResult, 0, len(profile))
	updatedNames := make([]string, 0, len(profile))

	for _, m := range profile {
		res := FieldResult{Metric: m.Metric, Path: m.Path}

		v, ok := document.Lookup(doc, m.Path)
		if !ok || v == nil {
			res.Reason = "absent or null"
			logger.Debug("field absent or null, skipped",
				zap.String("metric", m.Metric), zap.String("path", m.Path))
			results = append(results, res)
			continue
		}

		f, err := document.AsFloat(v)
		if err != nil {
			res.Reason = err.Error()
			logger.Warn("field not coercible to number, skipped",
				zap.String("metric", m.Metric),
				zap.String("path", m.Path),
				zap.Any("value", v),
				zap.Error(err))
			results = append(results, res)
			continue
		}

		m.Gauge.Set(f)
		res.Value = f
		res.Updated = true
		results = append(results, res)
		updatedNames = append(updatedNames, m.Metric)
	}

	if len(updatedNames) == 0 {
		logger.Warn("no metrics updated from payload",
			zap.Int("fields_seen", len(profile)))
	} else {
		logger.Info(fmt.Sprintf("updated %d/%d metrics from payload", len(updatedNames), len(profile)),
			zap.Strings("updated", updatedNames))
	}

	return len(updatedNames), results
}
