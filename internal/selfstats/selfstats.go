// Package selfstats 在抓取时顺带暴露网关所在主机的负载与内存指标。
// prometheus.Collector 在 /metrics 请求时同步读取 gopsutil，
// 不开后台协程，读取失败只跳过对应指标。
package selfstats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/speedtest-bridge/pkg/logger"
)

// Collector 主机自身状态采集器（实现 prometheus.Collector）
type Collector struct {
	load1          *prometheus.Desc
	load5          *prometheus.Desc
	memUsedPercent *prometheus.Desc
}

// NewCollector 创建主机状态采集器
func NewCollector() *Collector {
	return &Collector{
		load1: prometheus.NewDesc(
			"bridge_host_load1",
			"Host 1-minute load average", nil, nil),
		load5: prometheus.NewDesc(
			"bridge_host_load5",
			"Host 5-minute load average", nil, nil),
		memUsedPercent: prometheus.NewDesc(
			"bridge_host_memory_used_percent",
			"Host memory usage percentage", nil, nil),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.load1
	ch <- c.load5
	ch <- c.memUsedPercent
}

// Collect 实现 prometheus.Collector（抓取时同步读取）
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if avg, err := load.Avg(); err != nil {
		logger.Debug("read host load average failed", zap.Error(err))
	} else {
		ch <- prometheus.MustNewConstMetric(c.load1, prometheus.GaugeValue, avg.Load1)
		ch <- prometheus.MustNewConstMetric(c.load5, prometheus.GaugeValue, avg.Load5)
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		logger.Debug("read host memory stats failed", zap.Error(err))
	} else {
		ch <- prometheus.MustNewConstMetric(c.memUsedPercent, prometheus.GaugeValue, vm.UsedPercent)
	}
}
