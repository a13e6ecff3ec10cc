package metrics

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats 主机与进程概况（健康检查的详细视图）
type SystemStats struct {
	Timestamp       time.Time `json:"timestamp"`
	CPUUsagePercent float64   `json:"cpu_usage_percent"`
	CPUCount        int       `json:"cpu_count"`
	MemTotal        uint64    `json:"mem_total"`
	MemUsed         uint64    `json:"mem_used"`
	MemUsagePercent float64   `json:"mem_usage_percent"`
	UptimeSeconds   uint64    `json:"uptime_seconds"`
	Goroutines      int       `json:"goroutines"`
}

// CollectSystemStats 采集一次系统快照，各项失败时保留零值
func CollectSystemStats() SystemStats {
	stats := SystemStats{
		Timestamp:  time.Now().UTC(),
		Goroutines: runtime.NumGoroutine(),
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUUsagePercent = percents[0]
	}
	if count, err := cpu.Counts(true); err == nil {
		stats.CPUCount = count
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemTotal = vm.Total
		stats.MemUsed = vm.Used
		stats.MemUsagePercent = vm.UsedPercent
	}
	if up, err := host.Uptime(); err == nil {
		stats.UptimeSeconds = up
	}
	return stats
}
