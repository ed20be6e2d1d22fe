package monitoring

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/lariosa/stockroom-be/internal/models"
)

// Snapshot collects current host resource usage for the status endpoint.
func Snapshot(started time.Time) (models.SystemStats, error) {
	stats := models.SystemStats{
		UptimeSeconds: time.Since(started).Seconds(),
	}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		return models.SystemStats{}, err
	}
	if len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return models.SystemStats{}, err
	}
	stats.MemoryTotal = vm.Total
	stats.MemoryUsed = vm.Used
	stats.MemoryUsedPercent = vm.UsedPercent

	return stats, nil
}
