package models

// SystemStats is the resource snapshot served by the status endpoint.
type SystemStats struct {
	UptimeSeconds     float64 `json:"uptimeSeconds"`
	CPUPercent        float64 `json:"cpuPercent"`
	MemoryTotal       uint64  `json:"memoryTotal"`
	MemoryUsed        uint64  `json:"memoryUsed"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
}
