// Package sysmem probes total physical memory to derive the engine's
// per-worker edge capacity budget. The reference implementation branches
// on GOOS at compile time (GlobalMemoryStatusEx on Windows, sysconf on
// POSIX); gopsutil/v4 collapses that into one cross-platform call.
package sysmem

import "github.com/shirou/gopsutil/v4/mem"

// MinRAMPortionUsage and MaxRAMPortionUsage bound the -memUsage flag.
const (
	MinRAMPortionUsage = 0.01
	MaxRAMPortionUsage = 0.9
)

// TotalSystemMemory returns total physical RAM in bytes.
func TotalSystemMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}

// ClampUsageFraction clamps a suggested RAM-usage fraction to
// [MinRAMPortionUsage, MaxRAMPortionUsage].
func ClampUsageFraction(suggested float64) float64 {
	if suggested < MinRAMPortionUsage {
		return MinRAMPortionUsage
	}
	if suggested > MaxRAMPortionUsage {
		return MaxRAMPortionUsage
	}
	return suggested
}

// AvailableRAM returns the byte budget the engine may use: totalRAM scaled
// by usageFraction.
func AvailableRAM(totalRAM uint64, usageFraction float64) uint64 {
	return uint64(float64(totalRAM) * usageFraction)
}
