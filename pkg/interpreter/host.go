package interpreter

import (
	goruntime "runtime"
	"time"
)

// Host is the process-level collaborator behind memtotal, timeit and sleep.
type Host interface {
	MemoryUsage() uint64
	Sleep(time.Duration)
	Now() time.Time
}

// SystemHost reports Go runtime memory statistics and uses the wall clock.
type SystemHost struct{}

// MemoryUsage returns the bytes obtained from the operating system by the Go runtime.
func (SystemHost) MemoryUsage() uint64 {
	var stats goruntime.MemStats
	goruntime.ReadMemStats(&stats)
	return stats.Sys
}

func (SystemHost) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (SystemHost) Now() time.Time {
	return time.Now()
}
