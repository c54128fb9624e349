package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

const mb = 1024 * 1024

// PerfStats measures the time taken, and memory allocated, by successive
// phases of a run.
type PerfStats struct {
	phase string
	start time.Time
	alloc uint64
	gcs   uint32
}

// NewPerfStats begins measuring a given phase.
func NewPerfStats(phase string) *PerfStats {
	stats := &PerfStats{}
	stats.begin(phase)
	//
	return stats
}

// Next logs the phase being measured, and begins measuring another.
func (p *PerfStats) Next(phase string) {
	p.Log()
	p.begin(phase)
}

// Log the time and memory used by the current phase so far.  The heap size
// reported is the total at this point, rather than for the phase.
func (p *PerfStats) Log() {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	log.WithFields(log.Fields{
		"phase": p.phase,
		"secs":  time.Since(p.start).Seconds(),
		"mb":    (m.TotalAlloc - p.alloc) / mb,
		"gcs":   m.NumGC - p.gcs,
		"heap":  m.Alloc / mb,
	}).Debugf("%s complete", p.phase)
}

func (p *PerfStats) begin(phase string) {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	p.phase, p.start, p.alloc, p.gcs = phase, time.Now(), m.TotalAlloc, m.NumGC
}
