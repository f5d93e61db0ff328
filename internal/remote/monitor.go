package remote

import (
	"sync"
	"time"

	movingaverage "github.com/RobinUS2/golang-moving-average"
)

// Monitor keeps request latency stats for a Client.
type Monitor struct {
	sync.Mutex
	reqDur *movingaverage.MovingAverage
	count  int
}

func newMonitor(window int) *Monitor {
	return &Monitor{reqDur: movingaverage.New(window)}
}

// Observe records one completed request.
func (m *Monitor) Observe(dur time.Duration) {
	m.Lock()
	defer m.Unlock()

	m.count++
	m.reqDur.Add(float64(dur))
}

// Average returns the moving average over the last requests, or 0 before the
// first one completes.
func (m *Monitor) Average() time.Duration {
	m.Lock()
	defer m.Unlock()

	if m.count == 0 {
		return 0
	}
	return time.Duration(m.reqDur.Avg())
}

// Count returns the number of observed requests.
func (m *Monitor) Count() int {
	m.Lock()
	defer m.Unlock()

	return m.count
}
