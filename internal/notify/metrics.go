package notify

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus counters for published changes.
// A nil *Metrics records nothing.
type Metrics struct {
	changes     *prometheus.CounterVec // By address pattern
	backupMarks prometheus.Counter
}

// NewMetrics creates change metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phoneloc",
			Name:      "changes_total",
			Help:      "Total number of committed changes published, by address pattern",
		}, []string{"pattern"}),

		backupMarks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "phoneloc",
			Name:      "backup_marks_total",
			Help:      "Total number of times data was marked as changed for backup",
		}),
	}

	if err := reg.Register(m.changes); err != nil {
		return nil, fmt.Errorf("register changes_total: %w", err)
	}
	if err := reg.Register(m.backupMarks); err != nil {
		return nil, fmt.Errorf("register backup_marks_total: %w", err)
	}
	return m, nil
}

func (m *Metrics) recordChange(pattern string) {
	if m == nil {
		return
	}
	m.changes.WithLabelValues(pattern).Inc()
}

func (m *Metrics) recordBackupMark() {
	if m == nil {
		return
	}
	m.backupMarks.Inc()
}
