package metrics

import (
	"fmt"
	"sync/atomic"
)

// ImportMetrics копит итоги одного прогона пакетного обновления.
type ImportMetrics struct {
	UpdatedCount   atomic.Int32
	FailedCount    atomic.Int32
	NotFoundCount  atomic.Int32
	SubmittedCount atomic.Int32
}

func (m *ImportMetrics) Reset() {
	m.UpdatedCount.Store(0)
	m.FailedCount.Store(0)
	m.NotFoundCount.Store(0)
	m.SubmittedCount.Store(0)
}

func (m *ImportMetrics) String() string {
	return fmt.Sprintf("submitted=%d updated=%d not_found=%d failed=%d",
		m.SubmittedCount.Load(), m.UpdatedCount.Load(), m.NotFoundCount.Load(), m.FailedCount.Load())
}
