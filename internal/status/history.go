package status

import (
	"context"
	"fmt"
	"time"
)

// HistoryWriter stores a status snapshot. *influxdb.Client satisfies it.
type HistoryWriter interface {
	WriteStatusCounts(rollCallID string, counts map[string]int, at time.Time)
}

// History records how many leaf locations sit in each status every time a
// roll call's outcomes change. It satisfies rollcall.Notifier.
type History struct {
	aggregator *Aggregator
	writer     HistoryWriter
	logger     Logger
	now        func() time.Time
}

// NewHistory creates a History.
func NewHistory(aggregator *Aggregator, writer HistoryWriter) *History {
	return &History{
		aggregator: aggregator,
		writer:     writer,
		logger:     noopLogger{},
		now:        time.Now,
	}
}

// SetLogger sets the logger for the history recorder.
func (h *History) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	h.logger = logger
}

// RollCallUpdated writes a snapshot for rollCallID. Failures are logged.
func (h *History) RollCallUpdated(ctx context.Context, rollCallID string) {
	if err := h.Record(ctx, rollCallID); err != nil {
		h.logger.Warn("status history write failed",
			"roll_call_id", rollCallID,
			"error", err,
		)
	}
}

// Record evaluates the treemap for rollCallID now and writes the leaf counts.
func (h *History) Record(ctx context.Context, rollCallID string) error {
	at := h.now()
	tree, err := h.aggregator.BuildTreemap(ctx, Query{
		RollCallIDs: []string{rollCallID},
		At:          at,
	})
	if err != nil {
		return fmt.Errorf("building treemap: %w", err)
	}

	counts := LeafCounts(tree)
	h.writer.WriteStatusCounts(rollCallID, counts, at)
	h.logger.Debug("status history recorded", "roll_call_id", rollCallID, "counts", counts)
	return nil
}

// LeafCounts tallies the childless nodes under root by status.
func LeafCounts(root *Node) map[string]int {
	counts := make(map[string]int, 4)
	var walk func(n *Node)
	walk = func(n *Node) {
		if len(n.Children) == 0 {
			if n.Type != RootType {
				counts[string(n.Status)]++
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return counts
}
