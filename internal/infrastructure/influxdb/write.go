package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementRollCallStatus = "rollcall_status"
)

// statusFields are always written so every point carries all four counts.
var statusFields = []string{"grey", "amber", "green", "red"}

// WriteStatusCounts records how many stops of a roll call are in each status.
// Missing statuses are written as zero. The write is non-blocking.
func (c *Client) WriteStatusCounts(rollCallID string, counts map[string]int, at time.Time) {
	fields := make(map[string]interface{}, len(statusFields)+1)
	total := 0
	for _, name := range statusFields {
		fields[name] = counts[name]
		total += counts[name]
	}
	fields["total"] = total

	c.WritePointWithTime(MeasurementRollCallStatus,
		map[string]string{"roll_call_id": rollCallID},
		fields,
		at,
	)
}

// WritePointWithTime writes a custom point at a specific timestamp.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, timestamp))
}
