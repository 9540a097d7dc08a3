// Package influxdb records roll-call status history in InfluxDB v2.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes and health monitoring. Each point
// is a snapshot of how many stops of one roll call sit in each traffic-light
// status, so dashboards can chart a roll call's progress over time.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteStatusCounts("rc-1234", map[string]int{"green": 12, "amber": 3}, time.Now())
//
// # Error Handling
//
// Writes are non-blocking; batch errors are delivered to the SetOnError
// callback. Connection and health check errors are returned directly.
package influxdb
