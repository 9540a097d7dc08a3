// Package mqtt connects the roll-call core to an MQTT broker.
//
// The core uses the broker in two directions:
//   - it publishes a retained status treemap per roll call on
//     rollcall/status/{roll_call_id}, so dashboards receive the latest
//     state as soon as they subscribe
//   - it subscribes to rollcall/verifications/+ for outcomes produced by
//     recognition devices and manual entry terminals
//
// The client reconnects with exponential backoff, restores subscriptions
// after a reconnect, and announces itself on rollcall/system/status with a
// Last Will for crash detection.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.RollCallStatus("rc-42")
//	err = client.PublishRetained(topic, payload)
package mqtt
