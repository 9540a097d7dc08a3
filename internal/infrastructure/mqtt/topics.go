package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes. Every topic the core touches lives under TopicPrefix.
const (
	TopicPrefix       = "rollcall"
	TopicPrefixSystem = TopicPrefix + "/system"
)

// Topics provides builders for roll-call MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.RollCallStatus("rc-42") // "rollcall/status/rc-42"
type Topics struct{}

// RollCallStatus returns the retained treemap topic for a roll call.
//
// Example: rollcall/status/rc-42
func (Topics) RollCallStatus(rollCallID string) string {
	return fmt.Sprintf("%s/status/%s", TopicPrefix, rollCallID)
}

// RollCallVerifications returns the topic verification devices publish
// outcomes to for one roll call.
//
// Example: rollcall/verifications/rc-42
func (Topics) RollCallVerifications(rollCallID string) string {
	return fmt.Sprintf("%s/verifications/%s", TopicPrefix, rollCallID)
}

// AllVerifications matches outcome topics for every roll call.
//
// Pattern: rollcall/verifications/+
func (Topics) AllVerifications() string {
	return fmt.Sprintf("%s/verifications/+", TopicPrefix)
}

// SystemStatus returns the core's online/offline status topic.
//
// Example: rollcall/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// RollCallIDFromTopic extracts the roll call id from a status or
// verifications topic. ok is false for any other topic.
func RollCallIDFromTopic(topic string) (id string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != TopicPrefix {
		return "", false
	}
	if parts[1] != "status" && parts[1] != "verifications" {
		return "", false
	}
	if parts[2] == "" || parts[2] == "+" || parts[2] == "#" {
		return "", false
	}
	return parts[2], true
}
