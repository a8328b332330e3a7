package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the LiveOSC MQTT surface.
//
// Outbound notifications mirror the OSC address space under the event
// prefix: the OSC address /live/song/get/tempo becomes the topic
// liveosc/event/live/song/get/tempo. Inbound commands use the same
// mapping under the command prefix, with replies under the reply prefix.
const (
	// TopicPrefix is the base for all LiveOSC topics.
	TopicPrefix = "liveosc"

	// TopicPrefixEvent is the base for outbound notification topics.
	TopicPrefixEvent = "liveosc/event"

	// TopicPrefixCommand is the base for inbound command topics.
	TopicPrefixCommand = "liveosc/command"

	// TopicPrefixReply is the base for command reply topics.
	TopicPrefixReply = "liveosc/reply"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "liveosc/system"
)

// Topics provides builders for LiveOSC MQTT topics. Using these helpers
// keeps the OSC-address-to-topic mapping consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	eventTopic := topics.Event("/live/song/get/tempo")
//	// Returns: "liveosc/event/live/song/get/tempo"
type Topics struct{}

// Event returns the topic a notification for the given OSC address is
// published on.
//
// Example: liveosc/event/live/song/get/tempo
func (Topics) Event(address string) string {
	return TopicPrefixEvent + "/" + strings.TrimPrefix(address, "/")
}

// Command returns the topic a command for the given OSC address is
// received on.
//
// Example: liveosc/command/live/song/set/tempo
func (Topics) Command(address string) string {
	return TopicPrefixCommand + "/" + strings.TrimPrefix(address, "/")
}

// Reply returns the topic replies for the given OSC address are
// published on.
//
// Example: liveosc/reply/live/song/get/tempo
func (Topics) Reply(address string) string {
	return TopicPrefixReply + "/" + strings.TrimPrefix(address, "/")
}

// CommandAddress recovers the OSC address from a command topic. It returns
// an empty string when the topic is not under the command prefix.
func (Topics) CommandAddress(topic string) string {
	rest, found := strings.CutPrefix(topic, TopicPrefixCommand+"/")
	if !found || rest == "" {
		return ""
	}
	return "/" + rest
}

// SystemStatus returns the bridge status topic used for online/offline
// announcements and the Last Will message.
//
// Example: liveosc/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllEvents returns a pattern matching every outbound notification.
//
// Pattern: liveosc/event/#
func (Topics) AllEvents() string {
	return TopicPrefixEvent + "/#"
}

// AllCommands returns a pattern matching every inbound command.
//
// Pattern: liveosc/command/#
func (Topics) AllCommands() string {
	return TopicPrefixCommand + "/#"
}

// AllTopics returns a pattern matching all LiveOSC topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: liveosc/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
