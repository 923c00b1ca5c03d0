// internal/writer/types.go
package writer

import (
	"strconv"

	"github.com/tamzrod/am2-bridge/internal/poller"
)

// DiscoveryPlan controls Home Assistant discovery publishing.
type DiscoveryPlan struct {
	Prefix string
	Retain bool
	Every  int // re-publish every N cycles per device; <= 0 => first cycle only
}

// Plan is the fully-built publish plan for one broker.
type Plan struct {
	BaseTopic string
	Discovery *DiscoveryPlan // nil => discovery disabled
	Status    bool           // publish device health
}

// Writer delivers poll results somewhere.
type Writer interface {
	Write(res poller.PollResult) error
}

// ---- TOPICS ----

// DeviceID is the per-battery id used in topics and discovery ids.
func DeviceID(device uint8) string {
	return "am2_battery_" + strconv.Itoa(int(device))
}

// StateTopic is <base>/am2_battery_<addr>/<name>/state.
func StateTopic(base string, device uint8, name string) string {
	return base + "/" + DeviceID(device) + "/" + name + "/state"
}

// StatusTopic is <base>/am2_battery_<addr>/status.
func StatusTopic(base string, device uint8) string {
	return base + "/" + DeviceID(device) + "/status"
}

// DiscoveryTopic is <prefix>/sensor/am2_battery_<addr>_<name>/config.
func DiscoveryTopic(prefix string, device uint8, name string) string {
	return prefix + "/sensor/" + DeviceID(device) + "_" + name + "/config"
}
