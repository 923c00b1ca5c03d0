// internal/writer/discovery.go
package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tamzrod/am2-bridge/internal/poller"
)

// Static device description advertised to Home Assistant.
const (
	DeviceManufacturer = "Hubble Lithium"
	DeviceModel        = "AM2 48V 5.5kWh"
	DeviceHardware     = "AM2 Lithium ion"
)

// deviceClasses maps a register unit to its Home Assistant device_class.
var deviceClasses = map[string]string{
	"A":  "current",
	"V":  "voltage",
	"W":  "power",
	"°C": "temperature",
	"Hz": "frequency",
	"Ah": "energy",
	"Wh": "energy",
	"%":  "battery",
	"tm": "timestamp",
}

// DeviceClass returns the device_class for unit, or "" if there is none.
func DeviceClass(unit string) string {
	return deviceClasses[unit]
}

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	SWVersion    string   `json:"sw_version"`
	HWVersion    string   `json:"hw_version"`
	Manufacturer string   `json:"manufacturer"`
}

type discoveryPayload struct {
	Name        string          `json:"name"`
	StateTopic  string          `json:"state_topic"`
	Unit        string          `json:"unit_of_measurement"`
	UniqueID    string          `json:"unique_id"`
	ObjectID    string          `json:"object_id"`
	Device      discoveryDevice `json:"device"`
	DeviceClass string          `json:"device_class,omitempty"`
}

// discoveryWriter announces every register of a device as a sensor.
type discoveryWriter struct {
	plan *DiscoveryPlan
	base string
	cli  endpointClient

	cycles  map[uint8]int
	pending map[uint8]bool // last announcement failed
}

// NewDiscoveryWriter builds a discovery writer if discovery is enabled in the plan.
func NewDiscoveryWriter(plan Plan, cli endpointClient) (Writer, bool) {
	if plan.Discovery == nil {
		return nil, false
	}
	return &discoveryWriter{
		plan:    plan.Discovery,
		base:    plan.BaseTopic,
		cli:     cli,
		cycles:  make(map[uint8]int),
		pending: make(map[uint8]bool),
	}, true
}

// Write announces on the first cycle of a device, then every Every cycles.
// A failed announcement is repeated on the next cycle.
func (dw *discoveryWriter) Write(res poller.PollResult) error {
	if dw.cli == nil {
		return errors.New("discovery writer: missing client")
	}

	n := dw.cycles[res.Device]
	dw.cycles[res.Device] = n + 1

	if !dw.due(n) && !dw.pending[res.Device] {
		return nil
	}

	var errs []string

	dev := discoveryDevice{
		Identifiers:  []string{DeviceID(res.Device)},
		Name:         "AM2_battery_" + strconv.Itoa(int(res.Device)),
		Model:        DeviceModel,
		SWVersion:    res.Identity.Version,
		HWVersion:    DeviceHardware,
		Manufacturer: DeviceManufacturer,
	}

	for _, e := range res.Entries {
		uid := DeviceID(res.Device) + "_" + e.Name

		b, err := json.Marshal(discoveryPayload{
			Name:        e.Name,
			StateTopic:  StateTopic(dw.base, res.Device, e.Name),
			Unit:        e.Unit,
			UniqueID:    uid,
			ObjectID:    uid,
			Device:      dev,
			DeviceClass: DeviceClass(e.Unit),
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("reg=%d encode failed: %v", e.Address, err))
			continue
		}

		topic := DiscoveryTopic(dw.plan.Prefix, res.Device, e.Name)
		if err := dw.cli.Publish(topic, b, dw.plan.Retain); err != nil {
			errs = append(errs, fmt.Sprintf("topic=%s err=%v", topic, err))
		}
	}

	if len(errs) > 0 {
		dw.pending[res.Device] = true
		return errors.New("discovery writer: " + strings.Join(errs, " | "))
	}

	dw.pending[res.Device] = false
	return nil
}

func (dw *discoveryWriter) due(cycle int) bool {
	if cycle == 0 {
		return true
	}
	return dw.plan.Every > 0 && cycle%dw.plan.Every == 0
}
