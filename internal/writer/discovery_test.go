// internal/writer/discovery_test.go
package writer

import (
	"encoding/json"
	"testing"
)

func discoveryPlan(every int, retain bool) Plan {
	return Plan{
		BaseTopic: "hubble_am2",
		Discovery: &DiscoveryPlan{Prefix: "homeassistant", Retain: retain, Every: every},
	}
}

func TestNewDiscoveryWriter_Disabled(t *testing.T) {
	if _, ok := NewDiscoveryWriter(Plan{BaseTopic: "b"}, &fakeEndpointClient{}); ok {
		t.Fatalf("discovery writer should be disabled")
	}
}

func TestDiscovery_Payload(t *testing.T) {
	fake := &fakeEndpointClient{}
	dw, _ := NewDiscoveryWriter(discoveryPlan(15, true), fake)

	if err := dw.Write(sampleResult(3)); err != nil {
		t.Fatalf("Write() err=%v", err)
	}

	// every register is announced, including ones without a value yet
	if len(fake.pubs) != len(sampleResult(3).Entries) {
		t.Fatalf("expected %d announcements, got %d", len(sampleResult(3).Entries), len(fake.pubs))
	}

	p, ok := fake.byTopic("homeassistant/sensor/am2_battery_3_Voltage/config")
	if !ok {
		t.Fatalf("voltage announcement missing")
	}
	if !p.retain {
		t.Fatalf("retain flag not honoured")
	}

	var got struct {
		Name        string `json:"name"`
		StateTopic  string `json:"state_topic"`
		Unit        string `json:"unit_of_measurement"`
		UniqueID    string `json:"unique_id"`
		ObjectID    string `json:"object_id"`
		DeviceClass string `json:"device_class"`
		Device      struct {
			Identifiers  []string `json:"identifiers"`
			Name         string   `json:"name"`
			Model        string   `json:"model"`
			SWVersion    string   `json:"sw_version"`
			HWVersion    string   `json:"hw_version"`
			Manufacturer string   `json:"manufacturer"`
		} `json:"device"`
	}
	if err := json.Unmarshal([]byte(p.payload), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Name != "Voltage" || got.Unit != "V" || got.DeviceClass != "voltage" {
		t.Fatalf("sensor fields: %+v", got)
	}
	if got.StateTopic != "hubble_am2/am2_battery_3/Voltage/state" {
		t.Fatalf("state topic: %s", got.StateTopic)
	}
	if got.UniqueID != "am2_battery_3_Voltage" || got.ObjectID != got.UniqueID {
		t.Fatalf("ids: %s %s", got.UniqueID, got.ObjectID)
	}
	d := got.Device
	if len(d.Identifiers) != 1 || d.Identifiers[0] != "am2_battery_3" || d.Name != "AM2_battery_3" {
		t.Fatalf("device ids: %+v", d)
	}
	if d.Model != DeviceModel || d.HWVersion != DeviceHardware || d.Manufacturer != DeviceManufacturer || d.SWVersion != "V1.2" {
		t.Fatalf("device description: %+v", d)
	}
}

func TestDiscovery_NoDeviceClassForUnmappedUnit(t *testing.T) {
	fake := &fakeEndpointClient{}
	dw, _ := NewDiscoveryWriter(discoveryPlan(15, false), fake)
	_ = dw.Write(sampleResult(1))

	p, _ := fake.byTopic("homeassistant/sensor/am2_battery_1_Version/config")
	var got map[string]any
	if err := json.Unmarshal([]byte(p.payload), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := got["device_class"]; ok {
		t.Fatalf("device_class set for unit str")
	}
}

func TestDiscovery_Cadence(t *testing.T) {
	fake := &fakeEndpointClient{}
	dw, _ := NewDiscoveryWriter(discoveryPlan(3, false), fake)

	perCycle := len(sampleResult(1).Entries)
	for cycle := 0; cycle < 7; cycle++ {
		_ = dw.Write(sampleResult(1))
	}

	// cycles 0, 3 and 6
	if got := fake.withSuffix("/config"); got != 3*perCycle {
		t.Fatalf("announcements: got %d want %d", got, 3*perCycle)
	}
}

func TestDiscovery_CadencePerDevice(t *testing.T) {
	fake := &fakeEndpointClient{}
	dw, _ := NewDiscoveryWriter(discoveryPlan(15, false), fake)

	_ = dw.Write(sampleResult(1))
	_ = dw.Write(sampleResult(2))
	_ = dw.Write(sampleResult(1))

	if fake.withSuffix("/config") != 2*len(sampleResult(1).Entries) {
		t.Fatalf("each device must be announced on its own first cycle: %d", len(fake.pubs))
	}
}

func TestDiscovery_RetriedAfterFailure(t *testing.T) {
	topic := "homeassistant/sensor/am2_battery_1_SoC/config"
	fake := &fakeEndpointClient{fail: map[string]bool{topic: true}}
	dw, _ := NewDiscoveryWriter(discoveryPlan(15, false), fake)

	if err := dw.Write(sampleResult(1)); err == nil {
		t.Fatalf("expected error")
	}

	fake.fail[topic] = false
	if err := dw.Write(sampleResult(1)); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if _, ok := fake.byTopic(topic); !ok {
		t.Fatalf("failed announcement not repeated")
	}

	// settled: the third cycle is quiet
	before := len(fake.pubs)
	_ = dw.Write(sampleResult(1))
	if len(fake.pubs) != before {
		t.Fatalf("unexpected announcement on quiet cycle")
	}
}

func TestDeviceClass(t *testing.T) {
	cases := map[string]string{
		"A": "current", "V": "voltage", "W": "power", "°C": "temperature",
		"Hz": "frequency", "Ah": "energy", "Wh": "energy", "%": "battery",
		"tm": "timestamp", "int": "", "str": "", "?": "",
	}
	for unit, want := range cases {
		if got := DeviceClass(unit); got != want {
			t.Fatalf("%q: got %q want %q", unit, got, want)
		}
	}
}
