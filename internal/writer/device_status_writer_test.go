// internal/writer/device_status_writer_test.go
package writer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/tamzrod/am2-bridge/internal/poller"
	"github.com/tamzrod/am2-bridge/internal/status"
)

func TestStatusWriter_Disabled(t *testing.T) {
	if _, ok := NewDeviceStatusWriter(Plan{BaseTopic: "b"}, &fakeEndpointClient{}); ok {
		t.Fatalf("status writer should be disabled")
	}
}

func TestStatusWriter_PublishOnFirstAndOnChange(t *testing.T) {
	fake := &fakeEndpointClient{}
	sw, enabled := NewDeviceStatusWriter(Plan{BaseTopic: "b", Status: true}, fake)
	if !enabled {
		t.Fatalf("status writer should be enabled")
	}

	res := sampleResult(1)

	// ---- first write: always published ----
	if err := sw.Write(res); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if fake.withSuffix("/status") != 1 {
		t.Fatalf("expected first status publish")
	}

	p, _ := fake.byTopic("b/am2_battery_1/status")
	var got map[string]any
	if err := json.Unmarshal([]byte(p.payload), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["health"] != "ok" {
		t.Fatalf("health: %v", got)
	}

	// ---- unchanged: quiet ----
	res.At = res.At.Add(time.Minute)
	_ = sw.Write(res)
	if fake.withSuffix("/status") != 1 {
		t.Fatalf("unchanged status was re-published")
	}

	// ---- degraded: published ----
	res.Pass = poller.PassResult{Read: 3, Failed: 1}
	res.At = res.At.Add(time.Minute)
	_ = sw.Write(res)
	if fake.withSuffix("/status") != 2 {
		t.Fatalf("changed status not published")
	}
}

func TestStatusWriter_ReassertAfterFailure(t *testing.T) {
	topic := "b/am2_battery_4/status"
	fake := &fakeEndpointClient{fail: map[string]bool{topic: true}}
	sw, _ := NewDeviceStatusWriter(Plan{BaseTopic: "b", Status: true}, fake)

	res := sampleResult(4)
	if err := sw.Write(res); err == nil {
		t.Fatalf("expected publish error")
	}

	// same health, but the last publish failed
	fake.fail[topic] = false
	res.At = res.At.Add(time.Minute)
	if err := sw.Write(res); err != nil {
		t.Fatalf("re-assert failed: %v", err)
	}
	if _, ok := fake.byTopic(topic); !ok {
		t.Fatalf("status not re-asserted after failure")
	}
}

func TestStatusWriter_WriteStatusVerbatim(t *testing.T) {
	fake := &fakeEndpointClient{}
	sw, _ := NewDeviceStatusWriter(Plan{BaseTopic: "b", Status: true}, fake)

	if err := sw.WriteStatus(7, status.Snapshot{Health: status.HealthError, FailedReads: 40, SecondsInError: 120}); err != nil {
		t.Fatalf("WriteStatus() err=%v", err)
	}

	p, ok := fake.byTopic("b/am2_battery_7/status")
	if !ok {
		t.Fatalf("no status publish")
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(p.payload), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["health"] != "error" || got["seconds_in_error"] != float64(120) || got["failed_reads"] != float64(40) {
		t.Fatalf("payload: %v", got)
	}
}
