// internal/status/encode.go
package status

import "encoding/json"

type payload struct {
	Health         string `json:"health"`
	HealthCode     uint16 `json:"health_code"`
	FailedReads    int    `json:"failed_reads"`
	SecondsInError uint16 `json:"seconds_in_error"`
}

// Encode converts a Snapshot into the published status payload.
// No IO. No side effects.
func Encode(s Snapshot) ([]byte, error) {
	return json.Marshal(payload{
		Health:         HealthName(s.Health),
		HealthCode:     s.Health,
		FailedReads:    s.FailedReads,
		SecondsInError: s.SecondsInError,
	})
}
