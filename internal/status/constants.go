// internal/status/constants.go
package status

// Device health codes.
// Values are published verbatim and MUST NOT be renumbered.

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a device whose last pass read every register.
const HealthOK uint16 = 1

// HealthError represents a device whose last pass failed every attempted register.
const HealthError uint16 = 2

// HealthStale represents a device serving last known values for some registers.
const HealthStale uint16 = 3

// ---- LIMITS ----

// MaxSecondsInError is where SecondsInError saturates.
const MaxSecondsInError = 65535

// HealthName returns the lowercase name of a health code.
func HealthName(code uint16) string {
	switch code {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	default:
		return "unknown"
	}
}
