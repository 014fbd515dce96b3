package analytics

import "strings"

// Reachability buckets.
const (
	Reachable   = "reachable"
	Unreachable = "unreachable"
	Unknown     = "unknown"
)

// Health grades.
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeFair      = "fair"
	GradePoor      = "poor"
	GradeUnknown   = "unknown"
)

// DeviceRef identifies a device in summaries.
type DeviceRef struct {
	DeviceID     string `json:"device_id"`
	Hostname     string `json:"hostname"`
	Status       string `json:"status"`
	Reachability string `json:"reachability"`
	DeviceType   string `json:"device_type"`
}

// CounterRollup aggregates the per-device counters endpoint.
type CounterRollup struct {
	DevicesReporting int   `json:"devices_reporting"`
	BFDSessionsUp    int64 `json:"bfd_sessions_up"`
	BFDSessionsDown  int64 `json:"bfd_sessions_down"`
	OMPPeersUp       int64 `json:"omp_peers_up"`
	OMPPeersDown     int64 `json:"omp_peers_down"`
	CrashCount       int64 `json:"crash_count"`
	RebootCount      int64 `json:"reboot_count"`
}

// HealthSummary partitions devices by reachability.
// DevicesUp + DevicesDown + DevicesUnknown always equals TotalDevices.
//
// A device with missing or unrecognised reachability is reported in its own
// unknown bucket rather than folded into DevicesDown, but it is handled like an
// unreachable one everywhere else: it lowers the grade and is listed as
// requiring attention.
type HealthSummary struct {
	TotalDevices      int            `json:"total_devices"`
	DevicesUp         int            `json:"devices_up"`
	DevicesDown       int            `json:"devices_down"`
	DevicesUnknown    int            `json:"devices_unknown"`
	UpPercentage      float64        `json:"up_percentage"`
	DownPercentage    float64        `json:"down_percentage"`
	UnknownPercentage float64        `json:"unknown_percentage"`
	OverallHealth     string         `json:"overall_health"`
	RequireAttention  []DeviceRef    `json:"devices_requiring_attention"`
	DeviceDetails     []DeviceRef    `json:"device_details"`
	Counters          *CounterRollup `json:"counters,omitempty"`
}

// ReachabilityOf classifies a device record as Reachable, Unreachable or Unknown.
func ReachabilityOf(device Record) string {
	switch strings.ToLower(strings.TrimSpace(stringField(device, fieldReachability))) {
	case Reachable:
		return Reachable
	case Unreachable:
		return Unreachable
	default:
		return Unknown
	}
}

func deviceRef(device Record) DeviceRef {
	return DeviceRef{
		DeviceID:     stringField(device, fieldDeviceID),
		Hostname:     stringField(device, fieldHostname),
		Status:       stringField(device, fieldStatus),
		Reachability: stringField(device, fieldReachability),
		DeviceType:   stringField(device, fieldDeviceType),
	}
}

// Grade maps the share of reachable devices to a health grade.
func Grade(upPercentage float64) string {
	switch {
	case upPercentage >= 95:
		return GradeExcellent
	case upPercentage >= 80:
		return GradeGood
	case upPercentage >= 60:
		return GradeFair
	default:
		return GradePoor
	}
}

// Summarize builds the health summary of devices. Devices with a missing or
// unrecognised reachability are counted as unknown, listed as requiring
// attention and do not count as up for the grade. counters may be nil.
func Summarize(devices []Record, counters []Record) HealthSummary {
	summary := HealthSummary{
		TotalDevices:     len(devices),
		OverallHealth:    GradeUnknown,
		RequireAttention: []DeviceRef{},
		DeviceDetails:    make([]DeviceRef, 0, len(devices)),
	}

	for _, device := range devices {
		ref := deviceRef(device)
		summary.DeviceDetails = append(summary.DeviceDetails, ref)

		switch ReachabilityOf(device) {
		case Reachable:
			summary.DevicesUp++
		case Unreachable:
			summary.DevicesDown++
			summary.RequireAttention = append(summary.RequireAttention, ref)
		default:
			summary.DevicesUnknown++
			summary.RequireAttention = append(summary.RequireAttention, ref)
		}
	}

	if summary.TotalDevices > 0 {
		summary.UpPercentage = percent(summary.DevicesUp, summary.TotalDevices)
		summary.DownPercentage = percent(summary.DevicesDown, summary.TotalDevices)
		summary.UnknownPercentage = percent(summary.DevicesUnknown, summary.TotalDevices)
		summary.OverallHealth = Grade(float64(summary.DevicesUp) / float64(summary.TotalDevices) * 100)
	}

	if counters != nil {
		summary.Counters = RollupCounters(counters)
	}
	return summary
}

// RollupCounters sums the per-device counters records.
func RollupCounters(counters []Record) *CounterRollup {
	rollup := &CounterRollup{DevicesReporting: len(counters)}
	for _, c := range counters {
		rollup.BFDSessionsUp += intField(c, []string{"bfdSessionsUp"})
		rollup.BFDSessionsDown += intField(c, []string{"bfdSessionsDown"})
		rollup.OMPPeersUp += intField(c, []string{"ompPeersUp"})
		rollup.OMPPeersDown += intField(c, []string{"ompPeersDown"})
		rollup.CrashCount += intField(c, []string{"crashCount"})
		rollup.RebootCount += intField(c, []string{"rebootCount"})
	}
	return rollup
}
