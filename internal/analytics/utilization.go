package analytics

import "math"

// DefaultUtilizationThreshold is the percentage at or above which an
// interface counts as highly utilised.
const DefaultUtilizationThreshold = 80.0

// How a utilization value was obtained.
const (
	SourceRate     = "rate"
	SourceReported = "reported"
)

// InterfaceUtilization is one interface at or above the threshold.
type InterfaceUtilization struct {
	DeviceID           string  `json:"device_id"`
	Interface          string  `json:"interface"`
	UtilizationPercent float64 `json:"utilization_percent"`
	Source             string  `json:"source"`
	RxBytes            int64   `json:"rx_bytes"`
	TxBytes            int64   `json:"tx_bytes"`
	Status             string  `json:"status,omitempty"`
}

// UtilizationReport lists interfaces at or above a utilization threshold.
type UtilizationReport struct {
	ThresholdPercent          float64                `json:"threshold_percent"`
	TotalInterfaces           int                    `json:"total_interfaces"`
	EvaluatedInterfaces       int                    `json:"evaluated_interfaces"`
	ExcludedInterfaces        int                    `json:"excluded_interfaces"`
	HighUtilizationInterfaces int                    `json:"high_utilization_interfaces"`
	InterfacesOverThreshold   []InterfaceUtilization `json:"interfaces_over_threshold"`
	AverageUtilization        float64                `json:"average_utilization"`
}

// Utilization derives an interface's utilization percentage. With a known link
// capacity (the record's speed, else capacityMbps) and rate counters it is
// max(rx, tx) relative to capacity; otherwise the controller-reported
// percentage is used as is. ok is false when neither is available.
func Utilization(r Record, capacityMbps float64) (value float64, source string, ok bool) {
	if speed, found := numberField(r, fieldSpeedMbps); found && speed > 0 {
		capacityMbps = speed
	}
	if capacityMbps > 0 {
		rx, rxOK := numberField(r, fieldRxKbps)
		tx, txOK := numberField(r, fieldTxKbps)
		if rxOK || txOK {
			peakMbps := math.Max(rx, tx) / 1000
			return round2(peakMbps / capacityMbps * 100), SourceRate, true
		}
	}
	if reported, found := numberField(r, fieldUtilization); found {
		return reported, SourceReported, true
	}
	return 0, "", false
}

// MonitorUtilization returns the interfaces whose utilization is at or above
// threshold. Interfaces without a derivable utilization are counted as
// excluded. The average is taken over evaluated interfaces only.
func MonitorUtilization(records []Record, threshold, capacityMbps float64) UtilizationReport {
	report := UtilizationReport{
		ThresholdPercent:        threshold,
		TotalInterfaces:         len(records),
		InterfacesOverThreshold: []InterfaceUtilization{},
	}

	var sum float64
	for _, r := range records {
		value, source, ok := Utilization(r, capacityMbps)
		if !ok {
			report.ExcludedInterfaces++
			continue
		}
		report.EvaluatedInterfaces++
		sum += value

		if value >= threshold {
			report.InterfacesOverThreshold = append(report.InterfacesOverThreshold, InterfaceUtilization{
				DeviceID:           stringField(r, fieldDeviceID),
				Interface:          stringField(r, fieldInterface),
				UtilizationPercent: round2(value),
				Source:             source,
				RxBytes:            intField(r, fieldRxOctets),
				TxBytes:            intField(r, fieldTxOctets),
				Status:             stringField(r, fieldAdminStatus),
			})
		}
	}

	report.HighUtilizationInterfaces = len(report.InterfacesOverThreshold)
	if report.EvaluatedInterfaces > 0 {
		report.AverageUtilization = round2(sum / float64(report.EvaluatedInterfaces))
	}
	return report
}
