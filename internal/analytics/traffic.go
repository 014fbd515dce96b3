package analytics

import (
	"fmt"
	"sort"
	"strings"
)

// Metric is a traffic measure interfaces can be ranked by.
type Metric string

const (
	MetricTotalBytes  Metric = "total_bytes"
	MetricRxBytes     Metric = "rx_bytes"
	MetricTxBytes     Metric = "tx_bytes"
	MetricRxPackets   Metric = "rx_packets"
	MetricTxPackets   Metric = "tx_packets"
	MetricUtilization Metric = "utilization"
)

// Metrics lists every supported metric, default first.
var Metrics = []Metric{MetricTotalBytes, MetricRxBytes, MetricTxBytes, MetricRxPackets, MetricTxPackets, MetricUtilization}

// ParseMetric validates a metric name. An empty name selects total_bytes.
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricTotalBytes, nil
	}
	for _, m := range Metrics {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported metric %q", s)
}

// InterfaceTraffic is the normalised view of one interface statistics record.
type InterfaceTraffic struct {
	DeviceID    string   `json:"device_id"`
	Interface   string   `json:"interface_name"`
	RxBytes     int64    `json:"rx_bytes"`
	TxBytes     int64    `json:"tx_bytes"`
	TotalBytes  int64    `json:"total_bytes"`
	RxPackets   int64    `json:"rx_packets"`
	TxPackets   int64    `json:"tx_packets"`
	RxErrors    int64    `json:"rx_errors"`
	TxErrors    int64    `json:"tx_errors"`
	Utilization *float64 `json:"utilization,omitempty"`
}

// NewInterfaceTraffic normalises an interface statistics record. Missing
// counters read as zero.
func NewInterfaceTraffic(r Record) InterfaceTraffic {
	t := InterfaceTraffic{
		DeviceID:  stringField(r, fieldDeviceID),
		Interface: stringField(r, fieldInterface),
		RxBytes:   intField(r, fieldRxOctets),
		TxBytes:   intField(r, fieldTxOctets),
		RxPackets: intField(r, fieldRxPackets),
		TxPackets: intField(r, fieldTxPackets),
		RxErrors:  intField(r, fieldRxErrors),
		TxErrors:  intField(r, fieldTxErrors),
	}
	t.TotalBytes = t.RxBytes + t.TxBytes
	if u, ok := numberField(r, fieldUtilization); ok {
		t.Utilization = &u
	}
	return t
}

func (t InterfaceTraffic) value(m Metric) float64 {
	switch m {
	case MetricRxBytes:
		return float64(t.RxBytes)
	case MetricTxBytes:
		return float64(t.TxBytes)
	case MetricRxPackets:
		return float64(t.RxPackets)
	case MetricTxPackets:
		return float64(t.TxPackets)
	case MetricUtilization:
		if t.Utilization == nil {
			return 0
		}
		return *t.Utilization
	default:
		return float64(t.TotalBytes)
	}
}

// TopInterfaces ranks interfaces by metric, highest first, and returns at most
// n of them. Equal values are ordered by interface name, then device id.
// n below 1 is treated as 1. Ranking by utilization skips interfaces that do
// not report it.
func TopInterfaces(records []Record, metric Metric, n int) []InterfaceTraffic {
	if n < 1 {
		n = 1
	}

	ranked := make([]InterfaceTraffic, 0, len(records))
	for _, r := range records {
		t := NewInterfaceTraffic(r)
		if metric == MetricUtilization && t.Utilization == nil {
			continue
		}
		ranked = append(ranked, t)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := ranked[i].value(metric), ranked[j].value(metric)
		if vi != vj {
			return vi > vj
		}
		if ranked[i].Interface != ranked[j].Interface {
			return ranked[i].Interface < ranked[j].Interface
		}
		return ranked[i].DeviceID < ranked[j].DeviceID
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
