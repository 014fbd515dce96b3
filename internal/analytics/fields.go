package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one controller JSON object.
type Record = map[string]any

// Field names used by the controller. Where controller versions disagree,
// every known spelling is listed and the first present one wins.
var (
	fieldDeviceID     = []string{"deviceId", "system-ip", "vdevice-name"}
	fieldHostname     = []string{"host-name", "hostname", "vdevice-host-name"}
	fieldReachability = []string{"reachability"}
	fieldStatus       = []string{"status"}
	fieldDeviceType   = []string{"device-type", "deviceType", "personality"}
	fieldVersion      = []string{"version"}
	fieldSiteID       = []string{"site-id", "siteId"}
	fieldSystemIP     = []string{"system-ip", "systemIp"}
	fieldLastUpdated  = []string{"lastupdated", "lastUpdated"}

	fieldInterface   = []string{"interface", "ifname"}
	fieldRxOctets    = []string{"rx_octets", "rx-octets"}
	fieldTxOctets    = []string{"tx_octets", "tx-octets"}
	fieldRxPackets   = []string{"rx_pkts", "rx-packets"}
	fieldTxPackets   = []string{"tx_pkts", "tx-packets"}
	fieldRxErrors    = []string{"rx_errors", "rx-errors"}
	fieldTxErrors    = []string{"tx_errors", "tx-errors"}
	fieldAdminStatus = []string{"if-admin-status", "admin-status"}
	fieldOperStatus  = []string{"if-oper-status", "oper-status"}
	fieldIPAddress   = []string{"ip-address", "ipv4-address"}
	fieldUtilization = []string{"utilization", "utilization_percent", "percent-utilization"}
	fieldRxKbps      = []string{"rx_kbps", "rx-kbps"}
	fieldTxKbps      = []string{"tx_kbps", "tx-kbps"}
	fieldSpeedMbps   = []string{"speed-mbps", "speed_mbps"}

	fieldState         = []string{"state"}
	fieldSessionID     = []string{"sessionId", "session-id"}
	fieldLocalAddress  = []string{"localAddress", "src-ip"}
	fieldRemoteAddress = []string{"remoteAddress", "dst-ip"}
	fieldColor         = []string{"local-color", "color"}
)

// lookup returns the first present value among keys.
func lookup(r Record, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringField returns the value of the first present key as a string, or "".
func stringField(r Record, keys []string) string {
	v, ok := lookup(r, keys)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// numberField parses the first present key as a number.
func numberField(r Record, keys []string) (float64, bool) {
	v, ok := lookup(r, keys)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// intField is numberField truncated to an integer, 0 when absent.
func intField(r Record, keys []string) int64 {
	f, ok := numberField(r, keys)
	if !ok {
		return 0
	}
	return int64(f)
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(n, "%")), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

// countBy counts records by the value of keys, using "unknown" for missing values.
func countBy(records []Record, keys []string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		v := stringField(r, keys)
		if v == "" {
			v = "unknown"
		}
		counts[v]++
	}
	return counts
}

// DeviceID returns the device identifier of a device or interface record.
func DeviceID(r Record) string {
	return stringField(r, fieldDeviceID)
}
