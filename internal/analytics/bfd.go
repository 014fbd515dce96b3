package analytics

import "strings"

// BFD session states as classified here.
const (
	BFDStateUp    = "up"
	BFDStateDown  = "down"
	BFDStateOther = "other"
)

// DeviceSessions carries the BFD sessions fetched for one device, or the error
// that prevented fetching them.
type DeviceSessions struct {
	DeviceID string
	Sessions []Record
	Err      error
}

// BFDSessionDetail is one session in a detailed BFD health report.
type BFDSessionDetail struct {
	DeviceID      string `json:"device_id"`
	SessionID     string `json:"session_id,omitempty"`
	State         string `json:"state"`
	LocalAddress  string `json:"local_address,omitempty"`
	RemoteAddress string `json:"remote_address,omitempty"`
	Interface     string `json:"interface,omitempty"`
}

// DeviceBFDHealth is the per-device session breakdown.
type DeviceBFDHealth struct {
	DeviceID string `json:"device_id"`
	Total    int    `json:"total"`
	Up       int    `json:"up"`
	Down     int    `json:"down"`
	Other    int    `json:"other"`
}

// FetchFailure records a device whose data could not be fetched.
type FetchFailure struct {
	DeviceID string `json:"device_id"`
	Error    string `json:"error"`
}

// BFDHealthReport aggregates BFD session health across devices.
type BFDHealthReport struct {
	TotalDevicesChecked int                `json:"total_devices_checked"`
	DevicesWithBFD      int                `json:"devices_with_bfd"`
	TotalSessions       int                `json:"total_bfd_sessions"`
	ActiveSessions      int                `json:"active_sessions"`
	InactiveSessions    int                `json:"inactive_sessions"`
	DownSessions        int                `json:"down_sessions"`
	OtherSessions       int                `json:"other_sessions"`
	HealthRiskCount     int                `json:"health_risk_count"`
	Devices             []DeviceBFDHealth  `json:"devices"`
	FailedDevices       []FetchFailure     `json:"failed_devices"`
	SessionDetails      []BFDSessionDetail `json:"session_details,omitempty"`
}

// ClassifyBFDState maps a session state to up, down or other.
func ClassifyBFDState(state string) string {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "up":
		return BFDStateUp
	case "down":
		return BFDStateDown
	default:
		return BFDStateOther
	}
}

// BFDHealth classifies every session of every device. Devices whose fetch
// failed are listed in FailedDevices and otherwise skipped. The health risk
// count is the number of down sessions.
func BFDHealth(devices []DeviceSessions, includeDetails bool) BFDHealthReport {
	report := BFDHealthReport{
		Devices:       []DeviceBFDHealth{},
		FailedDevices: []FetchFailure{},
	}
	if includeDetails {
		report.SessionDetails = []BFDSessionDetail{}
	}

	for _, d := range devices {
		report.TotalDevicesChecked++
		if d.Err != nil {
			report.FailedDevices = append(report.FailedDevices, FetchFailure{DeviceID: d.DeviceID, Error: d.Err.Error()})
			continue
		}
		if len(d.Sessions) == 0 {
			continue
		}

		health := DeviceBFDHealth{DeviceID: d.DeviceID, Total: len(d.Sessions)}
		for _, s := range d.Sessions {
			state := stringField(s, fieldState)
			switch ClassifyBFDState(state) {
			case BFDStateUp:
				health.Up++
			case BFDStateDown:
				health.Down++
			default:
				health.Other++
			}

			if includeDetails {
				report.SessionDetails = append(report.SessionDetails, BFDSessionDetail{
					DeviceID:      d.DeviceID,
					SessionID:     stringField(s, fieldSessionID),
					State:         state,
					LocalAddress:  stringField(s, fieldLocalAddress),
					RemoteAddress: stringField(s, fieldRemoteAddress),
					Interface:     stringField(s, append(append([]string{}, fieldInterface...), fieldColor...)),
				})
			}
		}

		report.DevicesWithBFD++
		report.TotalSessions += health.Total
		report.ActiveSessions += health.Up
		report.DownSessions += health.Down
		report.OtherSessions += health.Other
		report.Devices = append(report.Devices, health)
	}

	report.InactiveSessions = report.DownSessions + report.OtherSessions
	report.HealthRiskCount = report.DownSessions
	return report
}
