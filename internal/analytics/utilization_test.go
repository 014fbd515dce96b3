package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorUtilization_ThresholdInclusive(t *testing.T) {
	records := []Record{
		{"deviceId": "1", "interface": "ge0/0", "utilization": 95.0},
		{"deviceId": "1", "interface": "ge0/1", "utilization": 80.0},
		{"deviceId": "1", "interface": "ge0/2", "utilization": 79.0},
		{"deviceId": "1", "interface": "ge0/3"},
	}

	report := MonitorUtilization(records, 80, 0)

	require.Len(t, report.InterfacesOverThreshold, 2)
	assert.Equal(t, "ge0/0", report.InterfacesOverThreshold[0].Interface)
	assert.Equal(t, "ge0/1", report.InterfacesOverThreshold[1].Interface)
	assert.Equal(t, SourceReported, report.InterfacesOverThreshold[0].Source)
	assert.Equal(t, 4, report.TotalInterfaces)
	assert.Equal(t, 3, report.EvaluatedInterfaces)
	assert.Equal(t, 1, report.ExcludedInterfaces)
	assert.Equal(t, 2, report.HighUtilizationInterfaces)
	assert.Equal(t, 84.67, report.AverageUtilization)
}

func TestUtilization_Derivation(t *testing.T) {
	tests := []struct {
		name       string
		record     Record
		capacity   float64
		want       float64
		wantSource string
		wantOK     bool
	}{
		{
			name:       "rate over configured capacity uses the busier direction",
			record:     Record{"rx_kbps": 40000.0, "tx_kbps": 90000.0},
			capacity:   100,
			want:       90,
			wantSource: SourceRate,
			wantOK:     true,
		},
		{
			name:       "record speed wins over configured capacity",
			record:     Record{"rx_kbps": 500000.0, "speed-mbps": 1000.0},
			capacity:   100,
			want:       50,
			wantSource: SourceRate,
			wantOK:     true,
		},
		{
			name:       "no capacity falls back to reported percentage",
			record:     Record{"rx_kbps": 500.0, "utilization": "12.5%"},
			want:       12.5,
			wantSource: SourceReported,
			wantOK:     true,
		},
		{
			name:       "capacity without rates falls back to reported percentage",
			record:     Record{"utilization": 33.0},
			capacity:   1000,
			want:       33,
			wantSource: SourceReported,
			wantOK:     true,
		},
		{
			name:     "nothing derivable",
			record:   Record{"rx_octets": 1000.0},
			capacity: 1000,
		},
		{
			name:   "non numeric percentage",
			record: Record{"utilization": "n/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source, ok := Utilization(tt.record, tt.capacity)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestMonitorUtilization_Empty(t *testing.T) {
	report := MonitorUtilization(nil, DefaultUtilizationThreshold, 0)
	assert.Equal(t, 0, report.TotalInterfaces)
	assert.Equal(t, 0.0, report.AverageUtilization)
	assert.NotNil(t, report.InterfacesOverThreshold)
}
