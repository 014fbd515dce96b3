package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTopology(t *testing.T) {
	devices := []Record{
		{"deviceId": "1.1.1.1", "host-name": "vsmart", "device-type": "vsmart", "reachability": "reachable", "site-id": "1000", "system-ip": "1.1.1.1", "version": "20.9.1"},
		{"deviceId": "10.0.0.11", "host-name": "edge-1", "device-type": "vedge", "reachability": "reachable", "site-id": "100"},
		{"deviceId": "10.0.0.12", "host-name": "edge-2", "device-type": "vedge", "reachability": "unreachable", "site-id": "100"},
	}
	interfaces := []Record{
		{"deviceId": "10.0.0.11", "interface": "ge0/0", "if-admin-status": "up", "ip-address": "192.0.2.1/24"},
		{"deviceId": "10.0.0.11", "interface": "ge0/1", "if-admin-status": "down"},
		{"deviceId": "10.9.9.9", "interface": "ge0/0"},
		{"interface": "orphan"},
	}

	topo := BuildTopology(devices, interfaces)

	require.Len(t, topo.Nodes, 3)
	assert.Equal(t, 3, topo.NetworkSummary.TotalDevices)
	assert.Equal(t, 4, topo.NetworkSummary.TotalInterfaces)
	assert.Equal(t, map[string]int{"vsmart": 1, "vedge": 2}, topo.NetworkSummary.DeviceTypes)
	assert.Equal(t, map[string]int{"1000": 1, "100": 2}, topo.NetworkSummary.Sites)

	assert.Equal(t, "vsmart", topo.Nodes[0].Hostname)
	assert.Equal(t, "20.9.1", topo.Nodes[0].Version)
	assert.Nil(t, topo.Nodes[0].Interfaces)

	assert.Equal(t, []NodeInterface{
		{Interface: "ge0/0", Status: "up", IPAddress: "192.0.2.1/24"},
		{Interface: "ge0/1", Status: "down"},
	}, topo.Nodes[1].Interfaces)
	assert.Equal(t, "unreachable", topo.Nodes[2].Status)
}
