package mock

// Device ids of the fabric installed by LoadFabric.
const (
	FabricVSmart  = "1.1.1.2"
	FabricEdgeDC  = "10.10.1.11"
	FabricEdgeBr1 = "10.10.1.13"
	FabricEdgeBr2 = "10.10.1.15"
)

// LoadFabric installs a small fabric: a vSmart, a data centre edge and two
// branch edges, one of them unreachable.
func (c *Controller) LoadFabric() {
	c.SetData("/device", []any{
		device(FabricVSmart, "vsmart-1", "vsmart", "reachable", "normal", "1000"),
		device(FabricEdgeDC, "dc-edge-1", "vedge", "reachable", "normal", "100"),
		device(FabricEdgeBr1, "br-edge-1", "vedge", "reachable", "warning", "200"),
		device(FabricEdgeBr2, "br-edge-2", "vedge", "unreachable", "normal", "300"),
	})

	c.SetData("/device/monitor", []any{
		map[string]any{"system-ip": FabricEdgeDC, "status": "normal", "cpu-load": 12.0},
		map[string]any{"system-ip": FabricEdgeBr1, "status": "warning", "cpu-load": 87.0},
	})

	c.SetData("/device/counters", []any{
		map[string]any{"system-ip": FabricEdgeDC, "bfdSessionsUp": 3.0, "bfdSessionsDown": 1.0, "ompPeersUp": 1.0, "crashCount": 0.0, "rebootCount": 2.0},
		map[string]any{"system-ip": FabricEdgeBr1, "bfdSessionsUp": 1.0, "ompPeersUp": 1.0},
	})

	c.SetData("/statistics/interface", []any{
		iface(FabricEdgeDC, "ge0/0", 9000000, 7000000, 95.0, 0),
		iface(FabricEdgeDC, "ge0/1", 4000000, 1000000, 42.0, 0),
		iface(FabricEdgeBr1, "ge0/0", 3000000, 2000000, 80.0, 250),
		iface(FabricEdgeBr1, "ge0/2", 100, 50, nil, 0),
	})

	c.SetData("/device/config?deviceId="+FabricEdgeDC, "system\n host-name dc-edge-1\n system-ip 10.10.1.11\n")

	c.SetData("/device/bfd/sessions?deviceId="+FabricEdgeDC, []any{
		bfd("up", FabricEdgeDC, FabricEdgeBr1, "mpls"),
		bfd("up", FabricEdgeDC, FabricEdgeBr1, "biz-internet"),
		bfd("down", FabricEdgeDC, FabricEdgeBr2, "mpls"),
	})
	c.SetData("/device/bfd/sessions?deviceId="+FabricEdgeBr1, []any{
		bfd("up", FabricEdgeBr1, FabricEdgeDC, "mpls"),
	})

	c.SetData("/device/bfd/state/device?deviceId="+FabricEdgeDC, []any{
		map[string]any{"system-ip": FabricEdgeDC, "bfd-sessions-up": 2.0, "bfd-sessions-total": 3.0},
	})

	c.SetData("/device/tunnel/statistics?deviceId="+FabricEdgeDC, []any{
		map[string]any{"tunnel-protocol": "ipsec", "state": "up", "dest-ip": "203.0.113.13"},
		map[string]any{"tunnel-protocol": "ipsec", "state": "down", "dest-ip": "203.0.113.15"},
	})
}

func device(id, host, kind, reachability, status, site string) map[string]any {
	return map[string]any{
		"deviceId":     id,
		"system-ip":    id,
		"host-name":    host,
		"device-type":  kind,
		"reachability": reachability,
		"status":       status,
		"site-id":      site,
		"version":      "20.9.1",
		"lastupdated":  1767225600000.0,
	}
}

func iface(deviceID, name string, rx, tx float64, utilization any, errors float64) map[string]any {
	r := map[string]any{
		"vdevice-name":    deviceID,
		"deviceId":        deviceID,
		"interface":       name,
		"rx_octets":       rx,
		"tx_octets":       tx,
		"rx_pkts":         rx / 1000,
		"tx_pkts":         tx / 1000,
		"rx_errors":       errors,
		"tx_errors":       0.0,
		"if-admin-status": "up",
		"if-oper-status":  "up",
	}
	if utilization != nil {
		r["utilization"] = utilization
	}
	return r
}

func bfd(state, local, remote, color string) map[string]any {
	return map[string]any{
		"state":       state,
		"system-ip":   local,
		"src-ip":      local,
		"dst-ip":      remote,
		"local-color": color,
	}
}
