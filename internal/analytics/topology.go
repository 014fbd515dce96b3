package analytics

// NodeInterface is an interface attached to a topology node.
type NodeInterface struct {
	Interface string `json:"interface"`
	Status    string `json:"status,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

// Node is a device in the topology.
type Node struct {
	DeviceID   string          `json:"device_id"`
	Hostname   string          `json:"hostname"`
	DeviceType string          `json:"device_type"`
	Status     string          `json:"status"`
	SiteID     string          `json:"site_id,omitempty"`
	SystemIP   string          `json:"system_ip,omitempty"`
	Version    string          `json:"version,omitempty"`
	Interfaces []NodeInterface `json:"interfaces,omitempty"`
}

// TopologySummary counts what the topology contains.
type TopologySummary struct {
	TotalDevices    int            `json:"total_devices"`
	TotalInterfaces int            `json:"total_interfaces"`
	DeviceTypes     map[string]int `json:"device_types"`
	Sites           map[string]int `json:"sites"`
}

// Topology is the device inventory with interfaces grouped per device.
type Topology struct {
	Nodes          []Node          `json:"nodes"`
	NetworkSummary TopologySummary `json:"network_summary"`
}

// BuildTopology groups interface records under the device they belong to.
// Interfaces of devices not in the inventory are counted but not attached.
func BuildTopology(devices, interfaces []Record) Topology {
	byDevice := make(map[string][]NodeInterface)
	for _, r := range interfaces {
		id := stringField(r, fieldDeviceID)
		if id == "" {
			continue
		}
		byDevice[id] = append(byDevice[id], NodeInterface{
			Interface: stringField(r, fieldInterface),
			Status:    stringField(r, fieldAdminStatus),
			IPAddress: stringField(r, fieldIPAddress),
		})
	}

	topo := Topology{
		Nodes: make([]Node, 0, len(devices)),
		NetworkSummary: TopologySummary{
			TotalDevices:    len(devices),
			TotalInterfaces: len(interfaces),
			DeviceTypes:     countBy(devices, fieldDeviceType),
			Sites:           countBy(devices, fieldSiteID),
		},
	}

	for _, d := range devices {
		id := stringField(d, fieldDeviceID)
		topo.Nodes = append(topo.Nodes, Node{
			DeviceID:   id,
			Hostname:   stringField(d, fieldHostname),
			DeviceType: stringField(d, fieldDeviceType),
			Status:     stringField(d, fieldReachability),
			SiteID:     stringField(d, fieldSiteID),
			SystemIP:   stringField(d, fieldSystemIP),
			Version:    stringField(d, fieldVersion),
			Interfaces: byDevice[id],
		})
	}
	return topo
}
