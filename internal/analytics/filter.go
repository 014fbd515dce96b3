package analytics

import "strings"

// statusAliases maps filter words to the reachability value they stand for.
var statusAliases = map[string]string{
	"up":   Reachable,
	"down": Unreachable,
}

// FilterByStatus returns the devices whose status or reachability equals
// status, ignoring case. "up" and "down" select reachable and unreachable
// devices. Input order is preserved.
func FilterByStatus(devices []Record, status string) []Record {
	want := strings.ToLower(strings.TrimSpace(status))
	if alias, ok := statusAliases[want]; ok {
		want = alias
	}

	matched := []Record{}
	for _, device := range devices {
		if strings.ToLower(stringField(device, fieldStatus)) == want ||
			strings.ToLower(stringField(device, fieldReachability)) == want {
			matched = append(matched, device)
		}
	}
	return matched
}
