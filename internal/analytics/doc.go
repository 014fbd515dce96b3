// Package analytics derives health, traffic, BFD, alert, utilization,
// topology and report views from records already fetched from the controller.
//
// Every function here is pure: no network I/O, no shared state. Records are
// the controller's JSON objects as decoded by the controller package; unknown
// keys are ignored and numeric fields may arrive as float64, json.Number or
// numeric strings depending on the endpoint.
package analytics
