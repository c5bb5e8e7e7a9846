// Package metrics defines the Prometheus collectors for the PDF library
// viewer: HTTP traffic, thumbnail pipeline runs, cache effectiveness, and
// page rendering in the viewer.
//
// All collectors are registered with the default registry via promauto at
// package load time and exposed through promhttp on the metrics port.
package metrics
