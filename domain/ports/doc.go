// Package ports defines the interfaces the manifest pipeline is assembled from, so the host
// loader depends on abstractions and infrastructure supplies the implementations.
package ports
