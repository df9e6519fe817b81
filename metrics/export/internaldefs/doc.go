// Package internaldefs holds the shared metric name and bucket definitions
// used by the exporter packages. It exists so the Prometheus and OTel
// exporters render identical metric families without either importing the
// other.
package internaldefs
