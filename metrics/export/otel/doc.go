// Package otel exposes gate metrics as OpenTelemetry observable
// instruments. Counters map to Int64ObservableCounter; the latency
// histogram is flattened into per-bound cumulative gauges because the core
// snapshot stores fixed buckets rather than raw samples.
package otel
