// Package audit provides the asynchronous audit event pipeline used by the
// gate for rejected requests, rotations, logouts, and revocation store
// degradation. Events flow through a buffered dispatcher so the hot path
// never waits on a sink.
package audit
