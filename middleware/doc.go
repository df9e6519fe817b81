// Package middleware adapts the gate to HTTP transports: a net/http
// middleware chain and a gin handler chain. Both extract token carriers
// (cookies first, Authorization header as fallback), run the gate once per
// request, write renewed cookies, and attach the resulting identity to the
// request context. Rejections are rendered as the stable JSON error body
// {success, message, code}.
package middleware
