// Package admin serves the operational HTTP surface of storycache: health
// probes, Prometheus metrics, and cache maintenance.
//
// Routes:
//
//	GET    /healthz, /readyz, /health, /health/{name}
//	GET    /metrics
//	GET    /admin/cache/stats
//	DELETE /admin/cache
//	DELETE /admin/cache/entry?user_id=...&genre=...&tone=...&character=...&setting=...
//
// The /admin routes require an authenticated identity carrying the admin
// role when an Authenticator is configured.
package admin
