// Package http provides the HTTP surface for the clouddrop file share.
//
// The router exposes three kinds of routes:
//
//   - HTML shells: GET / serves the login page and GET /app the app
//     shell. Both are public; the app shell performs its credential
//     check client-side against the API.
//   - JSON API under /api: POST /api/login validates the shared
//     password, POST /api/upload stores a file, GET /api/timeline
//     returns objects grouped by date. Upload and timeline require the
//     X-Custom-Auth-Key header; unknown /api paths are 404 and never
//     fall through to object access.
//   - Direct object access: GET /<key> streams an object and
//     DELETE /<key> removes one. Both require authentication. Other
//     methods on object keys get 405 with "Allow: GET, DELETE".
//
// Authentication is a shared secret compared against the
// X-Custom-Auth-Key request header. An empty configured secret fails
// closed: every authenticated route rejects until a secret is set.
//
// # Usage
//
//	handlerCfg := http.HandlerConfig{
//	    AuthSecret: cfg.Auth.Secret,
//	    CORS:       http.DefaultCORSConfig(),
//	}
//	handler := http.NewHandler(&handlerCfg, service)
//	http.ListenAndServe(":8080", handler.Router())
//
// The service parameter must implement the Service interface with
// Upload, Get, Delete, and Timeline methods.
package http
