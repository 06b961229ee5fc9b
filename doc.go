// Package clouddrop provides an authenticated file-sharing service over a
// local object bucket, with a date-grouped "timeline" view of everything
// stored.
//
// Clients upload files, browse them grouped by calendar day, download and
// delete them. Every operation that touches stored objects is gated by a
// single shared-secret header.
//
// # Key Components
//
//   - Service: combines a metadata index and a blob store into the
//     upload/get/delete/timeline operations the HTTP layer exposes
//   - MetadataIndex: interface for object metadata persistence (SQLite)
//   - BlobStore: interface for byte storage (filesystem, extensible)
//   - BuildTimeline: pure aggregation of object records into date buckets
//
// Upload keys are generated as <YYYY-MM-DD>/<epoch-millis>-<filename>, so
// the timeline can group objects by their key's date prefix and fall back
// to the upload timestamp for keys without one.
//
// See the http package for the REST surface, bucket for the filesystem
// blob store and index for the SQLite metadata index.
package clouddrop
