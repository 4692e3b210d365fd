// Package catalog exposes the image catalog over HTTP.
//
// # HTTP Endpoints
//
//   - GET /images/:id : One record by image id. 400 for a malformed id, 404 when unknown.
//   - GET /images?hash= : Every record whose file has the given SHA-256.
//   - GET /partitions/:partition : The records matched in one partition.
//
// Records are returned with their partition, which the manifests leave out.
package catalog
