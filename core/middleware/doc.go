// Package middleware contains HTTP middleware for the catalog API.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: assigns every request a ray id, stores it in the ray_id local
//     for logger.WithRayID and echoes it in the X-Ray-ID response header.
package middleware
