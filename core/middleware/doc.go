// Package middleware groups the HTTP middleware of the fiber application.
//
//   - auth: rejects requests without the configured X-API-Key header.
//   - rayid: assigns every request a ray id, picked up by logger.WithRayID.
//
// rayid is registered first so that rejected requests are traced too.
package middleware
