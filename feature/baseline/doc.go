// Package baseline exposes the tracked-file baseline over HTTP.
//
// # HTTP Endpoints
//
//   - GET /baseline : Lists the persisted entries.
//   - POST /baseline/check : Resolves a selection and compares it with the baseline.
//   - POST /baseline/commit : Resolves a selection and stores it as the new baseline.
//   - DELETE /baseline : Clears the baseline, forcing the next check to report a change.
//
// Check and commit accept an optional JSON body
// {"resources": [], "classes": [], "resource_folders": [], "class_folders": []};
// without one the configured selection is used.
package baseline
