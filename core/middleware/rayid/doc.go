// Package rayid tags every request with a ray id, stored in the fiber locals
// under "ray_id" and echoed in the X-Ray-ID response header.
package rayid
