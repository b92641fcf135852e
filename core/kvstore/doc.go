// Package kvstore connects to Redis for the redis baseline backend.
//
// Connect disables client-side retries: a baseline storage failure must reach
// the caller on the first attempt.
package kvstore
