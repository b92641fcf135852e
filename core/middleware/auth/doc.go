// Package auth provides API key authentication for the fiber application.
package auth
