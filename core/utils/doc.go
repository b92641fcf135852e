// Package utils provides small helpers shared by configuration and the CLI.
package utils
