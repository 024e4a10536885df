// Package version holds the build version reported by the health endpoint.
package version

// Version is the application version, overridden at build time.
var Version = "dev"
