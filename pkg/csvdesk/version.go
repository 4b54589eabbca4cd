// Package csvdesk holds build metadata for the csvdesk module.
package csvdesk

// Version is the csvdesk release version.
const Version = "0.1.0"
