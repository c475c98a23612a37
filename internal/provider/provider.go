// Package provider groups the service modules. Each sub-package adapts one
// streaming service's API to the records in internal/metadata; qobuz is the
// only one.
package provider
