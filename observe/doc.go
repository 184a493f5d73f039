// Package observe provides optional observability for memoization caches.
//
// It bundles structured logging (zerolog), OpenTelemetry metrics, and
// OpenTelemetry tracing behind an Observer that the memo package consumes.
// Every component has a no-op variant, so an unobserved cache carries zero
// telemetry overhead.
package observe
