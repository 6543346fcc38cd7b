// Package pipeline orchestrates one release-pipeline invocation:
// filter the catalog by the caller's selectors, run each distinct tool's
// tests once, then build and package every selected target in catalog order.
//
// Execution is strictly sequential and fail-fast: the first failing step
// aborts all remaining work, and artifacts produced before the failure are
// left on disk. A marker-file lock keeps two invocations from racing on the
// same repository root.
package pipeline
