// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package worker runs background goroutines under supervision.
//
// The updater's event pump and the signal loop must never die
// silently: a crashed worker leaves the process running but broken,
// with stale thumbnails and no way to notice. Each Worker records its
// outcome and signals completion on a channel, so the main loop can
// select across all workers and terminate the process deterministically
// when any of them fails.
package worker
