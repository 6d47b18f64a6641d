// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace owns everything the tool knows about the window
// manager's workspaces: the indexed registry of records, the
// per-workspace capture state machine, and the geometry fingerprint
// used for cheap change detection.
//
// The registry is mutated only from within an updater pass (at most
// one in flight); the presentation layer reads records and never
// writes them. Records still carry their own small mutex so reads
// from the overview are race-free without coordinating with the
// updater.
package workspace
