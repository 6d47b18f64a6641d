// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package wm is the window-manager collaborator boundary.
//
// The updater never talks to the i3 socket directly. It consumes three
// things through the Client interface: point-in-time tree snapshots
// (which workspaces exist, which is focused, and the geometry of their
// leaf windows), a normalized change-event stream, and the "switch to
// workspace" command. The i3 implementation lives in i3.go; tests
// substitute fakes.
//
// Workspace indexes in this package are the i3 workspace numbers.
// Workspaces without a positive number (named-only workspaces, the
// scratchpad) are not representable in the overview grid and are
// filtered out of snapshots.
package wm
