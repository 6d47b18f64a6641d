// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package overview composes the workspace grid and runs the
// interactive selection session. The renderer tracks what each grid
// slot last showed and emits minimal dirty rectangles, so a visible
// overview only pushes pixels for tiles that actually changed. The
// session brackets its lifetime with the updater's lock so workspace
// state stays frozen while the grid is on screen.
package overview
