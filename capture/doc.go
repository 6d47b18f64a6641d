// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package capture is the pixel-capture collaborator boundary.
//
// A Grabber produces packed row-major RGB buffers of a root-window
// region. The X11 implementation reads the region with a single
// GetImage round trip; a failed or short reply yields an empty Buffer,
// which the workspace state machine treats as "no screenshot available
// this pass" rather than an error.
package capture
