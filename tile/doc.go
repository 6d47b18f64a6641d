// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package tile renders workspace thumbnails for the overview grid.
// Each grid slot owns a Cache that lazily regenerates its composite
// image (frame, interior, scaled screenshot) only when the underlying
// workspace record has actually changed, so an overview session that
// redraws every frame costs almost nothing while idle.
package tile
