// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package updater coordinates workspace state synchronization. It owns
// the single-flight update pass (window-manager tree snapshot, registry
// reconciliation, per-workspace capture), the pause gate that freezes
// updates while the overview is visible, and the fallback timer that
// guarantees a pass runs at least once per forced update interval even
// when no events arrive.
package updater
