// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now,
// time.After, or time.AfterFunc directly. In production, Real() provides
// the standard library behavior. In tests, Fake() provides a
// deterministic clock that advances only when Advance is called.
//
// The updater's debounce windows, capture-staleness checks, and the
// forced-refresh fallback timer all run on a Clock, which is what makes
// the timing-sensitive behavior in this repository testable without
// real sleeps.
//
// # FakeClock synchronization
//
// When a goroutine calls After or AfterFunc on a FakeClock, it
// registers a pending timer. Use WaitForTimers to block until a
// specific number of timers are registered before calling Advance.
// This eliminates the race between timer registration and time
// advancement.
package clock
