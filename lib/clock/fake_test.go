// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestFakeNowAdvances(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Fake(start)

	if got := c.Now(); !got.Equal(start) {
		t.Errorf("Now: got %v, want %v", got, start)
	}

	c.Advance(90 * time.Second)
	if got, want := c.Now(), start.Add(90*time.Second); !got.Equal(want) {
		t.Errorf("Now after Advance: got %v, want %v", got, want)
	}
}

func TestFakeAfterFiresAtDeadline(t *testing.T) {
	t.Parallel()
	c := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	ch := c.After(5 * time.Second)

	c.Advance(4 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired before its deadline")
	default:
	}

	c.Advance(1 * time.Second)
	select {
	case <-ch:
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeAfterFuncStop(t *testing.T) {
	t.Parallel()
	c := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var fired atomic.Int32
	timer := c.AfterFunc(10*time.Second, func() { fired.Add(1) })

	if !timer.Stop() {
		t.Error("Stop on a pending timer: got false, want true")
	}
	c.Advance(time.Minute)
	if fired.Load() != 0 {
		t.Errorf("stopped timer fired %d times", fired.Load())
	}
	if timer.Stop() {
		t.Error("second Stop: got true, want false")
	}
}

func TestFakeAfterFuncReset(t *testing.T) {
	t.Parallel()
	c := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var fired atomic.Int32
	timer := c.AfterFunc(10*time.Second, func() { fired.Add(1) })

	c.Advance(10 * time.Second)
	if fired.Load() != 1 {
		t.Fatalf("timer fired %d times, want 1", fired.Load())
	}

	// Reset after firing re-arms the timer.
	if timer.Reset(5 * time.Second) {
		t.Error("Reset on a fired timer: got true, want false")
	}
	c.Advance(5 * time.Second)
	if fired.Load() != 2 {
		t.Errorf("timer fired %d times after reset, want 2", fired.Load())
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	t.Parallel()
	c := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	registered := make(chan struct{})
	go func() {
		c.After(time.Second)
		close(registered)
	}()

	c.WaitForTimers(1)
	<-registered
	if got := c.PendingCount(); got != 1 {
		t.Errorf("PendingCount: got %d, want 1", got)
	}
}
