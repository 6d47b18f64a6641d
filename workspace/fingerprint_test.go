// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"testing"

	"github.com/expogrid/expogrid/wm"
)

func TestFingerprintSensitivity(t *testing.T) {
	t.Parallel()

	base := []wm.Leaf{
		{ID: 1, Rect: wm.Rect{X: 0, Y: 0, Width: 960, Height: 1080}, Focused: true},
		{ID: 2, Rect: wm.Rect{X: 960, Y: 0, Width: 960, Height: 1080}},
	}
	reference := FingerprintOf(base)

	mutations := map[string]func([]wm.Leaf) []wm.Leaf{
		"id": func(l []wm.Leaf) []wm.Leaf {
			l[0].ID = 42
			return l
		},
		"x": func(l []wm.Leaf) []wm.Leaf {
			l[0].Rect.X = 10
			return l
		},
		"y": func(l []wm.Leaf) []wm.Leaf {
			l[0].Rect.Y = 10
			return l
		},
		"width": func(l []wm.Leaf) []wm.Leaf {
			l[0].Rect.Width = 100
			return l
		},
		"height": func(l []wm.Leaf) []wm.Leaf {
			l[0].Rect.Height = 100
			return l
		},
		"focus": func(l []wm.Leaf) []wm.Leaf {
			l[0].Focused = false
			l[1].Focused = true
			return l
		},
		"order": func(l []wm.Leaf) []wm.Leaf {
			l[0], l[1] = l[1], l[0]
			return l
		},
		"length": func(l []wm.Leaf) []wm.Leaf {
			return l[:1]
		},
	}

	for name, mutate := range mutations {
		clone := make([]wm.Leaf, len(base))
		copy(clone, base)
		if got := FingerprintOf(mutate(clone)); got == reference {
			t.Errorf("mutation %q did not change the fingerprint", name)
		}
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	t.Parallel()
	leaves := []wm.Leaf{{ID: 7, Rect: wm.Rect{Width: 800, Height: 600}}}
	if FingerprintOf(leaves) != FingerprintOf(leaves) {
		t.Error("identical input produced different fingerprints")
	}
}

// An empty workspace still has a real fingerprint so the zero value
// unambiguously means "never computed".
func TestFingerprintEmptyIsNotZero(t *testing.T) {
	t.Parallel()
	if FingerprintOf(nil).IsZero() {
		t.Error("empty leaf list hashed to the zero fingerprint")
	}
	if !(Fingerprint{}).IsZero() {
		t.Error("zero value not reported as zero")
	}
}
