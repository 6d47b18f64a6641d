// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package display implements the overview's pixel sink and input
// source on a plain X11 window. It speaks the core protocol directly
// (CreateWindow, PutImage, pointer and key events), which keeps the
// overview free of any toolkit dependency.
package display
