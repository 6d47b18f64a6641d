// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package wm

import "context"

// Rect is a window or workspace rectangle in root-window coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Leaf is an actual on-screen window (as opposed to a layout
// container) inside a workspace.
type Leaf struct {
	// ID is the window manager's container ID for the window.
	ID int64

	// Rect is the window geometry in root-window coordinates.
	Rect Rect

	// Focused reports whether this window holds the input focus.
	Focused bool

	// Class is the window class, used for the updater's ignore list.
	Class string
}

// Workspace is one virtual workspace in a tree snapshot.
type Workspace struct {
	// Index is the workspace number. Always >= 1 in snapshots.
	Index int

	// Name is the full workspace name, including any "N:label" suffix.
	// Switch commands address workspaces by this name.
	Name string

	// Focused reports whether this is the currently visible workspace.
	Focused bool

	// Rect is the workspace area.
	Rect Rect

	// Leaves are the actual windows on the workspace, in tree order.
	Leaves []Leaf
}

// Snapshot is a point-in-time view of the window-manager tree.
type Snapshot struct {
	Workspaces []Workspace
}

// FocusedIndex returns the index of the focused workspace, or 0 when
// no workspace in the snapshot is focused.
func (s *Snapshot) FocusedIndex() int {
	for i := range s.Workspaces {
		if s.Workspaces[i].Focused {
			return s.Workspaces[i].Index
		}
	}
	return 0
}

// Lookup returns the workspace with the given index, or nil.
func (s *Snapshot) Lookup(index int) *Workspace {
	for i := range s.Workspaces {
		if s.Workspaces[i].Index == index {
			return &s.Workspaces[i]
		}
	}
	return nil
}

// EventKind discriminates normalized window-manager events.
type EventKind int

const (
	// WindowChanged covers the geometry-relevant window events: move,
	// floating toggle, fullscreen toggle, and focus change.
	WindowChanged EventKind = iota

	// WorkspaceInit reports a newly created workspace.
	WorkspaceInit

	// WorkspaceEmpty reports a workspace destroyed after its last
	// window closed.
	WorkspaceEmpty

	// WorkspaceRename reports a workspace name change.
	WorkspaceRename
)

// String returns the event kind name for logging.
func (k EventKind) String() string {
	switch k {
	case WindowChanged:
		return "window"
	case WorkspaceInit:
		return "workspace-init"
	case WorkspaceEmpty:
		return "workspace-empty"
	case WorkspaceRename:
		return "workspace-rename"
	default:
		return "unknown"
	}
}

// Event is a normalized window-manager change notification.
type Event struct {
	Kind EventKind

	// Change is the raw change string for window events ("move",
	// "floating", "fullscreen_mode", "focus").
	Change string

	// Class is the originating window's class for window events.
	Class string

	// Index and Name identify the workspace for workspace events.
	// Index is 0 when the workspace has no number.
	Index int
	Name  string
}

// Client is the window-manager collaborator consumed by the updater
// and the overview session.
type Client interface {
	// Snapshot queries the full workspace tree.
	Snapshot() (*Snapshot, error)

	// Subscribe delivers normalized events into the channel until ctx
	// ends or the event connection fails. It blocks for the lifetime
	// of the subscription.
	Subscribe(ctx context.Context, events chan<- Event) error

	// SwitchTo switches focus to the named workspace.
	SwitchTo(name string) error

	// Close releases the connection.
	Close() error
}
