// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package wm

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.i3wm.org/i3/v4"
)

// geometryChanges are the window event changes that can alter a
// workspace's visual state. Everything else (title, urgency, marks) is
// dropped at the adapter so the updater never sees it.
var geometryChanges = map[string]bool{
	"move":            true,
	"floating":        true,
	"fullscreen_mode": true,
	"focus":           true,
}

// I3 is the Client implementation backed by the i3 IPC socket.
type I3 struct {
	logger *slog.Logger
}

// NewI3 returns a Client that talks to the running i3 instance via
// the socket from $I3SOCK (or i3 --get-socketpath).
func NewI3(logger *slog.Logger) *I3 {
	return &I3{logger: logger}
}

// Snapshot implements Client. It joins GetWorkspaces (index, name,
// focus) with the GetTree leaf geometry. Workspaces without a positive
// number (the scratchpad, named-only workspaces) are skipped.
func (c *I3) Snapshot() (*Snapshot, error) {
	workspaces, err := i3.GetWorkspaces()
	if err != nil {
		return nil, fmt.Errorf("querying workspaces: %w", err)
	}
	tree, err := i3.GetTree()
	if err != nil {
		return nil, fmt.Errorf("querying tree: %w", err)
	}

	leavesByName := map[string][]Leaf{}
	collectWorkspaceLeaves(tree.Root, leavesByName)

	snapshot := &Snapshot{}
	for _, ws := range workspaces {
		if ws.Num < 1 {
			continue
		}
		snapshot.Workspaces = append(snapshot.Workspaces, Workspace{
			Index:   int(ws.Num),
			Name:    ws.Name,
			Focused: ws.Focused,
			Rect: Rect{
				X:      int(ws.Rect.X),
				Y:      int(ws.Rect.Y),
				Width:  int(ws.Rect.Width),
				Height: int(ws.Rect.Height),
			},
			Leaves: leavesByName[ws.Name],
		})
	}
	return snapshot, nil
}

// collectWorkspaceLeaves walks the tree and records the leaf windows
// of every workspace node, keyed by workspace name. Workspace names
// are unique in i3, which makes the name a safe join key against
// GetWorkspaces.
func collectWorkspaceLeaves(node *i3.Node, out map[string][]Leaf) {
	if node == nil {
		return
	}
	if node.Type == "workspace" {
		out[node.Name] = leavesOf(node)
		return
	}
	for _, child := range node.Nodes {
		collectWorkspaceLeaves(child, out)
	}
}

// leavesOf returns the actual windows below a workspace node, in tree
// order. Tiled children come before floating ones, matching i3's own
// ordering, so two snapshots of an unchanged workspace produce the
// same sequence.
func leavesOf(node *i3.Node) []Leaf {
	var leaves []Leaf
	var walk func(n *i3.Node)
	walk = func(n *i3.Node) {
		if len(n.Nodes) == 0 && len(n.FloatingNodes) == 0 && n.Window != 0 {
			leaves = append(leaves, Leaf{
				ID: int64(n.ID),
				Rect: Rect{
					X:      int(n.Rect.X),
					Y:      int(n.Rect.Y),
					Width:  int(n.Rect.Width),
					Height: int(n.Rect.Height),
				},
				Focused: n.Focused,
				Class:   n.WindowProperties.Class,
			})
			return
		}
		for _, child := range n.Nodes {
			walk(child)
		}
		for _, child := range n.FloatingNodes {
			walk(child)
		}
	}
	for _, child := range node.Nodes {
		walk(child)
	}
	for _, child := range node.FloatingNodes {
		walk(child)
	}
	return leaves
}

// Subscribe implements Client. It subscribes to window and workspace
// events and forwards the normalized form until ctx ends.
func (c *I3) Subscribe(ctx context.Context, events chan<- Event) error {
	receiver := i3.Subscribe(i3.WindowEventType, i3.WorkspaceEventType)

	// Closing the receiver unblocks Next when the context ends.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			receiver.Close()
		case <-stop:
		}
	}()

	for receiver.Next() {
		event, ok := normalize(receiver.Event())
		if !ok {
			continue
		}
		select {
		case events <- event:
		case <-ctx.Done():
			receiver.Close()
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := receiver.Close(); err != nil {
		return fmt.Errorf("event subscription ended: %w", err)
	}
	return fmt.Errorf("event subscription ended")
}

// normalize converts a raw i3 event into the package's Event form.
// Returns ok=false for event types and changes the updater does not
// care about.
func normalize(raw i3.Event) (Event, bool) {
	switch ev := raw.(type) {
	case *i3.WindowEvent:
		if !geometryChanges[ev.Change] {
			return Event{}, false
		}
		return Event{
			Kind:   WindowChanged,
			Change: ev.Change,
			Class:  ev.Container.WindowProperties.Class,
		}, true
	case *i3.WorkspaceEvent:
		kind := EventKind(-1)
		switch ev.Change {
		case "init":
			kind = WorkspaceInit
		case "empty":
			kind = WorkspaceEmpty
		case "rename":
			kind = WorkspaceRename
		default:
			return Event{}, false
		}
		return Event{
			Kind:  kind,
			Index: workspaceNumber(ev.Current.Name),
			Name:  ev.Current.Name,
		}, true
	default:
		return Event{}, false
	}
}

// workspaceNumber extracts the workspace number from an i3 workspace
// name. i3 numbers workspaces by the leading integer of the name
// ("3", "3:mail"); names without one yield 0.
func workspaceNumber(name string) int {
	digits := name
	if colon := strings.IndexByte(name, ':'); colon >= 0 {
		digits = name[:colon]
	}
	number, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil || number < 1 {
		return 0
	}
	return number
}

// SwitchTo implements Client. The name is quoted so workspace names
// containing spaces survive the command parser.
func (c *I3) SwitchTo(name string) error {
	command := fmt.Sprintf(`workspace "%s"`, strings.ReplaceAll(name, `"`, `\"`))
	if _, err := i3.RunCommand(command); err != nil {
		return fmt.Errorf("switching to workspace %s: %w", name, err)
	}
	c.logger.Debug("switched workspace", "name", name)
	return nil
}

// Close implements Client. The i3 package manages its socket per
// request, so there is nothing to release.
func (c *I3) Close() error { return nil }
