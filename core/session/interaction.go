package session

import "map-editor/core/feature"

// Point is a screen position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ContextMenu is the target of an open context menu.
type ContextMenu struct {
	Feature  feature.Feature  `json:"feature"`
	Identity feature.Identity `json:"identity"`
	At       Point            `json:"at"`
}

// Interaction holds UI state that is only meaningful for the selection it
// was created against.
type Interaction struct {
	menu      *ContextMenu
	lastClick *Point
}

// OpenContextMenu records the context menu target.
func (i *Interaction) OpenContextMenu(m ContextMenu) {
	i.menu = &m
}

// CloseContextMenu drops the context menu target.
func (i *Interaction) CloseContextMenu() {
	i.menu = nil
}

// ContextMenu returns the open context menu target.
func (i *Interaction) ContextMenu() (ContextMenu, bool) {
	if i.menu == nil {
		return ContextMenu{}, false
	}
	return *i.menu, true
}

// RecordClick stores the last click position.
func (i *Interaction) RecordClick(p Point) {
	i.lastClick = &p
}

// LastClick returns the last click position.
func (i *Interaction) LastClick() (Point, bool) {
	if i.lastClick == nil {
		return Point{}, false
	}
	return *i.lastClick, true
}

// Invalidate clears all interaction state.
func (i *Interaction) Invalidate() {
	i.menu = nil
	i.lastClick = nil
}
