// Package notify fans committed store mutations out to observers.
//
// A Notifier is installed as the store's change hook. Each Notify call
// produces one Change, delivered synchronously to every observer whose
// registration covers the changed address, and marks the data as changed for
// backup exactly once.
//
// Coverage follows content-observer rules:
//
//   - an observer on the changed address itself
//   - an observer on an ancestor address registered with descendants=true
//   - an observer on a descendant of the changed address
//
// Addresses are compared by decoded segments, so
// "content://phonelocation/3" and "/phonelocation/3" are the same address.
package notify
