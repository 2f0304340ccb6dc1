// Package track holds reconstructed tracks and the per-trigger track event.
//
// A Track wraps an ordered hit set with an ID and an optional parent ID;
// parent 0 marks a root. Processes never modify a track in place: they
// append derived tracks whose parent is the source track, so an event
// accumulates a hierarchy whose deepest level is the "top level" used by
// downstream analysis.
package track
