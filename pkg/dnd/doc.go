// Package dnd implements headless drag-and-drop state for ordered
// collection views (lists, tables, boards): drop-target resolution and
// reconciliation, drop-operation policy, and drag-session lifecycle.
//
// The package renders nothing. Widgets (pkg/droplist, pkg/table, or host
// code) translate pointer and key events into calls on two state machines
// and render whatever those report:
//
//   - SourceState — the side a drag starts from. Start builds a Session
//     describing the gesture (dragged keys, payload type tags, allowed
//     operations, originating collection).
//   - CollectionState — the droppable side. SetTarget tracks where the
//     payload would land, deduplicating the two equivalent spellings of one
//     boundary ("after a" vs "before b") so continuous pointer tracking
//     doesn't fire spurious enter/exit notifications. DropOperationFor
//     resolves what the drop would do there, and CompleteDrop routes a
//     finished gesture to the host's handlers.
//
// # Quick start
//
//	tasks := collection.NewList(itemA, itemB, itemC)
//	sel := selection.NewManager(tasks, selection.ModeMultiple)
//
//	state := dnd.NewCollectionState(tasks, sel, dnd.CollectionOptions{
//	    AcceptedTypes: dnd.NewTypeSet("text/plain"),
//	    OnReorder: func(e dnd.ReorderEvent) {
//	        tasks.MoveBefore(e.Target.Key, e.Keys) // before/after per e.Target
//	    },
//	})
//
//	source := dnd.NewSourceState(tasks, sel, dnd.SourceOptions{
//	    Payload: func(keys []collection.Key) []dnd.PayloadItem { ... },
//	})
//
//	// On gesture start / move / release:
//	sess := source.Start(pressedKey)
//	state.SetTarget(dnd.ItemTarget("b", dnd.PositionBefore))
//	op := state.CompleteDrop(sess)
//	source.End(op, true)
//
// # Single-threaded model
//
// All state here is mutated by one event loop (a bubbletea Update, or any
// host dispatching events one at a time). Nothing locks, nothing suspends.
// OnDropEnter/OnDropExit handlers must not call back into SetTarget on the
// same state; behavior is undefined if they do.
package dnd
