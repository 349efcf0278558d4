// Package event fans model notifications out to subscribers.
//
// A Hub implements editor.Listener. Each notification becomes an Event
// published on a dotted topic:
//
//	content.will_change    content.did_change
//	selection.will_change  selection.did_change
//	announce.<name>        (move, plonk, delete, insert, replacement, ...)
//
// Subscribers register for a topic pattern where "*" matches one segment
// and "**" matches any number, so "announce.*" receives every
// announcement and "**" receives everything. Delivery is synchronous and
// ordered by priority; a panicking handler is recovered, logged and
// reported without stopping delivery to the others.
package event
