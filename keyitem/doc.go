// Package keyitem decodes a single registry key node (an "nk" cell, its
// security descriptor, class name, and value list) and walks its sub-key
// index, tolerating the kinds of corruption a real-world hive accumulates.
//
// # Corruption model
//
// Two very different things can go wrong while decoding a key item:
//
//   - A structure is simply malformed: a bad signature, a length field that
//     overruns its cell, a child offset that resolves outside the hive. This
//     is fatal — decoding that structure cannot continue, and the caller
//     rolls back whatever it had partially built. It is reported as a
//     non-nil *Error.
//   - A structure decodes fine, but something about it is inconsistent with
//     the rest of the hive: a sub-key index entry that points at a cell that
//     isn't there, a values-list entry with a garbage VK offset. The item
//     itself is still usable — the bad entry is simply skipped. This is
//     advisory: the operation returns a nil error, and a monotonic CORRUPTED
//     flag on the KeyItem is set.
//
// ReadSubNodes (like subkeywalk.Walk and lazytree's Tree.Expand) also returns
// corrupted bool alongside err. ReadNodeData returns only an error: advisory
// corruption found while reading a node is reported solely through the
// CORRUPTED flag (Flags().Corrupted()).
package keyitem
