// Package ir provides the instance tree for Gluon documents.
//
// # Overview
//
// Every Gluon document, whether parsed from text or built from a Go object
// graph, is held in memory as a Tree. A Tree is an arena of nodes addressed
// by NodeID; the root is always NodeID 0, so looking up the root from any
// node is a constant time operation.
//
// A node represents one of:
//
//   - an object (the root, or one boundary delimited section of a file)
//   - a property of an object
//   - an attribute of a property
//   - an anonymous element of a list
//
// Each node has a name (empty for anonymous elements), an optional value
// representation (the literal text of a primitive such as `42L` or
// `"hello"`), ordered named children and ordered anonymous children.
// Named children of an object are its properties; named children of a
// property are its attributes.
//
// # Complex Nodes and Embeddings
//
// A node with an Object-Class property is complex. When a complex node is
// nested inside a property it is transmogrified into an embedding with
// Embed: the node moves to the root's anonymous children, receives a
// reference id, and its old slot is filled by a placeholder carrying the
// `embedded` and `refid` attributes. Reference ids come from a counter
// owned by the Tree; they start at 1 and are never reused. Reference id 0
// names the root.
//
// # Resolution
//
// Each node can carry a backing object, the Go value it was deserialized
// into. ResolveObject returns that value, following placeholders through
// the root's reference namespace.
//
// # Thread Safety
//
// A Tree is owned by a single serialize or deserialize call and is not
// safe for concurrent use.
package ir
