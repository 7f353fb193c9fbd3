// Package encode writes an instance tree as Gluon text.
//
// The root's properties come first, then one boundary delimited section per
// top level object.  Complex values found inside properties are embedded
// on the way: they are moved to the top level, given a reference id and
// queued, so every object is written exactly once however many places
// refer to it.  The queue is drained until no new embeddings appear.
//
// Encode writes nothing to its destination unless the whole document
// could be produced.
package encode
