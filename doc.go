// Package gluon serializes object graphs to the gluon text format and
// resolves them back.
//
// A document is a properties section for the root object followed by one
// section per top level object, each opened by a boundary line:
//
//	head: embedded; refid=1
//	Content-Boundary: "--=_gluon-object-boundary_=--"
//
//	--=_gluon-object-boundary_=--
//	Object-Class: "example.Node"; id=1; embedded
//	name: "a"
//	next: embedded; refid=1
//
//	--=_gluon-object-boundary_=--//
//
// Values reach the tree through a [Serializer] from the [Registry], or
// serialize themselves by implementing [Serializable].  Registered
// classes without either are carried opaquely as base64 encoded CBOR.
//
// Objects nested in properties are embedded: moved to the top level and
// replaced by a reference.  Reading resolves references over as many
// passes as needed, so forward and circular references are supported;
// a graph that cannot make progress fails with [ErrUnresolvable].
package gluon
