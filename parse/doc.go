// Package parse reads Gluon text into an instance tree.
//
// A document is a root properties section followed by boundary delimited
// object sections:
//
//	# gluon/1
//	Object-Class: "list"
//	Content-Boundary: "--=_gluon-object-boundary_=--"
//
//	--=_gluon-object-boundary_=--
//
//	"a"
//	--=_gluon-object-boundary_=--//
//
// Each properties section is a sequence of `name: group[, group]*` lines
// ended by a blank line, where a group is a `;` separated list holding an
// optional literal value and attributes (`name=value` or a bare `name`).
// Lines starting with `#` are comments.  The line after the root section
// is the boundary; the boundary followed by `//` ends the document.
//
// Parse never returns a partially built tree: on failure the error is an
// *Error wrapping ErrParse.
package parse
