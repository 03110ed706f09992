/*
Package cmi implements the in-memory data model tree.

A tree is built once per session from a variant's schema and is made of three node kinds:

  - Leaf: a scalar string value guarded by a validate.Rule, with an access mode and an
    initialized flag.
  - Composite: a fixed, ordered mapping from field name to child node. It may expose the
    "_children" keyword and computed read-only accessors such as "_version".
  - Collection: an append-only sequence of Composite children with contiguous indices.
    Children are created on demand through a ChildFactory.

The tree does not know about lifecycle or error codes: the runtime resolver walks it and
decides what a read or write means.
*/
package cmi
