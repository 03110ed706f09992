/*
Package ports defines the driven ports (interfaces) of the SCORM runtime.

These interfaces decouple the generic engine from the data model variants and from
the infrastructure that persists commits.

# Key Interfaces

  - Variant: the capability set of a data model (error table, schema, collection child
    factory, cross-field validator, termination finalizer).
  - Transport: sends a rendered commit to its destination.
  - CommitStore: persists the latest commit of each session.
  - DistributedLocker: coordinates session access across replicas.
*/
package ports
