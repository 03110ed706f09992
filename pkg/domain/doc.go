/*
Package domain contains the core types shared by the runtime, the variants and the adapters.

It is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - LifecycleState: the monotonic session lifecycle (not initialized, initialized, terminated).
  - ErrorKey / Error / ErrorTable: variant-agnostic failure names, the runtime failure type and
    the per-variant mapping to numeric codes and messages.
  - Operation / Callback: what listeners subscribe to and how they are called.
  - Payload / Object / FlatMap / CommitRecord: rendered commits and their persisted form.
*/
package domain
