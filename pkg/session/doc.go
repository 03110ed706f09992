/*
Package session hosts many runtime sessions in one process.

The Manager creates sessions from a variant registry, serializes calls per session
with a reference-counted mutex (optionally backed by a distributed lock so replicas
sharing a commit store do not interleave) and dispatches variant API calls such as
LMSSetValue or SetValue by name.
*/
package session
