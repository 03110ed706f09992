/*
Package observability provides Prometheus metrics for runtime sessions.

Metrics are fed by the listener bus: Attach registers listeners on a session that
count API operations, commit outcomes and the number of running sessions.
*/
package observability
