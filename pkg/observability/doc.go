/*
Package observability provides Prometheus instrumentation for taxaquery.

Metrics plugs into the expander through domain.LookupHooks, so every taxonomy lookup is
counted by operation and outcome and timed, and it exposes a query counter for the
service adapters.
*/
package observability
