/*
Package ports defines the driven ports (interfaces) of the taxaquery core.

These interfaces decouple the expander from the taxonomy backend that actually knows
which taxa exist, allowing the same query to be answered from memory, Redis, an
embedded bolt file or a remote taxaquery service.

# Key Interfaces

  - TaxonomyClient: the three lookups the expander performs (children, parent, siblings).
  - TaxonomyWriter: registers taxa in a backend that can be seeded.
*/
package ports
