/*
Package taxaquery is a tiny query language for nested sets of biological taxa.

A query is a bracketed, comma separated list of taxon names. Any name may carry one
of three extensions that are resolved against a taxonomy backend: ":children" and
":siblings" splice the related taxa into the current list, ":parent" replaces the name
with its parent. Nested brackets produce nested groups in the result.

	(Nematoda:children, arthropoda, (Coleoptera:siblings, Diptera))

# Concept

Parsing and expansion are pure functions of their input; the only I/O happens through
the ports.TaxonomyClient the Engine is built with. This Hexagonal Architecture allows the
same query to be answered from memory, Redis, an embedded bolt file, or another
taxaquery service over HTTP.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/taxaquery"
		"github.com/aretw0/taxaquery/pkg/adapters/memory"
		"github.com/aretw0/taxaquery/pkg/taxonomy"
	)

	func main() {
		f, err := taxonomy.Load("tree_of_life.yaml")
		if err != nil {
			log.Fatal(err)
		}
		backend, err := memory.NewFromFile(f)
		if err != nil {
			log.Fatal(err)
		}

		eng, err := taxaquery.New(backend)
		if err != nil {
			log.Fatal(err)
		}

		// What is the sister taxon to Coleoptera?
		result, err := eng.Query(context.Background(), "(Coleoptera, Coleoptera:siblings)")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(result)
	}
*/
package taxaquery
