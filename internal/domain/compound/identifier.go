// Package compound turns the metabolites of a model into compound cache
// entries: it groups compartmentalized copies of the same species, then
// resolves each group against the external knowledge base with a cascade of
// identifier strategies followed by a name search.
package compound

import (
	"strings"

	"github.com/turtacn/gem-thermo/internal/domain/model"
)

// SourceNameSearch tags attempts and results that used the name search.
const SourceNameSearch = "name_search"

// namespace pairs an annotation key with the prefix the knowledge base
// expects in query strings.
type namespace struct {
	annotation string
	prefix     string
}

// priority is the fixed resolution order.
var priority = []namespace{
	{annotation: model.NamespaceKEGGCompound, prefix: "kegg"},
	{annotation: model.NamespaceChEBI, prefix: "chebi"},
	{annotation: model.NamespaceMetaNetX, prefix: "metanetx.chemical"},
	{annotation: model.NamespaceBiGG, prefix: "bigg.metabolite"},
}

// Candidate is one identifier query string and the annotation namespace it
// came from.
type Candidate struct {
	Query  string
	Source string
}

// CandidatesFor lists the query strings for met in priority order.  Only the
// first value of each namespace is used.
func CandidatesFor(met *model.Metabolite) []Candidate {
	if met == nil || len(met.Annotation) == 0 {
		return nil
	}
	out := make([]Candidate, 0, len(priority))
	for _, ns := range priority {
		value := met.Annotation.First(ns.annotation)
		if value == "" {
			continue
		}
		if ns.annotation == model.NamespaceChEBI {
			value = NormalizeChEBI(value)
		}
		out = append(out, Candidate{Query: ns.prefix + ":" + value, Source: ns.annotation})
	}
	return out
}

// NormalizeChEBI returns value with a "CHEBI:" prefix.
func NormalizeChEBI(value string) string {
	if strings.HasPrefix(value, "CHEBI:") {
		return value
	}
	return "CHEBI:" + value
}

// NameKey is the grouping key for metabolites without any identifier.
func NameKey(name string) string {
	return "name:" + name
}

//Personal.AI order the ending
