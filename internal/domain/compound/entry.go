package compound

import (
	"github.com/turtacn/gem-thermo/internal/domain/model"
)

// IdentifierSet records the best-known identifier per namespace together with
// the model metabolites that make up the compound.  Values are stored as they
// appear in the model annotations, without query prefixes.
type IdentifierSet struct {
	KEGG     *string  `json:"kegg"`
	ChEBI    *string  `json:"chebi"`
	MetaNetX *string  `json:"metanetx"`
	BiGG     *string  `json:"bigg"`
	YeastGEM []string `json:"yeast_gem"`
}

// NewIdentifierSet collects, per namespace, the first value found across the
// group's members in model order.
func NewIdentifierSet(g *Group) IdentifierSet {
	set := IdentifierSet{YeastGEM: g.MemberIDs()}
	for _, met := range g.Members {
		fill(&set.KEGG, met.Annotation.First(model.NamespaceKEGGCompound))
		fill(&set.ChEBI, met.Annotation.First(model.NamespaceChEBI))
		fill(&set.MetaNetX, met.Annotation.First(model.NamespaceMetaNetX))
		fill(&set.BiGG, met.Annotation.First(model.NamespaceBiGG))
	}
	return set
}

func fill(dst **string, v string) {
	if *dst == nil && v != "" {
		s := v
		*dst = &s
	}
}

// PreferredKey returns the first available of kegg, chebi, metanetx, bigg,
// falling back to the first member metabolite id.
func (s IdentifierSet) PreferredKey() string {
	for _, p := range []*string{s.KEGG, s.ChEBI, s.MetaNetX, s.BiGG} {
		if p != nil && *p != "" {
			return *p
		}
	}
	if len(s.YeastGEM) > 0 {
		return s.YeastGEM[0]
	}
	return ""
}

// Contains reports whether metID is a member.
func (s IdentifierSet) Contains(metID string) bool {
	for _, id := range s.YeastGEM {
		if id == metID {
			return true
		}
	}
	return false
}

// AttemptError is one failed resolution attempt.
type AttemptError struct {
	Source string `json:"source"`
	Query  string `json:"query"`
	Error  string `json:"error"`
	Found  bool   `json:"found"`
}

// Entry is the compound cache record for one group.  QueriedAs is nil exactly
// when every attempt failed; Errors lists failed attempts in the order they
// were made, including those preceding a success.
type Entry struct {
	Name            string         `json:"name"`
	QueriedAs       *string        `json:"queried_as"`
	QuerySource     *string        `json:"query_source"`
	MatchedInChIKey *string        `json:"matched_inchi_key"`
	Errors          []AttemptError `json:"errors"`
	Identifiers     IdentifierSet  `json:"identifiers"`
}

// Resolved reports whether some attempt succeeded.
func (e *Entry) Resolved() bool {
	return e != nil && e.QueriedAs != nil
}

// Query returns the successful query string or "".
func (e *Entry) Query() string {
	if e == nil || e.QueriedAs == nil {
		return ""
	}
	return *e.QueriedAs
}

// Source returns the successful source tag or "".
func (e *Entry) Source() string {
	if e == nil || e.QuerySource == nil {
		return ""
	}
	return *e.QuerySource
}

//Personal.AI order the ending
