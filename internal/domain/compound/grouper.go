package compound

import (
	"github.com/turtacn/gem-thermo/internal/domain/model"
)

// Group is a set of metabolites judged to be the same chemical species.
type Group struct {
	// Key is the highest-priority query string of the first member, or a
	// name key when no member carries an identifier.
	Key string

	// Members are in model order.
	Members []*model.Metabolite

	// Candidates are the members' query strings in priority order with
	// duplicates removed.
	Candidates []Candidate
}

// Name is the name of the first member.
func (g *Group) Name() string {
	for _, m := range g.Members {
		if m.Name != "" {
			return m.Name
		}
	}
	return ""
}

// MemberIDs lists the member metabolite ids in model order.
func (g *Group) MemberIDs() []string {
	out := make([]string, len(g.Members))
	for i, m := range g.Members {
		out[i] = m.ID
	}
	return out
}

// NameKeyed reports whether the group was formed by the name fallback.
func (g *Group) NameKeyed() bool {
	return len(g.Candidates) == 0
}

// GroupMetabolites partitions mets by grouping key.  Groups come back in the
// order their keys were first seen.  Metabolites without identifiers that
// share a display name end up in the same group.
func GroupMetabolites(mets []*model.Metabolite) []*Group {
	index := make(map[string]*Group)
	var groups []*Group

	for _, met := range mets {
		cands := CandidatesFor(met)
		key := NameKey(met.Name)
		if len(cands) > 0 {
			key = cands[0].Query
		}

		g, ok := index[key]
		if !ok {
			g = &Group{Key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.Members = append(g.Members, met)
	}

	for _, g := range groups {
		seen := make(map[string]struct{})
		for _, met := range g.Members {
			for _, c := range CandidatesFor(met) {
				if _, dup := seen[c.Query]; dup {
					continue
				}
				seen[c.Query] = struct{}{}
				g.Candidates = append(g.Candidates, c)
			}
		}
	}
	return groups
}

//Personal.AI order the ending
