package cache

import (
	"sort"
	"strings"

	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// Stats summarizes a Snapshot.
type Stats struct {
	ReactionsCount int  `json:"reactions_count"`
	CompoundsCount int  `json:"compounds_count"`
	Loaded         bool `json:"loaded"`

	// Available is true when a reaction cache with entries is loaded.
	Available bool `json:"available"`

	LoadedAt *common.Timestamp `json:"loaded_at,omitempty"`
}

// Snapshot is an immutable view over both caches.  It is safe for
// concurrent readers; a rebuild produces a new Snapshot rather than
// mutating an existing one.
type Snapshot struct {
	compounds CompoundTable
	reactions ReactionTable
	loaded    bool
	loadedAt  common.Timestamp

	// byMetabolite maps member metabolite ids to compound keys.  The first
	// compound listing a metabolite wins.
	byMetabolite map[string]string
}

// NewSnapshot indexes the given tables.  A Snapshot built this way counts as
// loaded.
func NewSnapshot(compounds CompoundTable, reactions ReactionTable) *Snapshot {
	s := &Snapshot{
		compounds:    compounds,
		reactions:    reactions,
		loaded:       true,
		loadedAt:     common.Now(),
		byMetabolite: make(map[string]string),
	}
	compounds.Range(func(key string, e *compound.Entry) bool {
		if e == nil {
			return true
		}
		for _, id := range e.Identifiers.YeastGEM {
			if _, dup := s.byMetabolite[id]; !dup {
				s.byMetabolite[id] = key
			}
		}
		return true
	})
	return s
}

// Empty returns a Snapshot that was never loaded.
func Empty() *Snapshot {
	return &Snapshot{byMetabolite: map[string]string{}}
}

// GetReaction returns the entry of reaction id.
func (s *Snapshot) GetReaction(id string) (*thermo.Entry, bool) {
	return s.reactions.Get(id)
}

// GetCompound returns the entry under cache key.
func (s *Snapshot) GetCompound(key string) (*compound.Entry, bool) {
	return s.compounds.Get(key)
}

// GetCompoundByMetaboliteID returns the cache key and entry of the compound
// that lists metID among its members.
func (s *Snapshot) GetCompoundByMetaboliteID(metID string) (string, *compound.Entry, bool) {
	key, ok := s.byMetabolite[metID]
	if !ok {
		return "", nil, false
	}
	e, ok := s.compounds.Get(key)
	return key, e, ok
}

// ByMetaboliteID makes a Snapshot usable as a thermo.CompoundIndex.
func (s *Snapshot) ByMetaboliteID(metID string) (*compound.Entry, bool) {
	_, e, ok := s.GetCompoundByMetaboliteID(metID)
	return e, ok
}

// Require returns the reaction entry or a not-found error.
func (s *Snapshot) Require(id string) (*thermo.Entry, error) {
	if !s.loaded {
		return nil, errors.New(errors.ErrCodeCacheNotLoaded, "thermodynamic cache not loaded")
	}
	e, ok := s.reactions.Get(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeCacheEntryNotFound, "no thermo data for reaction").WithDetail(id)
	}
	return e, nil
}

// FindMetabolites returns the sorted member metabolite ids of every compound
// matching query by identifier or name.  KEGG and MetaNetX ids compare case
// insensitively, ChEBI ids with or without the "CHEBI:" prefix, BiGG ids and
// names case insensitively.
func (s *Snapshot) FindMetabolites(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	chebiQuery := stripChEBI(query)

	seen := make(map[string]struct{})
	s.compounds.Range(func(_ string, e *compound.Entry) bool {
		if e == nil {
			return true
		}
		if matches(e, query, chebiQuery) {
			for _, id := range e.Identifiers.YeastGEM {
				seen[id] = struct{}{}
			}
		}
		return true
	})

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func matches(e *compound.Entry, query, chebiQuery string) bool {
	ids := e.Identifiers
	switch {
	case ids.KEGG != nil && strings.EqualFold(*ids.KEGG, query):
		return true
	case ids.ChEBI != nil && stripChEBI(*ids.ChEBI) == chebiQuery:
		return true
	case ids.MetaNetX != nil && strings.EqualFold(*ids.MetaNetX, query):
		return true
	case ids.BiGG != nil && strings.EqualFold(*ids.BiGG, query):
		return true
	case e.Name != "" && strings.EqualFold(e.Name, query):
		return true
	}
	return false
}

func stripChEBI(v string) string {
	v = strings.TrimPrefix(v, "chebi:")
	return strings.TrimPrefix(v, "CHEBI:")
}

// Reactions returns the reaction table.
func (s *Snapshot) Reactions() ReactionTable { return s.reactions }

// Compounds returns the compound table.
func (s *Snapshot) Compounds() CompoundTable { return s.compounds }

// Stats reports table sizes and load state.
func (s *Snapshot) Stats() Stats {
	st := Stats{
		ReactionsCount: s.reactions.Len(),
		CompoundsCount: s.compounds.Len(),
		Loaded:         s.loaded,
	}
	st.Available = st.Loaded && st.ReactionsCount > 0
	if s.loaded {
		ts := s.loadedAt
		st.LoadedAt = &ts
	}
	return st
}

// LoadSnapshot reads both documents.  A missing file yields an empty table;
// a file that exists but cannot be decoded is an error.
func LoadSnapshot(compoundsPath, reactionsPath string) (*Snapshot, error) {
	compounds, _, err := ReadCompoundsFile(compoundsPath)
	if err != nil {
		return nil, err
	}
	reactions, _, err := ReadReactionsFile(reactionsPath)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(compounds, reactions), nil
}

//Personal.AI order the ending
