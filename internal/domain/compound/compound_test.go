package compound

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/gem-thermo/internal/domain/model"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) FindByIdentifier(ctx context.Context, query string) (*Match, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		return v.(*Match), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLookup) SearchByName(ctx context.Context, name string) (*Match, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(*Match), args.Error(1)
	}
	return nil, args.Error(1)
}

func notFound(q string) error {
	return errors.New(errors.ErrCodeCompoundNotFound, q)
}

func met(id, name, comp string, ann model.Annotation) *model.Metabolite {
	return &model.Metabolite{ID: id, Name: name, Compartment: comp, Annotation: ann}
}

// ─────────────────────────────────────────────────────────────────────────────
// Candidates and grouping
// ─────────────────────────────────────────────────────────────────────────────

func TestCandidatesFor_PriorityOrder(t *testing.T) {
	t.Parallel()

	m := met("s_1", "ATP", "c", model.Annotation{
		model.NamespaceBiGG:         {"atp"},
		model.NamespaceMetaNetX:     {"MNXM3"},
		model.NamespaceChEBI:        {"30616"},
		model.NamespaceKEGGCompound: {"C00002", "C99999"},
	})

	assert.Equal(t, []Candidate{
		{Query: "kegg:C00002", Source: "kegg.compound"},
		{Query: "chebi:CHEBI:30616", Source: "chebi"},
		{Query: "metanetx.chemical:MNXM3", Source: "metanetx.chemical"},
		{Query: "bigg.metabolite:atp", Source: "bigg.metabolite"},
	}, CandidatesFor(m))

	assert.Nil(t, CandidatesFor(met("s_2", "x", "c", nil)))
}

func TestNormalizeChEBI(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "CHEBI:15379", NormalizeChEBI("15379"))
	assert.Equal(t, "CHEBI:15379", NormalizeChEBI("CHEBI:15379"))
}

func TestGroupMetabolites_MergesCompartmentCopies(t *testing.T) {
	t.Parallel()

	mets := []*model.Metabolite{
		met("s_0803", "H2O", "c", model.Annotation{model.NamespaceKEGGCompound: {"C00001"}, model.NamespaceChEBI: {"15377"}}),
		met("s_0805", "H2O", "m", model.Annotation{model.NamespaceKEGGCompound: {"C00001"}, model.NamespaceBiGG: {"h2o"}}),
		met("s_1275", "oxygen", "c", model.Annotation{model.NamespaceChEBI: {"15379"}}),
		met("s_9001", "mystery", "c", nil),
		met("s_9002", "mystery", "m", nil),
	}

	groups := GroupMetabolites(mets)
	require.Len(t, groups, 3)

	water := groups[0]
	assert.Equal(t, "kegg:C00001", water.Key)
	assert.Equal(t, []string{"s_0803", "s_0805"}, water.MemberIDs())
	assert.Equal(t, []Candidate{
		{Query: "kegg:C00001", Source: "kegg.compound"},
		{Query: "chebi:CHEBI:15377", Source: "chebi"},
		{Query: "bigg.metabolite:h2o", Source: "bigg.metabolite"},
	}, water.Candidates)

	assert.Equal(t, "chebi:CHEBI:15379", groups[1].Key)

	mystery := groups[2]
	assert.Equal(t, "name:mystery", mystery.Key)
	assert.True(t, mystery.NameKeyed())
	assert.Equal(t, []string{"s_9001", "s_9002"}, mystery.MemberIDs())
}

func TestGroupMetabolites_Partition(t *testing.T) {
	t.Parallel()

	var mets []*model.Metabolite
	for i := 0; i < 60; i++ {
		ann := model.Annotation{}
		switch i % 4 {
		case 0:
			ann[model.NamespaceKEGGCompound] = []string{fmt.Sprintf("C%05d", i%7)}
		case 1:
			ann[model.NamespaceChEBI] = []string{fmt.Sprintf("%d", i%5)}
		case 2:
			ann[model.NamespaceBiGG] = []string{fmt.Sprintf("b%d", i%3)}
		}
		mets = append(mets, met(fmt.Sprintf("s_%03d", i), fmt.Sprintf("n%d", i%6), "c", ann))
	}

	groups := GroupMetabolites(mets)
	seen := make(map[string]string)
	for _, g := range groups {
		for _, id := range g.MemberIDs() {
			prev, dup := seen[id]
			assert.False(t, dup, "metabolite %s in groups %s and %s", id, prev, g.Key)
			seen[id] = g.Key
		}
	}
	assert.Len(t, seen, len(mets))
}

func TestIdentifierSet(t *testing.T) {
	t.Parallel()

	g := &Group{Members: []*model.Metabolite{
		met("a", "x", "c", model.Annotation{model.NamespaceBiGG: {"x"}}),
		met("b", "x", "m", model.Annotation{model.NamespaceChEBI: {"123"}, model.NamespaceBiGG: {"y"}}),
	}}
	set := NewIdentifierSet(g)
	require.NotNil(t, set.ChEBI)
	assert.Equal(t, "123", *set.ChEBI)
	assert.Equal(t, "x", *set.BiGG)
	assert.Nil(t, set.KEGG)
	assert.Equal(t, "123", set.PreferredKey())
	assert.True(t, set.Contains("b"))
	assert.False(t, set.Contains("z"))

	bare := NewIdentifierSet(&Group{Members: []*model.Metabolite{met("only", "", "c", nil)}})
	assert.Equal(t, "only", bare.PreferredKey())
}

// ─────────────────────────────────────────────────────────────────────────────
// Resolver
// ─────────────────────────────────────────────────────────────────────────────

func TestResolver_StopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	g := GroupMetabolites([]*model.Metabolite{
		met("s_1", "ATP", "c", model.Annotation{
			model.NamespaceKEGGCompound: {"C00002"},
			model.NamespaceChEBI:        {"30616"},
			model.NamespaceBiGG:         {"atp"},
		}),
	})[0]

	lookup := &mockLookup{}
	lookup.On("FindByIdentifier", mock.Anything, "kegg:C00002").Return(nil, notFound("kegg")).Once()
	lookup.On("FindByIdentifier", mock.Anything, "chebi:CHEBI:30616").Return(&Match{InChIKey: "ZKHQWZAMYRWXGA-KQYNXXCUSA-J"}, nil).Once()

	entry := NewResolver(lookup, nil).Resolve(context.Background(), g)

	lookup.AssertExpectations(t)
	lookup.AssertNotCalled(t, "FindByIdentifier", mock.Anything, "bigg.metabolite:atp")
	lookup.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything)

	require.True(t, entry.Resolved())
	assert.Equal(t, "chebi:CHEBI:30616", entry.Query())
	assert.Equal(t, "chebi", entry.Source())
	assert.Equal(t, "ZKHQWZAMYRWXGA-KQYNXXCUSA-J", *entry.MatchedInChIKey)
	assert.Equal(t, []AttemptError{{Source: "kegg.compound", Query: "kegg:C00002", Error: "compound not found: kegg:C00002"}}, entry.Errors)
}

func TestResolver_ChEBIOnlyOxygen(t *testing.T) {
	t.Parallel()

	g := GroupMetabolites([]*model.Metabolite{
		met("s_1275", "oxygen", "c", model.Annotation{model.NamespaceChEBI: {"15379"}}),
	})[0]

	lookup := &mockLookup{}
	lookup.On("FindByIdentifier", mock.Anything, "chebi:CHEBI:15379").Return(&Match{InChIKey: "MYMOFIZGZYHOMD-UHFFFAOYSA-N"}, nil)

	entry := NewResolver(lookup, nil).Resolve(context.Background(), g)
	assert.Equal(t, "chebi", entry.Source())
	assert.Equal(t, "chebi:CHEBI:15379", entry.Query())
	assert.Empty(t, entry.Errors)
	assert.Equal(t, "15379", *entry.Identifiers.ChEBI)
}

func TestResolver_FallsBackToNameSearch(t *testing.T) {
	t.Parallel()

	g := GroupMetabolites([]*model.Metabolite{
		met("s_1", "ergosterol", "c", model.Annotation{model.NamespaceKEGGCompound: {"C01694"}}),
		met("s_2", "ergosterol", "er", model.Annotation{model.NamespaceKEGGCompound: {"C01694"}, model.NamespaceMetaNetX: {"MNXM1"}}),
	})[0]

	lookup := &mockLookup{}
	lookup.On("FindByIdentifier", mock.Anything, "kegg:C01694").Return(nil, fmt.Errorf("service exploded")).Once()
	lookup.On("FindByIdentifier", mock.Anything, "metanetx.chemical:MNXM1").Return(nil, notFound("mnx")).Once()
	lookup.On("SearchByName", mock.Anything, "ergosterol").Return(&Match{InChIKey: "DNVPQKQSNYMLRS-APGDWVJJSA-N"}, nil).Once()

	entry := NewResolver(lookup, nil).Resolve(context.Background(), g)

	lookup.AssertExpectations(t)
	assert.Equal(t, "ergosterol", entry.Query())
	assert.Equal(t, SourceNameSearch, entry.Source())
	require.Len(t, entry.Errors, 2)
	assert.Equal(t, "service exploded", entry.Errors[0].Error)
	assert.Equal(t, "metanetx.chemical", entry.Errors[1].Source)
}

func TestResolver_TerminalFailureRecordsEveryAttempt(t *testing.T) {
	t.Parallel()

	g := GroupMetabolites([]*model.Metabolite{
		met("s_1", "unknown lipid", "c", model.Annotation{model.NamespaceBiGG: {"ulip"}}),
	})[0]

	var calls int
	lookup := &mockLookup{}
	lookup.On("FindByIdentifier", mock.Anything, mock.Anything).Run(func(mock.Arguments) { calls++ }).Return(nil, notFound("x"))
	lookup.On("SearchByName", mock.Anything, mock.Anything).Run(func(mock.Arguments) { calls++ }).Return(nil, notFound("x"))

	var observed []string
	r := NewResolver(lookup, nil, WithAttemptObserver(func(source string, found bool, _ time.Duration) {
		observed = append(observed, fmt.Sprintf("%s:%v", source, found))
	}))
	entry := r.Resolve(context.Background(), g)

	assert.False(t, entry.Resolved())
	assert.Nil(t, entry.QuerySource)
	assert.Nil(t, entry.MatchedInChIKey)
	assert.LessOrEqual(t, calls, len(g.Candidates)+1)
	assert.Equal(t, []AttemptError{
		{Source: "bigg.metabolite", Query: "bigg.metabolite:ulip", Error: "compound not found: bigg.metabolite:ulip"},
		{Source: "name_search", Query: "unknown lipid", Error: "no match for name: unknown lipid"},
	}, entry.Errors)
	assert.Equal(t, []string{"bigg.metabolite:false", "name_search:false"}, observed)
}

func TestResolver_EmptyNameSkipsServiceCall(t *testing.T) {
	t.Parallel()

	g := GroupMetabolites([]*model.Metabolite{met("s_1", "", "c", nil)})[0]
	lookup := &mockLookup{}

	entry := NewResolver(lookup, nil).Resolve(context.Background(), g)
	lookup.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything)
	require.Len(t, entry.Errors, 1)
	assert.Equal(t, "metabolite has no name to search", entry.Errors[0].Error)
}

//Personal.AI order the ending
