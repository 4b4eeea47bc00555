package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/hh-matcher/internal/document"
	"github.com/spigell/hh-matcher/internal/filtering"
	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/session"
	"github.com/spigell/hh-matcher/internal/skills"
)

type fakeSource struct {
	items []*headhunter.Vacancy
	err   error

	calls  int
	terms  [][]string
	limits []int
}

func (f *fakeSource) SearchVacancies(_ context.Context, terms []string, limit int) (*headhunter.Vacancies, error) {
	f.calls++
	f.terms = append(f.terms, terms)
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}

	// Filters modify the list in place, so every call gets a fresh copy.
	items := make([]*headhunter.Vacancy, 0, len(f.items))
	for _, item := range f.items {
		copied := *item
		items = append(items, &copied)
	}
	return &headhunter.Vacancies{Items: items}, nil
}

type fakeConverter struct {
	text string
	err  error
}

func (f fakeConverter) ToPlainText([]byte) (string, error) {
	return f.text, f.err
}

func vacancy(id, name, requirement string) *headhunter.Vacancy {
	v := &headhunter.Vacancy{ID: id, Name: name, AlternateURL: "https://hh.ru/vacancy/" + id}
	v.Snipet.Requirement = requirement
	return v
}

type countingStore struct {
	*session.MemoryStore
	resets []string
}

func (c *countingStore) Reset(id string) {
	c.resets = append(c.resets, id)
	c.MemoryStore.Reset(id)
}

func newTestService(t *testing.T, cfg Config, source *fakeSource, converter fakeConverter) (*Service, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	svc := New(cfg, Deps{
		Extractor: skills.NewExtractor(skills.DefaultCatalog()),
		Converter: converter,
		Source:    source,
		Store:     session.NewMemoryStore(),
		Filters:   filtering.Default(),
		Logger:    logger,
	})
	return svc, logs
}

func TestResumeToRankedVacancies(t *testing.T) {
	source := &fakeSource{items: []*headhunter.Vacancy{
		vacancy("1", "Java Developer", "Spring"),
		vacancy("2", "Python Developer", "Docker, Kubernetes"),
	}}
	svc, logs := newTestService(t, Config{}, source, fakeConverter{text: "Python and Docker"})

	extracted, err := svc.ProcessDocument("alice", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, extracted.Terms(skills.ProgrammingLanguages))

	terms, err := svc.Skills("alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"python", "docker"}, terms)

	page, err := svc.Search(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "2", page.Items[0].Vacancy.ID)
	assert.Equal(t, 2, page.Items[0].Count)
	assert.Equal(t, "1", page.Items[1].Vacancy.ID)
	assert.Equal(t, 0, page.Items[1].Count)
	assert.False(t, page.HasMore)

	require.Equal(t, 1, source.calls)
	assert.Equal(t, []string{"python", "docker"}, source.terms[0])
	assert.Equal(t, 50, source.limits[0])

	ranked := logs.FilterMessage("vacancies ranked").All()
	require.Len(t, ranked, 1)
	assert.Equal(t, "alice", ranked[0].ContextMap()["session_id"])
}

func TestPagesComeFromCachedBatch(t *testing.T) {
	items := make([]*headhunter.Vacancy, 0, 7)
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		items = append(items, vacancy(id, "Go developer", ""))
	}
	source := &fakeSource{items: items}
	svc, _ := newTestService(t, Config{PageSize: 3}, source, fakeConverter{})

	_, err := svc.AddSkill("alice", "go")
	require.NoError(t, err)

	first, err := svc.Page(context.Background(), "alice", 0)
	require.NoError(t, err)
	assert.Len(t, first.Items, 3)
	assert.True(t, first.HasMore)

	again, err := svc.Page(context.Background(), "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	last, err := svc.Page(context.Background(), "alice", 2)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "7", last.Items[0].Vacancy.ID)
	assert.False(t, last.HasMore)

	past, err := svc.Page(context.Background(), "alice", 5)
	require.NoError(t, err)
	assert.Empty(t, past.Items)

	far, err := svc.Page(context.Background(), "alice", math.MaxInt/3+1)
	require.NoError(t, err)
	assert.Empty(t, far.Items)
	assert.False(t, far.HasMore)

	assert.Equal(t, 1, source.calls)
}

func TestPageWithoutSearch(t *testing.T) {
	source := &fakeSource{}
	svc, _ := newTestService(t, Config{}, source, fakeConverter{})

	_, err := svc.AddSkill("alice", "go")
	require.NoError(t, err)

	page, err := svc.Page(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, source.calls)
}

func TestAddSkill(t *testing.T) {
	svc, _ := newTestService(t, Config{}, &fakeSource{}, fakeConverter{})

	added, err := svc.AddSkill("alice", "/start")
	assert.ErrorIs(t, err, skills.ErrInvalidSkillTerm)
	assert.False(t, added)

	added, err = svc.AddSkill("alice", "   ")
	assert.ErrorIs(t, err, skills.ErrInvalidSkillTerm)
	assert.False(t, added)

	added, err = svc.AddSkill("alice", " Kotlin ")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddSkill("alice", "kotlin")
	require.NoError(t, err)
	assert.False(t, added)

	terms, err := svc.Skills("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"kotlin"}, terms)
}

func TestRemoveSkill(t *testing.T) {
	svc, _ := newTestService(t, Config{}, &fakeSource{}, fakeConverter{})

	removed, err := svc.RemoveSkill("alice", "go")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = svc.AddSkill("alice", "go")
	require.NoError(t, err)

	removed, err = svc.RemoveSkill("alice", "go")
	require.NoError(t, err)
	assert.True(t, removed)

	terms, err := svc.Skills("alice")
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestConverterFailure(t *testing.T) {
	boom := errors.New("converter is down")
	svc, _ := newTestService(t, Config{}, &fakeSource{}, fakeConverter{err: boom})

	_, err := svc.AddSkill("alice", "go")
	require.NoError(t, err)

	extracted, err := svc.ProcessDocument("alice", []byte("data"))
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, extracted)
	assert.True(t, extracted.IsEmpty())

	terms, err := svc.Skills("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, terms)
}

func TestUnsupportedDocument(t *testing.T) {
	svc, _ := newTestService(t, Config{}, &fakeSource{}, fakeConverter{
		err: fmt.Errorf("%w: image/png", document.ErrUnsupportedType),
	})

	extracted, err := svc.ProcessDocument("alice", []byte("\x89PNG"))
	assert.ErrorIs(t, err, document.ErrUnsupportedType)
	assert.NotErrorIs(t, err, ErrUpstreamUnavailable)
	assert.True(t, extracted.IsEmpty())
}

func TestSourceFailure(t *testing.T) {
	boom := errors.New("hh.ru is down")
	source := &fakeSource{err: boom}
	svc, _ := newTestService(t, Config{}, source, fakeConverter{})

	_, err := svc.AddSkill("alice", "go")
	require.NoError(t, err)

	page, err := svc.Search(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, page.Items)

	source.err = nil
	source.items = []*headhunter.Vacancy{vacancy("1", "Go developer", "")}

	page, err = svc.Search(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestSearchWithoutSkills(t *testing.T) {
	source := &fakeSource{}
	svc, _ := newTestService(t, Config{}, source, fakeConverter{})

	page, err := svc.Search(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.Zero(t, source.calls)
}

func TestSearchAppliesFilters(t *testing.T) {
	archived := vacancy("2", "Go developer", "")
	archived.Archived = true
	source := &fakeSource{items: []*headhunter.Vacancy{
		vacancy("1", "Go developer", ""),
		archived,
		vacancy("3", "Go developer", ""),
	}}
	source.items[2].Employer.ID = "acme"

	svc, _ := newTestService(t, Config{Filters: &filtering.Config{Employers: []string{"acme"}}}, source, fakeConverter{})

	_, err := svc.AddSkill("alice", "go")
	require.NoError(t, err)

	page, err := svc.Search(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "1", page.Items[0].Vacancy.ID)
}

func TestProcessTextResetsBatch(t *testing.T) {
	source := &fakeSource{items: []*headhunter.Vacancy{vacancy("1", "Go developer", "")}}
	svc, _ := newTestService(t, Config{}, source, fakeConverter{})

	_, err := svc.AddSkill("alice", "go")
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.ProcessText("alice", "Rust")
	require.NoError(t, err)

	terms, err := svc.Skills("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"rust"}, terms)

	page, err := svc.Page(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.Equal(t, 1, source.calls)
}

func TestProcessTextStartsFromFreshSession(t *testing.T) {
	store := &countingStore{MemoryStore: session.NewMemoryStore()}
	svc := New(Config{}, Deps{
		Extractor: skills.NewExtractor(skills.DefaultCatalog()),
		Converter: fakeConverter{},
		Source:    &fakeSource{},
		Store:     store,
	})

	_, err := svc.AddSkill("alice", "kotlin")
	require.NoError(t, err)

	extracted, err := svc.ProcessText("alice", "Python")
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, extracted.Terms(skills.ProgrammingLanguages))

	assert.Equal(t, []string{"alice"}, store.resets)

	terms, err := svc.Skills("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, terms)
}
