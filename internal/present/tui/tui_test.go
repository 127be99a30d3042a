package tui

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/scholia/pkg/api"
)

type fakeAPI struct {
	mu       sync.Mutex
	articles []api.ArticleSummary
	details  map[int]api.ArticleDetail
	block    bool
	created  []api.Draft
	err      error
}

func (f *fakeAPI) ListArticles(ctx context.Context) ([]api.ArticleSummary, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.articles, f.err
}

func (f *fakeAPI) GetArticle(ctx context.Context, id int) (api.ArticleDetail, error) {
	if f.block {
		<-ctx.Done()
		return api.ArticleDetail{}, ctx.Err()
	}
	return f.details[id], f.err
}

func (f *fakeAPI) CreateArticle(ctx context.Context, d api.Draft) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d)
	return json.RawMessage(`{"id":1}`), f.err
}

func testEnv(a ArticleAPI) *env {
	m := newModel(context.Background(), Options{API: a})
	return m.env
}

// firstCmdMsg runs the request half of a batched command.
func firstCmdMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		require.NotEmpty(t, batch)
		return batch[0]()
	}
	return msg
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func keyAlt(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestParseRouteRoundTrip(t *testing.T) {
	cases := map[string]Route{
		"/":          {Kind: ListingRoute},
		"/article/7": {Kind: DetailRoute, ID: 7},
		"/auth":      {Kind: AuthRoute},
		"/upload":    {Kind: UploadRoute},
	}
	for path, want := range cases {
		got, err := ParseRoute(path)
		require.NoError(t, err, path)
		require.Equal(t, want, got)
		require.Equal(t, path, got.Path())
	}
	got, err := ParseRoute("/upload/")
	require.NoError(t, err)
	require.Equal(t, UploadRoute, got.Kind)
}

func TestParseRouteRejectsUnknown(t *testing.T) {
	for _, p := range []string{"/articles", "/article/", "/article/x", "/article/-1", "/settings"} {
		_, err := ParseRoute(p)
		require.ErrorIs(t, err, ErrUnknownRoute, p)
	}
}

func TestListingFiltersAndSorts(t *testing.T) {
	fake := &fakeAPI{articles: []api.ArticleSummary{
		{ID: 1, Title: "Quantum A", Likes: 5},
		{ID: 2, Title: "Biology", Abstract: "quantum effects", Likes: 9},
		{ID: 3, Title: "Unrelated", Likes: 50},
	}}
	s := newListingScreen(testEnv(fake))
	msg := firstCmdMsg(t, s.Init())
	require.Nil(t, s.Update(msg))
	require.Len(t, s.shown, 3)
	require.Empty(t, s.env.tags)

	s.Update(keyRunes("/"))
	require.True(t, s.capturesKeys())
	for _, r := range "QUANTUM" {
		s.Update(keyRunes(string(r)))
	}
	require.Len(t, s.shown, 2)
	require.Equal(t, 2, s.shown[0].ID)
	require.Equal(t, 1, s.shown[1].ID)
	require.Len(t, s.all, 3, "collection must not be narrowed by filtering")
}

func TestListingStartsWithQuery(t *testing.T) {
	fake := &fakeAPI{articles: []api.ArticleSummary{
		{ID: 1, Title: "Quantum A", Likes: 5},
		{ID: 2, Title: "Biology", Likes: 9},
	}}
	m := newModel(context.Background(), Options{API: fake, Query: "quantum"})
	s := m.current.(*listingScreen)
	require.Equal(t, "quantum", s.search.Value())
	require.Nil(t, s.Update(firstCmdMsg(t, s.Init())))
	require.Len(t, s.shown, 1)
	require.Equal(t, 1, s.shown[0].ID)

	// returning to the listing later starts unfiltered
	require.Empty(t, newListingScreen(m.env).search.Value())
}

func TestListingFailureLeavesEmpty(t *testing.T) {
	fake := &fakeAPI{err: errors.New("boom")}
	s := newListingScreen(testEnv(fake))
	s.Update(firstCmdMsg(t, s.Init()))
	require.False(t, s.loading)
	require.Empty(t, s.shown)
	require.Empty(t, s.all)
}

func TestDetailDropsStaleResponse(t *testing.T) {
	fake := &fakeAPI{details: map[int]api.ArticleDetail{
		1: {ID: 1, Title: "one"},
		2: {ID: 2, Title: "two"},
	}}
	s := newDetailScreen(testEnv(fake), 1)
	stale := firstCmdMsg(t, s.Init())
	fresh := firstCmdMsg(t, s.setID(2))

	s.Update(stale)
	require.Nil(t, s.article, "response for the old id must be dropped")

	s.Update(fresh)
	require.NotNil(t, s.article)
	require.Equal(t, "two", s.article.Title)
}

func TestDetailFailureKeepsLoading(t *testing.T) {
	fake := &fakeAPI{err: errors.New("down")}
	s := newDetailScreen(testEnv(fake), 4)
	s.Update(firstCmdMsg(t, s.Init()))
	require.True(t, s.loading())
	require.Contains(t, s.View(), "Loading article 4")
}

func TestLeavingScreenCancelsRequest(t *testing.T) {
	fake := &fakeAPI{block: true}
	m := newModel(context.Background(), Options{API: fake})
	batch := m.Init()().(tea.BatchMsg)

	result := make(chan tea.Msg, 1)
	go func() { result <- batch[0]() }()

	next, _ := m.Update(navigateMsg{route: Route{Kind: UploadRoute}})
	_, ok := next.(model).current.(*uploadScreen)
	require.True(t, ok)

	select {
	case msg := <-result:
		lr := msg.(listResultMsg)
		require.ErrorIs(t, lr.err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("request was not cancelled")
	}
}

func TestNavigateDetailToDetailRefetches(t *testing.T) {
	fake := &fakeAPI{details: map[int]api.ArticleDetail{3: {ID: 3, Title: "three"}}}
	m := newModel(context.Background(), Options{API: fake, Start: Route{Kind: DetailRoute, ID: 1}})
	d := m.current.(*detailScreen)
	_ = m.Init()

	next, cmd := m.Update(navigateMsg{route: Route{Kind: DetailRoute, ID: 3}})
	require.Same(t, d, next.(model).current)
	d.Update(firstCmdMsg(t, cmd))
	require.Equal(t, "three", d.article.Title)
}

func TestBodyStylesSelection(t *testing.T) {
	b := newBodyField()
	b.focused = true
	for _, r := range "hello" {
		b.Update(keyRunes(string(r)))
	}
	for i := 0; i < 5; i++ {
		b.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	}
	b.Update(keyAlt('i'))
	b.Update(keyAlt('b'))
	require.Equal(t, "***hello***", b.Value())
	require.Equal(t, bodyPromptLink, b.Update(keyAlt('l')))
	require.Equal(t, bodyPromptImage, b.Update(keyAlt('g')))
}

func TestUploadTagEditing(t *testing.T) {
	s := newUploadScreen(testEnv(&fakeAPI{}))
	s.setFocus(fieldTags)
	for _, tag := range []string{" ml ", "  ", "bio"} {
		for _, r := range tag {
			s.Update(keyRunes(string(r)))
		}
		s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	require.Equal(t, []string{"ml", "bio"}, s.tags.Items())
	require.Equal(t, "", s.inputs[fieldTags].Value())

	s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, 0, s.tagCursor)
	s.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, []string{"bio"}, s.tags.Items())
}

func TestUploadLinkPrompt(t *testing.T) {
	s := newUploadScreen(testEnv(&fakeAPI{}))
	s.setFocus(fieldBody)
	s.Update(keyAlt('l'))
	require.NotNil(t, s.prompt)
	for _, r := range "docs" {
		s.Update(keyRunes(string(r)))
	}
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for _, r := range "http://x" {
		s.Update(keyRunes(string(r)))
	}
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, s.prompt)
	require.Equal(t, "[docs](http://x)", s.body.Value())
}

func TestUploadPublish(t *testing.T) {
	fake := &fakeAPI{}
	s := newUploadScreen(testEnv(fake))
	for _, r := range "Ann" {
		s.Update(keyRunes(string(r)))
	}
	msg := firstCmdMsg(t, s.Update(tea.KeyMsg{Type: tea.KeyCtrlS}))
	s.Update(msg)
	require.Len(t, fake.created, 1)
	require.Equal(t, "Ann", fake.created[0].Author)
	require.NotNil(t, s.message)
	require.Contains(t, s.View(), "Post published!")

	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, s.message)
}

func TestUploadPublishFailureIsQuiet(t *testing.T) {
	fake := &fakeAPI{err: errors.New("401")}
	s := newUploadScreen(testEnv(fake))
	s.Update(firstCmdMsg(t, s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})))
	require.Nil(t, s.message)
	require.False(t, s.req.pending())
}
