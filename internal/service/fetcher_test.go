package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"warboard/internal/api"
	"warboard/internal/cache"
	"warboard/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	mu    sync.Mutex
	calls map[string]int

	clans     map[string]*api.Clan
	clanErr   map[string]error
	player    *api.Player
	war       *api.ClanWar
	warErr    error
	group     *api.WarLeagueGroup
	groupErr  error
	leagueWar *api.ClanWar
	warLog    *api.WarLog
	warLogErr error
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		calls:   make(map[string]int),
		clans:   make(map[string]*api.Clan),
		clanErr: make(map[string]error),
	}
}

func (u *fakeUpstream) record(name string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls[name]++
}

func (u *fakeUpstream) count(name string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[name]
}

func (u *fakeUpstream) GetClan(_ context.Context, tag string) (*api.Clan, error) {
	u.record("clan")
	if err := u.clanErr[tag]; err != nil {
		return nil, err
	}
	if c, ok := u.clans[tag]; ok {
		return c, nil
	}
	return nil, &api.Error{Status: 404, Path: "/clans/" + tag, Reason: api.ReasonNotFound}
}

func (u *fakeUpstream) GetPlayer(_ context.Context, _ string) (*api.Player, error) {
	u.record("player")
	return u.player, nil
}

func (u *fakeUpstream) GetCurrentWar(_ context.Context, _ string) (*api.ClanWar, error) {
	u.record("war")
	return u.war, u.warErr
}

func (u *fakeUpstream) GetWarLeagueGroup(_ context.Context, _ string) (*api.WarLeagueGroup, error) {
	u.record("group")
	return u.group, u.groupErr
}

func (u *fakeUpstream) GetWarLeagueWar(_ context.Context, _ string) (*api.ClanWar, error) {
	u.record("league_war")
	return u.leagueWar, nil
}

func (u *fakeUpstream) GetWarLog(_ context.Context, _ string) (*api.WarLog, error) {
	u.record("warlog")
	return u.warLog, u.warLogErr
}

type fakeSession struct {
	err   error
	calls atomic.Int32
}

func (s *fakeSession) EnsureLoggedIn(context.Context) error {
	s.calls.Add(1)
	return s.err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestFetcher(upstream *fakeUpstream, session *fakeSession) (*Fetcher, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)}
	responses := cache.NewWithClock[any](5*time.Second, clock.Now)
	return NewFetcher(upstream, session, responses, zerolog.Nop()), clock
}

func TestFetchClan_CachesWithinTTL(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.clans["#ABC"] = &api.Clan{Tag: "#ABC", Name: "Alpha", Members: 3}
	f, clock := newTestFetcher(upstream, &fakeSession{})
	ctx := context.Background()

	first, err := f.FetchClan(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "Alpha", first.Name)

	clock.Advance(2 * time.Second)
	second, err := f.FetchClan(ctx, "#ABC")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, upstream.count("clan"))

	clock.Advance(6 * time.Second)
	third, err := f.FetchClan(ctx, "ABC")
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 2, upstream.count("clan"))
}

func TestFetchClan_InvalidTag(t *testing.T) {
	upstream := newFakeUpstream()
	session := &fakeSession{}
	f, _ := newTestFetcher(upstream, session)

	_, err := f.FetchClan(context.Background(), "  # ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, session.calls.Load())
	assert.Zero(t, upstream.count("clan"))
}

func TestFetchClan_SessionFailurePropagates(t *testing.T) {
	upstream := newFakeUpstream()
	session := &fakeSession{err: &domain.AuthError{Err: domain.ErrMissingCredentials}}
	f, _ := newTestFetcher(upstream, session)

	_, err := f.FetchClan(context.Background(), "#ABC")
	require.Error(t, err)
	assert.True(t, domain.IsAuthError(err))
	assert.Zero(t, upstream.count("clan"))
}

func TestFetchClan_ErrorsAreNotCached(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.clanErr["#ABC"] = &api.Error{Status: 503, Reason: "inMaintenance"}
	f, _ := newTestFetcher(upstream, &fakeSession{})
	ctx := context.Background()

	_, err := f.FetchClan(ctx, "#ABC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch clan")

	delete(upstream.clanErr, "#ABC")
	upstream.clans["#ABC"] = &api.Clan{Tag: "#ABC", Name: "Alpha"}
	clan, err := f.FetchClan(ctx, "#ABC")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", clan.Name)
	assert.Equal(t, 2, upstream.count("clan"))
}

func TestFetchClans_KeepsOrder(t *testing.T) {
	upstream := newFakeUpstream()
	for _, name := range []string{"A", "B", "C"} {
		upstream.clans["#"+name] = &api.Clan{Tag: "#" + name, Name: "Clan " + name}
	}
	f, _ := newTestFetcher(upstream, &fakeSession{})

	clans, err := f.FetchClans(context.Background(), []string{"#C", "#A", "#B"})
	require.NoError(t, err)
	require.Len(t, clans, 3)
	assert.Equal(t, "Clan C", clans[0].Name)
	assert.Equal(t, "Clan A", clans[1].Name)
	assert.Equal(t, "Clan B", clans[2].Name)
}

func TestFetchClans_OneFailureFailsBatch(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.clans["#A"] = &api.Clan{Tag: "#A"}
	f, _ := newTestFetcher(upstream, &fakeSession{})

	clans, err := f.FetchClans(context.Background(), []string{"#A", "#MISSING"})
	require.Error(t, err)
	assert.Nil(t, clans)
	assert.True(t, api.IsNotFound(err))
}

func TestFetchClans_Empty(t *testing.T) {
	f, _ := newTestFetcher(newFakeUpstream(), &fakeSession{})

	clans, err := f.FetchClans(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, clans)
}

func TestFetchPlayer(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.player = &api.Player{Tag: "#P1", Name: "Chief", TownHallLevel: 15}
	f, _ := newTestFetcher(upstream, &fakeSession{})

	player, err := f.FetchPlayer(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Chief", player.Name)
	assert.Nil(t, player.Clan)
	assert.Nil(t, player.League)
}

func TestFetchCurrentWar_Private(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.warErr = &api.Error{Status: 403, Reason: api.ReasonAccessDenied}
	f, _ := newTestFetcher(upstream, &fakeSession{})
	ctx := context.Background()

	res, err := f.FetchCurrentWar(ctx, "#ABC")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePrivate, res.State)
	assert.Equal(t, privateWarMessage, res.Reason)

	_, err = f.FetchCurrentWar(ctx, "#ABC")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.count("war"), "sentinels must not be cached")
}

func TestFetchCurrentWar_PortalForbiddenIsNotPrivate(t *testing.T) {
	upstream := newFakeUpstream()
	session := &fakeSession{err: &domain.AuthError{Err: &api.Error{Status: 403, Reason: "accessDenied"}}}
	f, _ := newTestFetcher(upstream, session)

	_, err := f.FetchCurrentWar(context.Background(), "#ABC")
	require.Error(t, err)
	assert.True(t, domain.IsAuthError(err))
}

func TestFetchCurrentWar_NormalizesTimes(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.war = &api.ClanWar{
		State:     "inWar",
		TeamSize:  15,
		StartTime: "20240115T083000.000Z",
		EndTime:   "garbage",
		Clan: api.WarClan{
			Tag: "#ABC",
			Members: []api.WarMember{
				{Tag: "#M1", Attacks: []api.WarAttack{{AttackerTag: "#M1", Stars: 3}}},
			},
		},
	}
	f, _ := newTestFetcher(upstream, &fakeSession{})

	res, err := f.FetchCurrentWar(context.Background(), "#ABC")
	require.NoError(t, err)
	require.True(t, res.IsOK())

	war := res.Value
	require.NotNil(t, war.StartTime)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), *war.StartTime)
	assert.Nil(t, war.EndTime)
	assert.Nil(t, war.PreparationStartTime)
	require.Len(t, war.Clan.Members, 1)
	assert.Equal(t, 3, war.Clan.Members[0].Attacks[0].Stars)
	assert.NotNil(t, war.Opponent.Members)
}

func TestFetchCWLWar_CachedByWarTag(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.leagueWar = &api.ClanWar{State: "warEnded"}
	f, _ := newTestFetcher(upstream, &fakeSession{})
	ctx := context.Background()

	_, err := f.FetchCWLWar(ctx, "#W1")
	require.NoError(t, err)
	war, err := f.FetchCWLWar(ctx, "#W1")
	require.NoError(t, err)
	assert.True(t, war.Cached)
	assert.Equal(t, "warEnded", war.State)
	assert.Equal(t, 1, upstream.count("league_war"))
}

func TestFetchCWLGroup_NotInCWL(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.groupErr = &api.Error{Status: 404, Reason: api.ReasonNotFound}
	f, _ := newTestFetcher(upstream, &fakeSession{})

	res, err := f.FetchCWLGroup(context.Background(), "#ABC")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNotInCWL, res.State)
	assert.Equal(t, notInCWLMessage, res.Reason)
}

func TestFetchCWLGroup_BadgeLookupFailureDegrades(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.group = &api.WarLeagueGroup{
		State:  "inWar",
		Season: "2024-01",
		Clans: []api.LeagueGroupClan{
			{Tag: "#A", Name: "Alpha", Members: []api.LeagueGroupMember{{Tag: "#M1"}, {Tag: "#M2"}}},
			{Tag: "#B", Name: "Bravo", Members: []api.LeagueGroupMember{{Tag: "#M3"}}},
		},
		Rounds: []api.LeagueGroupRound{{WarTags: []string{"#W1"}}, {}},
	}
	upstream.clans["#A"] = &api.Clan{Tag: "#A", BadgeURLs: &api.BadgeURLs{Small: "a-small"}}
	upstream.clanErr["#B"] = errors.New("connection reset")
	f, _ := newTestFetcher(upstream, &fakeSession{})

	res, err := f.FetchCWLGroup(context.Background(), "#A")
	require.NoError(t, err)
	require.True(t, res.IsOK())

	group := res.Value
	require.Len(t, group.Clans, 2)
	require.NotNil(t, group.Clans[0].BadgeURLs)
	assert.Equal(t, "a-small", group.Clans[0].BadgeURLs.Small)
	assert.Nil(t, group.Clans[1].BadgeURLs)
	assert.Equal(t, 1, group.Clans[1].Members)
	assert.Len(t, group.Clans[1].MemberList, 1)
	assert.Equal(t, []string{}, group.Rounds[1].WarTags)
}

func TestFetchWarLog(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.warLog = &api.WarLog{Items: []api.WarLogEntry{{Result: "win", EndTime: "20240110T120000.000Z"}}}
	f, _ := newTestFetcher(upstream, &fakeSession{})

	res, err := f.FetchWarLog(context.Background(), "#ABC")
	require.NoError(t, err)
	require.True(t, res.IsOK())
	require.Len(t, res.Value.Wars, 1)
	assert.Equal(t, "win", res.Value.Wars[0].Result)
	assert.NotNil(t, res.Value.Wars[0].EndTime)
}

func TestFetchWarLog_Private(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.warLogErr = &api.Error{Status: 403, Reason: api.ReasonPrivateWarLog}
	f, _ := newTestFetcher(upstream, &fakeSession{})

	res, err := f.FetchWarLog(context.Background(), "#ABC")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePrivate, res.State)
	assert.Equal(t, privateWarLogMessage, res.Reason)
}

func TestNormalizeClan_Defaults(t *testing.T) {
	clan := normalizeClan(&api.Clan{
		Tag:        "#ABC",
		MemberList: []api.ClanMember{{Tag: "#M1"}, {Tag: "#M2", Role: "leader"}},
	})

	assert.Equal(t, 2, clan.Members)
	assert.Equal(t, "member", clan.MemberList[0].Role)
	assert.Equal(t, "leader", clan.MemberList[1].Role)
	assert.Nil(t, clan.BadgeURLs)
	assert.Nil(t, clan.ClanCapital)
	assert.Nil(t, clan.Location)
	assert.Nil(t, clan.WarLeague)
}
