package service

import (
	"context"
	"warboard/internal/api"
	"warboard/internal/cache"
	"warboard/internal/constants"
	"warboard/internal/domain"

	"github.com/rs/zerolog"
)

const (
	KindClan   = "clan"
	KindPlayer = "player"
	KindWar    = "war"
	KindCWL    = "cwl"
	KindCWLWar = "cwl_war"
	KindWarLog = "warlog"
)

type Upstream interface {
	GetClan(ctx context.Context, tag string) (*api.Clan, error)
	GetPlayer(ctx context.Context, tag string) (*api.Player, error)
	GetCurrentWar(ctx context.Context, tag string) (*api.ClanWar, error)
	GetWarLeagueGroup(ctx context.Context, tag string) (*api.WarLeagueGroup, error)
	GetWarLeagueWar(ctx context.Context, warTag string) (*api.ClanWar, error)
	GetWarLog(ctx context.Context, tag string) (*api.WarLog, error)
}

type Session interface {
	EnsureLoggedIn(ctx context.Context) error
}

// Fetcher reads entities from the upstream API through the shared
// response cache. It is built once at startup and shared by all handlers.
type Fetcher struct {
	upstream  Upstream
	session   Session
	responses *cache.TTL[any]
	logger    zerolog.Logger
}

func NewFetcher(upstream Upstream, session Session, responses *cache.TTL[any], logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		upstream:  upstream,
		session:   session,
		responses: responses,
		logger:    logger.With().Str("component", "fetcher").Logger(),
	}
}

type record[T any] interface {
	MarkCached(cached bool) T
}

// fetchCached canonicalizes tag, makes sure a session exists and serves the
// record from cache when fresh, calling load otherwise. Failed loads are
// never cached.
func fetchCached[T record[T]](ctx context.Context, f *Fetcher, kind, rawTag string, load func(ctx context.Context, tag string) (T, error)) (T, error) {
	var zero T

	tag, err := domain.FormatTag(rawTag)
	if err != nil {
		return zero, err
	}

	if err := f.session.EnsureLoggedIn(ctx); err != nil {
		return zero, err
	}

	key := cache.Key(kind, tag)
	if v, ok := f.responses.Get(key); ok {
		if rec, ok := v.(T); ok {
			f.logger.Debug().Str("key", key).Msg("cache hit")
			return rec.MarkCached(true), nil
		}
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	rec, err := load(apiCtx, tag)
	if err != nil {
		return zero, err
	}

	rec = rec.MarkCached(false)
	f.responses.Set(key, rec)
	f.logger.Debug().Str("key", key).Msg("cache stored")
	return rec, nil
}

// upstreamAnswered keeps login failures, which may carry portal HTTP
// statuses, from being read as game API answers.
func upstreamAnswered(err error) bool {
	return !domain.IsAuthError(err)
}
