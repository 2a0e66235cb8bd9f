package service

import (
	"context"
	"fmt"
	"warboard/internal/api"
	"warboard/internal/domain"
)

const privateWarMessage = "War log is private. The clan must set war log to public in game settings."

// FetchCurrentWar returns a Private result when the clan hides its wars.
func (f *Fetcher) FetchCurrentWar(ctx context.Context, tag string) (domain.Result[domain.War], error) {
	war, err := fetchCached(ctx, f, KindWar, tag, func(ctx context.Context, tag string) (domain.War, error) {
		raw, err := f.upstream.GetCurrentWar(ctx, tag)
		if err != nil {
			return domain.War{}, fmt.Errorf("failed to fetch current war: %w", err)
		}
		return normalizeWar(raw), nil
	})
	if err != nil {
		if upstreamAnswered(err) && api.IsPrivateWarLog(err) {
			f.logger.Debug().Str("tag", tag).Msg("war log is private")
			return domain.Private[domain.War](privateWarMessage), nil
		}
		f.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch current war")
		return domain.Result[domain.War]{}, err
	}
	return domain.Ok(war), nil
}

func (f *Fetcher) FetchCWLWar(ctx context.Context, warTag string) (domain.War, error) {
	return fetchCached(ctx, f, KindCWLWar, warTag, func(ctx context.Context, warTag string) (domain.War, error) {
		raw, err := f.upstream.GetWarLeagueWar(ctx, warTag)
		if err != nil {
			f.logger.Error().Err(err).Str("war_tag", warTag).Msg("failed to fetch league war")
			return domain.War{}, fmt.Errorf("failed to fetch league war: %w", err)
		}
		return normalizeWar(raw), nil
	})
}
