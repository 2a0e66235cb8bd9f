package service

import (
	"context"
	"fmt"
	"warboard/internal/domain"
)

func (f *Fetcher) FetchPlayer(ctx context.Context, tag string) (domain.Player, error) {
	return fetchCached(ctx, f, KindPlayer, tag, func(ctx context.Context, tag string) (domain.Player, error) {
		raw, err := f.upstream.GetPlayer(ctx, tag)
		if err != nil {
			f.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch player")
			return domain.Player{}, fmt.Errorf("failed to fetch player: %w", err)
		}
		return normalizePlayer(raw), nil
	})
}
