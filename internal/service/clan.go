package service

import (
	"context"
	"fmt"
	"warboard/internal/domain"

	"golang.org/x/sync/errgroup"
)

func (f *Fetcher) FetchClan(ctx context.Context, tag string) (domain.Clan, error) {
	return fetchCached(ctx, f, KindClan, tag, func(ctx context.Context, tag string) (domain.Clan, error) {
		raw, err := f.upstream.GetClan(ctx, tag)
		if err != nil {
			f.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch clan")
			return domain.Clan{}, fmt.Errorf("failed to fetch clan: %w", err)
		}
		return normalizeClan(raw), nil
	})
}

// FetchClans fetches every tag concurrently. The first failure fails the
// whole batch; results keep the order of tags.
func (f *Fetcher) FetchClans(ctx context.Context, tags []string) ([]domain.Clan, error) {
	clans := make([]domain.Clan, len(tags))

	g, gCtx := errgroup.WithContext(ctx)
	for i, tag := range tags {
		g.Go(func() error {
			clan, err := f.FetchClan(gCtx, tag)
			if err != nil {
				return fmt.Errorf("clan %s: %w", tag, err)
			}
			clans[i] = clan
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clans, nil
}
