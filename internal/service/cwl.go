package service

import (
	"context"
	"fmt"
	"warboard/internal/api"
	"warboard/internal/constants"
	"warboard/internal/domain"

	"golang.org/x/sync/errgroup"
)

const notInCWLMessage = "Clan is not participating in CWL this season."

// FetchCWLGroup returns the league group of the clan with badge URLs
// looked up for every participant. A participant whose lookup fails is
// returned without badges rather than failing the group.
func (f *Fetcher) FetchCWLGroup(ctx context.Context, tag string) (domain.Result[domain.CWLGroup], error) {
	group, err := fetchCached(ctx, f, KindCWL, tag, func(ctx context.Context, tag string) (domain.CWLGroup, error) {
		raw, err := f.upstream.GetWarLeagueGroup(ctx, tag)
		if err != nil {
			return domain.CWLGroup{}, fmt.Errorf("failed to fetch league group: %w", err)
		}
		return normalizeCWLGroup(raw, f.leagueBadges(ctx, raw.Clans)), nil
	})
	if err != nil {
		if upstreamAnswered(err) && api.IsNotInWar(err) {
			f.logger.Debug().Str("tag", tag).Msg("clan is not in a league group")
			return domain.NotInCWL[domain.CWLGroup](notInCWLMessage), nil
		}
		f.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch league group")
		return domain.Result[domain.CWLGroup]{}, err
	}
	return domain.Ok(group), nil
}

func (f *Fetcher) leagueBadges(ctx context.Context, clans []api.LeagueGroupClan) []*domain.BadgeURLs {
	badges := make([]*domain.BadgeURLs, len(clans))

	g := new(errgroup.Group)
	g.SetLimit(constants.FanOutLimit)
	for i, c := range clans {
		g.Go(func() error {
			full, err := f.upstream.GetClan(ctx, c.Tag)
			if err != nil {
				f.logger.Warn().Err(err).Str("tag", c.Tag).Msg("league clan lookup failed, omitting badges")
				return nil
			}
			badges[i] = normalizeBadge(full.BadgeURLs)
			return nil
		})
	}
	_ = g.Wait()

	return badges
}
