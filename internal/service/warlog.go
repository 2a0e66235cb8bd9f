package service

import (
	"context"
	"fmt"
	"warboard/internal/api"
	"warboard/internal/domain"
)

const privateWarLogMessage = "War log is private"

func (f *Fetcher) FetchWarLog(ctx context.Context, tag string) (domain.Result[domain.WarLog], error) {
	log, err := fetchCached(ctx, f, KindWarLog, tag, func(ctx context.Context, tag string) (domain.WarLog, error) {
		raw, err := f.upstream.GetWarLog(ctx, tag)
		if err != nil {
			return domain.WarLog{}, fmt.Errorf("failed to fetch war log: %w", err)
		}
		return normalizeWarLog(raw), nil
	})
	if err != nil {
		if upstreamAnswered(err) && api.IsPrivateWarLog(err) {
			f.logger.Debug().Str("tag", tag).Msg("war log is private")
			return domain.Private[domain.WarLog](privateWarLogMessage), nil
		}
		f.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch war log")
		return domain.Result[domain.WarLog]{}, err
	}
	return domain.Ok(log), nil
}
