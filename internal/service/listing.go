package service

import (
	"context"
	"warboard/internal/domain"
	"warboard/internal/repository"

	"github.com/rs/zerolog"
)

type Overview struct {
	Clans    []domain.Clan   `json:"clans"`
	Settings domain.Settings `json:"settings"`
}

// ListingService builds the home page: every tracked clan in display order.
type ListingService struct {
	store   repository.TagStore
	fetcher *Fetcher
	logger  zerolog.Logger
}

func NewListingService(store repository.TagStore, fetcher *Fetcher, logger zerolog.Logger) *ListingService {
	return &ListingService{store: store, fetcher: fetcher, logger: logger}
}

// Overview never fails; on any error it returns an empty page with default
// settings and logs the cause.
func (s *ListingService) Overview(ctx context.Context) Overview {
	empty := Overview{
		Clans:    []domain.Clan{},
		Settings: domain.DefaultTagList().Settings,
	}

	data, err := s.store.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read tag store")
		return empty
	}

	clans, err := s.fetcher.FetchClans(ctx, data.Tags)
	if err != nil {
		s.logger.Error().Err(err).Int("tags", len(data.Tags)).Msg("failed to fetch tracked clans")
		return empty
	}

	return Overview{Clans: clans, Settings: data.Settings}
}
