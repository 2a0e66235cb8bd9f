package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"warboard/internal/api"
	"warboard/internal/config"
	"warboard/internal/domain"
	"warboard/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrAdminNotConfigured = errors.New("Admin password not configured")
	ErrUnauthorized       = errors.New("Invalid password")
)

// ValidationError is a request the admin surface rejects as malformed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const (
	ActionCheck    = "check"
	ActionAdd      = "add"
	ActionRemove   = "remove"
	ActionReorder  = "reorder"
	ActionSettings = "settings"
)

type AdminRequest struct {
	Password string                `json:"password"`
	Action   string                `json:"action"`
	Tag      string                `json:"tag"`
	NewTags  []string              `json:"newTags"`
	Settings *domain.SettingsPatch `json:"settings"`
}

type AdminResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	*domain.TagList
}

type EnrichedTag struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

type AdminState struct {
	domain.TagList
	EnrichedTags []EnrichedTag `json:"enrichedTags"`
}

type AdminService struct {
	store    repository.TagStore
	fetcher  *Fetcher
	password string
	logger   zerolog.Logger
}

func NewAdminService(store repository.TagStore, fetcher *Fetcher, cfg *config.Config, logger zerolog.Logger) *AdminService {
	return &AdminService{
		store:    store,
		fetcher:  fetcher,
		password: cfg.AdminPassword,
		logger:   logger.With().Str("component", "admin").Logger(),
	}
}

// State returns the stored list with each tag's clan name. Names degrade to
// placeholders when the upstream cannot be reached.
func (s *AdminService) State(ctx context.Context) (AdminState, error) {
	data, err := s.store.Read(ctx)
	if err != nil {
		return AdminState{}, err
	}

	enriched := make([]EnrichedTag, 0, len(data.Tags))
	if len(data.Tags) == 0 {
		return AdminState{TagList: data, EnrichedTags: enriched}, nil
	}

	clans, err := s.fetcher.FetchClans(ctx, data.Tags)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch clan names")
		for _, tag := range data.Tags {
			enriched = append(enriched, EnrichedTag{Tag: tag, Name: "Error fetching name"})
		}
		return AdminState{TagList: data, EnrichedTags: enriched}, nil
	}

	names := make(map[string]string, len(clans))
	for _, c := range clans {
		names[c.Tag] = c.Name
	}
	for _, tag := range data.Tags {
		name, ok := names[tag]
		if !ok {
			name = "Unknown"
		}
		enriched = append(enriched, EnrichedTag{Tag: tag, Name: name})
	}
	return AdminState{TagList: data, EnrichedTags: enriched}, nil
}

func (s *AdminService) Authorize(password string) error {
	if s.password == "" {
		return ErrAdminNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Apply authorizes req and performs its action against the tag store.
func (s *AdminService) Apply(ctx context.Context, req AdminRequest) (AdminResult, error) {
	if err := s.Authorize(req.Password); err != nil {
		s.logger.Warn().Str("action", req.Action).Err(err).Msg("admin request rejected")
		return AdminResult{}, err
	}

	var (
		success bool
		err     error
	)

	switch req.Action {
	case ActionCheck:
		return AdminResult{Success: true, Message: "Authenticated"}, nil
	case ActionAdd:
		success, err = s.add(ctx, req.Tag)
	case ActionRemove:
		success, err = s.remove(ctx, req.Tag)
	case ActionReorder:
		if req.NewTags == nil {
			return AdminResult{}, invalid("New tags required")
		}
		success, err = s.store.Reorder(ctx, req.NewTags)
	case ActionSettings:
		if req.Settings == nil {
			return AdminResult{}, invalid("Settings required")
		}
		if n := req.Settings.ClansPerRow; n != nil && *n < 0 {
			return AdminResult{}, invalid("clansPerRow must not be negative")
		}
		success, err = s.store.UpdateSettings(ctx, *req.Settings)
	default:
		return AdminResult{}, invalid("Unknown action")
	}
	if err != nil {
		return AdminResult{}, err
	}

	data, err := s.store.Read(ctx)
	if err != nil {
		return AdminResult{}, err
	}

	s.logger.Info().Str("action", req.Action).Bool("success", success).Msg("admin action applied")
	return AdminResult{Success: success, TagList: &data}, nil
}

func (s *AdminService) add(ctx context.Context, rawTag string) (bool, error) {
	tag, err := domain.FormatTag(rawTag)
	if err != nil {
		return false, invalid("Tag is required")
	}

	if _, err := s.fetcher.FetchClan(ctx, tag); err != nil {
		if unknownClan(err) {
			return false, invalid("Invalid Clan Tag: Clan not found")
		}
		return false, err
	}

	return s.store.AddTag(ctx, tag)
}

func (s *AdminService) remove(ctx context.Context, rawTag string) (bool, error) {
	tag, err := domain.FormatTag(rawTag)
	if err != nil {
		return false, invalid("Tag is required")
	}
	return s.store.RemoveTag(ctx, tag)
}

func unknownClan(err error) bool {
	if !upstreamAnswered(err) {
		return false
	}
	return api.IsNotFound(err) || api.Status(err) == 400
}
