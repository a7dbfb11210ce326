package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sui-chat/api/internal/avatar"
	"github.com/sui-chat/api/internal/model"
	"github.com/sui-chat/api/internal/observability"
)

type ProfileReader interface {
	Get(ctx context.Context, address string) (*model.Profile, error)
}

type ProfileCache interface {
	Get(ctx context.Context, address string) (*model.Profile, error)
	Set(ctx context.Context, p *model.Profile) error
}

// ProfileService handles read-only profile lookups.
type ProfileService struct {
	Repo  ProfileReader
	Cache ProfileCache
}

// Get returns a profile by wallet address, checking cache first. The returned
// profile always carries an avatar URL.
func (s *ProfileService) Get(ctx context.Context, address string) (*model.Profile, error) {
	if err := check(addressRequest{Address: address}, msgAddressRequired); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if p, err := s.Cache.Get(ctx, address); err == nil {
			return withAvatar(p), nil
		}
	}

	p, err := s.Repo.Get(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, p); err != nil {
			observability.GetLogger(ctx).Warn("profile cache set failed", zap.String("address", address), zap.Error(err))
		}
	}
	return withAvatar(p), nil
}

func withAvatar(p *model.Profile) *model.Profile {
	out := *p
	out.AvatarURL = avatar.URL(p.Address, p.AvatarURL)
	return &out
}
