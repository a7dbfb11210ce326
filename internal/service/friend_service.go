package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sui-chat/api/internal/model"
	"github.com/sui-chat/api/internal/observability"
)

// ProfileStore is the document-store capability the friend logic needs.
// AddFriend and RemoveFriend must be single atomic updates that report
// whether a document changed.
type ProfileStore interface {
	Get(ctx context.Context, address string) (*model.Profile, error)
	BatchGet(ctx context.Context, addrs []string) ([]*model.Profile, error)
	AddFriend(ctx context.Context, address, friend string) (bool, error)
	RemoveFriend(ctx context.Context, address, friend string) (bool, error)
}

// EventRecorder persists an event for later relay (the outbox).
type EventRecorder interface {
	Add(ctx context.Context, topic, key string, payload []byte) error
}

// Invalidator drops a cached profile.
type Invalidator interface {
	Delete(ctx context.Context, address string) error
}

// Notifier pushes a change to connected clients.
type Notifier interface {
	Publish(ctx context.Context, ev model.FriendEvent) error
}

// FriendService owns a wallet's directional friend set. Adding B to A never
// touches B's profile.
type FriendService struct {
	Store       ProfileStore
	Outbox      EventRecorder
	Cache       Invalidator
	Notifier    Notifier
	EventsTopic string
	Now         func() time.Time
}

// ListFriends returns the profiles of address's friends. Friends without a
// profile document are omitted, so Count may be smaller than the stored set.
func (s *FriendService) ListFriends(ctx context.Context, address string) (*model.FriendList, error) {
	if err := check(addressRequest{Address: address}, msgAddressRequired); err != nil {
		s.record("list", err, "")
		return nil, err
	}

	var friendAddrs []string
	p, err := s.Store.Get(ctx, address)
	switch {
	case errors.Is(err, model.ErrProfileNotFound):
	case err != nil:
		s.record("list", err, "")
		return nil, fmt.Errorf("list friends: %w", err)
	default:
		friendAddrs = p.Friends
	}

	profiles, err := s.Store.BatchGet(ctx, friendAddrs)
	if err != nil {
		s.record("list", err, "")
		return nil, fmt.Errorf("list friends: %w", err)
	}

	out := &model.FriendList{Friends: make([]model.FriendView, 0, len(profiles))}
	for _, f := range profiles {
		out.Friends = append(out.Friends, f.View())
	}
	out.Count = len(out.Friends)

	s.record("list", nil, "ok")
	return out, nil
}

// AddFriend set-adds friend into address's friend set, creating the caller's
// profile when it does not exist yet.
func (s *FriendService) AddFriend(ctx context.Context, address, friend string) (*model.AddFriendResult, error) {
	if err := check(addFriendRequest{Address: address, FriendAddress: friend}, msgPairRequired); err != nil {
		s.record("add", err, "")
		return nil, err
	}

	log := observability.GetLogger(ctx).With(zap.String("address", address), zap.String("friend", friend))

	p, err := s.Store.Get(ctx, address)
	if err != nil && !errors.Is(err, model.ErrProfileNotFound) {
		s.record("add", err, "")
		return nil, fmt.Errorf("add friend: %w", err)
	}
	if p.HasFriend(friend) {
		s.record("add", nil, "noop")
		return &model.AddFriendResult{Success: true, Added: false, Message: model.MsgFriendAlreadyAdded}, nil
	}

	added, err := s.Store.AddFriend(ctx, address, friend)
	if err != nil {
		s.record("add", err, "")
		return nil, fmt.Errorf("add friend: %w", err)
	}
	if !added {
		// a concurrent request won between the read and the write
		s.record("add", nil, "noop")
		return &model.AddFriendResult{Success: true, Added: false, Message: model.MsgFriendExists}, nil
	}

	log.Info("friend added")
	s.afterChange(ctx, model.EventFriendAdded, address, friend)
	s.record("add", nil, "added")
	return &model.AddFriendResult{Success: true, Added: true, Message: model.MsgFriendAdded}, nil
}

// RemoveFriend pulls friend from address's friend set. It never creates a profile.
func (s *FriendService) RemoveFriend(ctx context.Context, address, friend string) (*model.RemoveFriendResult, error) {
	if err := check(friendPairRequest{Address: address, FriendAddress: friend}, msgPairRequired); err != nil {
		s.record("remove", err, "")
		return nil, err
	}

	removed, err := s.Store.RemoveFriend(ctx, address, friend)
	if err != nil {
		s.record("remove", err, "")
		return nil, fmt.Errorf("remove friend: %w", err)
	}

	if removed {
		observability.GetLogger(ctx).Info("friend removed",
			zap.String("address", address), zap.String("friend", friend))
		s.afterChange(ctx, model.EventFriendRemoved, address, friend)
		s.record("remove", nil, "removed")
	} else {
		s.record("remove", nil, "noop")
	}
	return &model.RemoveFriendResult{Success: true, Removed: removed}, nil
}

// afterChange records the outbox event, drops the cached profile and notifies
// listeners. The write already happened, so failures here are only logged.
func (s *FriendService) afterChange(ctx context.Context, eventType, address, friend string) {
	log := observability.GetLogger(ctx)

	ev := model.FriendEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		Address:       address,
		FriendAddress: friend,
		OccurredAt:    s.now(),
	}

	if s.Outbox != nil {
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Error("marshal friend event", zap.Error(err))
		} else if err := s.Outbox.Add(ctx, s.EventsTopic, address, payload); err != nil {
			log.Error("save outbox event", zap.String("type", eventType), zap.Error(err))
		}
	}

	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, address); err != nil {
			log.Warn("profile cache invalidation failed", zap.String("address", address), zap.Error(err))
		}
	}

	if s.Notifier != nil {
		if err := s.Notifier.Publish(ctx, ev); err != nil {
			log.Warn("friend notification failed", zap.String("type", eventType), zap.Error(err))
		}
	}
}

func (s *FriendService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

func (s *FriendService) record(op string, err error, outcome string) {
	switch {
	case err == nil:
	case model.IsValidation(err):
		outcome = "invalid"
	case model.IsStoreUnavailable(err):
		outcome = "unavailable"
	default:
		outcome = "error"
	}
	observability.FriendOpsTotal.WithLabelValues(op, outcome).Inc()
}
