package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sui-chat/api/internal/model"
)

// memStore mimics the profiles collection: $addToSet upserts and $pull report
// changed counts the way MongoDB does.
type memStore struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
	reads    int
	writes   int
	err      error
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[string]*model.Profile)}
}

func (m *memStore) put(p *model.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.Address] = p
}

func (m *memStore) friends(address string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[address]
	if !ok {
		return nil
	}
	return append([]string(nil), p.Friends...)
}

func (m *memStore) Get(_ context.Context, address string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[address]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	cp := *p
	cp.Friends = append([]string(nil), p.Friends...)
	return &cp, nil
}

func (m *memStore) BatchGet(_ context.Context, addrs []string) ([]*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	out := []*model.Profile{}
	for _, a := range addrs {
		if p, ok := m.profiles[a]; ok {
			out = append(out, &model.Profile{Address: p.Address, Name: p.Name, AvatarURL: p.AvatarURL, Bio: p.Bio})
		}
	}
	return out, nil
}

func (m *memStore) AddFriend(_ context.Context, address, friend string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.err != nil {
		return false, m.err
	}
	now := time.Now()
	p, ok := m.profiles[address]
	if !ok {
		m.profiles[address] = &model.Profile{
			Address:       address,
			Friends:       []string{friend},
			ChatroomCount: 0,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return true, nil
	}
	// $set updatedAt modifies the document even when $addToSet is a no-op
	p.UpdatedAt = now
	for _, f := range p.Friends {
		if f == friend {
			return true, nil
		}
	}
	p.Friends = append(p.Friends, friend)
	return true, nil
}

func (m *memStore) RemoveFriend(_ context.Context, address, friend string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.err != nil {
		return false, m.err
	}
	p, ok := m.profiles[address]
	if !ok {
		return false, nil
	}
	for i, f := range p.Friends {
		if f == friend {
			p.Friends = append(p.Friends[:i], p.Friends[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type MockOutbox struct{ mock.Mock }

func (m *MockOutbox) Add(ctx context.Context, topic, key string, payload []byte) error {
	return m.Called(ctx, topic, key, payload).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Publish(ctx context.Context, ev model.FriendEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, address string) (*model.Profile, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, p *model.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, address string) error {
	return m.Called(ctx, address).Error(0)
}
