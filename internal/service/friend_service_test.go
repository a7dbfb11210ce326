package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sui-chat/api/internal/model"
)

func newFriendService(store ProfileStore) *FriendService {
	return &FriendService{
		Store:       store,
		EventsTopic: "friends.events",
		Now:         func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
	}
}

func TestFriendService_ConcreteScenario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newFriendService(store)

	res, err := s.AddFriend(ctx, "0xA", "0xB")
	require.NoError(t, err)
	assert.Equal(t, &model.AddFriendResult{Success: true, Added: true, Message: "Friend added successfully"}, res)
	assert.Equal(t, []string{"0xB"}, store.friends("0xA"))

	res, err = s.AddFriend(ctx, "0xA", "0xB")
	require.NoError(t, err)
	assert.Equal(t, &model.AddFriendResult{Success: true, Added: false, Message: "Friend already added"}, res)
	assert.Equal(t, []string{"0xB"}, store.friends("0xA"))

	list, err := s.ListFriends(ctx, "0xA")
	require.NoError(t, err)
	assert.Empty(t, list.Friends)
	assert.Equal(t, 0, list.Count)

	rm, err := s.RemoveFriend(ctx, "0xA", "0xB")
	require.NoError(t, err)
	assert.Equal(t, &model.RemoveFriendResult{Success: true, Removed: true}, rm)

	list, err = s.ListFriends(ctx, "0xA")
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count)
	assert.Empty(t, store.friends("0xA"))
}

func TestFriendService_AddFriend_NoSelfFriendship(t *testing.T) {
	store := newMemStore()
	store.put(&model.Profile{Address: "0xA"})
	s := newFriendService(store)

	_, err := s.AddFriend(context.Background(), "0xA", "0xA")

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Cannot add yourself as a friend", verr.Message)
	assert.Zero(t, store.reads)
	assert.Zero(t, store.writes)
}

func TestFriendService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		call    func(s *FriendService) error
		wantMsg string
	}{
		{
			name: "list without address",
			call: func(s *FriendService) error {
				_, err := s.ListFriends(context.Background(), "")
				return err
			},
			wantMsg: "Address is required",
		},
		{
			name: "add without friend",
			call: func(s *FriendService) error {
				_, err := s.AddFriend(context.Background(), "0xA", "")
				return err
			},
			wantMsg: "Address and friendAddress are required",
		},
		{
			name: "add without either",
			call: func(s *FriendService) error {
				_, err := s.AddFriend(context.Background(), "", "")
				return err
			},
			wantMsg: "Address and friendAddress are required",
		},
		{
			name: "add without address",
			call: func(s *FriendService) error {
				_, err := s.AddFriend(context.Background(), "", "0xB")
				return err
			},
			wantMsg: "Address and friendAddress are required",
		},
		{
			name: "remove without friend",
			call: func(s *FriendService) error {
				_, err := s.RemoveFriend(context.Background(), "0xA", "")
				return err
			},
			wantMsg: "Address and friendAddress are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			err := tt.call(newFriendService(store))

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsg, verr.Message)
			assert.Zero(t, store.reads, "validation must happen before store access")
			assert.Zero(t, store.writes)
		})
	}
}

func TestFriendService_AddFriend_Asymmetric(t *testing.T) {
	store := newMemStore()
	store.put(&model.Profile{Address: "0xB", Name: "bob", Friends: []string{"0xC"}})
	s := newFriendService(store)

	res, err := s.AddFriend(context.Background(), "0xA", "0xB")
	require.NoError(t, err)
	assert.True(t, res.Added)

	assert.Equal(t, []string{"0xB"}, store.friends("0xA"))
	assert.Equal(t, []string{"0xC"}, store.friends("0xB"))
}

func TestFriendService_AddFriend_ImplicitCreation(t *testing.T) {
	store := newMemStore()
	s := newFriendService(store)

	_, err := s.AddFriend(context.Background(), "0xA", "0xB")
	require.NoError(t, err)

	p, err := store.Get(context.Background(), "0xA")
	require.NoError(t, err)
	assert.Equal(t, []string{"0xB"}, p.Friends)
	assert.Equal(t, 0, p.ChatroomCount)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestFriendService_AddFriend_ShortCircuitSkipsWrite(t *testing.T) {
	store := newMemStore()
	store.put(&model.Profile{Address: "0xA", Friends: []string{"0xB"}})
	s := newFriendService(store)

	res, err := s.AddFriend(context.Background(), "0xA", "0xB")
	require.NoError(t, err)
	assert.False(t, res.Added)
	assert.Equal(t, model.MsgFriendAlreadyAdded, res.Message)
	assert.Zero(t, store.writes)
}

// unchangedStore reports that the upsert touched nothing, as when a concurrent
// request added the same friend first.
type unchangedStore struct{ *memStore }

func (u unchangedStore) AddFriend(context.Context, string, string) (bool, error) { return false, nil }

func TestFriendService_AddFriend_WriteReportsNoChange(t *testing.T) {
	s := newFriendService(unchangedStore{newMemStore()})

	res, err := s.AddFriend(context.Background(), "0xA", "0xB")
	require.NoError(t, err)
	assert.Equal(t, &model.AddFriendResult{Success: true, Added: false, Message: "Friend already exists"}, res)
}

func TestFriendService_AddFriend_Concurrent(t *testing.T) {
	store := newMemStore()
	s := newFriendService(store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.AddFriend(context.Background(), "0xA", "0xB")
			assert.NoError(t, err)
			assert.True(t, res.Success)
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"0xB"}, store.friends("0xA"))
}

func TestFriendService_RemoveFriend_NoopWhenAbsent(t *testing.T) {
	store := newMemStore()
	s := newFriendService(store)

	res, err := s.RemoveFriend(context.Background(), "0xA", "0xC")
	require.NoError(t, err)
	assert.False(t, res.Removed)
	_, err = store.Get(context.Background(), "0xA")
	assert.ErrorIs(t, err, model.ErrProfileNotFound, "remove must not create a profile")

	store.put(&model.Profile{Address: "0xA", Friends: []string{"0xB"}})
	res, err = s.RemoveFriend(context.Background(), "0xA", "0xC")
	require.NoError(t, err)
	assert.False(t, res.Removed)
	assert.Equal(t, []string{"0xB"}, store.friends("0xA"))
}

func TestFriendService_ListFriends_OmitsUnresolved(t *testing.T) {
	store := newMemStore()
	store.put(&model.Profile{Address: "0xA", Friends: []string{"0xB", "0xX", "0xC"}})
	store.put(&model.Profile{Address: "0xB", Name: "bob", AvatarURL: "https://a/b.png"})
	store.put(&model.Profile{Address: "0xC", Bio: "hello"})
	s := newFriendService(store)

	list, err := s.ListFriends(context.Background(), "0xA")
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, []model.FriendView{
		{Address: "0xB", Name: "bob", AvatarURL: "https://a/b.png"},
		{Address: "0xC", Bio: "hello"},
	}, list.Friends)
}

func TestFriendService_ListFriends_NoProfile(t *testing.T) {
	store := newMemStore()
	s := newFriendService(store)

	list, err := s.ListFriends(context.Background(), "0xNobody")
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Friends)
	assert.Zero(t, store.writes)
}

func TestFriendService_StoreUnavailable(t *testing.T) {
	store := newMemStore()
	store.err = &model.StoreUnavailableError{Err: errors.New("tls: handshake failure")}
	s := newFriendService(store)

	_, err := s.ListFriends(context.Background(), "0xA")
	assert.True(t, model.IsStoreUnavailable(err))

	_, err = s.AddFriend(context.Background(), "0xA", "0xB")
	assert.True(t, model.IsStoreUnavailable(err))

	_, err = s.RemoveFriend(context.Background(), "0xA", "0xB")
	assert.True(t, model.IsStoreUnavailable(err))
}

func TestFriendService_InternalErrorKeepsMessage(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("write conflict")
	s := newFriendService(store)

	_, err := s.AddFriend(context.Background(), "0xA", "0xB")
	require.Error(t, err)
	assert.False(t, model.IsValidation(err))
	assert.False(t, model.IsStoreUnavailable(err))
	assert.Contains(t, err.Error(), "write conflict")
}

func TestFriendService_AddFriend_EmitsChange(t *testing.T) {
	store := newMemStore()
	outbox := new(MockOutbox)
	notifier := new(MockNotifier)
	cache := new(MockCache)

	s := newFriendService(store)
	s.Outbox = outbox
	s.Notifier = notifier
	s.Cache = cache

	outbox.On("Add", mock.Anything, "friends.events", "0xA", mock.MatchedBy(func(b []byte) bool {
		var ev model.FriendEvent
		return json.Unmarshal(b, &ev) == nil && ev.Type == model.EventFriendAdded && ev.FriendAddress == "0xB"
	})).Return(nil).Once()
	cache.On("Delete", mock.Anything, "0xA").Return(nil).Once()
	notifier.On("Publish", mock.Anything, mock.MatchedBy(func(ev model.FriendEvent) bool {
		return ev.Address == "0xA" && ev.Type == model.EventFriendAdded && ev.ID != ""
	})).Return(errors.New("redis down")).Once()

	res, err := s.AddFriend(context.Background(), "0xA", "0xB")
	require.NoError(t, err, "notification failures must not fail the add")
	assert.True(t, res.Added)

	// second add short-circuits: no further events
	_, err = s.AddFriend(context.Background(), "0xA", "0xB")
	require.NoError(t, err)

	outbox.AssertExpectations(t)
	cache.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestFriendService_RemoveFriend_EmitsOnlyWhenRemoved(t *testing.T) {
	store := newMemStore()
	store.put(&model.Profile{Address: "0xA", Friends: []string{"0xB"}})
	outbox := new(MockOutbox)

	s := newFriendService(store)
	s.Outbox = outbox

	outbox.On("Add", mock.Anything, "friends.events", "0xA", mock.Anything).Return(nil).Once()

	res, err := s.RemoveFriend(context.Background(), "0xA", "0xB")
	require.NoError(t, err)
	assert.True(t, res.Removed)

	res, err = s.RemoveFriend(context.Background(), "0xA", "0xB")
	require.NoError(t, err)
	assert.False(t, res.Removed)

	outbox.AssertNumberOfCalls(t, "Add", 1)
}
