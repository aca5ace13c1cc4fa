package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/authkit/server/internal/mocks"
	"github.com/authkit/server/internal/model"
	"github.com/authkit/server/internal/testutil"
	"github.com/authkit/server/internal/token"
)

const testRefreshTTL = 7 * 24 * time.Hour

func TestSessionService_Issue(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Role: "user"}

	manager := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	users := &mocks.UserStore{}

	manager.On("GenerateAccessToken", user.ID, "user").Return("access", nil).Once()
	manager.On("GenerateRefreshToken", user.ID).Return("refresh", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(s model.Session) bool {
		return s.UserID == user.ID && bytes.Equal(s.TokenHash, hashToken("refresh"))
	})).Return(nil).Once()

	svc := NewSessionService(manager, store, users, testRefreshTTL, testutil.MakeNoopLogger())

	access, refresh, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "access", access)
	assert.Equal(t, "refresh", refresh)
	store.AssertExpectations(t)
}

func TestSessionService_Issue_StoreError(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Role: "user"}

	manager := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	users := &mocks.UserStore{}

	manager.On("GenerateAccessToken", user.ID, "user").Return("access", nil).Once()
	manager.On("GenerateRefreshToken", user.ID).Return("refresh", nil).Once()
	store.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

	svc := NewSessionService(manager, store, users, testRefreshTTL, testutil.MakeNoopLogger())

	_, _, err := svc.Issue(ctx, user)
	require.Error(t, err)
}

func TestSessionService_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	presented := "refresh-old"
	oldHash := hashToken(presented)
	sessionID := uuid.New()

	manager := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", presented).Return(userID, nil).Once()
	store.On("GetByTokenHash", ctx, oldHash).Return(model.Session{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: oldHash,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	users.On("GetByID", ctx, userID).Return(model.User{ID: userID, Role: "admin"}, nil).Once()
	manager.On("GenerateAccessToken", userID, "admin").Return("access-new", nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh-new", nil).Once()
	store.On("Rotate", ctx, sessionID, oldHash, hashToken("refresh-new"), mock.Anything).Return(nil).Once()

	svc := NewSessionService(manager, store, users, testRefreshTTL, testutil.MakeNoopLogger())

	access, refresh, err := svc.Refresh(ctx, presented)
	require.NoError(t, err)
	assert.Equal(t, "access-new", access)
	assert.Equal(t, "refresh-new", refresh)
	store.AssertExpectations(t)
}

func TestSessionService_Refresh_InvalidToken_NoStoreAccess(t *testing.T) {
	ctx := context.Background()

	manager := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", "tampered").Return(uuid.Nil, model.ErrInvalidToken).Once()

	svc := NewSessionService(manager, store, users, testRefreshTTL, testutil.MakeNoopLogger())

	_, _, err := svc.Refresh(ctx, "tampered")
	require.ErrorIs(t, err, model.ErrInvalidToken)

	// A token that fails verification must never reach the session store.
	store.AssertNotCalled(t, "GetByTokenHash", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Rotate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionService_Refresh_SessionNotFound(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	presented := "refresh-rotated-away"

	manager := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", presented).Return(userID, nil).Once()
	store.On("GetByTokenHash", ctx, hashToken(presented)).Return(model.Session{}, model.ErrNotFound).Once()

	svc := NewSessionService(manager, store, users, testRefreshTTL, testutil.MakeNoopLogger())

	_, _, err := svc.Refresh(ctx, presented)
	require.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestSessionService_Refresh_UserNotFound(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	presented := "refresh-orphaned"
	oldHash := hashToken(presented)

	manager := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", presented).Return(userID, nil).Once()
	store.On("GetByTokenHash", ctx, oldHash).Return(model.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: oldHash,
	}, nil).Once()
	users.On("GetByID", ctx, userID).Return(model.User{}, model.ErrNotFound).Once()

	svc := NewSessionService(manager, store, users, testRefreshTTL, testutil.MakeNoopLogger())

	_, _, err := svc.Refresh(ctx, presented)
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestSessionService_Refresh_RotateConflict(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	presented := "refresh-contested"
	oldHash := hashToken(presented)
	sessionID := uuid.New()

	manager := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	users := &mocks.UserStore{}

	manager.On("ParseRefreshToken", presented).Return(userID, nil).Once()
	store.On("GetByTokenHash", ctx, oldHash).Return(model.Session{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: oldHash,
	}, nil).Once()
	users.On("GetByID", ctx, userID).Return(model.User{ID: userID, Role: "user"}, nil).Once()
	manager.On("GenerateAccessToken", userID, "user").Return("access-new", nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh-new", nil).Once()
	store.On("Rotate", ctx, sessionID, oldHash, mock.Anything, mock.Anything).Return(model.ErrSessionNotFound).Once()

	svc := NewSessionService(manager, store, users, testRefreshTTL, testutil.MakeNoopLogger())

	_, _, err := svc.Refresh(ctx, presented)
	require.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestSessionService_Identity(t *testing.T) {
	manager := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	users := &mocks.UserStore{}

	want := model.Identity{UserID: uuid.New(), Role: "admin"}
	manager.On("ParseAccessToken", "access").Return(want, nil).Once()

	svc := NewSessionService(manager, store, users, testRefreshTTL, testutil.MakeNoopLogger())

	got, err := svc.Identity(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// fakeSessionStore is an in-memory SessionStore with the same row-level
// compare-and-swap semantics as the postgres repository.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]model.Session)}
}

func (f *fakeSessionStore) Create(_ context.Context, session model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetByTokenHash(_ context.Context, tokenHash []byte) (model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if bytes.Equal(s.TokenHash, tokenHash) {
			return s, nil
		}
	}
	return model.Session{}, model.ErrNotFound
}

func (f *fakeSessionStore) Rotate(_ context.Context, id uuid.UUID, oldHash, newHash []byte, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || !bytes.Equal(s.TokenHash, oldHash) {
		return model.ErrSessionNotFound
	}
	s.TokenHash = newHash
	s.ExpiresAt = expiresAt
	f.sessions[id] = s
	return nil
}

func newRoundtripService(store model.SessionStore, users model.UserStore) *SessionService {
	manager := token.NewJWT("access-secret", "refresh-secret", 15*time.Minute, testRefreshTTL)
	return NewSessionService(manager, store, users, testRefreshTTL, testutil.MakeNoopLogger())
}

func TestSessionService_RefreshTokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Role: "user"}

	users := &mocks.UserStore{}
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	store := newFakeSessionStore()
	svc := newRoundtripService(store, users)

	access, refresh, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	newAccess, newRefresh, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEqual(t, access, newAccess)
	assert.NotEqual(t, refresh, newRefresh)

	// The pre-rotation token still has a valid signature and expiry, but its
	// session anchor was overwritten.
	_, _, err = svc.Refresh(ctx, refresh)
	require.ErrorIs(t, err, model.ErrSessionNotFound)

	// The rotated-in token works.
	_, _, err = svc.Refresh(ctx, newRefresh)
	require.NoError(t, err)
}

func TestSessionService_ConcurrentRefreshSingleWinner(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Role: "user"}

	users := &mocks.UserStore{}
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	store := newFakeSessionStore()
	svc := newRoundtripService(store, users)

	_, refresh, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _, err := svc.Refresh(ctx, refresh)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		require.ErrorIs(t, err, model.ErrSessionNotFound)
	}
	require.Equal(t, 1, success)
}
