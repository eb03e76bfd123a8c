package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/livecommerce/internal/auth/domain"
)

type fakeUserRepo struct {
	nextID uint
	users  map[uint]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*domain.User)}
}

func (r *fakeUserRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeUserRepo) Save(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) Get(ctx context.Context, token string) (*domain.Session, error) {
	return r.sessions[token], nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type fakePublisher struct {
	topics  []string
	failPub error
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	if p.failPub != nil {
		return p.failPub
	}
	p.topics = append(p.topics, topic)
	return nil
}

func (p *fakePublisher) PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func newService() (*AuthCommandService, *fakeUserRepo, *fakeSessionRepo, *fakePublisher) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	publisher := &fakePublisher{}
	return NewAuthCommandService(users, sessions, publisher), users, sessions, publisher
}

func TestRegisterNormalizesUsername(t *testing.T) {
	svc, users, _, publisher := newService()

	id, err := svc.Register(context.Background(), RegisterCommand{
		Username: "  Alice  ",
		Email:    "alice@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	user, _ := users.GetByID(context.Background(), id)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.Equal(t, []string{domain.UserRegisteredEventType}, publisher.topics)
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	svc, _, _, _ := newService()

	_, err := svc.Register(context.Background(), RegisterCommand{
		Username: "alice", Email: "alice@example.com", Password: "secret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterCommand{
		Username: "ALICE", Email: "other@example.com", Password: "secret",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	svc, _, _, _ := newService()

	_, err := svc.Register(context.Background(), RegisterCommand{
		Username: "alice", Email: "alice@example.com", Password: "secret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterCommand{
		Username: "bob", Email: "alice@example.com", Password: "secret",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginAndLogout(t *testing.T) {
	svc, _, sessions, publisher := newService()

	_, err := svc.Register(context.Background(), RegisterCommand{
		Username: "alice", Email: "alice@example.com", Password: "secret",
	})
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), LoginCommand{
		Email: "alice@example.com", Password: "secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "alice", session.Username)
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))
	assert.Contains(t, publisher.topics, domain.UserLoggedInEventType)

	require.NoError(t, svc.Logout(context.Background(), session.Token))
	stored, _ := sessions.Get(context.Background(), session.Token)
	assert.Nil(t, stored)

	// 登出不存在的会话也是成功
	assert.NoError(t, svc.Logout(context.Background(), "missing"))
}

func TestLoginSurvivesPublishFailure(t *testing.T) {
	svc, _, sessions, publisher := newService()

	_, err := svc.Register(context.Background(), RegisterCommand{
		Username: "alice", Email: "alice@example.com", Password: "secret",
	})
	require.NoError(t, err)

	publisher.failPub = errors.New("broker down")
	session, err := svc.Login(context.Background(), LoginCommand{
		Email: "alice@example.com", Password: "secret",
	})
	require.NoError(t, err, "login must not depend on the event broker")
	require.NotNil(t, session)

	stored, _ := sessions.Get(context.Background(), session.Token)
	assert.NotNil(t, stored)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _, _ := newService()

	_, err := svc.Register(context.Background(), RegisterCommand{
		Username: "alice", Email: "alice@example.com", Password: "secret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginCommand{
		Email: "alice@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginCommand{
		Email: "unknown@example.com", Password: "secret",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials,
		"unknown email and wrong password must be indistinguishable")
}
