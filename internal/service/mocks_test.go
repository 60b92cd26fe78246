package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/model"
	"clipfeed/internal/queue"
)

// =============================================================================
// MOCKS
// =============================================================================
//
// Services depend on repository interfaces and a TxRunner, so each test swaps in
// function-field mocks and a runner that calls fn with a nil transaction.

type fakeTx struct {
	calls    int
	rollback int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	f.calls++
	if err := fn(nil); err != nil {
		f.rollback++
		return err
	}
	return nil
}

type mockUserRepository struct {
	existsFn      func(email, username string) (bool, error)
	createFn      func(u *model.User) error
	getByEmailFn  func(email string) (*model.User, error)
	touchFn       func(id int64) error
	updateHashFn  func(id int64, hash string) error
	createdUsers  []*model.User
	touchedLogins []int64
	updatedHashes map[int64]string
}

func (m *mockUserRepository) ExistsByEmailOrUsername(ctx context.Context, tx *sqlx.Tx, email, username string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(email, username)
	}
	return false, nil
}

func (m *mockUserRepository) Create(ctx context.Context, tx *sqlx.Tx, u *model.User) error {
	m.createdUsers = append(m.createdUsers, u)
	if m.createFn != nil {
		return m.createFn(u)
	}
	u.ID = int64(len(m.createdUsers))
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, tx *sqlx.Tx, id int64) error {
	m.touchedLogins = append(m.touchedLogins, id)
	if m.touchFn != nil {
		return m.touchFn(id)
	}
	return nil
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, tx *sqlx.Tx, id int64, hash string) error {
	if m.updateHashFn != nil {
		if err := m.updateHashFn(id, hash); err != nil {
			return err
		}
	}
	if m.updatedHashes == nil {
		m.updatedHashes = make(map[int64]string)
	}
	m.updatedHashes[id] = hash
	return nil
}

// mockSessionRepository keeps sessions in memory and applies the same
// strictly-future expiry rule as the SQL query.
type mockSessionRepository struct {
	sessions map[string]*model.Session
	users    map[int64]*model.User
	now      func() time.Time
	createFn func(s *model.Session) error
	deleteFn func(token string) error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{
		sessions: make(map[string]*model.Session),
		users:    make(map[int64]*model.User),
	}
}

func (m *mockSessionRepository) Create(ctx context.Context, tx *sqlx.Tx, s *model.Session) error {
	if m.createFn != nil {
		if err := m.createFn(s); err != nil {
			return err
		}
	}
	if _, dup := m.sessions[s.Token]; dup {
		return errors.New("duplicate session token")
	}
	s.ID = int64(len(m.sessions) + 1)
	m.sessions[s.Token] = s
	return nil
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(token)
	}
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepository) FindActiveUser(ctx context.Context, token string) (*model.User, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, model.ErrSessionInvalid
	}
	if m.now != nil && !m.now().Before(s.ExpiresAt) {
		return nil, model.ErrSessionInvalid
	}
	u, ok := m.users[s.UserID]
	if !ok {
		return nil, model.ErrSessionInvalid
	}
	return u, nil
}

// plainHasher stands in for argon2 so tests stay fast.
type plainHasher struct {
	hashErr error
}

func (h plainHasher) Hash(plain string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plain, nil
}

func (h plainHasher) Verify(plain, encoded string) (bool, error) {
	if strings.HasPrefix(encoded, "legacy:") {
		return encoded == "legacy:"+plain, nil
	}
	if !strings.HasPrefix(encoded, "hashed:") {
		return false, errors.New("malformed hash")
	}
	return encoded == "hashed:"+plain, nil
}

// NeedsRehash marks hashes with a "legacy:" prefix as outdated.
func (h plainHasher) NeedsRehash(encoded string) bool {
	return strings.HasPrefix(encoded, "legacy:")
}

type mockVideoRepository struct {
	getFeedFn   func(limit int) ([]model.FeedRow, error)
	createFn    func(req *model.UploadRequest) (*model.Video, error)
	likes       map[[2]int64]bool
	comments    map[int64]int64
	likeErr     error
	recountErr  error
	recountHits int
}

func newMockVideoRepository() *mockVideoRepository {
	return &mockVideoRepository{
		likes:    make(map[[2]int64]bool),
		comments: make(map[int64]int64),
	}
}

func (m *mockVideoRepository) GetFeed(ctx context.Context, limit int) ([]model.FeedRow, error) {
	if m.getFeedFn != nil {
		return m.getFeedFn(limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) Create(ctx context.Context, tx *sqlx.Tx, req *model.UploadRequest) (*model.Video, error) {
	if m.createFn != nil {
		return m.createFn(req)
	}
	return &model.Video{ID: 1, UserID: req.UserID, VideoURL: req.VideoURL, Description: req.Description}, nil
}

func (m *mockVideoRepository) Like(ctx context.Context, tx *sqlx.Tx, userID, videoID int64) (bool, error) {
	if m.likeErr != nil {
		return false, m.likeErr
	}
	key := [2]int64{userID, videoID}
	if m.likes[key] {
		return false, nil
	}
	m.likes[key] = true
	return true, nil
}

func (m *mockVideoRepository) RecountLikes(ctx context.Context, tx *sqlx.Tx, videoID int64) (int64, error) {
	m.recountHits++
	if m.recountErr != nil {
		return 0, m.recountErr
	}
	var n int64
	for k := range m.likes {
		if k[1] == videoID {
			n++
		}
	}
	return n, nil
}

func (m *mockVideoRepository) RecountComments(ctx context.Context, tx *sqlx.Tx, videoID int64) (int64, error) {
	m.recountHits++
	if m.recountErr != nil {
		return 0, m.recountErr
	}
	return m.comments[videoID], nil
}

type mockCommentRepository struct {
	videos   *mockVideoRepository
	createFn func(req *model.CommentRequest) error
}

func (m *mockCommentRepository) Create(ctx context.Context, tx *sqlx.Tx, req *model.CommentRequest) (*model.Comment, error) {
	if m.createFn != nil {
		if err := m.createFn(req); err != nil {
			return nil, err
		}
	}
	m.videos.comments[req.VideoID]++
	return &model.Comment{ID: m.videos.comments[req.VideoID], UserID: req.UserID, VideoID: req.VideoID, Text: req.Text}, nil
}

type mockHashtagRepository struct {
	getTrendingFn func(limit int) ([]model.Hashtag, error)
}

func (m *mockHashtagRepository) GetTrending(ctx context.Context, limit int) ([]model.Hashtag, error) {
	if m.getTrendingFn != nil {
		return m.getTrendingFn(limit)
	}
	return nil, nil
}

func (m *mockHashtagRepository) EnsureTags(ctx context.Context, tx *sqlx.Tx, tags []string) error {
	return nil
}

func (m *mockHashtagRepository) LinkVideo(ctx context.Context, tx *sqlx.Tx, videoID int64, tags []string) error {
	return nil
}

type mockPublisher struct {
	events []queue.VideoEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.VideoEvent) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.events = append(m.events, event)
	return "1-0", nil
}
