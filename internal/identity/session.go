package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"storefront/internal/logger"
	"storefront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the token payload accepted by LoginWithToken. The user id is
// the registered subject.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Session is the in-process identity Source. It remembers the signed-in user
// under storage.SessionKey so a restart can Restore it.
type Session struct {
	store  storage.Store
	secret []byte
	log    *zap.Logger

	mu       sync.Mutex
	user     *User
	nextID   int
	watchers map[int]func(*User)

	// notifyMu keeps callbacks in transition order without holding mu.
	notifyMu sync.Mutex
}

// NewSession returns an anonymous session. secret signs and verifies
// login tokens; an empty secret disables them.
func NewSession(store storage.Store, secret string, log *zap.Logger) *Session {
	return &Session{
		store:    store,
		secret:   []byte(secret),
		log:      logger.OrDefault(log).With(zap.String("component", "identity")),
		watchers: make(map[int]func(*User)),
	}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Session) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.user)
}

// OnChange registers fn to run after every identity change. Calling
// cancel removes it.
func (s *Session) OnChange(fn func(*User)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// Login makes u the current user. Logging in again as the same id does not
// notify watchers.
func (s *Session) Login(ctx context.Context, u User) {
	s.transition(ctx, &u)
}

// Logout clears the current user and the persisted session.
func (s *Session) Logout(ctx context.Context) {
	s.transition(ctx, nil)
}

// LoginWithToken verifies an HS256 token and logs its subject in.
func (s *Session) LoginWithToken(ctx context.Context, token string) (*User, error) {
	u, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	s.Login(ctx, *u)
	return u, nil
}

// DefaultTokenTTL is the lifetime of tokens from IssueToken when ttl is 0.
const DefaultTokenTTL = 24 * time.Hour

// IssueToken signs an HS256 token for u that LoginWithToken accepts.
func (s *Session) IssueToken(u User, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	if u.ID == "" {
		return "", ErrMissingUser
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := Claims{
		Name:  u.Name,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies token against the session secret.
func (s *Session) ParseToken(token string) (*User, error) {
	if len(s.secret) == 0 {
		return nil, ErrNoSecret
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrMissingUser
	}

	return &User{ID: claims.Subject, Name: claims.Name, Email: claims.Email}, nil
}

// Restore signs the remembered user back in. A missing or malformed record
// leaves the session anonymous.
func (s *Session) Restore(ctx context.Context) {
	raw, ok, err := s.store.Get(ctx, storage.SessionKey)
	if err != nil {
		s.log.Warn("failed to read session", zap.Error(err))
		return
	}
	if !ok || raw == "" || raw == "null" {
		return
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		s.log.Warn("ignoring malformed session record", zap.Error(err))
		return
	}
	s.transition(ctx, &u)
}

func (s *Session) transition(ctx context.Context, next *User) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.user
	s.user = copyUser(next)
	watchers := make([]func(*User), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	s.remember(ctx, next)

	if sameID(prev, next) {
		return
	}

	log := s.log
	if sid := logger.SessionIDFrom(ctx); sid != "" {
		log = log.With(zap.String("session_id", sid))
	}
	if next == nil {
		log.Info("signed out")
	} else {
		log.Info("signed in", zap.String("user_id", next.ID))
	}

	for _, fn := range watchers {
		fn(copyUser(next))
	}
}

func (s *Session) remember(ctx context.Context, u *User) {
	if s.store == nil {
		return
	}

	var err error
	if u == nil {
		err = s.store.Delete(ctx, storage.SessionKey)
	} else {
		var raw []byte
		raw, err = json.Marshal(u)
		if err == nil {
			err = s.store.Set(ctx, storage.SessionKey, string(raw))
		}
	}
	if err != nil {
		s.log.Warn("failed to persist session", zap.Error(err))
	}
}

func sameID(a, b *User) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
