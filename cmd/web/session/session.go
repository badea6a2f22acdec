package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/auth"
	"hey-sainty/config"
)

// MinSecretLength 는 쿠키 서명 키의 최소 길이이다.
const MinSecretLength = 32

var (
	ErrNoSession      = errors.New("session: not signed in")
	ErrSessionExpired = errors.New("session: expired")
)

const (
	keyToken     = "token"
	keyUserID    = "user_id"
	keyUserName  = "user_name"
	keyExpiresAt = "expires_at"
)

// Session 은 로그인한 사용자 한 명의 상태이다. 원격 API 토큰을 들고 있으며
// Manager.Begin 으로 시작해 Manager.End 로 끝난다.
type Session struct {
	Token     string
	UserID    string
	UserName  string
	ExpiresAt time.Time
}

// Manager 는 서명된 쿠키에 Session 을 저장/조회한다.
type Manager struct {
	store  *sessions.CookieStore
	name   string
	maxAge time.Duration
	now    func() time.Time
}

// NewManager 는 설정으로 Manager 를 만든다.
// Secret 이 비어 있으면 프로세스 수명 동안만 유효한 임의 키를 생성한다.
func NewManager(cfg config.SessionConfig) (*Manager, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(MinSecretLength)
		logger.Log.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSecretLength)
	}

	name := cfg.CookieName
	if name == "" {
		name = "sainty_session"
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 86400
	}

	store := sessions.NewCookieStore(secret)
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.Secure
	store.Options.SameSite = http.SameSiteLaxMode

	return &Manager{
		store:  store,
		name:   name,
		maxAge: time.Duration(maxAge) * time.Second,
		now:    time.Now,
	}, nil
}

// Begin 은 로그인 직후 호출되어 토큰으로 새 세션을 만들고 쿠키에 기록한다.
// 토큰이 exp 클레임을 가지면 쿠키 수명은 그보다 길어지지 않는다.
func (m *Manager) Begin(w http.ResponseWriter, r *http.Request, token, userName string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}

	now := m.now()
	s := Session{Token: token, UserName: userName, ExpiresAt: now.Add(m.maxAge)}
	info, err := auth.Inspect(token, now)
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return Session{}, ErrSessionExpired
	case err == nil:
		s.UserID = info.UserID
		if !info.ExpiresAt.IsZero() && info.ExpiresAt.Before(s.ExpiresAt) {
			s.ExpiresAt = info.ExpiresAt
		}
	}

	// 깨진 쿠키가 있어도 새 세션으로 덮어쓴다.
	sess, _ := m.store.Get(r, m.name)
	sess.Values[keyToken] = s.Token
	sess.Values[keyUserID] = s.UserID
	sess.Values[keyUserName] = s.UserName
	sess.Values[keyExpiresAt] = s.ExpiresAt.Unix()
	sess.Options.MaxAge = int(s.ExpiresAt.Sub(now).Seconds())
	if err := sess.Save(r, w); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Load 는 요청 쿠키의 세션을 읽는다. 없거나 만료되었으면 ErrNoSession 을 반환한다.
func (m *Manager) Load(r *http.Request) (Session, error) {
	sess, err := m.store.Get(r, m.name)
	if err != nil || sess.IsNew {
		return Session{}, ErrNoSession
	}

	token, _ := sess.Values[keyToken].(string)
	if token == "" {
		return Session{}, ErrNoSession
	}
	s := Session{Token: token}
	s.UserID, _ = sess.Values[keyUserID].(string)
	s.UserName, _ = sess.Values[keyUserName].(string)
	if exp, ok := sess.Values[keyExpiresAt].(int64); ok {
		s.ExpiresAt = time.Unix(exp, 0)
	}
	if !s.ExpiresAt.IsZero() && !m.now().Before(s.ExpiresAt) {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// FromToken 은 쿠키 없이 헤더로 토큰을 보낸 클라이언트(JSON API, CLI)의 세션을 만든다.
// 저장하지 않으며 요청 하나 동안만 쓰인다.
func (m *Manager) FromToken(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	s := Session{Token: token}
	info, err := auth.Inspect(token, m.now())
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return Session{}, ErrSessionExpired
	case err == nil:
		s.UserID = info.UserID
		s.ExpiresAt = info.ExpiresAt
	}
	return s, nil
}

// End 는 로그아웃 시 세션 쿠키를 지운다.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
