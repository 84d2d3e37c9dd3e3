// Package flash carries short status messages from one response to the next
// render. Messages that survive a redirect travel in a signed cookie that is
// cleared as soon as it is read.
package flash

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelDanger  Level = "danger"
)

const (
	DefaultCookieName = "flash"
	DefaultTTL        = 5 * time.Minute

	// MaxPending bounds how many messages a cookie carries; the oldest are
	// dropped first.
	MaxPending = 10
)

type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func Success(text string) Message { return Message{Level: LevelSuccess, Text: text} }

func Danger(text string) Message { return Message{Level: LevelDanger, Text: text} }

type claims struct {
	Messages []Message `json:"msgs"`
	jwt.RegisteredClaims
}

type Store struct {
	secret []byte
	name   string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

type Option func(*Store)

func WithCookieName(name string) Option { return func(s *Store) { s.name = name } }

func WithTTL(ttl time.Duration) Option { return func(s *Store) { s.ttl = ttl } }

// WithSecureCookie marks the cookie Secure, for deployments behind TLS.
func WithSecureCookie(secure bool) Option { return func(s *Store) { s.secure = secure } }

func NewStore(secret string, opts ...Option) *Store {
	s := &Store{
		secret: []byte(secret),
		name:   DefaultCookieName,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add queues msgs for the next render after any messages still pending
// from earlier requests.
func (s *Store) Add(c *gin.Context, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	if raw, err := c.Cookie(s.name); err == nil && raw != "" {
		if pending, err := s.decode(raw); err == nil {
			msgs = append(pending, msgs...)
		}
	}
	if len(msgs) > MaxPending {
		msgs = msgs[len(msgs)-MaxPending:]
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Messages: msgs,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, signed, int(s.ttl.Seconds()), "/", "", s.secure, true)
	return nil
}

// Consume returns the pending messages, if any, and clears the cookie.
// Cookies that fail verification are dropped without error.
func (s *Store) Consume(c *gin.Context) []Message {
	raw, err := c.Cookie(s.name)
	if err != nil || raw == "" {
		return nil
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, "", -1, "/", "", s.secure, true)

	msgs, err := s.decode(raw)
	if err != nil {
		log.Debug().Err(err).Msg("discarding invalid flash cookie")
		return nil
	}
	return msgs
}

func (s *Store) decode(raw string) ([]Message, error) {
	var cl claims
	token, err := jwt.ParseWithClaims(raw, &cl,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("flash: invalid token")
	}
	return cl.Messages, nil
}
