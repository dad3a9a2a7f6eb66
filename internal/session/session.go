// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps signed-in accounts in Valkey. The browser holds only
// a random id in the gl_session cookie; the account snapshot lives under
// "session:<id>" and slides forward on every request. Each account also owns
// a "user_sessions:<uuid>" set of its ids so it can be signed out everywhere.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	CookieName = "gl_session"
	DefaultTTL = 24 * time.Hour

	dataPrefix  = "session:"
	indexPrefix = "user_sessions:"
	idBytes     = 32
)

// ErrNoSession is returned when a request carries no session cookie.
var ErrNoSession = errors.New("no session cookie")

// Data is the account snapshot taken at login.
type Data struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	TwoFADone   bool      `json:"two_fa_done"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsAdmin reports whether the session belongs to a platform administrator.
func (d *Data) IsAdmin() bool {
	return d != nil && d.Role == "admin"
}

// IsClient reports whether the session belongs to a business owner.
func (d *Data) IsClient() bool {
	return d != nil && d.Role == "client"
}

// Store reads and writes sessions in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore returns a Store whose sessions expire after ttl of inactivity.
// A non-positive ttl means DefaultTTL. secure restricts the cookie to HTTPS.
func NewStore(client *redis.Client, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, secure: secure}
}

func dataKey(id string) string { return dataPrefix + id }

func indexKey(userID uuid.UUID) string { return indexPrefix + userID.String() }

func requestID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (s *Store) setCookie(w http.ResponseWriter, id string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// Create stores data under a fresh id, indexes it by account and sends the
// cookie.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) error {
	raw := make([]byte, idBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}
	id := hex.EncodeToString(raw)

	data.CreatedAt = time.Now().UTC()
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, dataKey(id), payload, s.ttl)
		pipe.SAdd(ctx, indexKey(data.UserID), id)
		pipe.Expire(ctx, indexKey(data.UserID), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	s.setCookie(w, id, int(s.ttl.Seconds()))
	return nil
}

// Load returns the request's session and pushes its expiry forward. A
// missing cookie or an expired session yields nil without error.
func (s *Store) Load(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := requestID(r)
	if !ok {
		return nil, nil
	}

	payload, err := s.client.GetEx(ctx, dataKey(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &data, nil
}

// Save replaces the request's session payload, as when 2FA completes.
func (s *Store) Save(ctx context.Context, r *http.Request, data *Data) error {
	id, ok := requestID(r)
	if !ok {
		return ErrNoSession
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, dataKey(id), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Destroy signs the request out and expires the cookie. Requests without a
// session are a no-op.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := requestID(r)
	if !ok {
		return nil
	}

	data, err := s.Load(ctx, r)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, dataKey(id))
		if data != nil {
			pipe.SRem(ctx, indexKey(data.UserID), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	s.setCookie(w, "", -1)
	return nil
}

// DestroyUser signs an account out of every browser and returns how many
// live sessions were removed.
func (s *Store) DestroyUser(ctx context.Context, userID uuid.UUID) (int, error) {
	ids, err := s.client.SMembers(ctx, indexKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, dataKey(id))
	}
	removed := 0
	if len(keys) > 0 {
		n, err := s.client.Del(ctx, keys...).Result()
		if err != nil {
			return 0, fmt.Errorf("delete user sessions: %w", err)
		}
		removed = int(n)
	}
	if err := s.client.Del(ctx, indexKey(userID)).Err(); err != nil {
		return removed, fmt.Errorf("delete session index: %w", err)
	}
	return removed, nil
}
