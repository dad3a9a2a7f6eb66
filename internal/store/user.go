// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all directory
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"guialocal/internal/models"
	"guialocal/internal/plans"
)

// ErrUserNotFound is returned by account updates that match no row.
var ErrUserNotFound = errors.New("user not found")

// UserStore keeps admin and business-owner accounts.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const selectUser = `
	SELECT id, email, password_hash, display_name, role, plan_tier,
	       totp_secret, totp_enabled, created_at, updated_at
	FROM users`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.PlanTier,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// normalizeEmail folds an address so sign-in ignores case and padding.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// findOne returns the single account matching where, or nil.
func (s *UserStore) findOne(what, where string, arg any) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(selectUser+` WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by %s: %w", what, err)
	}
	return u, nil
}

// FindByEmail looks an account up by address, ignoring case.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	return s.findOne("email", `lower(email) = $1`, normalizeEmail(email))
}

// FindByID returns the account with id, or nil.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	return s.findOne("id", `id = $1`, id)
}

// List returns admins first, then clients, oldest account first.
func (s *UserStore) List() ([]models.User, error) {
	rows, err := s.db.Query(selectUser + ` ORDER BY role = 'admin' DESC, created_at, email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Create registers an account. The address is stored lower-cased, the
// password as a bcrypt hash, and an empty tier means plans.Basic. A taken
// address yields ErrDuplicate.
func (s *UserStore) Create(email, password, displayName string, role models.Role, tier plans.Tier) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if tier == "" {
		tier = plans.Basic
	}

	u, err := scanUser(s.db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, plan_tier)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, password_hash, display_name, role, plan_tier,
		          totp_secret, totp_enabled, created_at, updated_at`,
		normalizeEmail(email), string(hash), strings.TrimSpace(displayName), role, tier,
	))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create user %s: %w", normalizeEmail(email), ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// update runs an UPDATE on one account, stamping updated_at. The account id
// is always the last placeholder.
func (s *UserStore) update(op string, id uuid.UUID, set string, args ...any) error {
	args = append(args, id)
	res, err := s.db.Exec(
		fmt.Sprintf(`UPDATE users SET %s, updated_at = NOW() WHERE id = $%d`, set, len(args)),
		args...,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrUserNotFound)
	}
	return nil
}

// SetPlan moves a client to another subscription tier.
func (s *UserStore) SetPlan(id uuid.UUID, tier plans.Tier) error {
	return s.update("set plan", id, `plan_tier = $1`, tier)
}

// SetTOTPSecret stores the secret generated at 2FA setup. The factor stays
// disabled until EnableTOTP.
func (s *UserStore) SetTOTPSecret(id uuid.UUID, secret string) error {
	return s.update("set totp secret", id, `totp_secret = $1, totp_enabled = FALSE`, secret)
}

// EnableTOTP activates 2FA after the first valid code.
func (s *UserStore) EnableTOTP(id uuid.UUID) error {
	return s.update("enable totp", id, `totp_enabled = TRUE`)
}

// ResetTOTP forgets the authenticator so the account enrolls again.
func (s *UserStore) ResetTOTP(id uuid.UUID) error {
	return s.update("reset totp", id, `totp_secret = NULL, totp_enabled = FALSE`)
}

// CheckPassword reports whether password matches the account's hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
