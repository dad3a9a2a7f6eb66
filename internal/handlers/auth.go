// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"guialocal/internal/forms"
	"guialocal/internal/middleware"
	"guialocal/internal/models"
	"guialocal/internal/session"
	"guialocal/internal/store"
)

// totpIssuer is the name authenticator apps show next to the account.
const totpIssuer = "Guia Local"

// Second factor states reported by Login and Me.
const (
	twoFactorNone   = "none"
	twoFactorSetup  = "setup"
	twoFactorVerify = "verify"
	twoFactorDone   = "done"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

// twoFactorState tells the front end what the account still owes.
func twoFactorState(u *models.User, sess *session.Data) string {
	switch {
	case !u.Needs2FA():
		return twoFactorNone
	case sess != nil && sess.TwoFADone:
		return twoFactorDone
	case !u.TOTPEnabled:
		return twoFactorSetup
	default:
		return twoFactorVerify
	}
}

// Login checks the credentials and starts a session. Admin sessions start
// without 2FA and must pass TwoFAVerify before reaching the panel.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var form forms.LoginForm
	if !bind(w, r, &form) {
		return
	}

	user, err := a.userStore.FindByEmail(form.Email)
	if err != nil {
		serverError(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, form.Password) {
		writeError(w, http.StatusUnauthorized, "E-mail ou senha inválidos.")
		return
	}

	sess := &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   !user.Needs2FA(),
	}
	if err := a.sessions.Create(r.Context(), w, sess); err != nil {
		serverError(w, "session create failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":       user,
		"two_factor": twoFactorState(user, sess),
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		serverError(w, "session destroy failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in account with its plan variant.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		serverError(w, "load current user failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Faça login para continuar.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       user,
		"plan":       user.Plan(),
		"two_factor": twoFactorState(user, sess),
	})
}

// TwoFASetup generates a TOTP secret for an account that has not enrolled
// yet and returns it with a QR code for authenticator apps.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		serverError(w, "user lookup for 2fa failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Faça login para continuar.")
		return
	}
	if user.TOTPEnabled {
		writeError(w, http.StatusConflict, "A verificação em duas etapas já está ativa.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		serverError(w, "totp generate failed", err)
		return
	}
	if err := a.userStore.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		serverError(w, "save totp secret failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		serverError(w, "qr code generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"url":     key.URL(),
		"qr_code": "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAVerify checks a TOTP code. The first valid code enables 2FA on the
// account; every valid code completes the session.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	var form forms.TwoFAForm
	if !bind(w, r, &form) {
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		serverError(w, "user lookup for 2fa failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Faça login para continuar.")
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusConflict, "Configure a verificação em duas etapas primeiro.")
		return
	}
	if !totp.Validate(form.Code, *user.TOTPSecret) {
		fieldError(w, "code", "Código inválido. Tente novamente.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			serverError(w, "enable totp failed", err)
			return
		}
		user.TOTPEnabled = true
	}

	sess.TwoFADone = true
	if err := a.sessions.Save(r.Context(), r, sess); err != nil {
		serverError(w, "session update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":       user,
		"two_factor": twoFactorDone,
	})
}

// ResetUserTwoFA clears an account's authenticator and signs it out of every
// browser, so the next login enrolls again.
func (a *Auth) ResetUserTwoFA(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	user, err := a.userStore.FindByID(id)
	if err != nil {
		serverError(w, "find user failed", err, "id", id)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Usuário não encontrado.")
		return
	}
	if err := a.userStore.ResetTOTP(id); err != nil {
		serverError(w, "reset 2fa failed", err, "id", id)
		return
	}

	revoked, err := a.sessions.DestroyUser(r.Context(), id)
	if err != nil {
		slog.Warn("revoke sessions after 2fa reset failed", "user_id", id, "error", err)
	}
	slog.Info("2fa reset", "user_id", id, "sessions_revoked", revoked)
	w.WriteHeader(http.StatusNoContent)
}
