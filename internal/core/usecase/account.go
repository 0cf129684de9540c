package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/ai4juris/juriscli/internal/core/domain"
	"github.com/ai4juris/juriscli/internal/core/ports"
)

// AccountFlow handles sign-in, registration, sign-out and profile edits.
// Successful sign-in and registration are the only paths that write the
// session store.
type AccountFlow struct {
	api   ports.AuthAPI
	store ports.SessionStore
	notes ports.Notifier
}

func NewAccountFlow(api ports.AuthAPI, store ports.SessionStore, notes ports.Notifier) *AccountFlow {
	return &AccountFlow{api: api, store: store, notes: notes}
}

// SignIn authenticates and persists the returned tokens. Empty fields are
// rejected before any request goes out.
func (a *AccountFlow) SignIn(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		a.notes.Error("Email e password são obrigatórios.")
		return nil, domain.WrapError(domain.ErrInvalidInput, "sign in", errors.New("missing credentials"))
	}

	account, tokens, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.notes.Error(domain.UserMessage(err, "Credenciais inválidas."))
		return nil, err
	}
	if err := a.store.Set(tokens); err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "persist session", err)
	}
	return account, nil
}

// Register creates the account and signs it in. The password confirmation
// is checked locally before any request goes out.
func (a *AccountFlow) Register(ctx context.Context, name, email, password, confirm string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		a.notes.Error("Todos os campos são obrigatórios.")
		return nil, domain.WrapError(domain.ErrInvalidInput, "register", errors.New("missing fields"))
	}
	if password != confirm {
		a.notes.Error("As passwords não coincidem.")
		return nil, domain.WrapError(domain.ErrInvalidInput, "register", errors.New("password mismatch"))
	}

	account, tokens, err := a.api.Register(ctx, name, email, password, confirm)
	if err != nil {
		a.notes.Error(domain.UserMessage(err, "Erro ao criar conta."))
		return nil, err
	}
	if err := a.store.Set(tokens); err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "persist session", err)
	}
	return account, nil
}

// SignOut drops the local session. The server keeps no session state worth
// revoking.
func (a *AccountFlow) SignOut() error {
	return a.store.Clear()
}

func (a *AccountFlow) Profile(ctx context.Context) (*domain.Account, error) {
	return a.api.Profile(ctx)
}

// ProfileForm carries the edit surface's fields; password fields stay empty
// unless the user is changing the password.
type ProfileForm struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// UpdateProfile validates the form against the current account and submits
// the changes. An unchanged form, a missing current password or a password
// confirmation mismatch never reach the network.
func (a *AccountFlow) UpdateProfile(ctx context.Context, current domain.Account, form ProfileForm) (*domain.Account, error) {
	name := strings.TrimSpace(form.Name)
	email := strings.TrimSpace(form.Email)

	changed := (name != "" && name != current.Name) ||
		(email != "" && email != current.Email) ||
		form.NewPassword != ""
	if !changed {
		a.notes.Error("Não fizeste nenhuma alteração.")
		return nil, domain.WrapError(domain.ErrInvalidInput, "update profile", errors.New("no changes"))
	}
	if form.CurrentPassword == "" {
		a.notes.Error("Indica a password atual para confirmar as alterações.")
		return nil, domain.WrapError(domain.ErrInvalidInput, "update profile", errors.New("missing current password"))
	}
	if form.NewPassword != "" && form.NewPassword != form.ConfirmPassword {
		a.notes.Error("As passwords não coincidem.")
		return nil, domain.WrapError(domain.ErrInvalidInput, "update profile", errors.New("password mismatch"))
	}

	update := domain.ProfileUpdate{
		Name:            name,
		Email:           email,
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
		ConfirmPassword: form.ConfirmPassword,
	}
	account, err := a.api.UpdateProfile(ctx, update)
	if err != nil {
		a.notes.Error(domain.UserMessage(err, "Erro ao atualizar perfil."))
		return nil, err
	}
	a.notes.Success("Perfil atualizado.")
	return account, nil
}
