package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

func testAccountFlow() (*AccountFlow, *fakeAuthAPI, *fakeSessionStore, *fakeNotifier) {
	api := &fakeAuthAPI{
		account: domain.Account{ID: 1, Name: "Ana", Email: "ana@example.com"},
		tokens:  domain.Tokens{AccessToken: "acc", RefreshToken: "ref"},
	}
	store := &fakeSessionStore{}
	notes := &fakeNotifier{}
	return NewAccountFlow(api, store, notes), api, store, notes
}

func TestSignInPersistsTokens(t *testing.T) {
	flow, _, store, _ := testAccountFlow()

	account, err := flow.SignIn(context.Background(), " ana@example.com ", "secret")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if account.Email != "ana@example.com" {
		t.Fatalf("account = %+v", account)
	}
	tokens, ok := store.Get()
	if !ok || tokens.AccessToken != "acc" {
		t.Fatalf("stored tokens = %+v, held %v", tokens, ok)
	}
}

func TestSignInEmptyFieldsNoRequest(t *testing.T) {
	flow, api, store, notes := testAccountFlow()

	_, err := flow.SignIn(context.Background(), "", "secret")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("SignIn() error = %v, want invalid input", err)
	}
	if len(api.logins) != 0 {
		t.Fatalf("logins = %v, want none", api.logins)
	}
	if _, ok := store.Get(); ok {
		t.Fatal("session written on rejected sign-in")
	}
	if notes.lastError() == "" {
		t.Fatal("no notification on rejected sign-in")
	}
}

func TestSignInFailureLeavesStoreEmpty(t *testing.T) {
	flow, api, store, notes := testAccountFlow()
	api.loginErr = errors.New("401")

	if _, err := flow.SignIn(context.Background(), "ana@example.com", "wrong"); err == nil {
		t.Fatal("SignIn() expected error")
	}
	if _, ok := store.Get(); ok {
		t.Fatal("session written on failed sign-in")
	}
	if notes.lastError() != "Credenciais inválidas." {
		t.Fatalf("notification = %q", notes.lastError())
	}
}

func TestRegisterPasswordMismatchNoRequest(t *testing.T) {
	flow, api, _, notes := testAccountFlow()

	_, err := flow.Register(context.Background(), "Ana", "ana@example.com", "abc", "abd")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("Register() error = %v, want invalid input", err)
	}
	if len(api.registers) != 0 {
		t.Fatalf("registers = %v, want none", api.registers)
	}
	if notes.lastError() != "As passwords não coincidem." {
		t.Fatalf("notification = %q", notes.lastError())
	}
}

func TestRegisterSignsIn(t *testing.T) {
	flow, _, store, _ := testAccountFlow()

	if _, err := flow.Register(context.Background(), "Ana", "ana@example.com", "abc", "abc"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, ok := store.Get(); !ok {
		t.Fatal("session not written after registration")
	}
}

func TestSignOutClearsSession(t *testing.T) {
	flow, _, store, _ := testAccountFlow()
	if _, err := flow.SignIn(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if err := flow.SignOut(); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Fatal("session survives sign-out")
	}
}

func TestUpdateProfileNoChangesRejected(t *testing.T) {
	flow, api, _, notes := testAccountFlow()
	current := domain.Account{Name: "Ana", Email: "ana@example.com"}

	_, err := flow.UpdateProfile(context.Background(), current, ProfileForm{
		Name:            "Ana",
		Email:           "ana@example.com",
		CurrentPassword: "secret",
	})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("UpdateProfile() error = %v, want invalid input", err)
	}
	if api.lastUpdate != (domain.ProfileUpdate{}) {
		t.Fatalf("request issued: %+v", api.lastUpdate)
	}
	if notes.lastError() != "Não fizeste nenhuma alteração." {
		t.Fatalf("notification = %q", notes.lastError())
	}
}

func TestUpdateProfileRequiresCurrentPassword(t *testing.T) {
	flow, api, _, _ := testAccountFlow()
	current := domain.Account{Name: "Ana", Email: "ana@example.com"}

	_, err := flow.UpdateProfile(context.Background(), current, ProfileForm{Name: "Ana Maria"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("UpdateProfile() error = %v, want invalid input", err)
	}
	if api.lastUpdate != (domain.ProfileUpdate{}) {
		t.Fatalf("request issued: %+v", api.lastUpdate)
	}
}

func TestUpdateProfileSubmitsChanges(t *testing.T) {
	flow, api, _, notes := testAccountFlow()
	current := domain.Account{Name: "Ana", Email: "ana@example.com"}

	_, err := flow.UpdateProfile(context.Background(), current, ProfileForm{
		Name:            "Ana Maria",
		Email:           "ana@example.com",
		CurrentPassword: "secret",
		NewPassword:     "nova",
		ConfirmPassword: "nova",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if api.lastUpdate.Name != "Ana Maria" || api.lastUpdate.NewPassword != "nova" {
		t.Fatalf("update = %+v", api.lastUpdate)
	}
	if notes.lastSuccess() != "Perfil atualizado." {
		t.Fatalf("notification = %q", notes.lastSuccess())
	}
}
