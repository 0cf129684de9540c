package workspace

import (
	"context"
	"fmt"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

type AuthService struct {
	client *Client
}

func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

type accountResponse struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Tokens domain.Tokens `json:"tokens"`
}

func (r accountResponse) account() *domain.Account {
	return &domain.Account{ID: r.ID, Name: r.Name, Email: r.Email}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, domain.Tokens, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp accountResponse
	if err := s.client.postJSONPublic(ctx, "/login/", payload, &resp, "login"); err != nil {
		return nil, domain.Tokens{}, err
	}
	if !resp.Tokens.Valid() {
		return nil, domain.Tokens{}, fmt.Errorf("login: response carries no access token")
	}
	return resp.account(), resp.Tokens, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password, confirmPassword string) (*domain.Account, domain.Tokens, error) {
	payload := map[string]string{
		"name":             name,
		"email":            email,
		"password":         password,
		"confirm_password": confirmPassword,
	}

	var resp accountResponse
	if err := s.client.postJSONPublic(ctx, "/register/", payload, &resp, "register"); err != nil {
		return nil, domain.Tokens{}, err
	}
	if !resp.Tokens.Valid() {
		return nil, domain.Tokens{}, fmt.Errorf("register: response carries no access token")
	}
	return resp.account(), resp.Tokens, nil
}

func (s *AuthService) Profile(ctx context.Context) (*domain.Account, error) {
	var account domain.Account
	if err := s.client.getJSON(ctx, "/profile/", &account, "profile"); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Account, error) {
	var account domain.Account
	if err := s.client.patchJSON(ctx, "/profile/", update, &account, "update profile"); err != nil {
		return nil, err
	}
	return &account, nil
}
