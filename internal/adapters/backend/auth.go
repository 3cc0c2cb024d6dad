package backend

import (
	"context"
	"net/http"

	"github.com/workai-app/workai-cli/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Plan      string `json:"plan"`
	IsYearly  bool   `json:"isYearly"`
}

type userSchema struct {
	ID           string `json:"_id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Plan         string `json:"plan"`
	IsYearly     bool   `json:"isYearly"`
	IsSubscriber bool   `json:"isSubscriber"`
}

type authResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Token string     `json:"token"`
		User  userSchema `json:"user"`
	} `json:"data"`
}

type meResponse struct {
	Data struct {
		User userSchema `json:"user"`
	} `json:"data"`
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	var resp authResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   loginRequest{Email: email, Password: password},
	}, &resp); err != nil {
		return domain.Session{}, err
	}

	return domain.Session{BearerToken: resp.Data.Token, User: userFromSchema(resp.Data.User)}, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	var resp authResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body: registerRequest{
			FirstName: reg.FirstName,
			LastName:  reg.LastName,
			Email:     reg.Email,
			Password:  reg.Password,
			Plan:      reg.Plan,
			IsYearly:  reg.IsYearly,
		},
	}, &resp); err != nil {
		return domain.Session{}, err
	}

	return domain.Session{BearerToken: resp.Data.Token, User: userFromSchema(resp.Data.User)}, nil
}

// Me validates a session bearer token and returns the user it belongs
// to.
func (c *Client) Me(ctx context.Context, bearer string) (domain.User, error) {
	var resp meResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/api/auth/me",
		bearer: bearer,
	}, &resp); err != nil {
		return domain.User{}, err
	}

	return userFromSchema(resp.Data.User), nil
}

// RefreshToken dispatches a refresh-token exchange to the provider's
// endpoint. Both providers return the same rotated-pair shape.
func (c *Client) RefreshToken(ctx context.Context, provider domain.Provider, refreshToken string) (domain.TokenPair, error) {
	var resp TokenPairResponse
	var err error

	switch provider {
	case domain.ProviderZoom:
		resp, err = c.ZoomRefreshToken(ctx, refreshToken)
	case domain.ProviderTeams:
		resp, err = c.TeamsRefreshToken(ctx, refreshToken)
	default:
		return domain.TokenPair{}, domain.ErrNotConnected
	}
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

func userFromSchema(u userSchema) domain.User {
	return domain.User{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Plan:         u.Plan,
		IsYearly:     u.IsYearly,
		IsSubscriber: u.IsSubscriber,
	}
}
