package account

import (
	"context"

	"github.com/nguyenthanhduc0901/clinic-app/internal/api"
	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
	"github.com/nguyenthanhduc0901/clinic-app/internal/token"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/validator"
)

// Client handles authentication and profile calls. Login is the only
// operation that writes the credential; everything else relies on the
// shared client attaching it.
type Client struct {
	api      *api.Client
	tokens   *token.Store
	validate *validator.Validator
}

func NewClient(apiClient *api.Client, tokens *token.Store) *Client {
	return &Client{
		api:      apiClient,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Login authenticates and persists the returned credential. A token that
// cannot be stored is treated as a failed login: every later call would be
// unauthenticated anyway.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := c.validate.Validate(req); err != nil {
		return nil, err
	}

	var resp model.LoginResponse
	if err := c.api.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}

	if err := c.tokens.Set(resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Profile(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.api.Get(ctx, "/auth/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.UserProfile, error) {
	if err := c.validate.Validate(req); err != nil {
		return nil, err
	}

	var profile model.UserProfile
	if err := c.api.Put(ctx, "/auth/profile", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) Permissions(ctx context.Context) (*model.PermissionsResponse, error) {
	var perms model.PermissionsResponse
	if err := c.api.Get(ctx, "/auth/my-permissions", nil, &perms); err != nil {
		return nil, err
	}
	return &perms, nil
}

// Me fetches the aggregate identity payload.
func (c *Client) Me(ctx context.Context) (*model.Me, error) {
	var me model.Me
	if err := c.api.Get(ctx, "/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}
