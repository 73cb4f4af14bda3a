package query

import (
	"context"

	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
)

// Identity reads use the longer aggregate staleness window: they change
// rarely and back more screens than any single list.

func (q *Queries) Me(ctx context.Context) (*model.Me, error) {
	var me model.Me
	err := q.cache.Do(ctx, meKey, ResourceAuth, q.cfg.AggregateStaleness, &me, func(ctx context.Context) (interface{}, error) {
		return q.accounts.Me(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &me, nil
}

func (q *Queries) RefetchMe(ctx context.Context) (*model.Me, error) {
	q.cache.Invalidate(meKey.String())
	return q.Me(ctx)
}

func (q *Queries) Profile(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := q.cache.Do(ctx, profileKey, ResourceAuth, q.cfg.AggregateStaleness, &profile, func(ctx context.Context) (interface{}, error) {
		return q.accounts.Profile(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (q *Queries) Permissions(ctx context.Context) (*model.PermissionsResponse, error) {
	var perms model.PermissionsResponse
	err := q.cache.Do(ctx, permissionsKey, ResourceAuth, q.cfg.AggregateStaleness, &perms, func(ctx context.Context) (interface{}, error) {
		return q.accounts.Permissions(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &perms, nil
}

func (q *Queries) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.UserProfile, error) {
	profile, err := q.accounts.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	q.cache.Invalidate(updateProfileEdges()...)
	return profile, nil
}

// Login delegates to the account client (which persists the credential) and
// clears any data cached for a previous session.
func (q *Queries) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	resp, err := q.accounts.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	q.cache.EvictAll()
	return resp, nil
}
