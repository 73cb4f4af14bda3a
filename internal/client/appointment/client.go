package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nguyenthanhduc0901/clinic-app/internal/api"
	"github.com/nguyenthanhduc0901/clinic-app/internal/client/listshape"
	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/apierror"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/validator"
)

// OwnEndpointMissingError signals that the self-service appointment
// endpoints are not deployed yet: the generic family answered 403, which in
// that context means "not rolled out", not "permission denied". Presentation
// code shows a waiting-on-backend state instead of a permission error.
type OwnEndpointMissingError struct {
	Message string
}

func (e *OwnEndpointMissingError) Error() string {
	if e.Message == "" {
		return "own endpoint is missing"
	}
	return e.Message
}

// Client issues appointment calls. The endpoint family is fixed at
// construction: the dedicated /me/appointments family, or the generic
// /appointments family with identity inferred server-side while the
// dedicated one is still being rolled out.
type Client struct {
	api            *api.Client
	useMeEndpoints bool
	validate       *validator.Validator
}

func NewClient(apiClient *api.Client, useMeEndpoints bool) *Client {
	return &Client{
		api:            apiClient,
		useMeEndpoints: useMeEndpoints,
		validate:       validator.New(),
	}
}

func (c *Client) List(ctx context.Context, params model.ListAppointmentsParams) (*model.ListAppointmentsResult, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 10
	}

	query := url.Values{}
	if params.Date != "" {
		query.Set("date", params.Date)
	}
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("limit", strconv.Itoa(params.Limit))

	var raw json.RawMessage
	if c.useMeEndpoints {
		if err := c.api.Get(ctx, "/me/appointments", query, &raw); err != nil {
			return nil, err
		}
		return normalizeList(raw)
	}

	// Generic-family calls are exploratory: a 401 here must not log the
	// user out, and a 403 means the rollout has not reached this backend.
	err := c.api.Get(ctx, "/appointments", query, &raw, api.SuppressLogout())
	if err != nil {
		return nil, reinterpretForbidden(err)
	}
	return normalizeList(raw)
}

func (c *Client) Create(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := c.validate.Validate(req); err != nil {
		return nil, err
	}

	var appt model.Appointment
	if c.useMeEndpoints {
		if err := c.api.Post(ctx, "/me/appointments", req, &appt); err != nil {
			return nil, err
		}
		return &appt, nil
	}

	if err := c.api.Post(ctx, "/appointments", req, &appt, api.SuppressLogout()); err != nil {
		return nil, reinterpretForbidden(err)
	}
	return &appt, nil
}

// Detail, Reschedule and Cancel exist only on the dedicated family; no
// fallback or reinterpretation applies to them.

func (c *Client) Detail(ctx context.Context, id int64) (*model.Appointment, error) {
	var appt model.Appointment
	if err := c.api.Get(ctx, fmt.Sprintf("/me/appointments/%d", id), nil, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) Reschedule(ctx context.Context, id int64, req model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	if err := c.validate.Validate(req); err != nil {
		return nil, err
	}

	var appt model.Appointment
	if err := c.api.Patch(ctx, fmt.Sprintf("/me/appointments/%d/reschedule", id), req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) Cancel(ctx context.Context, id int64) (*model.Appointment, error) {
	var appt model.Appointment
	if err := c.api.Patch(ctx, fmt.Sprintf("/me/appointments/%d/cancel", id), nil, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func reinterpretForbidden(err error) error {
	if apierror.IsForbidden(err) {
		return &OwnEndpointMissingError{Message: "self-service appointment endpoints are not available yet"}
	}
	return err
}

func normalizeList(raw json.RawMessage) (*model.ListAppointmentsResult, error) {
	data, total, err := listshape.Normalize[model.Appointment](raw)
	if err != nil {
		return nil, err
	}
	return &model.ListAppointmentsResult{Data: data, Total: total}, nil
}
