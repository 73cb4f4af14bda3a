package query

import (
	"context"

	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
)

func (q *Queries) ListAppointments(ctx context.Context, params model.ListAppointmentsParams) (*model.ListAppointmentsResult, error) {
	key := NewKey(ResourceAppointments, OpList, params)
	var result model.ListAppointmentsResult
	err := q.cache.Do(ctx, key, ResourceAppointments, q.cfg.ListStaleness, &result, func(ctx context.Context) (interface{}, error) {
		return q.appointments.List(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RefetchAppointments bypasses the staleness window for one filter set.
// Callers treat this as the authority after a mutation succeeds.
func (q *Queries) RefetchAppointments(ctx context.Context, params model.ListAppointmentsParams) (*model.ListAppointmentsResult, error) {
	q.cache.Invalidate(NewKey(ResourceAppointments, OpList, params).String())
	return q.ListAppointments(ctx, params)
}

func (q *Queries) AppointmentDetail(ctx context.Context, id int64) (*model.Appointment, error) {
	key := DetailKey(ResourceAppointments, OpDetail, id)
	var appt model.Appointment
	err := q.cache.Do(ctx, key, ResourceAppointments, q.cfg.ListStaleness, &appt, func(ctx context.Context) (interface{}, error) {
		return q.appointments.Detail(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (q *Queries) CreateAppointment(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	appt, err := q.appointments.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	q.cache.Invalidate(createAppointmentEdges()...)
	return appt, nil
}

func (q *Queries) RescheduleAppointment(ctx context.Context, id int64, req model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	appt, err := q.appointments.Reschedule(ctx, id, req)
	if err != nil {
		return nil, err
	}
	q.cache.Invalidate(changeAppointmentEdges(id)...)
	return appt, nil
}

func (q *Queries) CancelAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	appt, err := q.appointments.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	q.cache.Invalidate(changeAppointmentEdges(id)...)
	return appt, nil
}
