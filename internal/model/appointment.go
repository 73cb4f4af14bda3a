package model

type AppointmentStatus string

const (
	AppointmentStatusWaiting    AppointmentStatus = "waiting"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusCheckedIn  AppointmentStatus = "checked_in"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

// Appointment is the server-authoritative appointment resource. Status
// transitions happen server-side; the client only requests reschedule or
// cancel and reflects what comes back.
type Appointment struct {
	ID              int64             `json:"id"`
	PatientID       int64             `json:"patientId"`
	StaffID         *int64            `json:"staffId"`
	AppointmentDate string            `json:"appointmentDate"` // YYYY-MM-DD
	OrderNumber     int               `json:"orderNumber"`
	Status          AppointmentStatus `json:"status"`
	Notes           *string           `json:"notes,omitempty"`
	CreatedAt       string            `json:"createdAt,omitempty"`
	UpdatedAt       string            `json:"updatedAt,omitempty"`

	// Enriched branches returned by the /me endpoints.
	Patient *AppointmentPatient `json:"patient,omitempty"`
	Staff   *AppointmentStaff   `json:"staff,omitempty"`
}

type AppointmentPatient struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
}

type AppointmentStaff struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

type ListAppointmentsParams struct {
	Date   string            `json:"date,omitempty"`
	Status AppointmentStatus `json:"status,omitempty"`
	Page   int               `json:"page,omitempty"`
	Limit  int               `json:"limit,omitempty"`
}

type ListAppointmentsResult struct {
	Data  []Appointment `json:"data"`
	Total int           `json:"total"`
}

type CreateAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate" validate:"required,dateonly"`
	Notes           string `json:"notes,omitempty" validate:"max=1000"`
}

type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate" validate:"required,dateonly"`
}
