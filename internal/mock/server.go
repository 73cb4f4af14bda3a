// Package mock hosts an in-process stand-in for the clinic backend. The CLI
// runs against it in mock mode and tests use it where a full httptest
// handler would be repetitive.
package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/apierror"
)

const (
	Token    = "mock-token-123"
	Email    = "patient@test.com"
	Password = "test123"
)

// Server serves the portal endpoint surface with canned data.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	nextID       int64
	appointments []model.Appointment
}

func NewServer() *Server {
	s := &Server{nextID: 100}
	s.appointments = []model.Appointment{
		{ID: 1, PatientID: 1, AppointmentDate: "2025-01-20", OrderNumber: 1, Status: model.AppointmentStatusCompleted},
		{ID: 2, PatientID: 1, AppointmentDate: "2025-02-14", OrderNumber: 3, Status: model.AppointmentStatusConfirmed},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("GET /auth/profile", s.authed(s.profile))
	mux.HandleFunc("PUT /auth/profile", s.authed(s.updateProfile))
	mux.HandleFunc("GET /auth/my-permissions", s.authed(s.permissions))
	mux.HandleFunc("GET /me", s.authed(s.me))
	mux.HandleFunc("GET /me/appointments", s.authed(s.listAppointments))
	mux.HandleFunc("POST /me/appointments", s.authed(s.createAppointment))
	mux.HandleFunc("GET /me/appointments/{id}", s.authed(s.appointmentDetail))
	mux.HandleFunc("PATCH /me/appointments/{id}/reschedule", s.authed(s.reschedule))
	mux.HandleFunc("PATCH /me/appointments/{id}/cancel", s.authed(s.cancel))
	mux.HandleFunc("GET /me/invoices", s.authed(s.listInvoices))
	mux.HandleFunc("GET /me/invoices/{id}", s.authed(s.invoiceDetail))
	mux.HandleFunc("GET /me/invoices/{id}/export.pdf", s.authed(s.pdf))
	mux.HandleFunc("GET /me/medical-records", s.authed(s.listRecords))
	mux.HandleFunc("GET /me/medical-records/{id}", s.authed(s.recordDetail))
	mux.HandleFunc("GET /me/medical-records/{id}/attachments", s.authed(s.attachments))
	mux.HandleFunc("GET /me/medical-records/{id}/export.pdf", s.authed(s.pdf))
	mux.HandleFunc("GET /medical-records/{recordId}/attachments/{attachmentId}/download", s.authed(s.download))
	// The generic family answers 403 so fallback-protocol behavior can be
	// exercised end to end.
	mux.HandleFunc("/appointments", s.authed(s.forbidden))

	s.Server = httptest.NewServer(mux)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apierror.New(status, code, message))
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Phiên đăng nhập đã hết hạn")
			return
		}
		next(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Dữ liệu không hợp lệ")
		return
	}
	if req.Email != Email || req.Password != Password {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email hoặc mật khẩu không đúng")
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{
		AccessToken: Token,
		User: model.LoginUser{
			ID:    "1",
			Email: Email,
			Role:  model.Role{Name: "patient"},
		},
	})
}

func (s *Server) profile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.UserProfile{
		ID:          "1",
		Email:       Email,
		Name:        "Nguyễn Văn A",
		Role:        model.Role{Name: "patient"},
		Phone:       "0123456789",
		DateOfBirth: "1990-01-01",
		Address:     "123 Đường ABC, Quận 1, TP.HCM",
	})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Dữ liệu không hợp lệ")
		return
	}
	profile := model.UserProfile{ID: "1", Email: Email, Name: "Nguyễn Văn A", Role: model.Role{Name: "patient"}}
	if req.Email != nil {
		profile.Email = *req.Email
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) permissions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.PermissionsResponse{Permissions: []string{
		"appointment:view_own",
		"appointment:create_own",
		"medical_record:view_own",
		"invoice:view_own",
	}})
}

func (s *Server) me(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Me{
		ID:    "1",
		Email: Email,
		Role:  model.Role{Name: "patient"},
		Patient: &model.Patient{
			ID:        1,
			FullName:  "Nguyễn Văn A",
			BirthYear: 1990,
			Phone:     "0123456789",
		},
		Permissions: []string{"appointment:view_own"},
	})
}

func (s *Server) listAppointments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := r.URL.Query().Get("status")
	date := r.URL.Query().Get("date")
	matched := make([]model.Appointment, 0, len(s.appointments))
	for _, appt := range s.appointments {
		if status != "" && string(appt.Status) != status {
			continue
		}
		if date != "" && appt.AppointmentDate != date {
			continue
		}
		matched = append(matched, appt)
	}
	writeJSON(w, http.StatusOK, model.ListAppointmentsResult{Data: matched, Total: len(matched)})
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AppointmentDate == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Ngày hẹn không hợp lệ")
		return
	}

	s.mu.Lock()
	s.nextID++
	appt := model.Appointment{
		ID:              s.nextID,
		PatientID:       1,
		AppointmentDate: req.AppointmentDate,
		OrderNumber:     len(s.appointments) + 1,
		Status:          model.AppointmentStatusWaiting,
	}
	if req.Notes != "" {
		notes := req.Notes
		appt.Notes = &notes
	}
	s.appointments = append(s.appointments, appt)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, appt)
}

func (s *Server) findAppointment(r *http.Request) (*model.Appointment, int) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return nil, -1
	}
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			return &s.appointments[i], i
		}
	}
	return nil, -1
}

func (s *Server) appointmentDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, idx := s.findAppointment(r)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Không tìm thấy lịch hẹn")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) reschedule(w http.ResponseWriter, r *http.Request) {
	var req model.RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AppointmentDate == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Ngày hẹn không hợp lệ")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, idx := s.findAppointment(r)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Không tìm thấy lịch hẹn")
		return
	}
	appt.AppointmentDate = req.AppointmentDate
	appt.Status = model.AppointmentStatusWaiting
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) cancel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, idx := s.findAppointment(r)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Không tìm thấy lịch hẹn")
		return
	}
	if appt.Status == model.AppointmentStatusCompleted {
		writeError(w, http.StatusConflict, "INVALID_STATUS", "Lịch hẹn đã hoàn thành")
		return
	}
	appt.Status = model.AppointmentStatusCancelled
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) listInvoices(w http.ResponseWriter, _ *http.Request) {
	method := "cash"
	writeJSON(w, http.StatusOK, model.ListInvoicesResult{
		Data: []model.Invoice{
			{ID: 1, MedicalRecordID: 1, ExaminationFee: "150000", MedicineFee: "82500", TotalFee: "232500", PaymentMethod: &method, Status: model.InvoiceStatusPaid, CreatedAt: "2025-01-20T09:00:00Z", UpdatedAt: "2025-01-20T09:30:00Z"},
			{ID: 2, MedicalRecordID: 2, ExaminationFee: "150000", MedicineFee: "0", TotalFee: "150000", Status: model.InvoiceStatusPending, CreatedAt: "2025-02-14T08:00:00Z", UpdatedAt: "2025-02-14T08:00:00Z"},
		},
		Total: 2,
	})
}

func (s *Server) invoiceDetail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if id != 1 && id != 2 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Không tìm thấy hóa đơn")
		return
	}
	writeJSON(w, http.StatusOK, model.InvoiceDetail{
		Invoice: model.Invoice{ID: id, MedicalRecordID: id, ExaminationFee: "150000", MedicineFee: "82500", TotalFee: "232500", Status: model.InvoiceStatusPaid, CreatedAt: "2025-01-20T09:00:00Z", UpdatedAt: "2025-01-20T09:30:00Z"},
		Patient: model.Patient{ID: 1, FullName: "Nguyễn Văn A", BirthYear: 1990},
		Doctor:  model.Doctor{ID: 7, FullName: "BS. Trần Thị B"},
		Prescriptions: []model.Prescription{
			{ID: 1, MedicalRecordID: id, MedicineID: 12, Quantity: 10, UsageInstructionID: 3, MedicineName: "Paracetamol 500mg"},
		},
	})
}

func (s *Server) listRecords(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.ListMedicalRecordsResult{
		Data: []model.MedicalRecord{
			{ID: 1, ExaminationDate: "2025-01-20", Diagnosis: "Viêm họng cấp", Status: model.RecordStatusCompleted},
			{ID: 2, ExaminationDate: "2025-02-14", Diagnosis: "Khám tổng quát", Status: model.RecordStatusPending},
		},
		Total: 2,
	})
}

func (s *Server) recordDetail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if id != 1 && id != 2 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Không tìm thấy hồ sơ")
		return
	}
	writeJSON(w, http.StatusOK, model.MedicalRecordDetail{
		MedicalRecord: model.MedicalRecord{ID: id, ExaminationDate: "2025-01-20", Diagnosis: "Viêm họng cấp", Status: model.RecordStatusCompleted},
		Prescriptions: []model.Prescription{
			{ID: 1, MedicalRecordID: id, MedicineID: 12, Quantity: 10, UsageInstructionID: 3, MedicineName: "Paracetamol 500mg", UsageInstruction: "Uống sau ăn"},
		},
	})
}

func (s *Server) attachments(w http.ResponseWriter, r *http.Request) {
	fileType := "application/pdf"
	writeJSON(w, http.StatusOK, model.ListAttachmentsResult{
		Data: []model.Attachment{
			{ID: 1, FileName: fmt.Sprintf("xet-nghiem-%s.pdf", r.PathValue("id")), FileType: &fileType, CreatedAt: "2025-01-20T10:00:00Z"},
		},
	})
}

func (s *Server) pdf(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write([]byte("%PDF-1.4 mock"))
}

func (s *Server) download(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write([]byte("attachment-bytes"))
}

func (s *Server) forbidden(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusForbidden, "FORBIDDEN", "Không có quyền truy cập")
}
