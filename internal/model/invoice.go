package model

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusRefunded  InvoiceStatus = "refunded"
)

// Invoice fees travel as decimal strings so no precision is lost between
// the backend and display code.
type Invoice struct {
	ID              int64         `json:"id"`
	MedicalRecordID int64         `json:"medicalRecordId"`
	ExaminationFee  string        `json:"examinationFee"`
	MedicineFee     string        `json:"medicineFee"`
	TotalFee        string        `json:"totalFee"`
	PaymentMethod   *string       `json:"paymentMethod,omitempty"`
	Status          InvoiceStatus `json:"status"`
	PaymentDate     *string       `json:"paymentDate,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	CreatedAt       string        `json:"createdAt"`
	UpdatedAt       string        `json:"updatedAt"`
}

type Patient struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	Gender    string `json:"gender,omitempty"`
	BirthYear int    `json:"birthYear,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type Doctor struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// InvoiceDetail is the aggregate the backend returns for a single invoice.
type InvoiceDetail struct {
	Invoice       Invoice        `json:"invoice"`
	Patient       Patient        `json:"patient"`
	Doctor        Doctor         `json:"doctor"`
	Prescriptions []Prescription `json:"prescriptions"`
}

type ListInvoicesParams struct {
	Page   int           `json:"page,omitempty"`
	Limit  int           `json:"limit,omitempty"`
	Status InvoiceStatus `json:"status,omitempty"`
	Date   string        `json:"date,omitempty"` // YYYY-MM-DD
}

type ListInvoicesResult struct {
	Data  []Invoice `json:"data"`
	Total int       `json:"total"`
}
