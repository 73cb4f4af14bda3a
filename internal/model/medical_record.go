package model

type RecordStatus string

const (
	RecordStatusPending   RecordStatus = "pending"
	RecordStatusCompleted RecordStatus = "completed"
	RecordStatusCancelled RecordStatus = "cancelled"
)

type MedicalRecord struct {
	ID              int64        `json:"id"`
	ExaminationDate string       `json:"examinationDate"`
	Diagnosis       string       `json:"diagnosis"`
	Symptoms        *string      `json:"symptoms,omitempty"`
	Status          RecordStatus `json:"status"`
	DiseaseTypeID   *int64       `json:"diseaseTypeId,omitempty"`
}

// Prescription lines arrive enriched with medicine info on the /me detail
// endpoints; the enrichment fields stay empty elsewhere.
type Prescription struct {
	ID                 int64   `json:"id"`
	MedicalRecordID    int64   `json:"medicalRecordId,omitempty"`
	MedicineID         int64   `json:"medicineId"`
	Quantity           int     `json:"quantity"`
	UsageInstructionID int64   `json:"usageInstructionId"`
	Notes              *string `json:"notes,omitempty"`
	MedicineName       string  `json:"medicineName,omitempty"`
	UsageInstruction   string  `json:"usageInstruction,omitempty"`
	MedicinePrice      string  `json:"medicinePrice,omitempty"`
}

type MedicalRecordDetail struct {
	MedicalRecord MedicalRecord  `json:"medicalRecord"`
	Prescriptions []Prescription `json:"prescriptions"`
}

type Attachment struct {
	ID          int64   `json:"id"`
	FileName    string  `json:"fileName"`
	FileType    *string `json:"fileType,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	Description *string `json:"description,omitempty"`
}

type ListMedicalRecordsParams struct {
	Page     int          `json:"page,omitempty"`
	Limit    int          `json:"limit,omitempty"`
	Status   RecordStatus `json:"status,omitempty"`
	DateFrom string       `json:"dateFrom,omitempty"` // YYYY-MM-DD
	DateTo   string       `json:"dateTo,omitempty"`   // YYYY-MM-DD
}

type ListMedicalRecordsResult struct {
	Data  []MedicalRecord `json:"data"`
	Total int             `json:"total"`
}

type ListAttachmentsResult struct {
	Data []Attachment `json:"data"`
}
