package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skinsight/dermascan/internal/domain/patient"
	"github.com/skinsight/dermascan/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
}

func NewPatientHandler(patientSvc *service.PatientService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc}
}

type createPatientRequest struct {
	FullName            string `json:"full_name" binding:"required"`
	DateOfBirth         string `json:"date_of_birth" binding:"required"`
	Gender              string `json:"gender" binding:"required"`
	MedicalRecordNumber string `json:"medical_record_number"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Notes               string `json:"notes"`
}

type updatePatientRequest struct {
	FullName            *string `json:"full_name"`
	DateOfBirth         *string `json:"date_of_birth"`
	Gender              *string `json:"gender"`
	MedicalRecordNumber *string `json:"medical_record_number"`
	Phone               *string `json:"phone"`
	Email               *string `json:"email"`
	Notes               *string `json:"notes"`
}

type patientResponse struct {
	ID                  string `json:"id"`
	FullName            string `json:"full_name"`
	DateOfBirth         string `json:"date_of_birth"`
	Age                 int    `json:"age"`
	Gender              string `json:"gender"`
	MedicalRecordNumber string `json:"medical_record_number,omitempty"`
	Phone               string `json:"phone,omitempty"`
	Email               string `json:"email,omitempty"`
	Notes               string `json:"notes,omitempty"`
	CreatedAt           string `json:"created_at"`
}

func toPatientResponse(p *patient.Patient) patientResponse {
	return patientResponse{
		ID:                  p.ID.String(),
		FullName:            p.FullName,
		DateOfBirth:         p.DateOfBirth.Format("2006-01-02"),
		Age:                 p.Age(),
		Gender:              string(p.Gender),
		MedicalRecordNumber: p.MedicalRecordNumber,
		Phone:               p.Phone,
		Email:               p.Email,
		Notes:               p.Notes,
		CreatedAt:           p.CreatedAt.Format(time.RFC3339),
	}
}

type pagedPatientsResponse struct {
	Patients   []patientResponse `json:"patients"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
		return
	}

	callerID, callerRole := caller(c)
	cmd := &patient.CreatePatientCommand{
		FullName:            req.FullName,
		DateOfBirth:         dob,
		Gender:              patient.Gender(req.Gender),
		MedicalRecordNumber: req.MedicalRecordNumber,
		Phone:               req.Phone,
		Email:               req.Email,
		Notes:               req.Notes,
		CreatedBy:           callerID,
	}

	p, err := h.patientSvc.CreatePatient(c.Request.Context(), cmd, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toPatientResponse(p))
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	p, err := h.patientSvc.GetPatient(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.UpdatePatientCommand{
		FullName:            req.FullName,
		MedicalRecordNumber: req.MedicalRecordNumber,
		Phone:               req.Phone,
		Email:               req.Email,
		Notes:               req.Notes,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			respondError(c, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
		cmd.DateOfBirth = &dob
	}
	if req.Gender != nil {
		g := patient.Gender(*req.Gender)
		cmd.Gender = &g
	}

	callerID, callerRole := caller(c)
	cmd.UpdatedBy = callerID

	p, err := h.patientSvc.UpdatePatient(c.Request.Context(), id, cmd, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	if err := h.patientSvc.DeletePatient(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PatientHandler) List(c *gin.Context) {
	q := &patient.ListPatientsQuery{
		Search:    c.Query("search"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	paged, err := h.patientSvc.ListPatients(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := pagedPatientsResponse{
		Patients:   make([]patientResponse, 0, len(paged.Patients)),
		TotalCount: paged.TotalCount,
		Page:       paged.Page,
		PageSize:   paged.PageSize,
		TotalPages: paged.TotalPages,
	}
	for _, p := range paged.Patients {
		out.Patients = append(out.Patients, toPatientResponse(p))
	}

	respondOK(c, out)
}
