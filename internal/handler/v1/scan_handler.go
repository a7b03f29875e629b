package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skinsight/dermascan/internal/domain/scan"
	"github.com/skinsight/dermascan/internal/service"
)

type ScanHandler struct {
	scanSvc *service.ScanService
}

func NewScanHandler(scanSvc *service.ScanService) *ScanHandler {
	return &ScanHandler{scanSvc: scanSvc}
}

type scanResponse struct {
	ID              string                `json:"id"`
	PatientID       *string               `json:"patient_id,omitempty"`
	ImageURL        string                `json:"image_url"`
	Classification  string                `json:"classification"`
	Label           string                `json:"classification_label"`
	ConfidenceScore float64               `json:"confidence_score"`
	RiskLevel       string                `json:"risk_level"`
	AnalysisDetails *scan.AnalysisDetails `json:"analysis_details,omitempty"`
	Recommendations []string              `json:"recommendations,omitempty"`
	BodyLocation    string                `json:"body_location,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	CreatedAt       string                `json:"created_at"`
}

func toScanResponse(s *scan.SkinScan) scanResponse {
	out := scanResponse{
		ID:              s.ID.String(),
		ImageURL:        s.ImageURL,
		Classification:  string(s.Classification),
		Label:           s.Classification.Label(),
		ConfidenceScore: s.ConfidenceScore,
		RiskLevel:       string(s.RiskLevel),
		AnalysisDetails: s.AnalysisDetails,
		Recommendations: s.Recommendations,
		BodyLocation:    s.BodyLocation,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
	}
	if s.PatientID != nil {
		id := s.PatientID.String()
		out.PatientID = &id
	}
	return out
}

type pagedScansResponse struct {
	Scans      []scanResponse `json:"scans"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Analyze accepts a multipart form with the lesion image plus optional
// capture metadata and runs the full capture flow synchronously. The
// response carries the persisted scan including the classification.
func (h *ScanHandler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read image file")
		return
	}
	defer file.Close()

	callerID, callerRole := caller(c)
	cmd := &service.AnalyzeCommand{
		Filename:     fileHeader.Filename,
		File:         file,
		Size:         fileHeader.Size,
		BodyLocation: c.PostForm("body_location"),
		Notes:        c.PostForm("notes"),
		CreatedBy:    callerID,
	}

	if raw := c.PostForm("patient_id"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid patient_id: must be a valid UUID")
			return
		}
		cmd.PatientID = &pid
	}

	rec, err := h.scanSvc.Analyze(c.Request.Context(), cmd, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toScanResponse(rec))
}

func (h *ScanHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	rec, err := h.scanSvc.GetScan(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toScanResponse(rec))
}

func (h *ScanHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	if err := h.scanSvc.DeleteScan(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ScanHandler) List(c *gin.Context) {
	q := &scan.ListScansQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("patient_id"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid patient_id: must be a valid UUID")
			return
		}
		q.PatientID = &pid
	}

	paged, err := h.scanSvc.ListScans(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := pagedScansResponse{
		Scans:      make([]scanResponse, 0, len(paged.Scans)),
		TotalCount: paged.TotalCount,
		Page:       paged.Page,
		PageSize:   paged.PageSize,
		TotalPages: paged.TotalPages,
	}
	for _, s := range paged.Scans {
		out.Scans = append(out.Scans, toScanResponse(s))
	}

	respondOK(c, out)
}

// BodyLocations returns the capture form's location options.
func (h *ScanHandler) BodyLocations(c *gin.Context) {
	respondOK(c, scan.BodyLocations)
}
