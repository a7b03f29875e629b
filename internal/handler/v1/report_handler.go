package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skinsight/dermascan/internal/domain/scan"
	"github.com/skinsight/dermascan/internal/report"
	"github.com/skinsight/dermascan/internal/service"
)

type ReportHandler struct {
	reportSvc *service.ReportService
}

func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// parseReportQuery reads the shared filter parameters. start and end are
// YYYY-MM-DD; both must be given together or not at all. risk and
// classification accept "all" or a known enum value.
func parseReportQuery(c *gin.Context) (service.ReportQuery, bool) {
	var q service.ReportQuery

	startRaw, endRaw := c.Query("start"), c.Query("end")
	if (startRaw == "") != (endRaw == "") {
		respondError(c, http.StatusBadRequest, "start and end must be provided together")
		return q, false
	}
	if startRaw != "" {
		start, err := time.Parse("2006-01-02", startRaw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return q, false
		}
		end, err := time.Parse("2006-01-02", endRaw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "end must be YYYY-MM-DD")
			return q, false
		}
		if end.Before(start) {
			respondError(c, http.StatusBadRequest, "end must not be before start")
			return q, false
		}
		q.Range = report.DateRange{Start: start, End: end}
	}

	q.RiskFilter = c.DefaultQuery("risk", report.FilterAll)
	if q.RiskFilter != report.FilterAll && !scan.RiskLevel(q.RiskFilter).IsValid() {
		respondError(c, http.StatusBadRequest, "unknown risk level: "+q.RiskFilter)
		return q, false
	}

	q.ClassificationFilter = c.DefaultQuery("classification", report.FilterAll)
	if q.ClassificationFilter != report.FilterAll && !scan.Classification(q.ClassificationFilter).IsValid() {
		respondError(c, http.StatusBadRequest, "unknown classification: "+q.ClassificationFilter)
		return q, false
	}

	return q, true
}

func (h *ReportHandler) Summary(c *gin.Context) {
	q, ok := parseReportQuery(c)
	if !ok {
		return
	}

	summary, err := h.reportSvc.Summary(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, summary)
}

func (h *ReportHandler) Trend(c *gin.Context) {
	q, ok := parseReportQuery(c)
	if !ok {
		return
	}

	points, err := h.reportSvc.Trend(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, points)
}

func (h *ReportHandler) ExportCSV(c *gin.Context) {
	q, ok := parseReportQuery(c)
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	filename, data, err := h.reportSvc.ExportCSV(c.Request.Context(), q, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *ReportHandler) ExportPDF(c *gin.Context) {
	q, ok := parseReportQuery(c)
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	filename, data, err := h.reportSvc.ExportPDF(c.Request.Context(), q, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
