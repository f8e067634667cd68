package http

import (
	"encoding/json"
	"net/http"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/report"
	"github.com/aydinsahin81/gts-attendance-go/internal/handler/http/response"
)

type ReportHandler interface {
	WorkedTime(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// WorkedTime implements ReportHandler.
func (h *reportHandlerImpl) WorkedTime(w http.ResponseWriter, r *http.Request) {
	var req report.WorkedTimeReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GenerateWorkedTimeReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
