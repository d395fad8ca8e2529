package handlers

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aicodepro/landing-api/internal/infra/http/middleware"
	"github.com/aicodepro/landing-api/internal/usecase"
)

type PartialLeadHandler struct {
	recordUC *usecase.RecordQualificationUseCase
}

func NewPartialLeadHandler(recordUC *usecase.RecordQualificationUseCase) *PartialLeadHandler {
	return &PartialLeadHandler{recordUC: recordUC}
}

type PartialLeadResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// HandleRecord is the beacon target for the qualification click. Past input
// validation it always answers 200: persistence here is best-effort and the
// funnel must keep moving.
func (h *PartialLeadHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input usecase.RecordQualificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, PartialLeadResponse{
			Success: false,
			Error:   "Invalid JSON",
		})
		return
	}

	input.IPAddress = getClientIP(r)
	input.UserAgent = r.UserAgent()
	input.CorrelationID = chimw.GetReqID(ctx)

	if err := h.recordUC.Execute(ctx, input); err != nil {
		writeJSON(w, http.StatusBadRequest, PartialLeadResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	middleware.RecordPartialQualification()

	writeJSON(w, http.StatusOK, PartialLeadResponse{Success: true})
}
