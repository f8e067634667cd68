package http

import (
	"net/http"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/branch"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/personnel"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/shift"
	"github.com/aydinsahin81/gts-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RegistryHandler serves the read-only directories backing the listing
// filters: shifts, personnel and branches. The owning collaborators manage
// these elsewhere; here they are lookup data.
type RegistryHandler interface {
	ListShifts(w http.ResponseWriter, r *http.Request)
	ListPersonnel(w http.ResponseWriter, r *http.Request)
	ListBranches(w http.ResponseWriter, r *http.Request)
}

type registryHandlerImpl struct {
	shiftRepo     shift.ShiftRepository
	personnelRepo personnel.PersonnelRepository
	branchRepo    branch.BranchRepository
}

func NewRegistryHandler(
	shiftRepo shift.ShiftRepository,
	personnelRepo personnel.PersonnelRepository,
	branchRepo branch.BranchRepository,
) RegistryHandler {
	return &registryHandlerImpl{
		shiftRepo:     shiftRepo,
		personnelRepo: personnelRepo,
		branchRepo:    branchRepo,
	}
}

func companyFromContext(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	companyID, ok := claims["company_id"].(string)
	return companyID, ok && companyID != ""
}

type shiftResponse struct {
	ID                        string   `json:"id"`
	Name                      string   `json:"name"`
	StartTime                 string   `json:"start_time"`
	EndTime                   string   `json:"end_time"`
	LateToleranceMinutes      int      `json:"late_tolerance_minutes"`
	EarlyExitToleranceMinutes int      `json:"early_exit_tolerance_minutes"`
	PersonnelIDs              []string `json:"personnel_ids"`
}

// ListShifts implements RegistryHandler.
func (h *registryHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid access token")
		return
	}

	shifts, err := h.shiftRepo.ListByCompany(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]shiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		out = append(out, shiftResponse{
			ID:                        sh.ID,
			Name:                      sh.Name,
			StartTime:                 sh.StartTime.String(),
			EndTime:                   sh.EndTime.String(),
			LateToleranceMinutes:      sh.LateToleranceMinutes,
			EarlyExitToleranceMinutes: sh.EarlyExitToleranceMinutes,
			PersonnelIDs:              sh.PersonnelIDs,
		})
	}

	response.Success(w, out)
}

type personnelResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ListPersonnel implements RegistryHandler.
func (h *registryHandlerImpl) ListPersonnel(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid access token")
		return
	}

	people, err := h.personnelRepo.ListByCompany(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]personnelResponse, 0, len(people))
	for _, p := range people {
		out = append(out, personnelResponse{ID: p.ID, DisplayName: p.DisplayName})
	}

	response.Success(w, out)
}

type branchResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListBranches implements RegistryHandler.
func (h *registryHandlerImpl) ListBranches(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid access token")
		return
	}

	branches, err := h.branchRepo.ListByCompany(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]branchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, branchResponse{ID: b.ID, Name: b.Name})
	}

	response.Success(w, out)
}
