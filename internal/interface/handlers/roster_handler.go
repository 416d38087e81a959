package handlers

import (
	"errors"
	"io"
	"net/http"

	"crewroster-service/internal/domain/entity"
	"crewroster-service/internal/usecase"
	"crewroster-service/pkg/logger"
	"crewroster-service/pkg/utils"
)

// maxUploadSize bounds the schedule PDF upload. Roster PDFs are a few
// hundred kilobytes.
const maxUploadSize = 10 << 20

// RosterHandler serves the mobile client's roster endpoints.
type RosterHandler struct {
	manager *usecase.RosterManager
	logger  logger.Logger
}

func NewRosterHandler(manager *usecase.RosterManager, logger logger.Logger) *RosterHandler {
	return &RosterHandler{manager: manager, logger: logger}
}

// flightView is a Flight plus its codeshare split, when the flight number
// carries one.
type flightView struct {
	entity.Flight
	Codeshare *utils.Codeshare `json:"codeshare,omitempty"`
}

type crewView struct {
	Cockpit []utils.CrewMember `json:"cockpit"`
	Cabin   []utils.CrewMember `json:"cabin"`
}

// rosterDayView is a RosterDay plus the derived display data: duty
// category, parsed crew entries and time tokens, and the limits in display
// order. The client styles the day without re-implementing any of this.
type rosterDayView struct {
	entity.RosterDay
	DutyCategory      entity.DutyCategory `json:"duty_category"`
	Flights           []flightView        `json:"flights"`
	CrewParsed        crewView            `json:"crew_parsed"`
	CheckInParsed     *utils.RosterTime   `json:"check_in_parsed,omitempty"`
	CheckOutParsed    *utils.RosterTime   `json:"check_out_parsed,omitempty"`
	TimeLimitsOrdered []utils.TimeLimit   `json:"time_limits_ordered,omitempty"`
}

type rosterResponse struct {
	Days  []rosterDayView `json:"days"`
	Saved *bool           `json:"saved,omitempty"`
}

func toViews(days []entity.RosterDay) []rosterDayView {
	views := make([]rosterDayView, len(days))
	for i, d := range days {
		views[i] = rosterDayView{
			RosterDay:    d,
			DutyCategory: d.DutyCategory(),
			Flights:      toFlightViews(d.Flights),
			CrewParsed: crewView{
				Cockpit: parseMembers(d.Crew.Cockpit),
				Cabin:   parseMembers(d.Crew.Cabin),
			},
			CheckInParsed:     parseTime(d.CheckIn),
			CheckOutParsed:    parseTime(d.CheckOut),
			TimeLimitsOrdered: utils.OrderedTimeLimits(d.TimeLimits),
		}
	}
	return views
}

func toFlightViews(flights []entity.Flight) []flightView {
	views := make([]flightView, len(flights))
	for i, f := range flights {
		views[i] = flightView{Flight: f}
		if cs := utils.ParseCodeshare(f.FlightNum); cs.Marketing != "" {
			views[i].Codeshare = &cs
		}
	}
	return views
}

func parseMembers(raw []string) []utils.CrewMember {
	members := make([]utils.CrewMember, len(raw))
	for i, entry := range raw {
		members[i] = utils.ParseCrewMember(entry)
	}
	return members
}

func parseTime(raw *string) *utils.RosterTime {
	if raw == nil {
		return nil
	}
	rt := utils.ParseRosterTime(*raw)
	return &rt
}

// GetRoster returns the authenticated user's current roster.
func (h *RosterHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	days, err := h.manager.Roster(userID)
	if err != nil {
		h.logger.Error("Failed to load roster", "userId", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load roster")
		return
	}
	writeJSON(w, http.StatusOK, rosterResponse{Days: toViews(days)})
}

// ImportRoster accepts a multipart schedule upload, forwards it to the
// parser service and returns the merged roster.
func (h *RosterHandler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file upload")
		return
	}

	result, err := h.manager.Import(r.Context(), userID, fileBytes, header.Filename)
	if err != nil {
		h.respondImportError(w, userID, err)
		return
	}

	writeJSON(w, http.StatusOK, rosterResponse{
		Days:  toViews(result.Days),
		Saved: &result.Saved,
	})
}

// respondImportError maps the import error taxonomy onto HTTP statuses,
// keeping each category's diagnostic in the message.
func (h *RosterHandler) respondImportError(w http.ResponseWriter, userID string, err error) {
	var serverErr *entity.ServerError
	var decodeErr *entity.DecodingError
	var storageErr *entity.StorageError
	switch {
	case errors.As(err, &serverErr):
		h.logger.Error("Parser service error", "userId", userID,
			"status", serverErr.StatusCode, "body", serverErr.Body)
		writeError(w, http.StatusBadGateway, serverErr.Error())
	case errors.As(err, &decodeErr):
		h.logger.Error("Parser response decoding error", "userId", userID, "error", err)
		writeError(w, http.StatusBadGateway, decodeErr.Error())
	case errors.As(err, &storageErr):
		h.logger.Error("Roster storage error during import", "userId", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read stored roster")
	default:
		h.logger.Error("Schedule import failed", "userId", userID, "error", err)
		writeError(w, http.StatusBadGateway, "could not reach the parser service")
	}
}

// ClearAllRosters wipes every user's cached roster. Admin-only: it sits
// behind RequireAdminToken, never behind a user session.
func (h *RosterHandler) ClearAllRosters(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.ClearAll(); err != nil {
		h.logger.Error("Failed to clear cached rosters", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear cached rosters")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearRoster removes the authenticated user's roster.
func (h *RosterHandler) ClearRoster(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	if err := h.manager.Clear(userID); err != nil {
		h.logger.Error("Failed to clear roster", "userId", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear roster")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
