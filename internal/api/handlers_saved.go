package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

type savePropertyRequest struct {
	PropertyID int64  `json:"property_id" validate:"required,gt=0"`
	Notes      string `json:"notes" validate:"omitempty,max=500"`
}

type savedNotesRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

func (s *Server) handleSaveProperty(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)

	var req savePropertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	saved, err := s.saved.SaveProperty(r.Context(), id, req.PropertyID, req.Notes)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, saved)
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	page := parsePage(r)
	saved, total, err := s.saved.ListSaved(r.Context(), id, page)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, saved, page, total)
}

func (s *Server) handleSavedCount(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	count, err := s.saved.CountSaved(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleIsSaved(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	propertyID, err := pathID(mux.Vars(r)["propertyID"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	saved, err := s.saved.IsSaved(r.Context(), id, propertyID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (s *Server) handleUpdateSavedNotes(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	propertyID, err := pathID(mux.Vars(r)["propertyID"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	var req savedNotesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.saved.UpdateNotes(r.Context(), id, propertyID, req.Notes); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notes updated")
}

func (s *Server) handleUnsaveProperty(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	propertyID, err := pathID(mux.Vars(r)["propertyID"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	if err := s.saved.UnsaveProperty(r.Context(), id, propertyID); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Property removed from saved")
}
