package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/planfit/internal/models"
	"github.com/claude/planfit/internal/planner"
	"github.com/claude/planfit/internal/storage"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": message})
}

func (s *Server) handleProfileForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "form_ready",
		"form":   planner.ProfileForm(),
	})
}

func (s *Server) handleValidateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	profile, err := planner.Validate(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "profile": profile})
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	profile, err := planner.Validate(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.db.SaveProfile(r.Context(), profile)
	if err != nil {
		s.log.Error("save profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"profile_id": saved.ID,
		"profile":    saved,
	})
}

func (s *Server) handleLatestProfile(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")

	profile, err := s.db.GetLatestProfile(r.Context(), owner)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no user profile found")
		return
	}
	if err != nil {
		s.log.Error("latest profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to retrieve profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "profile": profile})
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	profile, err := planner.Validate(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan := planner.Generate(profile, s.cat)
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "plan": plan})
}

type saveSessionRequest struct {
	UserID   string            `json:"user_id"`
	UserName string            `json:"user_name"`
	Profile  models.Profile    `json:"profile"`
	Plan     models.WeeklyPlan `json:"workout_plan"`
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var req saveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.UserName == "" {
		writeError(w, http.StatusBadRequest, "user_name is required")
		return
	}

	// The snapshot is caller-supplied; run it through the same
	// validation as a fresh submission so out-of-range profiles never
	// enter the store.
	profile, err := planner.Validate(models.ProfileInput{
		Name:      req.Profile.Name,
		Age:       req.Profile.Age,
		Height:    req.Profile.Height,
		WeightLbs: req.Profile.WeightLbs,
		Goal:      string(req.Profile.Goal),
		Injury:    req.Profile.Injury,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	profile.ID = req.Profile.ID
	profile.CreatedAt = req.Profile.CreatedAt

	session, err := s.db.SaveSession(r.Context(), req.UserID, req.UserName, profile, req.Plan)
	if err != nil {
		s.log.Error("save session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"session_id": session.SessionID,
		"session":    session,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "owner parameter required")
		return
	}

	sessions, err := s.db.ListSessions(r.Context(), owner)
	if err != nil {
		s.log.Error("list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to retrieve sessions")
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "success",
		"user_name":      owner,
		"sessions_count": len(sessions),
		"sessions":       sessions,
	})
}

func (s *Server) handleLatestSession(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "owner parameter required")
		return
	}

	session, err := s.db.GetLatestSession(r.Context(), owner)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no session found for user '"+owner+"'")
		return
	}
	if err != nil {
		s.log.Error("latest session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to retrieve session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "session": session})
}

type refinementRequest struct {
	Type    string `json:"type"`
	Details string `json:"details"`
}

func (s *Server) handleAppendRefinement(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req refinementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	session, err := s.db.AppendRefinement(r.Context(), sessionID, req.Type, req.Details)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.log.Error("append refinement", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log refinement")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "success",
		"session_id":       session.SessionID,
		"refinement_count": len(session.RefinementHistory),
		"session":          session,
	})
}

type feedbackRequest struct {
	LikedExercises bool   `json:"liked_exercises"`
	Feedback       string `json:"feedback"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	fb, err := s.db.RecordFeedback(r.Context(), req.LikedExercises, req.Feedback)
	if err != nil {
		s.log.Error("record feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"feedback_id":     fb.ID,
		"liked_exercises": fb.LikedExercises,
		"message":         "Thank you for your feedback! We'll use this to improve future recommendations.",
	})
}
