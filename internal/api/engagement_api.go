package api

import (
	"net/http"

	"github.com/lernpfad/lernpfad/internal/domain"
)

// ─── Engagement API (/api/users/{user}/engagement, /achievements) ───────────

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"levels": s.engagement.Tracker().Levels(),
	})
}

func (s *Server) handleEngagementState(w http.ResponseWriter, r *http.Request) {
	state, err := s.engagement.State(r.Context(), userParam(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleLevelProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.engagement.LevelProgress(r.Context(), userParam(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

type recordActionRequest struct {
	Action domain.XPAction `json:"action"`
}

func (s *Server) handleRecordAction(w http.ResponseWriter, r *http.Request) {
	var req recordActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.engagement.Record(r.Context(), userParam(r), req.Action)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":        res.State,
		"gained":       res.Gained,
		"dailyBonus":   res.DailyBonus,
		"leveledUp":    res.LeveledUp,
		"streak":       res.Streak,
		"freezeUsed":   res.FreezeUsed(),
		"freezeEarned": res.FreezeEarned,
		"unlocked":     res.Unlocked,
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	ach := s.engagement.Achievements()
	unlocked, err := ach.ListUnlocked(r.Context(), userParam(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if unlocked == nil {
		unlocked = []domain.UnlockedAchievement{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"unlocked":    unlocked,
		"total":       ach.TotalCount(),
		"definitions": ach.Definitions(),
	})
}
