package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCurrentRound(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.CurrentRound(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load current round", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load round")
		return
	}
	if snapshot == nil {
		writeError(w, http.StatusNotFound, "no active round")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "roundID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid round id")
		return
	}

	snapshot, err := s.service.Round(r.Context(), lotterytypes.RoundID(id))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load round", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load round")
		return
	}
	if snapshot == nil {
		writeError(w, http.StatusNotFound, "round not found")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handlePlayerBalance(w http.ResponseWriter, r *http.Request) {
	player := lotterytypes.PlayerID(chi.URLParam(r, "playerID"))
	if player == "" {
		writeError(w, http.StatusBadRequest, "missing player id")
		return
	}

	balance, err := s.ledger.PlayerBalance(r.Context(), player)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load player balance", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load balance")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"player_id": player,
		"balance":   balance,
	})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req lotteryevents.RoundJoinRequestedPayloadV1
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}

	if err := s.publish(r, lotteryevents.RoundJoinRequestedV1, &req); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to publish join request", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to submit join")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	var req lotteryevents.RoundStartRequestedPayloadV1
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MaxParticipants <= 0 {
		writeError(w, http.StatusBadRequest, "max_participants must be positive")
		return
	}
	if req.EntryFee < 0 {
		writeError(w, http.StatusBadRequest, "entry_fee cannot be negative")
		return
	}

	if err := s.publish(r, lotteryevents.RoundStartRequestedV1, &req); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to publish start request", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to submit start")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleVoidRound(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "roundID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid round id")
		return
	}

	req := lotteryevents.RoundVoidRequestedPayloadV1{RoundID: lotterytypes.RoundID(id)}
	if err := s.publish(r, lotteryevents.RoundVoidRequestedV1, &req); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to publish void request", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to submit void")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source string              `json:"source"`
		Amount lotterytypes.Amount `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	if err := s.ledger.Deposit(r.Context(), req.Source, req.Amount); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to record deposit", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to record deposit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) handleSetFrozen(w http.ResponseWriter, r *http.Request) {
	player := lotterytypes.PlayerID(chi.URLParam(r, "playerID"))
	if player == "" {
		writeError(w, http.StatusBadRequest, "missing player id")
		return
	}

	var req struct {
		Frozen bool `json:"frozen"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.ledger.SetAccountFrozen(r.Context(), player, req.Frozen); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to update account", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"player_id": player,
		"frozen":    req.Frozen,
	})
}
