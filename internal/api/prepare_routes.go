package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mvetten/uniprep/internal/ethereum"
	"github.com/mvetten/uniprep/internal/models"
	"github.com/mvetten/uniprep/internal/repository"
)

type prepareBody struct {
	TokenIn         string  `json:"tokenIn"`
	TokenOut        string  `json:"tokenOut"`
	AmountIn        float64 `json:"amountIn"`
	SlippagePercent float64 `json:"slippagePercent"`
}

func (s *Server) handlePrepare(w http.ResponseWriter, r *http.Request) {
	var body prepareBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.TokenIn == "" || body.TokenOut == "" {
		writeError(w, http.StatusBadRequest, "tokenIn and tokenOut are required")
		return
	}
	if body.AmountIn <= 0 {
		writeError(w, http.StatusBadRequest, "amountIn must be positive")
		return
	}
	if body.SlippagePercent < 0 || body.SlippagePercent > 50 {
		writeError(w, http.StatusBadRequest, "slippagePercent must be between 0 and 50")
		return
	}

	s.prepMu.Lock()
	defer s.prepMu.Unlock()

	result, prepErr := s.swapper.Prepare(r.Context(), ethereum.PrepareRequest{
		TokenIn:         body.TokenIn,
		TokenOut:        body.TokenOut,
		AmountIn:        body.AmountIn,
		SlippagePercent: body.SlippagePercent,
	})

	rec := s.buildRecord(&body, result, prepErr)
	saved, err := s.prepRepo.Record(r.Context(), rec)
	if err != nil {
		fmt.Printf("[API] Failed to persist preparation: %v\n", err)
		saved = rec // respond with the unsaved record rather than dropping the outcome
	}

	if s.notify != nil {
		symIn, symOut := body.TokenIn, body.TokenOut
		if result != nil {
			symIn, symOut = result.TokenIn.Symbol, result.TokenOut.Symbol
		}
		s.notify.PreparationDone(symIn, symOut, body.AmountIn, prepErr == nil)
	}

	if prepErr != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(prepErr, ethereum.ErrInvalidAddress):
			status = http.StatusBadRequest
		case errors.Is(prepErr, ethereum.ErrInsufficientBalance):
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]any{
			"error":       prepErr.Error(),
			"preparation": saved,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"preparation": saved,
		"note":        "preparation only: allowance is in place, no swap transaction was broadcast",
	})
}

func (s *Server) buildRecord(body *prepareBody, result *ethereum.PrepareResult, prepErr error) *models.Preparation {
	rec := &models.Preparation{
		ChainID:         s.chainID,
		TokenIn:         body.TokenIn,
		TokenOut:        body.TokenOut,
		AmountHuman:     body.AmountIn,
		SlippagePercent: body.SlippagePercent,
		Status:          "prepared",
	}
	if prepErr != nil {
		rec.Status = "failed"
		reason := prepErr.Error()
		rec.FailReason = &reason
	}
	if result != nil {
		symIn, symOut := result.TokenIn.Symbol, result.TokenOut.Symbol
		rec.SymbolIn, rec.SymbolOut = &symIn, &symOut
		raw := result.AmountRaw.String()
		rec.AmountRaw = &raw
		if result.ApprovalTx != nil {
			hash := result.ApprovalTx.Hex()
			rec.ApprovalTxHash = &hash
		}
	}
	return rec
}

// --- history routes ---

func (s *Server) handlePreparations(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)
	preps, err := s.prepRepo.GetAll(r.Context(), limit)
	if err != nil {
		fmt.Printf("[API] Error fetching preparations: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch preparations")
		return
	}
	writeJSON(w, http.StatusOK, preps)
}

func (s *Server) handlePreparationsToday(w http.ResponseWriter, r *http.Request) {
	s.writeDayPreparations(w, r, repository.ActivityDayNow())
}

func (s *Server) handlePreparationsByDay(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validateDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}
	s.writeDayPreparations(w, r, date)
}

func (s *Server) writeDayPreparations(w http.ResponseWriter, r *http.Request, day string) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", "prepared", "failed":
	default:
		writeError(w, http.StatusBadRequest, "invalid status, expected prepared|failed")
		return
	}

	preps, err := s.prepRepo.GetByDay(r.Context(), day, status)
	if err != nil {
		fmt.Printf("[API] Error fetching preparations for %s: %v\n", day, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch preparations")
		return
	}
	writeJSON(w, http.StatusOK, preps)
}

func (s *Server) handlePreparationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.prepRepo.GetStats(r.Context())
	if err != nil {
		fmt.Printf("[API] Error fetching stats: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
