package api

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/mvetten/uniprep/internal/ethereum"
)

func (s *Server) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	info, err := s.swapper.TokenInfo(r.Context(), address)
	if err != nil {
		if errors.Is(err, ethereum.ErrInvalidAddress) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		fmt.Printf("[API] Token info failed: %v\n", err)
		writeError(w, http.StatusBadGateway, "token lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tokenIn := q.Get("tokenIn")
	tokenOut := q.Get("tokenOut")
	amount := q.Get("amount")

	if tokenIn == "" || tokenOut == "" || amount == "" {
		writeError(w, http.StatusBadRequest, "tokenIn, tokenOut and amount are required")
		return
	}

	amountRaw, ok := new(big.Int).SetString(amount, 10)
	if !ok || amountRaw.Sign() < 0 {
		writeError(w, http.StatusBadRequest, "amount must be a non-negative integer in token base units")
		return
	}

	body, err := s.swapper.Quote(r.Context(), tokenIn, tokenOut, amountRaw)
	if err != nil {
		if errors.Is(err, ethereum.ErrInvalidAddress) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		fmt.Printf("[API] Quote failed: %v\n", err)
		writeError(w, http.StatusBadGateway, "quote request failed")
		return
	}

	writeJSON(w, http.StatusOK, body)
}
