// internal/httpserver/routes_game.go
//
// HTTP routes for the mystery session.
// Exposes:
//   - POST /game/start        → reset the case and describe the foyer
//   - POST /game/move         → {"direction":"north|south|east|west"}
//   - POST /game/examine      → {"target":"room"|item}
//   - POST /game/collect      → {"clue":"letter"}
//   - POST /game/interrogate  → {"suspect":"Lady Victoria|Mr. Giles"}
//   - POST /game/accuse       → {"killer","weapon","motive"}
//   - GET  /game/state        → snapshot incl. inventory
//   - GET  /cases             → recent verdicts from the ledger (?limit=N)
//
// Game outcomes are always 200 with a Result body; the outcome kind says
// what happened. Only malformed requests get 4xx.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/blackwood-mystery/internal/game"
	"github.com/robalobadob/blackwood-mystery/internal/world"
)

const maxCasesLimit = 100

// mountGame registers the /game routes and /cases on r.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Post("/move", s.handleMove)
		r.Post("/examine", s.handleExamine)
		r.Post("/collect", s.handleCollect)
		r.Post("/interrogate", s.handleInterrogate)
		r.Post("/accuse", s.handleAccuse)
		r.Get("/state", s.handleState)
	})
	r.Get("/cases", s.handleCases)
}

type moveReq struct {
	Direction string `json:"direction"`
}

type examineReq struct {
	Target string `json:"target"`
}

type collectReq struct {
	Clue string `json:"clue"`
}

type interrogateReq struct {
	Suspect string `json:"suspect"`
}

type accuseReq struct {
	Killer string `json:"killer"`
	Weapon string `json:"weapon"`
	Motive string `json:"motive"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.writeResult(w, r, s.session.Start())
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if !decode(w, r, &req) {
		return
	}
	dir, err := world.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_direction")
		return
	}
	s.writeResult(w, r, s.session.Move(dir))
}

func (s *Server) handleExamine(w http.ResponseWriter, r *http.Request) {
	var req examineReq
	if !decode(w, r, &req) {
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "missing_target")
		return
	}
	s.writeResult(w, r, s.session.Examine(req.Target))
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	var req collectReq
	if !decode(w, r, &req) {
		return
	}
	if req.Clue == "" {
		writeError(w, http.StatusBadRequest, "missing_clue")
		return
	}
	s.writeResult(w, r, s.session.Collect(req.Clue))
}

func (s *Server) handleInterrogate(w http.ResponseWriter, r *http.Request) {
	var req interrogateReq
	if !decode(w, r, &req) {
		return
	}
	sus, err := world.ParseSuspect(req.Suspect)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_suspect")
		return
	}
	s.writeResult(w, r, s.session.Interrogate(sus))
}

func (s *Server) handleAccuse(w http.ResponseWriter, r *http.Request) {
	var req accuseReq
	if !decode(w, r, &req) {
		return
	}
	s.writeResult(w, r, s.session.Accuse(req.Killer, req.Weapon, req.Motive))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// casesRes is returned by GET /cases.
type casesRes struct {
	Cases []game.Verdict `json:"cases"`
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = min(n, maxCasesLimit)
	}
	rows, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list cases")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, casesRes{Cases: rows})
}

// writeResult logs the outcome and encodes res.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res game.Result) {
	hlog.FromRequest(r).Debug().
		Str("kind", string(res.Kind)).
		Str("location", res.CurrentLocation).
		Bool("game_over", res.GameOver).
		Msg("game action")
	writeJSON(w, http.StatusOK, res)
}

// decode reads a JSON body into v. An empty body leaves v zero-valued.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}
