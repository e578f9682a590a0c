package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/auth"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/store"
	"github.com/DuckHunt-discord/Coroned-event/corona"
	"github.com/DuckHunt-discord/Coroned-event/logger"
)

// OwnerHeader carries the chat identity of the person asking for a debug
// dump. The bridge fills it in after checking the command author.
const OwnerHeader = "X-Coroned-Owner"

const requestTimeout = 5 * time.Second

// HTTPHandler serves health, statistics and profile lookups.
type HTTPHandler struct {
	engine  *corona.Engine
	store   store.Service
	bridges *auth.Bridges
	isOwner func(identity uint64) bool
	health  func() map[string]any
	log     *logrus.Entry
}

type errorResponse struct {
	Error string `json:"error"`
}

type inventoryLine struct {
	Item  string `json:"item"`
	Glyph string `json:"glyph"`
	Count int64  `json:"count"`
}

type achievementLine struct {
	Key   string `json:"key"`
	Glyph string `json:"glyph"`
}

type profileResponse struct {
	Identity        string            `json:"identity"`
	Name            string            `json:"name"`
	Inventory       []inventoryLine   `json:"inventory"`
	Achievements    []achievementLine `json:"achievements"`
	Isolation       string            `json:"isolation"`
	Doctor          bool              `json:"doctor"`
	Immunodeficient bool              `json:"immunodeficient"`
	Law             string            `json:"law"`
	Good            string            `json:"good"`
	Charisma        int               `json:"charisma"`
	WorkedTimes     int64             `json:"worked_times"`
	ResearchedTimes int64             `json:"researched_times"`
	MadeVaccines    int64             `json:"made_vaccines"`
}

// NewHTTPHandler builds the read-only HTTP surface. health may be nil.
func NewHTTPHandler(
	engine *corona.Engine,
	svc store.Service,
	bridges *auth.Bridges,
	isOwner func(identity uint64) bool,
	health func() map[string]any,
) *HTTPHandler {
	return &HTTPHandler{
		engine:  engine,
		store:   svc,
		bridges: bridges,
		isOwner: isOwner,
		health:  health,
		log:     logger.Component("api"),
	}
}

// RegisterRoutes mounts every endpoint on mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/api/statistics", h.handleStatistics)
	mux.HandleFunc("/api/profile", h.requireBridge(h.handleProfile))
	mux.HandleFunc("/api/debug/player", h.requireBridge(h.handleDebugPlayer))
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	payload := map[string]any{"status": "ok"}
	if h.health != nil {
		for k, v := range h.health() {
			payload[k] = v
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *HTTPHandler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stats, err := h.store.Stats(ctx)
	if err != nil {
		h.log.WithError(err).Error("Query statistics")
		writeError(w, http.StatusInternalServerError, "query statistics failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *HTTPHandler) handleProfile(w http.ResponseWriter, r *http.Request, _ string) {
	p, ok := h.loadPlayer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(h.engine.Snapshot(p)))
}

// handleDebugPlayer dumps the full stored record. Owners only, and never
// on a server without configured bridges.
func (h *HTTPHandler) handleDebugPlayer(w http.ResponseWriter, r *http.Request, bridge string) {
	if h.bridges.Open() {
		writeError(w, http.StatusForbidden, "debug endpoints need configured bridges")
		return
	}
	owner, err := strconv.ParseUint(strings.TrimSpace(r.Header.Get(OwnerHeader)), 10, 64)
	if err != nil || h.isOwner == nil || !h.isOwner(owner) {
		h.log.WithFields(logrus.Fields{"bridge": bridge, "owner": r.Header.Get(OwnerHeader)}).Warn("Debug dump refused")
		writeError(w, http.StatusForbidden, "owner only")
		return
	}

	p, ok := h.loadPlayer(w, r)
	if !ok {
		return
	}
	h.log.WithFields(logrus.Fields{"bridge": bridge, "owner": owner, "identity": p.Identity}).Info("Debug dump")
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) loadPlayer(w http.ResponseWriter, r *http.Request) (*corona.Player, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	identity, err := strconv.ParseUint(strings.TrimSpace(r.URL.Query().Get("id")), 10, 64)
	if err != nil || identity == 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	p, err := h.store.LoadPlayer(ctx, identity, "")
	if err != nil {
		h.log.WithError(err).WithField("identity", identity).Error("Load player")
		writeError(w, http.StatusInternalServerError, "load player failed")
		return nil, false
	}
	return p, true
}

func (h *HTTPHandler) requireBridge(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bridge, err := h.bridges.Authenticate(auth.RequestToken(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid bridge token")
			return
		}
		next(w, r, bridge)
	}
}

func toProfileResponse(pr corona.Profile) profileResponse {
	resp := profileResponse{
		Identity:        strconv.FormatUint(pr.Identity, 10),
		Name:            pr.Name,
		Inventory:       make([]inventoryLine, 0, len(pr.Inventory)),
		Achievements:    make([]achievementLine, 0, len(pr.Achievements)),
		Isolation:       pr.Isolation.String(),
		Doctor:          pr.Doctor,
		Immunodeficient: pr.Immunodeficient,
		Law:             pr.Law.String(),
		Good:            pr.Good.String(),
		Charisma:        pr.Charisma,
		WorkedTimes:     pr.WorkedTimes,
		ResearchedTimes: pr.ResearchedTimes,
		MadeVaccines:    pr.MadeVaccines,
	}
	for _, l := range pr.Inventory {
		resp.Inventory = append(resp.Inventory, inventoryLine{Item: l.Kind.String(), Glyph: l.Glyph, Count: l.Count})
	}
	for _, a := range pr.Achievements {
		resp.Achievements = append(resp.Achievements, achievementLine{Key: a.String(), Glyph: a.Glyph()})
	}
	return resp
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
