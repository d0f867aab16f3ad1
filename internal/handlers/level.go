package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/silevilence/picto-mino/internal/config"
	"github.com/silevilence/picto-mino/internal/middleware"
	"github.com/silevilence/picto-mino/internal/repository"
)

// Level serves the level catalog, per-level detail and leaderboards,
// and upgrades a connection to a live board session.
type Level struct {
	logger *slog.Logger
	repo   *repository.Queries
	ws     *config.WebSocket
	store  *LevelStore
}

// NewLevel wires a Level handler against a loaded LevelStore.
func NewLevel(
	logger *slog.Logger,
	db *pgxpool.Pool,
	ws *config.WebSocket,
	store *LevelStore,
) *Level {
	return &Level{
		logger: logger,
		repo:   repository.New(db),
		ws:     ws,
		store:  store,
	}
}

func playerIdFromContext(r *http.Request) (int, bool) {
	claims, ok := r.Context().Value(middleware.CtxPlayerClaims).(*config.PlayerClaims)
	if !ok {
		return 0, false
	}
	return int(claims.PlayerId), true
}

// List reports every level id known to the store, each with its name
// and whether the current player (if any) may play it yet. An
// anonymous caller sees every level unlocked; locks only bind tracked
// progress.
func (h Level) List(w http.ResponseWriter, r *http.Request) {
	playerId, authed := playerIdFromContext(r)

	out := make([]LevelSummaryDTO, 0, len(h.store.IDs()))
	for _, id := range h.store.IDs() {
		lvl, ok := h.store.Get(id)
		if !ok {
			continue
		}
		unlocked := true
		if authed {
			u, err := h.repo.IsUnlocked(r.Context(), playerId, id)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				h.logger.Error("unable to check unlock status", "level_id", id, "error", err)
				return
			}
			unlocked = u
		}
		out = append(out, LevelSummaryDTO{ID: id, Name: lvl.Name, Difficulty: lvl.Difficulty, Unlocked: unlocked})
	}

	sendJSONOrLog(w, h.logger, out)
}

// Fetch returns the full board, hints, and starting palette for one
// level, refusing to serve a level the player has not yet unlocked.
func (h Level) Fetch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	lvl, ok := h.store.Get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if playerId, authed := playerIdFromContext(r); authed {
		unlocked, err := h.repo.IsUnlocked(r.Context(), playerId, id)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.logger.Error("unable to check unlock status", "level_id", id, "error", err)
			return
		}
		if !unlocked {
			w.WriteHeader(http.StatusForbidden)
			sendJSONOrLog(w, h.logger, wrapError(ErrLevelLocked))
			return
		}
	}

	sendJSONOrLog(w, h.logger, newLevelDetailDTO(id, lvl))
}

// Leaderboard returns every completed best time recorded for a level,
// fastest first.
func (h Level) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.store.Get(id); !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	dto, err := parseLeaderboardQueryDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	filter := repository.LeaderboardFilter{LevelId: id}
	if dto.Username != "" {
		filter.Username = &dto.Username
	}

	entries, err := h.repo.GetLeaderboard(r.Context(), filter)
	if err != nil && err != pgx.ErrNoRows {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to load leaderboard", "level_id", id, "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, entries)
}

// Connect upgrades the request to a WebSocket and starts a live board
// session for the level named by the id path value.
func (h Level) Connect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	lvl, ok := h.store.Get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	playerId, authed := playerIdFromContext(r)
	if authed {
		unlocked, err := h.repo.IsUnlocked(r.Context(), playerId, id)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.logger.Error("unable to check unlock status", "level_id", id, "error", err)
			return
		}
		if !unlocked {
			w.WriteHeader(http.StatusForbidden)
			return
		}
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade to websocket", "error", err)
		return
	}

	session, err := newBoardSession(id, lvl, playerId, authed, h.repo, h.logger)
	if err != nil {
		h.logger.Error("unable to start board session", "level_id", id, "error", err)
		conn.Close()
		return
	}

	session.run(r.Context(), conn)
}
