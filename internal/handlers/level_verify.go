package handlers

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/schema"

	"github.com/silevilence/picto-mino/internal/cover"
	"github.com/silevilence/picto-mino/internal/dlx"
	"github.com/silevilence/picto-mino/internal/levelpkg"
)

// maxLevelUploadBytes bounds the request body of a verify upload; a
// real .level archive is a few kilobytes.
const maxLevelUploadBytes = 1 << 20

// VerifyQueryDTO tunes a verification request. TimeoutMs is capped at
// 30000; zero or a negative value means the 5000ms default.
type VerifyQueryDTO struct {
	TimeoutMs int `schema:"timeout_ms"`
}

func parseVerifyQueryDTO(query url.Values) (VerifyQueryDTO, error) {
	var dto VerifyQueryDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, query)
	return dto, err
}

func (dto VerifyQueryDTO) deadline() time.Time {
	ms := dto.TimeoutMs
	switch {
	case ms <= 0:
		ms = 5000
	case ms > 30000:
		ms = 30000
	}
	return time.Now().Add(time.Duration(ms) * time.Millisecond)
}

// VerifyResultDTO reports whether an uploaded level's declared shape
// multiset covers its target with exactly one distinguishable tiling.
type VerifyResultDTO struct {
	Solvable        bool `json:"solvable"`
	Unique          bool `json:"unique"`
	Solutions       int  `json:"solutions"`
	DuplicateFactor int  `json:"duplicateFactor"`
	TimedOut        bool `json:"timedOut"`
}

// Verify decodes the request body as a .level archive and checks its
// solvability: the level's shape multiset is turned into an
// exact-cover problem and enumerated up to duplicateFactor+1
// solutions, so the response distinguishes unsolvable, unique, and
// multi-solution levels without an unbounded search.
func (h Level) Verify(w http.ResponseWriter, r *http.Request) {
	dto, err := parseVerifyQueryDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}
	deadline := dto.deadline()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxLevelUploadBytes+1))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if len(body) > maxLevelUploadBytes {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}

	lvl, err := levelpkg.Read(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	result, err := verifyLevel(lvl, deadline)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to verify level", "level_id", lvl.ID, "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, result)
}

// verifyLevel runs the exact-cover check for a decoded level. A level
// whose multiset admits no placement at all is simply unsolvable, not
// an error.
func verifyLevel(lvl *levelpkg.Level, deadline time.Time) (VerifyResultDTO, error) {
	catalog := lvl.Catalog()
	factor := cover.DuplicateFactor(catalog)
	result := VerifyResultDTO{DuplicateFactor: factor}

	m, timedOut := cover.Build(lvl.Board, catalog, deadline)
	if timedOut {
		result.TimedOut = true
		return result, nil
	}
	if len(m.Rows) == 0 {
		return result, nil
	}

	solver, timedOut, err := dlx.NewWithDeadline(m.NumCols(), m.Rows, deadline)
	if timedOut {
		result.TimedOut = true
		return result, nil
	}
	if err != nil {
		return result, err
	}

	count, timedOut := solver.CountSolutions(factor+1, deadline)
	result.Solutions = count
	result.Solvable = count > 0
	result.Unique = count == factor
	result.TimedOut = timedOut
	if timedOut {
		result.Solvable = false
		result.Unique = false
	}
	return result, nil
}
