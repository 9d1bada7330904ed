package api

import (
	"encoding/json"
	"net/http"
)

// cachedJSON serves a 200 JSON body from the response cache when present.
// On a miss it calls load, writes the result and stores it for the
// configured TTL. Cache failures are logged and the request is served from
// load as if no cache were configured.
func (a *API) cachedJSON(w http.ResponseWriter, r *http.Request, key string, load func() (interface{}, error)) {
	if a.cache == nil {
		a.respondLoaded(w, r, load)
		return
	}

	var raw json.RawMessage
	found, err := a.cache.Get(r.Context(), key, &raw)
	if err != nil {
		a.logger.Warnw("Response cache read failed", "key", key, "error", err)
	}
	if found && err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(append(raw, '\n'))
		return
	}

	data, err := load()
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if err := a.cache.Set(r.Context(), key, data, a.config.Redis.TTL); err != nil {
		a.logger.Warnw("Response cache write failed", "key", key, "error", err)
	}
	w.Header().Set("X-Cache", "MISS")
	a.respondJSON(w, data, http.StatusOK)
}

func (a *API) respondLoaded(w http.ResponseWriter, r *http.Request, load func() (interface{}, error)) {
	data, err := load()
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, data, http.StatusOK)
}
