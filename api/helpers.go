package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/storage"
	"github.com/vocdoni/beleniosrf/types"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data any) {
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// electionFromURL parses the election id of the request and loads the
// election. On failure the error response is already written.
func (a *API) electionFromURL(w http.ResponseWriter, r *http.Request) (*storage.Election, bool) {
	eid, err := types.ParseElectionID(chi.URLParam(r, ElectionURLParam))
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return nil, false
	}
	e, err := a.storage.Election(eid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrElectionNotFound.With(eid.String()).Write(w)
		} else {
			ErrGenericInternalServerError.WithErr(err).Write(w)
		}
		return nil, false
	}
	return e, true
}

// hexParam decodes a hex URL parameter of the expected length.
func hexParam(r *http.Request, name string, size int) (types.HexBytes, bool) {
	b, err := types.HexStringToHexBytes(chi.URLParam(r, name))
	if err != nil || len(b) != size {
		return nil, false
	}
	return b, true
}
