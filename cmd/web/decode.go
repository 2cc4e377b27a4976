package main

import (
	"encoding/json"
	"github.com/myrjola/dossier/internal/errors"
	"net/http"
)

const maxRequestBytes = 1 << 16

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
