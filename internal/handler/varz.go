package handler

import (
	"net/http"

	"tailscale.com/tsweb"
)

// VarzHandler serves all published expvars in the prometheus text format
func VarzHandler(w http.ResponseWriter, r *http.Request) {
	tsweb.VarzHandler(w, r)
}
