package api

import (
	"net/http"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/handler"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/operator"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/params"
)

// Operators lists the available operators and the defaults of their parameters
type Operators struct {
	Operators []string               `json:"operators"`
	Defaults  map[string]interface{} `json:"defaults"`
}

func (a *API) operatorsHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	defaults := operator.DefaultParams()

	w.Header().Set("Cache-Control", "public, max-age=3600")
	handler.WriteJSON(w, http.StatusOK, Operators{
		Operators: operator.Names(),
		Defaults: map[string]interface{}{
			params.FieldC:          defaults.C,
			params.FieldThickness:  defaults.Thickness,
			params.FieldGamma:      defaults.Gamma,
			params.FieldKernelSize: defaults.KernelSize,
		},
	})

	return nil
}
