package patients

import (
	"net/http"

	"github.com/louisbranch/carepulse/internal/services/intake/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleFormGet)
	mux.HandleFunc(http.MethodPost+" "+routepath.Root+"{$}", h.handleFormPost)
	mux.HandleFunc(http.MethodGet+" "+routepath.PatientRegisterPattern, h.handleRegisterGet)
}
