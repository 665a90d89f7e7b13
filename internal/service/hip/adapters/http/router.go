package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router mounts the HIP export endpoints.
func Router(srv *Server) http.Handler {
	r := chi.NewRouter()

	r.Route("/hip", func(r chi.Router) {
		r.Get("/prescriptions", srv.GetPrescriptions)
		r.Get("/opConsult/visit", srv.GetOPConsults)
		r.Get("/diagnosticReport/visit", srv.GetDiagnosticReports)
		r.Get("/medication", srv.GetMedicationRequests)
	})
	r.Get("/health", srv.GetHealthStatus)

	return r
}
