package http

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/app"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/app/queries"
)

const dateLayout = "2006-01-02"

type Server struct {
	queryBus app.QueryBus
	log      zerolog.Logger
}

func NewServer(queryBus app.QueryBus, log zerolog.Logger) *Server {
	return &Server{queryBus: queryBus, log: log}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) GetPrescriptions(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patientId")
	if patientID == "" {
		writeError(w, http.StatusBadRequest, "patientId is required")
		return
	}
	dr, ok := parseRange(w, r)
	if !ok {
		return
	}

	result, err := s.queryBus.GetPrescriptions(r.Context(), queries.GetPrescriptionsQuery{
		PatientUUID: patientID,
		Range:       dr,
		VisitType:   r.URL.Query().Get("visitType"),
	})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) GetOPConsults(w http.ResponseWriter, r *http.Request) {
	q, ok := s.visitQuery(w, r)
	if !ok {
		return
	}

	result, err := s.queryBus.GetOPConsults(r.Context(), queries.GetOPConsultsQuery(q))
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) GetDiagnosticReports(w http.ResponseWriter, r *http.Request) {
	q, ok := s.visitQuery(w, r)
	if !ok {
		return
	}

	result, err := s.queryBus.GetDiagnosticReports(r.Context(), queries.GetDiagnosticReportsQuery(q))
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) GetMedicationRequests(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patientId")
	if patientID == "" {
		writeError(w, http.StatusBadRequest, "patientId is required")
		return
	}
	visitType := r.URL.Query().Get("visitType")
	if visitType == "" {
		writeError(w, http.StatusBadRequest, "visitType is required")
		return
	}
	dr, ok := parseRange(w, r)
	if !ok {
		return
	}

	result, err := s.queryBus.GetMedicationRequests(r.Context(), queries.GetMedicationRequestsQuery{
		PatientUUID: patientID,
		Range:       dr,
		VisitType:   visitType,
	})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) GetHealthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// visitQuery validates the parameter set shared by the per-visit
// endpoints.
type visitParams struct {
	PatientUUID string
	Range       emr.DateRange
	VisitType   string
}

func (s *Server) visitQuery(w http.ResponseWriter, r *http.Request) (visitParams, bool) {
	patientID := r.URL.Query().Get("patientId")
	if patientID == "" {
		writeError(w, http.StatusBadRequest, "patientId is required")
		return visitParams{}, false
	}
	visitType := r.URL.Query().Get("visitType")
	if visitType == "" {
		writeError(w, http.StatusBadRequest, "visitType is required")
		return visitParams{}, false
	}
	dr, ok := parseRange(w, r)
	if !ok {
		return visitParams{}, false
	}
	return visitParams{PatientUUID: patientID, Range: dr, VisitType: visitType}, true
}

func parseRange(w http.ResponseWriter, r *http.Request) (emr.DateRange, bool) {
	var dr emr.DateRange
	if v := r.URL.Query().Get("fromDate"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "fromDate must be YYYY-MM-DD")
			return dr, false
		}
		dr.From = t
	}
	if v := r.URL.Query().Get("toDate"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "toDate must be YYYY-MM-DD")
			return dr, false
		}
		// Inclusive upper bound.
		dr.To = t.Add(24*time.Hour - time.Second)
	}
	return dr, true
}

func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	var mc *fhir.MissingContextError
	if errors.As(err, &mc) {
		// Org configuration is broken: the request cannot be served.
		s.log.Error().Err(err).Msg("organization context unavailable")
		writeError(w, http.StatusInternalServerError, mc.Error())
		return
	}
	s.log.Error().Err(err).Msg("query failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
