package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sheetwright/sheetwright/internal/table"
)

const previewLimit = 5

type workbookRequest struct {
	Path  string `json:"path"`
	Sheet string `json:"sheet"`
}

type pivotRequest struct {
	workbookRequest
	Index   []string `json:"index"`
	Values  []string `json:"values"`
	Aggfunc string   `json:"aggfunc"`
}

type insertFormulaRequest struct {
	workbookRequest
	Cell    string `json:"cell"`
	Formula string `json:"formula"`
	Intent  string `json:"intent"`
}

type queryRequest struct {
	workbookRequest
	Query string `json:"query"`
}

// operationResponse is the envelope every endpoint answers with.
type operationResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	DataPreview []map[string]string `json:"data_preview,omitempty"`
	Metadata    map[string]any      `json:"metadata,omitempty"`
	QAResult    string              `json:"qa_result,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "app": "sheetwright"})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "sheetwright server is running",
		"endpoints": map[string]string{
			"clean":          "/v1/clean",
			"profile":        "/v1/profile",
			"pivot":          "/v1/pivot",
			"insert_formula": "/v1/insert-formula",
			"query":          "/v1/query",
		},
	})
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	var req workbookRequest
	if !s.decode(w, r, &req) {
		return
	}
	path, t, ok := s.loadWorkbook(w, req)
	if !ok {
		return
	}

	cleaned, summary := s.svc.CleanSheet(t)
	if err := table.SaveWorkbook(cleaned, path, req.Sheet); err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationResponse{
		Success:     true,
		Message:     fmt.Sprintf("Sheet %q cleaned successfully.", req.Sheet),
		DataPreview: cleaned.Preview(previewLimit),
		Metadata: map[string]any{
			"profile":          s.svc.ProfileSheet(cleaned),
			"cleaning_summary": summary,
		},
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req workbookRequest
	if !s.decode(w, r, &req) {
		return
	}
	_, t, ok := s.loadWorkbook(w, req)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, operationResponse{
		Success:     true,
		Message:     fmt.Sprintf("Profiled worksheet %q.", req.Sheet),
		DataPreview: t.Preview(previewLimit),
		Metadata:    map[string]any{"profile": s.svc.ProfileSheet(t)},
	})
}

// handlePivot returns the pivot as JSON; it is not written back to the
// workbook.
func (s *Server) handlePivot(w http.ResponseWriter, r *http.Request) {
	var req pivotRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Index) == 0 || len(req.Values) == 0 {
		s.failMsg(w, "index and values are required")
		return
	}
	if req.Aggfunc == "" {
		req.Aggfunc = "sum"
	}
	_, t, ok := s.loadWorkbook(w, req.workbookRequest)
	if !ok {
		return
	}

	pivoted, err := s.svc.CreatePivot(r.Context(), t, req.Index, req.Values, req.Aggfunc)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationResponse{
		Success:     true,
		Message:     "Pivot table created successfully.",
		DataPreview: pivoted.Preview(previewLimit),
		Metadata: map[string]any{
			"pivot_rows": pivoted.Rows(),
			"index":      req.Index,
			"values":     req.Values,
			"aggfunc":    req.Aggfunc,
		},
	})
}

func (s *Server) handleInsertFormula(w http.ResponseWriter, r *http.Request) {
	var req insertFormulaRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Cell == "" {
		s.failMsg(w, "cell is required")
		return
	}
	input := req.Formula
	if input == "" {
		input = req.Intent
	}
	if input == "" {
		s.failMsg(w, "formula or intent is required")
		return
	}
	path, t, ok := s.loadWorkbook(w, req.workbookRequest)
	if !ok {
		return
	}

	res, err := s.svc.InsertFormula(r.Context(), t, req.Cell, input)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := table.InsertCellFormula(path, req.Sheet, req.Cell, res.Formula); err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationResponse{
		Success: true,
		Message: fmt.Sprintf("Inserted formula into %s!%s.", req.Sheet, req.Cell),
		Metadata: map[string]any{
			"cell":             req.Cell,
			"formula":          res.Formula,
			"calculated_value": res.Preview,
		},
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Query == "" {
		s.failMsg(w, "query is required")
		return
	}
	_, t, ok := s.loadWorkbook(w, req.workbookRequest)
	if !ok {
		return
	}

	answer, err := s.svc.QueryData(r.Context(), t, req.Query)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationResponse{
		Success:  true,
		Message:  "Question answered.",
		QAResult: answer,
	})
}

// loadWorkbook guards the requested path and loads the sheet into a
// table snapshot. On failure it has already written the error response.
func (s *Server) loadWorkbook(w http.ResponseWriter, req workbookRequest) (string, *table.Table, bool) {
	if req.Sheet == "" {
		s.failMsg(w, "sheet is required")
		return "", nil, false
	}
	path, err := resolveWorkspacePath(s.workspace, req.Path)
	if err != nil {
		s.fail(w, err)
		return "", nil, false
	}
	t, err := table.LoadWorkbook(path, req.Sheet)
	if err != nil {
		s.fail(w, err)
		return "", nil, false
	}
	return path, t, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.failMsg(w, "invalid JSON request body")
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.failMsg(w, err.Error())
}

func (s *Server) failMsg(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, operationResponse{Success: false, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
