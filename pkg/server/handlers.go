package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"humboldt-hq/biotica/pkg/config"
	"humboldt-hq/biotica/pkg/export"
	"humboldt-hq/biotica/pkg/export/lifecycle"
	"humboldt-hq/biotica/pkg/observation"
)

// searchResponse is the body of a successful search.
type searchResponse struct {
	Records   []observation.Record `json:"records"`
	Count     int                  `json:"count"`
	Truncated bool                 `json:"truncated"`
	Points    []mapPoint           `json:"points"`
}

// mapPoint is a georeferenced record in map-friendly form. Only records
// whose coordinates transformed successfully contribute a point.
type mapPoint struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	ScientificName string  `json:"nombre_cientifico"`
	Municipality   string  `json:"municipio"`
}

// exportRequest asks for an artifact covering the filtered records.
type exportRequest struct {
	Filter observation.FilterSpec `json:"filter"`
	Format observation.Format     `json:"format"`
}

// exportResponse describes a created export job.
type exportResponse struct {
	Job         *observation.ExportJob `json:"job"`
	DownloadURL string                 `json:"download_url"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var spec observation.FilterSpec
	if err := decodeJSON(r.Body, &spec); err != nil {
		s.writeError(w, observation.NewValidationError("body", err))
		s.recordSearch("error", start, 0, 0)
		return
	}

	ctx, cancel := s.queryContext(r.Context())
	defer cancel()

	result, err := s.store.Search(ctx, &spec)
	if err != nil {
		s.writeError(w, err)
		s.recordSearch("error", start, 0, 0)
		return
	}

	points := make([]mapPoint, 0, len(result.Records))
	transformFailures := 0
	for i := range result.Records {
		rec := &result.Records[i]
		switch {
		case rec.HasGeo:
			points = append(points, mapPoint{
				Lat:            rec.LatWGS84,
				Lon:            rec.LonWGS84,
				ScientificName: rec.ScientificName,
				Municipality:   rec.Municipality,
			})
		case rec.HasRawCoords:
			transformFailures++
		}
	}

	s.recordSearch("success", start, len(result.Records), transformFailures)
	s.writeJSON(w, http.StatusOK, searchResponse{
		Records:   result.Records,
		Count:     len(result.Records),
		Truncated: result.Truncated,
		Points:    points,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(w, observation.NewValidationError("body", err))
		return
	}
	if !req.Format.Valid() {
		s.writeError(w, observation.NewValidationError("format",
			fmt.Errorf("unsupported format %q, expected csv or xlsx", req.Format)))
		return
	}

	cfg := s.holder.Current()

	exporter, err := buildExporter(req.Format, &cfg.Export)
	if err != nil {
		s.writeError(w, err)
		s.recordExport(req.Format, "error", 0)
		return
	}

	ctx, cancel := s.queryContext(r.Context())
	defer cancel()

	result, err := s.store.Search(ctx, &req.Filter)
	if err != nil {
		s.writeError(w, err)
		s.recordExport(req.Format, "error", 0)
		return
	}

	job, err := s.manager.Create(ctx, req.Format, len(result.Records), func(out io.Writer) error {
		return exporter.Export(ctx, result.Records, out)
	})
	if err != nil {
		s.writeError(w, err)
		s.recordExport(req.Format, "error", 0)
		return
	}

	s.recordExport(req.Format, "success", job.SizeBytes)
	s.logger.Info("Export created",
		"job_id", job.ID,
		"format", string(job.Format),
		"rows", job.RowCount,
		"bytes", job.SizeBytes,
	)

	s.writeJSON(w, http.StatusCreated, exportResponse{
		Job:         job,
		DownloadURL: "/api/v1/exports/" + job.ID,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	job, err := s.manager.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := filepath.Base(job.Path)
	w.Header().Set("Content-Type", job.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, job.Path)
}

func (s *Server) handleFieldValues(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")

	ctx, cancel := s.queryContext(r.Context())
	defer cancel()

	values, err := s.store.DistinctValues(ctx, field)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"field":  field,
		"values": values,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("Health check failed", "error", err)
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// buildExporter constructs the exporter for a format from the active
// export configuration.
func buildExporter(format observation.Format, cfg *config.ExportConfig) (export.Exporter, error) {
	switch format {
	case observation.FormatCSV:
		delimiter := ','
		if cfg.CSVDelimiter != "" {
			delimiter = []rune(cfg.CSVDelimiter)[0]
		}
		return export.NewCSVExporter(&export.CSVConfig{
			Delimiter:          delimiter,
			AddBOM:             cfg.CSVAddBOM,
			Columns:            cfg.Columns,
			IncludeCoordinates: cfg.IncludeCoordinates,
		})
	case observation.FormatXLSX:
		return export.NewXLSXExporter(&export.XLSXConfig{
			HeaderFillColor:    cfg.HeaderFillColor,
			HeaderFontColor:    cfg.HeaderFontColor,
			MaxColumnWidth:     cfg.MaxColumnWidth,
			SummaryGroupField:  cfg.SummaryGroupField,
			Columns:            cfg.Columns,
			IncludeCoordinates: cfg.IncludeCoordinates,
		})
	default:
		return nil, observation.NewValidationError("format",
			fmt.Errorf("unsupported format %q", format))
	}
}

// queryContext bounds a store query with the configured timeout.
func (s *Server) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := s.holder.Current().Store.QueryTimeout
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func (s *Server) recordSearch(status string, start time.Time, records, transformFailures int) {
	if s.collector != nil {
		s.collector.RecordSearch(status, time.Since(start), records, transformFailures)
	}
}

func (s *Server) recordExport(format observation.Format, status string, sizeBytes int64) {
	if s.collector != nil {
		s.collector.RecordExport(string(format), status, sizeBytes)
	}
}

func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeError maps domain error kinds to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := "internal"
	status := http.StatusInternalServerError

	var validationErr *observation.ValidationError
	var configErr *observation.ConfigError
	var storeErr *observation.StoreError
	var exportErr *observation.ExportError

	switch {
	case errors.As(err, &validationErr):
		kind = "validation"
		status = http.StatusBadRequest
	case errors.As(err, &configErr):
		kind = "config"
		status = http.StatusBadRequest
	case errors.As(err, &storeErr):
		kind = "store"
		status = http.StatusBadGateway
		if storeErr.Timeout {
			status = http.StatusGatewayTimeout
		}
	case errors.As(err, &exportErr):
		kind = "export"
	case errors.Is(err, lifecycle.ErrNotFound):
		kind = "not_found"
		status = http.StatusNotFound
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "kind", kind, "error", err)
	} else {
		s.logger.Debug("Request rejected", "kind", kind, "error", err)
	}

	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Kind:    kind,
		Message: err.Error(),
	}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}
