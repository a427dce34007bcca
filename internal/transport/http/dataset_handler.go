package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"catalogdash/internal/catalog"
	"catalogdash/internal/charts"
	"catalogdash/internal/config"
	apierrors "catalogdash/internal/errors"
	mw "catalogdash/internal/middleware"
	"catalogdash/internal/services"
	"catalogdash/internal/summary"
	api "catalogdash/pkg/contracts/api/v1"
)

// DatasetServiceInterface is the dataset store as seen by the HTTP layer
type DatasetServiceInterface interface {
	Load(ctx context.Context, name string, r io.Reader) (*services.LoadResult, error)
	List(ctx context.Context) []api.DatasetInfo
	Get(ctx context.Context, id string) (api.DatasetInfo, error)
	Delete(ctx context.Context, id string) error
	Preview(ctx context.Context, id string, rows int) (summary.PreviewTable, error)
	Summary(ctx context.Context, id string) (*services.SummaryResult, error)
	Chart(ctx context.Context, id, key string) (*charts.Chart, error)
	ExportChart(ctx context.Context, id, key string, bom bool) (*services.ChartExport, error)
}

// DatasetHandler handles dataset uploads, previews and charts with RFC 7807 errors
type DatasetHandler struct {
	service        DatasetServiceInterface
	validator    *mw.Validator
	cfg          config.DatasetsConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(
	service DatasetServiceInterface,
	validator *mw.Validator,
	cfg config.DatasetsConfig,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *DatasetHandler {
	return &DatasetHandler{
		service:      service,
		validator:    validator,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "dataset_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(mw.ContentTypeValidator(h.errorHandler, "multipart/form-data")).Post("/", h.Upload)
	r.Get("/", h.List)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.DatasetCtx)
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Get("/preview", h.Preview)
		r.Get("/summary", h.Summary)
		r.Get("/charts/{kind}", h.Chart)
		r.Get("/charts/{kind}/csv", h.ExportChart)
	})

	return r
}

// DatasetCtx validates the dataset id path parameter
func (h *DatasetHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := api.DatasetRequest{DatasetID: chi.URLParam(r, "id")}
		if err := h.validator.Struct(req); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload handles POST /api/datasets
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	file, header, err := r.FormFile(config.UploadField)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.uploadError(err))
		return
	}
	defer file.Close()

	req := api.UploadRequest{FileName: header.Filename, Size: header.Size}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "loading dataset",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("file_name", req.FileName),
		slog.Int64("size", req.Size),
	)

	res, err := h.service.Load(ctx, req.FileName, file)
	if err != nil {
		h.logger.WarnContext(ctx, "dataset upload rejected",
			slog.String("file_name", req.FileName),
			slog.String("error", err.Error()),
		)
		h.errorHandler.HandleError(w, r, h.mapError(err, "", ""))
		return
	}

	w.Header().Set("Location", "/api/datasets/"+res.Dataset.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, res)
}

func (h *DatasetHandler) uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return apierrors.PayloadTooLarge(tooLarge.Limit)
	case errors.Is(err, http.ErrMissingFile):
		return apierrors.MissingParameter(config.UploadField)
	default:
		return apierrors.InvalidRequestWithError(err)
	}
}

// List handles GET /api/datasets
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	datasets := h.service.List(r.Context())
	render.JSON(w, r, api.DatasetListResponse{
		Datasets: datasets,
		Count:    len(datasets),
	})
}

// Get handles GET /api/datasets/{id}
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	info, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, id, ""))
		return
	}
	render.JSON(w, r, info)
}

// Delete handles DELETE /api/datasets/{id}
func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, id, ""))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles GET /api/datasets/{id}/preview?rows=n
func (h *DatasetHandler) Preview(w http.ResponseWriter, r *http.Request) {
	req := api.PreviewRequest{
		DatasetRequest: api.DatasetRequest{DatasetID: chi.URLParam(r, "id")},
		Rows:           h.cfg.PreviewRows,
	}
	if raw := r.URL.Query().Get("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("rows", "rows must be an integer"))
			return
		}
		req.Rows = n
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validator.Var("rows", req.Rows, "max="+strconv.Itoa(h.cfg.MaxPreviewRows)); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	preview, err := h.service.Preview(r.Context(), req.DatasetID, req.Rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, req.DatasetID, ""))
		return
	}
	render.JSON(w, r, preview)
}

// Summary handles GET /api/datasets/{id}/summary
func (h *DatasetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sum, err := h.service.Summary(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, id, ""))
		return
	}
	render.JSON(w, r, sum)
}

// Chart handles GET /api/datasets/{id}/charts/{kind}
func (h *DatasetHandler) Chart(w http.ResponseWriter, r *http.Request) {
	req := api.ChartRequest{
		DatasetRequest: api.DatasetRequest{DatasetID: chi.URLParam(r, "id")},
		Kind:           chi.URLParam(r, "kind"),
	}
	if err := h.validateChart(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	c, err := h.service.Chart(r.Context(), req.DatasetID, req.Kind)
	if err != nil {
		h.logger.DebugContext(r.Context(), "chart not computed",
			slog.String("dataset_id", req.DatasetID),
			slog.String("kind", req.Kind),
			slog.String("error", err.Error()),
		)
		h.errorHandler.HandleError(w, r, h.mapError(err, req.DatasetID, req.Kind))
		return
	}
	render.JSON(w, r, c)
}

// ExportChart handles GET /api/datasets/{id}/charts/{kind}/csv
func (h *DatasetHandler) ExportChart(w http.ResponseWriter, r *http.Request) {
	req := api.ChartExportRequest{
		ChartRequest: api.ChartRequest{
			DatasetRequest: api.DatasetRequest{DatasetID: chi.URLParam(r, "id")},
			Kind:           chi.URLParam(r, "kind"),
		},
	}
	if raw := r.URL.Query().Get("bom"); raw != "" {
		bom, err := strconv.ParseBool(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("bom", "bom must be a boolean"))
			return
		}
		req.BOM = bom
	}
	if err := h.validateChart(req.ChartRequest); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	exp, err := h.service.ExportChart(r.Context(), req.DatasetID, req.Kind, req.BOM)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, req.DatasetID, req.Kind))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(exp.Data); err != nil {
		h.logger.WarnContext(r.Context(), "chart export write failed", slog.String("error", err.Error()))
	}
}

// validateChart reports an unknown chart key as UNKNOWN_CHART_KIND rather
// than a generic validation failure.
func (h *DatasetHandler) validateChart(req api.ChartRequest) error {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	if _, perr := charts.ParseKind(req.Kind); perr != nil {
		return apierrors.UnknownChartKind(req.Kind)
	}
	return err
}

// mapError converts service errors to API errors
func (h *DatasetHandler) mapError(err error, id, kind string) error {
	var missing *catalog.MissingColumnError
	switch {
	case errors.As(err, &missing):
		return apierrors.MissingColumn(missing.Column)
	case errors.Is(err, charts.ErrUnknownKind):
		return apierrors.UnknownChartKind(kind)
	case errors.Is(err, services.ErrDatasetNotFound):
		return apierrors.DatasetNotFound(id)
	case errors.Is(err, catalog.ErrUnreadableFile):
		return apierrors.UnreadableFile(err)
	default:
		return err
	}
}
