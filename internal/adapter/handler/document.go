package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/errors"
	"github.com/sentimeter-team/sentimeter/internal/adapter/dto/analysis"
	"github.com/sentimeter-team/sentimeter/internal/adapter/presenter"
	"github.com/sentimeter-team/sentimeter/internal/usecase/document"
	"github.com/sentimeter-team/sentimeter/pkg/config"
)

// Document handles print-media analysis endpoints
type Document struct {
	service *document.Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewDocument creates a new document analysis handler
func NewDocument(service *document.Service, cfg *config.Config, logger *zap.Logger) *Document {
	return &Document{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// Analyze runs sentiment analysis over an uploaded document
// @Summary      Analyze document sentiment
// @Description  Upload a document and receive its sentiment distribution with supporting highlights
// @Tags         Print Media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document to analyze (.pdf, .docx, .txt, .xlsx)"
// @Success      200  {object}  analysis.DocumentAnalysisResponse  "Analysis result"
// @Failure      400  {object}  map[string]interface{}  "Unsupported file type or missing file"
// @Failure      413  {object}  map[string]interface{}  "File exceeds size limit"
// @Failure      422  {object}  map[string]interface{}  "No analyzable content"
// @Failure      502  {object}  map[string]interface{}  "Classifier unavailable"
// @Router       /print-media/analyze [post]
func (h *Document) Analyze(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Missing file field"))
	}

	req := analysis.UploadRequest{Filename: fileHeader.Filename, Size: fileHeader.Size}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	content, appErr := readUpload(fileHeader, h.cfg.Upload.DocumentExtensions, h.cfg.Upload.MaxDocumentSize)
	if appErr != nil {
		return HandleError(h.logger, c, *appErr)
	}

	result, err := h.service.Analyze(c.Request().Context(), content, fileHeader.Filename)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToDocumentAnalysisResponse(result))
}
