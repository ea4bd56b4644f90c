package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/errors"
	"github.com/sentimeter-team/sentimeter/internal/adapter/dto/analysis"
	"github.com/sentimeter-team/sentimeter/internal/adapter/presenter"
	"github.com/sentimeter-team/sentimeter/internal/usecase/audio"
	"github.com/sentimeter-team/sentimeter/pkg/config"
)

// Audio handles audio analysis endpoints
type Audio struct {
	service *audio.Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewAudio creates a new audio analysis handler
func NewAudio(service *audio.Service, cfg *config.Config, logger *zap.Logger) *Audio {
	return &Audio{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// Analyze runs sentiment analysis over an uploaded audio recording
// @Summary      Analyze audio sentiment
// @Description  Upload an audio recording and receive windowed sentiment over its timeline
// @Tags         Audio
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Audio to analyze (.wav, .mp3, .m4a, .ogg)"
// @Success      200  {object}  analysis.AudioAnalysisResponse  "Analysis result"
// @Failure      400  {object}  map[string]interface{}  "Unsupported file type or missing file"
// @Failure      413  {object}  map[string]interface{}  "File exceeds size limit"
// @Failure      422  {object}  map[string]interface{}  "Audio could not be decoded"
// @Failure      502  {object}  map[string]interface{}  "Classifier unavailable"
// @Router       /audio/analyze [post]
func (h *Audio) Analyze(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Missing file field"))
	}

	req := analysis.UploadRequest{Filename: fileHeader.Filename, Size: fileHeader.Size}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	content, appErr := readUpload(fileHeader, h.cfg.Upload.AudioExtensions, h.cfg.Upload.MaxDocumentSize)
	if appErr != nil {
		return HandleError(h.logger, c, *appErr)
	}

	result, err := h.service.Analyze(c.Request().Context(), content, fileHeader.Filename)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToAudioAnalysisResponse(result))
}
