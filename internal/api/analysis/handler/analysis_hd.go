package analysisHandler

import (
	"encoding/base64"
	"errors"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"medclarity/internal/api/analysis"
	contextPkg "medclarity/pkg/context"
	"medclarity/pkg/handlerUtil"
	"medclarity/pkg/log"
)

// Two model generations plus a segmentation forward pass dominate the
// request; the timeout is the caller-side watchdog for all three.
const analyzeTimeout = 5 * time.Minute

const maxUploadSize = 20 * 1024 * 1024

func (h *AnalysisHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), analyzeTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing MRI analysis request")

	imageData, filename, err := h.readUploadedImage(ctx, requestID)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_uploaded_image")
	}

	result, err := h.analysisService.Analyze(c, imageData, filename, nil)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_image")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id":  requestID,
			"path":        ctx.Path(),
			"run_id":      result.RunID,
			"num_regions": result.Metadata.NumRegions,
		}).Info("MRI analysis successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

// readUploadedImage accepts either a multipart "image" field or a JSON body
// with a base64 payload.
func (h *AnalysisHandler) readUploadedImage(ctx *fiber.Ctx, requestID string) ([]byte, string, error) {
	file, err := ctx.FormFile("image")
	if err == nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing file upload")

		if err := h.utils.ValidateImageFile(file); err != nil {
			switch {
			case file.Filename == "":
				return nil, "", analysis.ErrEmptyFilename
			case file.Size > maxUploadSize:
				return nil, "", analysis.ErrFileTooLarge
			default:
				return nil, "", analysis.ErrInvalidFileType
			}
		}

		fileContent, err := file.Open()
		if err != nil {
			return nil, "", err
		}
		defer fileContent.Close()

		data, err := io.ReadAll(fileContent)
		if err != nil {
			return nil, "", err
		}

		return data, file.Filename, nil
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing JSON request")

	var req analysis.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, "", analysis.ErrNoImageProvided
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, "", err
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return nil, "", analysis.ErrNoImageProvided
	}

	filename := req.Filename
	if filename == "" {
		filename = "upload.png"
	}

	return data, filename, nil
}

func (h *AnalysisHandler) GetRun(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	runID := ctx.Params("id")
	if runID == "" {
		return errHandler.Handle(ctx, requestID, analysis.ErrRunNotFound, ctx.Path(), "get_run")
	}

	result, err := h.analysisService.GetRun(c, runID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_run")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
}

func (h *AnalysisHandler) ListRuns(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	result, err := h.analysisService.ListRuns(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_runs")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
}
