package analysis

import "errors"

var (
	ErrNoImageProvided    = errors.New("no image file provided")
	ErrEmptyFilename      = errors.New("empty filename")
	ErrInvalidFileType    = errors.New("uploaded file is not an image")
	ErrFileTooLarge       = errors.New("file size exceeds limit")
	ErrSegmentationFailed = errors.New("segmentation model invocation failed")
	ErrModelInvocation    = errors.New("language model invocation failed")
	ErrMissingArtifact    = errors.New("expected run output artifact is missing")
	ErrRunNotFound        = errors.New("analysis run not found")
)
