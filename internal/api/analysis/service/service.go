package analysisService

import (
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"medclarity/internal/api/analysis"
	analysisRepository "medclarity/internal/api/analysis/repository"
	"medclarity/pkg/artifact"
	"medclarity/pkg/gemini"
	"medclarity/pkg/overlay"
	redisPkg "medclarity/pkg/redis"
	"medclarity/pkg/s3"
	"medclarity/pkg/segmenter"
	"medclarity/pkg/utils"
)

type IAnalysisService interface {
	Analyze(ctx context.Context, imageData []byte, filename string, onStage func(stage string)) (*analysis.AnalyzeResponse, error)
	GetRun(ctx context.Context, id string) (*analysis.RunDetailResponse, error)
	ListRuns(ctx context.Context) (*analysis.RunListResponse, error)
}

type analysisService struct {
	log       *logrus.Logger
	repo      analysisRepository.Repository
	segmenter segmenter.ISegmenter
	gemini    gemini.IGemini
	renderer  *overlay.Renderer
	artifacts artifact.IWriter
	cache     redisPkg.IRedis
	s3        s3.ItfS3
	utils     utils.IUtils

	// The loaded models are not safe for concurrent inference, so pipeline
	// runs are serialized process-wide.
	mu sync.Mutex
}

func NewAnalysisService(
	log *logrus.Logger,
	repo analysisRepository.Repository,
	seg segmenter.ISegmenter,
	gem gemini.IGemini,
	renderer *overlay.Renderer,
	artifacts artifact.IWriter,
	cache redisPkg.IRedis,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) IAnalysisService {
	return &analysisService{
		log:       log,
		repo:      repo,
		segmenter: seg,
		gemini:    gem,
		renderer:  renderer,
		artifacts: artifacts,
		cache:     cache,
		s3:        s3Client,
		utils:     utils,
	}
}
