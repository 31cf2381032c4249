package analysisService

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"medclarity/internal/api/analysis"
	contextPkg "medclarity/pkg/context"
)

const recentRunsLimit = 20

func (s *analysisService) GetRun(ctx context.Context, id string) (*analysis.RunDetailResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	run, err := repoClient.Runs.GetRunByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.artifacts.ReadResult(run.ArtifactDir)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"run_id":     id,
			"error":      err.Error(),
		}).Error("Run record exists but artifact is unreadable")
		return nil, analysis.ErrMissingArtifact
	}

	return &analysis.RunDetailResponse{
		Run:    run,
		Result: result,
	}, nil
}

func (s *analysisService) ListRuns(ctx context.Context) (*analysis.RunListResponse, error) {
	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	runs, err := repoClient.Runs.GetRecentRuns(ctx, recentRunsLimit)
	if err != nil {
		return nil, err
	}

	return &analysis.RunListResponse{Data: runs}, nil
}
