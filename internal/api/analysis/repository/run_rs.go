package analysisRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"medclarity/internal/api/analysis"
	"medclarity/internal/entity"
	contextPkg "medclarity/pkg/context"
)

type AnalysisRunDB struct {
	ID           sql.NullString `db:"id"`
	Filename     sql.NullString `db:"filename"`
	Width        sql.NullInt64  `db:"width"`
	Height       sql.NullInt64  `db:"height"`
	NumRegions   sql.NullInt64  `db:"num_regions"`
	NumMentioned sql.NullInt64  `db:"num_mentioned"`
	ArtifactDir  sql.NullString `db:"artifact_dir"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r *runRepository) CreateRun(c context.Context, run entity.AnalysisRun) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":            run.ID,
		"filename":      run.Filename,
		"width":         run.Width,
		"height":        run.Height,
		"num_regions":   run.NumRegions,
		"num_mentioned": run.NumMentioned,
		"artifact_dir":  run.ArtifactDir,
		"created_at":    time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateRun, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRun")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating analysis run")
		return err
	}

	return nil
}

func (r *runRepository) GetRunByID(c context.Context, id string) (entity.AnalysisRun, error) {
	requestID := contextPkg.GetRequestID(c)
	var run AnalysisRunDB

	query, args, err := sqlx.Named(queryGetRunByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRunByID named query preparation err")
		return entity.AnalysisRun{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&run); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"run_id":     id,
			}).Warn("GetRunByID no rows found")
			return entity.AnalysisRun{}, analysis.ErrRunNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRunByID execution err")
		return entity.AnalysisRun{}, err
	}

	return r.makeAnalysisRun(run), nil
}

func (r *runRepository) GetRecentRuns(c context.Context, limit int) ([]entity.AnalysisRun, error) {
	requestID := contextPkg.GetRequestID(c)
	var runs []AnalysisRunDB

	query, args, err := sqlx.Named(queryGetRecentRuns, map[string]interface{}{"limit": limit})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecentRuns named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &runs, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecentRuns execution err")
		return nil, err
	}

	result := make([]entity.AnalysisRun, 0, len(runs))
	for _, run := range runs {
		result = append(result, r.makeAnalysisRun(run))
	}

	return result, nil
}

func (r *runRepository) makeAnalysisRun(run AnalysisRunDB) entity.AnalysisRun {
	return entity.AnalysisRun{
		ID:           run.ID.String,
		Filename:     run.Filename.String,
		Width:        int(run.Width.Int64),
		Height:       int(run.Height.Int64),
		NumRegions:   int(run.NumRegions.Int64),
		NumMentioned: int(run.NumMentioned.Int64),
		ArtifactDir:  run.ArtifactDir.String,
		CreatedAt:    run.CreatedAt,
	}
}
