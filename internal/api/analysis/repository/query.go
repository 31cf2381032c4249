package analysisRepository

const (
	queryCreateRun = `
		INSERT INTO analysis_runs (
			id,
			filename,
			width,
			height,
			num_regions,
			num_mentioned,
			artifact_dir,
			created_at
		) VALUES (
			:id,
			:filename,
			:width,
			:height,
			:num_regions,
			:num_mentioned,
			:artifact_dir,
			:created_at
		)
	`

	queryGetRunByID = `
		SELECT
			id,
			filename,
			width,
			height,
			num_regions,
			num_mentioned,
			artifact_dir,
			created_at
		FROM analysis_runs
		WHERE id = :id
	`

	queryGetRecentRuns = `
		SELECT
			id,
			filename,
			width,
			height,
			num_regions,
			num_mentioned,
			artifact_dir,
			created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT :limit
	`
)
