// trials.go
package repository

import (
	"context"
	"time"

	"fixcal-go/internal/database"
	"fixcal-go/internal/markers"
	"fixcal-go/internal/models"

	"gorm.io/gorm"
)

// CreateSession opens a new append-only session record.
func CreateSession(subject string, seed int64) (*models.Session, error) {
	session := &models.Session{
		Subject:   subject,
		Seed:      seed,
		StartedAt: time.Now().UTC(),
	}
	result := database.DB.Create(session)
	return session, result.Error
}

// SaveTrialResultTx appends one trial's summary row and all its marker rows
// in a single transaction. Rows are never updated afterwards.
func SaveTrialResultTx(summary *models.TrialResult, stamps []markers.Stamp) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(summary).Error; err != nil {
			return err
		}
		for _, stamp := range stamps {
			row := models.TrialMarker{
				ResultID: summary.ID,
				Seq:      stamp.Seq,
				Code:     stamp.Code,
				AtMs:     stamp.AtMs,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTrials returns a session's trials in trial order.
func GetTrials(ctx context.Context, sessionID int) ([]models.TrialResult, error) {
	var trials []models.TrialResult
	result := database.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("trial_index").
		Find(&trials)
	return trials, result.Error
}

// OutcomeCount is one bucket of the session outcome summary.
type OutcomeCount struct {
	Outcome int   `json:"outcome"`
	Count   int64 `json:"count"`
}

// GetOutcomeCounts aggregates a session's trials by outcome code.
func GetOutcomeCounts(ctx context.Context, sessionID int) ([]OutcomeCount, error) {
	var counts []OutcomeCount
	err := database.DB.WithContext(ctx).Raw(`
		SELECT outcome, COUNT(*) AS count
		FROM trial_results
		WHERE session_id = ?
		GROUP BY outcome
		ORDER BY outcome;
	`, sessionID).Scan(&counts).Error
	return counts, err
}

// LatencyPoint is the first-location fixation acquisition latency of one
// trial, in milliseconds from cue onset.
type LatencyPoint struct {
	TrialIndex int     `json:"trialIndex"`
	LatencyMs  float64 `json:"latencyMs"`
}

// GetAcquireLatencies derives per-trial acquisition latency for the first
// presented location. Trials that aborted before acquiring it are skipped.
func GetAcquireLatencies(ctx context.Context, sessionID int) ([]LatencyPoint, error) {
	trials, err := GetTrials(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var points []LatencyPoint
	for _, t := range trials {
		if len(t.FixCueOnMs) == 0 || len(t.FixAcquireMs) == 0 {
			continue
		}
		cueOn, acquired := t.FixCueOnMs[0], t.FixAcquireMs[0]
		if !models.IsSet(cueOn) || !models.IsSet(acquired) {
			continue
		}
		points = append(points, LatencyPoint{
			TrialIndex: t.TrialIndex,
			LatencyMs:  acquired - cueOn,
		})
	}
	return points, nil
}
