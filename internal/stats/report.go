package stats

import (
	"context"

	"github.com/verte-zerg/kana/internal/model"
	"github.com/verte-zerg/kana/internal/store"
)

// DefaultCurveWindow is the rolling window for the accuracy curve.
const DefaultCurveWindow = 10

// Report contains precomputed journal data for stats rendering.
type Report struct {
	Attempts []model.Attempt
	CharAggs []model.CharAggregate
	Curve    []float64
}

// BuildReport loads a session's journal and prepares it for rendering.
// A nil store yields an empty report.
func BuildReport(ctx context.Context, st *store.Store, sessionID string, window int) (Report, error) {
	if st == nil {
		return Report{}, nil
	}
	attempts, err := st.ListAttempts(ctx, sessionID)
	if err != nil {
		return Report{}, err
	}
	aggs, err := st.ListCharAggregates(ctx, sessionID)
	if err != nil {
		return Report{}, err
	}
	if window <= 0 {
		window = DefaultCurveWindow
	}
	return Report{
		Attempts: attempts,
		CharAggs: aggs,
		Curve:    RollingAccuracy(attempts, window),
	}, nil
}
