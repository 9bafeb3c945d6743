// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package datafetch

import (
	"fmt"
	"time"

	"github.com/tomtom215/streamrank/internal/models"
)

// InHorizon reports whether c belongs to the pool on the given side of now.
func InHorizon(c models.Candidate, horizon models.Horizon, now time.Time) bool {
	switch v := c.(type) {
	case *models.Event:
		if v.Hidden || !v.Published {
			return false
		}
		if horizon == models.HorizonFuture {
			return v.StartsAt.After(now)
		}
		return !v.StartsAt.After(now)
	case *models.Spark:
		if v.Hidden {
			return false
		}
		if horizon == models.HorizonFuture {
			return v.PublishedAt.After(now)
		}
		return !v.PublishedAt.After(now)
	case *models.Job:
		if !v.Published {
			return false
		}
		if horizon == models.HorizonFuture {
			return v.IsOpen(now)
		}
		return !v.IsOpen(now)
	default:
		return false
	}
}

// filterHorizon keeps the candidates of pool that fall on horizon, in order.
func filterHorizon(pool []models.Candidate, horizon models.Horizon, now time.Time) []models.Candidate {
	out := make([]models.Candidate, 0, len(pool))
	for _, c := range pool {
		if InHorizon(c, horizon, now) {
			out = append(out, c)
		}
	}
	return out
}

func validHorizon(h models.Horizon) error {
	switch h {
	case models.HorizonFuture, models.HorizonPast:
		return nil
	default:
		return fmt.Errorf("unknown horizon %q", h)
	}
}
