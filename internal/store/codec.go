package store

import (
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"github.com/pkg/errors"

	"Tradle/internal/model"
)

func encodePriceData(pts []model.CondensedPoint) (string, error) {
	b, err := json.Marshal(pts)
	if err != nil {
		return "", errors.Wrap(err, "encode price data")
	}
	return string(b), nil
}

func decodePriceData(s string) ([]model.CondensedPoint, error) {
	var pts []model.CondensedPoint
	if err := json.Unmarshal([]byte(s), &pts); err != nil {
		return nil, errors.Wrap(err, "decode price data")
	}
	return pts, nil
}

// nullableFloat stores NaN as NULL.
func nullableFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func copyChallenge(c *model.Challenge) *model.Challenge {
	cp := *c
	cp.PriceData = append([]model.CondensedPoint(nil), c.PriceData...)
	return &cp
}
