package scanplan

import (
	"testing"

	"github.com/agg-go/scanraster/internal/program"
)

func TestVectorColumnCoverageFullyCoveredColumn(t *testing.T) {
	xt := program.XTransform{OriginX: 0, PixelStep: 1}
	loIv := [][2]float64{{0, 1}, {2, 3}}
	hiIv := [][2]float64{{0, 1}, {2, 3}}
	cov := vectorColumnCoverage(loIv, hiIv, xt, 0)
	if cov < 0.9 {
		t.Errorf("expected a fully covered column to read close to 1.0 coverage, got %f", cov)
	}
}

func TestVectorColumnCoverageEmptyColumn(t *testing.T) {
	xt := program.XTransform{OriginX: 0, PixelStep: 1}
	cov := vectorColumnCoverage(nil, nil, xt, 5)
	if cov != 0 {
		t.Errorf("expected zero coverage with no intervals, got %f", cov)
	}
}
