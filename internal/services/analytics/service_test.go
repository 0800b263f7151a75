package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

func TestBuildFunnel_Percentages(t *testing.T) {
	counts := map[models.InquiryStatus]int64{
		models.InquiryStatusPending:     10,
		models.InquiryStatusContacted:   5,
		models.InquiryStatusQualified:   3,
		models.InquiryStatusNegotiating: 1,
		models.InquiryStatusClosedWon:   1,
	}

	stages := BuildFunnel(counts)
	assert.Len(t, stages, len(models.InquiryStatuses))

	assert.Equal(t, models.InquiryStatusPending, stages[0].Status)
	assert.Equal(t, int64(10), stages[0].Count)
	assert.Equal(t, 50.0, stages[0].Percent)

	assert.Equal(t, models.InquiryStatusContacted, stages[1].Status)
	assert.Equal(t, 25.0, stages[1].Percent)

	assert.Equal(t, models.InquiryStatusQualified, stages[2].Status)
	assert.Equal(t, 15.0, stages[2].Percent)

	// closed_lost has no inquiries
	last := stages[len(stages)-1]
	assert.Equal(t, models.InquiryStatusClosedLost, last.Status)
	assert.Equal(t, int64(0), last.Count)
	assert.Equal(t, 0.0, last.Percent)
}

func TestBuildFunnel_EmptyDatasetYieldsZeros(t *testing.T) {
	stages := BuildFunnel(nil)
	assert.Len(t, stages, len(models.InquiryStatuses))
	for _, stage := range stages {
		assert.Equal(t, int64(0), stage.Count)
		assert.Equal(t, 0.0, stage.Percent)
	}
}

func TestBuildFunnel_SingleStage(t *testing.T) {
	stages := BuildFunnel(map[models.InquiryStatus]int64{
		models.InquiryStatusClosedWon: 4,
	})
	for _, stage := range stages {
		if stage.Status == models.InquiryStatusClosedWon {
			assert.Equal(t, 100.0, stage.Percent)
		} else {
			assert.Equal(t, 0.0, stage.Percent)
		}
	}
}
