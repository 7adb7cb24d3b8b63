package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afyalink/internal/models"
	"afyalink/internal/utils"
	"afyalink/pkg/logger"
)

func answersWith(count int, values ...int) []models.AssessmentAnswer {
	answers := make([]models.AssessmentAnswer, count)
	for i := range answers {
		answers[i] = models.AssessmentAnswer{QuestionID: i + 1}
		if i < len(values) {
			answers[i].Value = values[i]
		}
	}
	return answers
}

func TestAssessmentService_Catalogue(t *testing.T) {
	svc := NewAssessmentService(logger.NewNop())

	assessments := svc.ListAssessments()
	require.Len(t, assessments, 2)
	assert.Equal(t, AssessmentDepression, assessments[0].ID)
	assert.Len(t, assessments[0].Questions, 9)
	assert.Equal(t, AssessmentAnxiety, assessments[1].ID)
	assert.Len(t, assessments[1].Questions, 7)
	assert.Len(t, assessments[1].Questions[0].Options, 4)

	assert.Len(t, svc.ListResources(), 2)
}

func TestAssessmentService_SubmitLevels(t *testing.T) {
	svc := NewAssessmentService(logger.NewNop())

	tests := []struct {
		name       string
		id         string
		answers    []models.AssessmentAnswer
		wantScore  int
		wantLevel  models.AssessmentLevel
		wantMax    int
		wantCrisis bool
	}{
		{"depression low", AssessmentDepression, answersWith(9, 1, 1, 1, 1), 4, models.AssessmentLevelLow, 27, false},
		{"depression moderate", AssessmentDepression, answersWith(9, 3, 2), 5, models.AssessmentLevelModerate, 27, false},
		{"depression severe", AssessmentDepression, answersWith(9, 3, 3, 3, 1), 10, models.AssessmentLevelSevere, 27, false},
		{"depression self harm", AssessmentDepression, answersWith(9, 0, 0, 0, 0, 0, 0, 0, 0, 1), 1, models.AssessmentLevelLow, 27, true},
		{"anxiety moderate", AssessmentAnxiety, answersWith(7, 1, 1, 1, 1, 1), 5, models.AssessmentLevelModerate, 21, false},
		{"anxiety severe", AssessmentAnxiety, answersWith(7, 3, 3, 3, 3, 3, 3, 3), 21, models.AssessmentLevelSevere, 21, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Submit(context.Background(), tt.id, tt.answers)
			require.NoError(t, err)

			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantLevel, result.Level)
			assert.Equal(t, tt.wantMax, result.MaxScore)
			assert.NotEmpty(t, result.Recommendations)
			if tt.wantCrisis {
				assert.Equal(t, crisisRecommendation, result.Recommendations[0])
			} else {
				assert.NotContains(t, result.Recommendations, crisisRecommendation)
			}
		})
	}
}

func TestAssessmentService_SubmitRejectsMalformedAnswers(t *testing.T) {
	svc := NewAssessmentService(logger.NewNop())

	duplicate := answersWith(7)
	duplicate[6].QuestionID = 1

	outOfRange := answersWith(7)
	outOfRange[2].Value = 4

	unknown := append(answersWith(7), models.AssessmentAnswer{QuestionID: 8})

	tests := []struct {
		name    string
		answers []models.AssessmentAnswer
		field   string
	}{
		{"missing answers", answersWith(6), "question 7"},
		{"duplicate question", duplicate, "answers[6].questionId"},
		{"out of range", outOfRange, "answers[2].value"},
		{"unknown question", unknown, "answers[7].questionId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), AssessmentAnxiety, tt.answers)
			require.ErrorIs(t, err, utils.ErrValidation)

			var appErr *utils.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestAssessmentService_UnknownAssessment(t *testing.T) {
	svc := NewAssessmentService(logger.NewNop())

	_, err := svc.Submit(context.Background(), "stress", answersWith(1))
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
