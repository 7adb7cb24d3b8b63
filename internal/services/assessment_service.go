package services

import (
	"context"
	"fmt"

	"afyalink/internal/models"
	"afyalink/internal/utils"
	"afyalink/pkg/logger"
)

const (
	AssessmentDepression = "depression"
	AssessmentAnxiety    = "anxiety"

	minAnswerValue = 0
	maxAnswerValue = 3
)

var frequencyOptions = []models.AssessmentOption{
	{Value: 0, Text: "Not at all"},
	{Value: 1, Text: "Several days"},
	{Value: 2, Text: "More than half the days"},
	{Value: 3, Text: "Nearly every day"},
}

// selfHarmQuestionID is the PHQ-9 item about thoughts of self-harm. Any
// non-zero answer adds crisis guidance regardless of the total score.
const selfHarmQuestionID = 9

func screeningQuestions(prompts ...string) []models.AssessmentQuestion {
	questions := make([]models.AssessmentQuestion, len(prompts))
	for i, prompt := range prompts {
		questions[i] = models.AssessmentQuestion{
			ID:       i + 1,
			Question: prompt,
			Options:  frequencyOptions,
		}
	}
	return questions
}

var assessmentCatalogue = []models.Assessment{
	{
		ID:          AssessmentDepression,
		Title:       "Depression Screening",
		Description: "A brief assessment to help identify symptoms of depression (PHQ-9)",
		Questions: screeningQuestions(
			"Over the last 2 weeks, how often have you had little interest or pleasure in doing things?",
			"Over the last 2 weeks, how often have you felt down, depressed, or hopeless?",
			"Over the last 2 weeks, how often have you had trouble falling or staying asleep, or sleeping too much?",
			"Over the last 2 weeks, how often have you felt tired or had little energy?",
			"Over the last 2 weeks, how often have you had poor appetite or overeaten?",
			"Over the last 2 weeks, how often have you felt bad about yourself, or that you are a failure or have let yourself or your family down?",
			"Over the last 2 weeks, how often have you had trouble concentrating on things, such as reading or watching television?",
			"Over the last 2 weeks, how often have you moved or spoken so slowly that other people could have noticed, or been so restless that you moved around a lot more than usual?",
			"Over the last 2 weeks, how often have you had thoughts that you would be better off dead, or of hurting yourself?",
		),
		ModerateThreshold: 5,
		SevereThreshold:   10,
	},
	{
		ID:          AssessmentAnxiety,
		Title:       "Anxiety Screening",
		Description: "A brief assessment to help identify symptoms of anxiety (GAD-7)",
		Questions: screeningQuestions(
			"Over the last 2 weeks, how often have you felt nervous, anxious, or on edge?",
			"Over the last 2 weeks, how often have you not been able to stop or control worrying?",
			"Over the last 2 weeks, how often have you worried too much about different things?",
			"Over the last 2 weeks, how often have you had trouble relaxing?",
			"Over the last 2 weeks, how often have you been so restless that it is hard to sit still?",
			"Over the last 2 weeks, how often have you become easily annoyed or irritable?",
			"Over the last 2 weeks, how often have you felt afraid as if something awful might happen?",
		),
		ModerateThreshold: 5,
		SevereThreshold:   10,
	},
}

var recommendations = map[string]map[models.AssessmentLevel][]string{
	AssessmentDepression: {
		models.AssessmentLevelSevere: {
			"Consider seeking professional help immediately",
			"Contact a mental health professional",
			"Reach out to trusted friends or family",
		},
		models.AssessmentLevelModerate: {
			"Consider speaking with a healthcare provider",
			"Practice stress management techniques",
			"Maintain regular sleep and exercise",
		},
		models.AssessmentLevelLow: {
			"Continue current self-care practices",
			"Maintain healthy lifestyle habits",
		},
	},
	AssessmentAnxiety: {
		models.AssessmentLevelSevere: {
			"Consider seeking professional help immediately",
			"Talk to a counselor through the anonymous chat",
			"Practice slow breathing when anxiety peaks",
		},
		models.AssessmentLevelModerate: {
			"Consider speaking with a healthcare provider",
			"Limit caffeine and keep a regular sleep schedule",
			"Try relaxation or grounding exercises daily",
		},
		models.AssessmentLevelLow: {
			"Continue current self-care practices",
			"Keep up regular physical activity",
		},
	},
}

const crisisRecommendation = "If you are having thoughts of harming yourself, call the National Suicide Prevention Hotline on +254700000001 now"

var mentalHealthResources = []models.MentalHealthResource{
	{
		ID:        1,
		Name:      "Kitengela Mental Health Center",
		Type:      "mental_health",
		Phone:     "+254700000000",
		Address:   "Kitengela Town Center",
		Services:  []string{"Counseling", "Group Therapy", "Crisis Support"},
		Is24Hours: false,
	},
	{
		ID:        2,
		Name:      "National Suicide Prevention Hotline",
		Type:      "crisis",
		Phone:     "+254700000001",
		Address:   "N/A",
		Services:  []string{"Crisis Intervention", "Suicide Prevention"},
		Is24Hours: true,
	},
}

type AssessmentService interface {
	ListAssessments() []models.Assessment
	Submit(ctx context.Context, assessmentID string, answers []models.AssessmentAnswer) (*models.AssessmentResult, error)
	ListResources() []models.MentalHealthResource
}

type assessmentService struct {
	logger *logger.Logger
}

func NewAssessmentService(logger *logger.Logger) AssessmentService {
	return &assessmentService{logger: logger}
}

func (s *assessmentService) ListAssessments() []models.Assessment {
	return assessmentCatalogue
}

func (s *assessmentService) ListResources() []models.MentalHealthResource {
	return mentalHealthResources
}

// Submit scores a completed questionnaire. Every question must be answered
// exactly once with a value from the option scale.
func (s *assessmentService) Submit(ctx context.Context, assessmentID string, answers []models.AssessmentAnswer) (*models.AssessmentResult, error) {
	assessment := findAssessment(assessmentID)
	if assessment == nil {
		return nil, utils.NewNotFoundError("assessment")
	}

	questions := make(map[int]bool, len(assessment.Questions))
	for _, q := range assessment.Questions {
		questions[q.ID] = false
	}

	fields := map[string]string{}
	score := 0
	selfHarm := false
	for i, answer := range answers {
		answered, known := questions[answer.QuestionID]
		switch {
		case !known:
			fields[fmt.Sprintf("answers[%d].questionId", i)] = "unknown question"
			continue
		case answered:
			fields[fmt.Sprintf("answers[%d].questionId", i)] = "question answered more than once"
			continue
		}
		questions[answer.QuestionID] = true

		if answer.Value < minAnswerValue || answer.Value > maxAnswerValue {
			fields[fmt.Sprintf("answers[%d].value", i)] = fmt.Sprintf("must be between %d and %d", minAnswerValue, maxAnswerValue)
			continue
		}
		score += answer.Value
		if assessment.ID == AssessmentDepression && answer.QuestionID == selfHarmQuestionID && answer.Value > 0 {
			selfHarm = true
		}
	}
	for id, answered := range questions {
		if !answered {
			fields[fmt.Sprintf("question %d", id)] = "is not answered"
		}
	}
	if len(fields) > 0 {
		return nil, utils.NewValidationError("invalid assessment answers", fields)
	}

	level := models.AssessmentLevelLow
	switch {
	case score >= assessment.SevereThreshold:
		level = models.AssessmentLevelSevere
	case score >= assessment.ModerateThreshold:
		level = models.AssessmentLevelModerate
	}

	result := &models.AssessmentResult{
		AssessmentID:    assessment.ID,
		Score:           score,
		MaxScore:        len(assessment.Questions) * maxAnswerValue,
		Level:           level,
		Recommendations: append([]string(nil), recommendations[assessment.ID][level]...),
	}
	if selfHarm {
		result.Recommendations = append([]string{crisisRecommendation}, result.Recommendations...)
	}

	s.logger.WithFields(map[string]interface{}{
		"assessment": assessment.ID,
		"level":      level,
	}).Debug("Assessment scored")

	return result, nil
}

func findAssessment(id string) *models.Assessment {
	for i := range assessmentCatalogue {
		if assessmentCatalogue[i].ID == id {
			return &assessmentCatalogue[i]
		}
	}
	return nil
}
