package models

type AssessmentOption struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type AssessmentQuestion struct {
	ID       int                `json:"id"`
	Question string             `json:"question"`
	Options  []AssessmentOption `json:"options"`
}

// Assessment is a self-screening questionnaire. Scores at or above the
// thresholds map to the moderate and severe levels.
type Assessment struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Questions         []AssessmentQuestion `json:"questions"`
	ModerateThreshold int                  `json:"-"`
	SevereThreshold   int                  `json:"-"`
}

type AssessmentAnswer struct {
	QuestionID int `json:"questionId" validate:"min=1"`
	Value      int `json:"value" validate:"min=0,max=3"`
}

type SubmitAssessmentRequest struct {
	Answers []AssessmentAnswer `json:"answers" validate:"required,min=1,dive"`
}

type AssessmentLevel string

const (
	AssessmentLevelLow      AssessmentLevel = "low"
	AssessmentLevelModerate AssessmentLevel = "moderate"
	AssessmentLevelSevere   AssessmentLevel = "severe"
)

type AssessmentResult struct {
	AssessmentID    string          `json:"assessmentId"`
	Score           int             `json:"score"`
	MaxScore        int             `json:"maxScore"`
	Level           AssessmentLevel `json:"level"`
	Recommendations []string        `json:"recommendations"`
}

// MentalHealthResource is a published support service.
type MentalHealthResource struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Services  []string `json:"services"`
	Is24Hours bool     `json:"is24Hours"`
}
