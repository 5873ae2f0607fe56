package model

import "time"

type GoalPeriod string

const (
	PeriodDaily   GoalPeriod = "DAILY"
	PeriodWeekly  GoalPeriod = "WEEKLY"
	PeriodMonthly GoalPeriod = "MONTHLY"
)

type GoalType string

const (
	GoalCardsReviewed     GoalType = "CARDS_REVIEWED"
	GoalStudyMinutes      GoalType = "STUDY_MINUTES"
	GoalMissionsCompleted GoalType = "MISSIONS_COMPLETED"
	GoalQuestionsAnswered GoalType = "QUESTIONS_ANSWERED"
)

// StudyGoal is a period-bound progress counter. Progress only moves forward
// until completion; completion happens exactly once.
// swagger:model StudyGoal
type StudyGoal struct {
	UUIDBase
	UserID          uint       `gorm:"index;not null" json:"userId"`
	GoalType        GoalType   `gorm:"size:30;not null" json:"goalType"`
	TargetValue     int        `gorm:"not null" json:"targetValue"`
	CurrentProgress int        `gorm:"not null;default:0" json:"currentProgress"`
	Period          GoalPeriod `gorm:"size:10;not null" json:"period"`
	StartDate       time.Time  `gorm:"not null" json:"startDate"`
	EndDate         time.Time  `gorm:"not null" json:"endDate"`
	IsCompleted     bool       `gorm:"not null;default:false" json:"isCompleted"`
	CompletedAt     *time.Time `json:"completedAt"`
}

func (StudyGoal) TableName() string {
	return "study_goals"
}

// DisplayProgress clamps progress at the target for presentation. The stored
// counter keeps the raw value so overshoot is not lost.
func (g *StudyGoal) DisplayProgress() int {
	if g.CurrentProgress > g.TargetValue {
		return g.TargetValue
	}
	return g.CurrentProgress
}
