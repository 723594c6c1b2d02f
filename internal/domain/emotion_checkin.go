package domain

import "time"

// Severity 担忧想法的严重程度（封闭枚举）
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the four known tiers.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ConcerningThought 用户选择的担忧想法标签（JSONB 元素）
type ConcerningThought struct {
	Tag      string   `json:"tag" validate:"required,max=64"`
	Severity Severity `json:"severity" validate:"required,oneof=low moderate high critical"`
}

// EmotionCheckin 情绪打卡记录（对应 emotion_checkins 表）
type EmotionCheckin struct {
	CheckinID  string `json:"id"`
	UserID     string `json:"userId"`
	RecordDate string `json:"recordDate"` // YYYY-MM-DD，服务端时间
	RecordTime string `json:"recordTime"` // HH:MM:SS，服务端时间

	SelectedStruggles          []string            `json:"selectedStruggles"`
	SelectedPositiveMoments    []string            `json:"selectedPositiveMoments"`
	SelectedConcerningThoughts []ConcerningThought `json:"selectedConcerningThoughts"`

	GratefulFor     *string `json:"gratefulFor"`
	ProudOfToday    *string `json:"proudOfToday"`
	TomorrowGoal    *string `json:"tomorrowGoal"`
	AdditionalNotes *string `json:"additionalNotes"`

	// 创建时计算一次，之后不再重新计算
	CrisisAlertTriggered bool `json:"crisisAlertTriggered"`
	EnteredViaVoice      bool `json:"enteredViaVoice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserContact 危机邮件所需的用户联系方式
type UserContact struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}
