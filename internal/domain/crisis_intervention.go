package domain

import "time"

// InterventionType 干预类型，创建时确定，之后不可变
type InterventionType string

const (
	InterventionAlertShown        InterventionType = "alert_shown"
	InterventionExpertContacted   InterventionType = "expert_contacted"
	InterventionResourcesAccessed InterventionType = "resources_accessed"
)

// UserResponse 干预记录上唯一可在创建后修改的字段
type UserResponse string

const (
	UserResponseEmailSent UserResponse = "email_sent"
	UserResponseAccepted  UserResponse = "accepted"
	UserResponseDismissed UserResponse = "dismissed"
	UserResponseCompleted UserResponse = "completed"
)

// ParseUserResponse 解析客户端可提交的响应（email_sent 只能由系统写入）
func ParseUserResponse(s string) (UserResponse, bool) {
	switch r := UserResponse(s); r {
	case UserResponseAccepted, UserResponseDismissed, UserResponseCompleted:
		return r, true
	}
	return "", false
}

// IsTerminal dismissed / completed 之后不再接受任何变更
func (r UserResponse) IsTerminal() bool {
	return r == UserResponseDismissed || r == UserResponseCompleted
}

// CanTransition 校验 user_response 状态迁移
//
//	nil | email_sent -> accepted | dismissed | completed
//	nil              -> email_sent (系统发送邮件成功)
//	accepted         -> dismissed | completed
func CanTransition(from *UserResponse, to UserResponse) bool {
	if from == nil {
		return to == UserResponseEmailSent || to == UserResponseAccepted ||
			to == UserResponseDismissed || to == UserResponseCompleted
	}
	switch *from {
	case UserResponseEmailSent:
		return to == UserResponseAccepted || to == UserResponseDismissed || to == UserResponseCompleted
	case UserResponseAccepted:
		return to == UserResponseDismissed || to == UserResponseCompleted
	}
	return false
}

// InterventionDetails 干预快照（JSONB），只在创建时写入，不从当前打卡数据重新计算
type InterventionDetails struct {
	ConcerningThoughtsCount int        `json:"concerning_thoughts_count"`
	SeverityLevels          []Severity `json:"severity_levels"`
	AutoTriggered           bool       `json:"auto_triggered"`
	Timestamp               time.Time  `json:"timestamp"`
}

// CrisisIntervention 危机干预记录（对应 crisis_interventions 表，每个打卡最多一条）
type CrisisIntervention struct {
	InterventionID      string              `json:"id"`
	UserID              string              `json:"userId"`
	CheckinID           string              `json:"checkinId"`
	InterventionType    InterventionType    `json:"interventionType"`
	InterventionDetails InterventionDetails `json:"interventionDetails"`
	UserResponse        *UserResponse       `json:"userResponse"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// CrisisEvent 干预创建后推送给护理团队工具的事件
type CrisisEvent struct {
	InterventionID   string           `json:"intervention_id"`
	UserID           string           `json:"user_id"`
	CheckinID        string           `json:"checkin_id"`
	InterventionType InterventionType `json:"intervention_type"`
	SeverityLevels   []Severity       `json:"severity_levels"`
	EmailSent        bool             `json:"email_sent"`
	OccurredAt       time.Time        `json:"occurred_at"`
}
