package evaluator

import "github.com/NariCare/NariCare-App-sub000/internal/domain"

// Classification 严重程度分级结果
type Classification struct {
	HasCritical      bool
	HasHigh          bool
	InterventionType domain.InterventionType
}

// Classify 将用户选择的担忧想法映射为干预等级（纯函数）
//
// HasCritical / HasHigh 独立计算，可以同时为 true。
// 干预类型按优先级：critical -> resources_accessed，high -> expert_contacted，
// 其余 -> alert_shown。空列表由调用方拦截，不会触发干预。
func Classify(thoughts []domain.ConcerningThought) Classification {
	var c Classification
	for _, t := range thoughts {
		switch t.Severity {
		case domain.SeverityCritical:
			c.HasCritical = true
		case domain.SeverityHigh:
			c.HasHigh = true
		}
	}

	switch {
	case c.HasCritical:
		c.InterventionType = domain.InterventionResourcesAccessed
	case c.HasHigh:
		c.InterventionType = domain.InterventionExpertContacted
	default:
		c.InterventionType = domain.InterventionAlertShown
	}
	return c
}

// CrisisAlert 打卡记录上的 crisis_alert_triggered 只看 critical
func CrisisAlert(thoughts []domain.ConcerningThought) bool {
	return Classify(thoughts).HasCritical
}
