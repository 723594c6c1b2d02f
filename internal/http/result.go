package httpapi

// Result 统一响应体
// - success: bool
// - data: 业务数据（失败时省略）
// - message: 失败原因
// - crisisIntervention: 仅在打卡触发危机干预时出现
type Result[T any] struct {
	Success            bool                   `json:"success"`
	Data               T                      `json:"data,omitempty"`
	Message            string                 `json:"message,omitempty"`
	CrisisIntervention *CrisisInterventionDTO `json:"crisisIntervention,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func Fail(message string) Result[any] {
	return Result[any]{Success: false, Message: message}
}
