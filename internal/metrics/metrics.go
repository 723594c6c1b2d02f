package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckinsSubmitted 成功提交的打卡数
	CheckinsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "naricare_checkins_total",
		Help: "Total emotion check-ins persisted",
	})

	// CrisisInterventions 按干预类型统计
	CrisisInterventions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "naricare_crisis_interventions_total",
		Help: "Total crisis interventions recorded by intervention type",
	}, []string{"type"})

	// CrisisEmails result: sent | failed
	CrisisEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "naricare_crisis_email_total",
		Help: "Crisis email attempts by result",
	}, []string{"result"})

	// CrisisEventsPublished result: ok | error
	CrisisEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "naricare_crisis_events_published_total",
		Help: "Crisis events published to downstream sinks by sink and result",
	}, []string{"sink", "result"})
)
