package evaluator

import (
	"testing"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"

	"github.com/stretchr/testify/assert"
)

func thought(tag string, s domain.Severity) domain.ConcerningThought {
	return domain.ConcerningThought{Tag: tag, Severity: s}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		thoughts    []domain.ConcerningThought
		hasCritical bool
		hasHigh     bool
		want        domain.InterventionType
	}{
		{
			name:        "critical only",
			thoughts:    []domain.ConcerningThought{thought("hopelessness", domain.SeverityCritical)},
			hasCritical: true,
			want:        domain.InterventionResourcesAccessed,
		},
		{
			name: "critical wins over high",
			thoughts: []domain.ConcerningThought{
				thought("intrusive", domain.SeverityHigh),
				thought("self_harm", domain.SeverityCritical),
			},
			hasCritical: true,
			hasHigh:     true,
			want:        domain.InterventionResourcesAccessed,
		},
		{
			name: "high without critical",
			thoughts: []domain.ConcerningThought{
				thought("worry", domain.SeverityModerate),
				thought("intrusive", domain.SeverityHigh),
			},
			hasHigh: true,
			want:    domain.InterventionExpertContacted,
		},
		{
			name:     "moderate only",
			thoughts: []domain.ConcerningThought{thought("worry", domain.SeverityModerate)},
			want:     domain.InterventionAlertShown,
		},
		{
			name: "low and moderate",
			thoughts: []domain.ConcerningThought{
				thought("tired", domain.SeverityLow),
				thought("worry", domain.SeverityModerate),
			},
			want: domain.InterventionAlertShown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.thoughts)
			assert.Equal(t, tt.hasCritical, c.HasCritical)
			assert.Equal(t, tt.hasHigh, c.HasHigh)
			assert.Equal(t, tt.want, c.InterventionType)
		})
	}
}

func TestCrisisAlert_OnlyCriticalCounts(t *testing.T) {
	assert.True(t, CrisisAlert([]domain.ConcerningThought{
		thought("tired", domain.SeverityLow),
		thought("hopelessness", domain.SeverityCritical),
	}))
	assert.False(t, CrisisAlert([]domain.ConcerningThought{
		thought("intrusive", domain.SeverityHigh),
		thought("worry", domain.SeverityModerate),
	}))
	assert.False(t, CrisisAlert(nil))
}
