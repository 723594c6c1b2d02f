package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/repository"
	"github.com/NariCare/NariCare-App-sub000/internal/store"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) ExecuteTransaction(ctx context.Context, steps ...store.TxStep) error {
	f.calls++
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

type fakeCheckinsRepo struct {
	mu       sync.Mutex
	checkins map[string]*domain.EmotionCheckin
	order    []string
	err      error
}

func newFakeCheckinsRepo() *fakeCheckinsRepo {
	return &fakeCheckinsRepo{checkins: map[string]*domain.EmotionCheckin{}}
}

func (f *fakeCheckinsRepo) CreateCheckin(ctx context.Context, c *domain.EmotionCheckin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *c
	f.checkins[c.CheckinID] = &cp
	f.order = append(f.order, c.CheckinID)
	return nil
}

func (f *fakeCheckinsRepo) GetCheckin(ctx context.Context, userID, checkinID string) (*domain.EmotionCheckin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.checkins[checkinID]
	if !ok || c.UserID != userID {
		return nil, fmt.Errorf("%w: checkin_id=%s", domain.ErrCheckinNotFound, checkinID)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCheckinsRepo) ListCheckins(ctx context.Context, userID string, filters repository.CheckinFilters, page, size int) ([]*domain.EmotionCheckin, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*domain.EmotionCheckin
	for i := len(f.order) - 1; i >= 0; i-- {
		c := f.checkins[f.order[i]]
		if c.UserID != userID {
			continue
		}
		if filters.CrisisOnly && !c.CrisisAlertTriggered {
			continue
		}
		matched = append(matched, c)
	}
	start := (page - 1) * size
	if start >= len(matched) {
		return []*domain.EmotionCheckin{}, len(matched), nil
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

type fakeInterventionsRepo struct {
	mu            sync.Mutex
	interventions map[string]*domain.CrisisIntervention
	createErr     error
}

func newFakeInterventionsRepo() *fakeInterventionsRepo {
	return &fakeInterventionsRepo{interventions: map[string]*domain.CrisisIntervention{}}
}

func (f *fakeInterventionsRepo) CreateIntervention(ctx context.Context, iv *domain.CrisisIntervention) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.interventions {
		if existing.CheckinID == iv.CheckinID {
			return domain.ErrInterventionExists
		}
	}
	cp := *iv
	f.interventions[iv.InterventionID] = &cp
	return nil
}

func (f *fakeInterventionsRepo) GetIntervention(ctx context.Context, userID, interventionID string) (*domain.CrisisIntervention, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.interventions[interventionID]
	if !ok || iv.UserID != userID {
		return nil, domain.ErrInterventionNotFound
	}
	cp := *iv
	return &cp, nil
}

func (f *fakeInterventionsRepo) GetInterventionByCheckin(ctx context.Context, userID, checkinID string) (*domain.CrisisIntervention, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, iv := range f.interventions {
		if iv.CheckinID == checkinID && iv.UserID == userID {
			cp := *iv
			return &cp, nil
		}
	}
	return nil, domain.ErrInterventionNotFound
}

func (f *fakeInterventionsRepo) UpdateUserResponse(ctx context.Context, interventionID string, from *domain.UserResponse, to domain.UserResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.interventions[interventionID]
	if !ok {
		return domain.ErrInvalidTransition
	}
	switch {
	case from == nil && iv.UserResponse != nil,
		from != nil && (iv.UserResponse == nil || *iv.UserResponse != *from):
		return domain.ErrInvalidTransition
	}
	iv.UserResponse = &to
	return nil
}

func (f *fakeInterventionsRepo) only() *domain.CrisisIntervention {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, iv := range f.interventions {
		return iv
	}
	return nil
}

type fakeUsersRepo struct {
	contacts map[string]*domain.UserContact
}

func (f *fakeUsersRepo) GetUserContact(ctx context.Context, userID string) (*domain.UserContact, error) {
	c, ok := f.contacts[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user_id=%s", domain.ErrUserNotFound, userID)
	}
	return c, nil
}

type sentEmail struct {
	to, firstName string
	resources     domain.CrisisResources
}

type fakeNotifier struct {
	sent []sentEmail
	err  error
}

func (f *fakeNotifier) SendCrisisEmail(ctx context.Context, toEmail, firstName string, resources domain.CrisisResources) error {
	f.sent = append(f.sent, sentEmail{to: toEmail, firstName: firstName, resources: resources})
	return f.err
}

type fakePublisher struct {
	events []domain.CrisisEvent
	err    error
}

func (f *fakePublisher) Name() string { return "fake" }

func (f *fakePublisher) Publish(ctx context.Context, event domain.CrisisEvent) error {
	f.events = append(f.events, event)
	return f.err
}
