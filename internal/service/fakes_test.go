package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/repository"
)

// memStore is an in-memory backing store shared by the fake repositories
type memStore struct {
	mu            sync.Mutex
	clock         time.Time
	users         map[string]*domain.User
	projects      []*domain.Project
	skipped       map[string][]string
	saved         map[string][]string
	outbox        []*domain.NotificationEvent
	notifications []*domain.Notification
}

func newMemStore() *memStore {
	return &memStore{
		clock:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		users:   make(map[string]*domain.User),
		skipped: make(map[string][]string),
		saved:   make(map[string][]string),
	}
}

// tick returns a strictly increasing timestamp so ordering is deterministic
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) project(projectID string) *domain.Project {
	for _, p := range s.projects {
		if p.ProjectID == projectID {
			return p
		}
	}
	return nil
}

func copyProject(p *domain.Project) *domain.Project {
	cp := *p
	cp.Applications = append([]domain.Application{}, p.Applications...)
	cp.SkillsRequired = append([]string{}, p.SkillsRequired...)
	return &cp
}

func pageOf[T any](items []T, page domain.Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// --- users ---

type fakeUserRepo struct{ s *memStore }

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.s.users[user.UserID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context, page domain.Page) ([]*domain.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return pageOf(users, page), len(users), nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = r.s.tick()
	cp := *user
	r.s.users[user.UserID] = &cp
	return nil
}

func (r *fakeUserRepo) Exists(_ context.Context, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.users[userID]
	return ok, nil
}

// --- projects ---

type fakeProjectRepo struct{ s *memStore }

var _ repository.ProjectRepository = (*fakeProjectRepo)(nil)

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[project.Creator.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	project.CreatedAt = r.s.tick()
	project.UpdatedAt = project.CreatedAt
	r.s.projects = append(r.s.projects, copyProject(project))
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, projectID string) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := r.s.project(projectID)
	if p == nil {
		return nil, domain.ErrProjectNotFound
	}
	return copyProject(p), nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := r.s.project(project.ProjectID)
	if p == nil {
		return domain.ErrProjectNotFound
	}
	apps := p.Applications
	*p = *copyProject(project)
	p.Applications = apps
	p.UpdatedAt = r.s.tick()
	project.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, projectID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.projects {
		if p.ProjectID != projectID {
			continue
		}
		r.s.projects = append(r.s.projects[:i], r.s.projects[i+1:]...)
		for _, n := range r.s.notifications {
			if n.RelatedProject != nil && n.RelatedProject.ProjectID == projectID {
				n.RelatedProject = nil
			}
		}
		return nil
	}
	return domain.ErrProjectNotFound
}

func (r *fakeProjectRepo) newestFirst(filter func(*domain.Project) bool) []*domain.Project {
	var out []*domain.Project
	for i := len(r.s.projects) - 1; i >= 0; i-- {
		if filter(r.s.projects[i]) {
			out = append(out, copyProject(r.s.projects[i]))
		}
	}
	return out
}

func (r *fakeProjectRepo) List(_ context.Context, page domain.Page) ([]*domain.Project, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := r.newestFirst(func(*domain.Project) bool { return true })
	return pageOf(all, page), len(all), nil
}

func (r *fakeProjectRepo) ListByCreator(_ context.Context, creatorID string, page domain.Page) ([]*domain.Project, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	mine := r.newestFirst(func(p *domain.Project) bool { return p.IsCreator(creatorID) })
	return pageOf(mine, page), len(mine), nil
}

func (r *fakeProjectRepo) ListDiscoverable(_ context.Context, userID string) ([]*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Project
	for _, p := range r.s.projects {
		if p.IsCreator(userID) || !p.IsOpen() || p.HasApplicant(userID) || contains(r.s.skipped[userID], p.ProjectID) {
			continue
		}
		out = append(out, copyProject(p))
	}
	return out, nil
}

func (r *fakeProjectRepo) Exists(_ context.Context, projectID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.project(projectID) != nil, nil
}

// --- applications ---

type fakeApplicationRepo struct{ s *memStore }

var _ repository.ApplicationRepository = (*fakeApplicationRepo)(nil)

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := r.s.project(app.ProjectID)
	if p == nil {
		return domain.ErrProjectNotFound
	}
	if p.HasApplicant(app.Applicant.UserID) {
		return domain.ErrAlreadyApplied
	}
	app.AppliedAt = r.s.tick()
	stored := *app
	if u, ok := r.s.users[app.Applicant.UserID]; ok {
		stored.Applicant.Email = u.Email
	}
	p.Applications = append(p.Applications, stored)
	return nil
}

func (r *fakeApplicationRepo) Decide(
	_ context.Context,
	projectID, applicationID string,
	status domain.ApplicationStatus,
	event *domain.NotificationEvent,
) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := r.s.project(projectID)
	if p == nil {
		return nil, domain.ErrApplicationNotFound
	}
	app, ok := p.ApplicationByID(applicationID)
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	if app.Status != domain.ApplicationPending {
		return nil, domain.ErrApplicationFinalized
	}
	if status == domain.ApplicationAccepted && p.IsFull() {
		return nil, domain.ErrProjectFull
	}
	app.Status = status

	if event != nil {
		event.UserID = app.Applicant.UserID
		event.CreatedAt = r.s.tick()
		cp := *event
		r.s.outbox = append(r.s.outbox, &cp)
	}

	out := *app
	return &out, nil
}

func (r *fakeApplicationRepo) ListByApplicant(_ context.Context, userID string, page domain.Page) ([]*domain.UserApplication, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.UserApplication
	for i := len(r.s.projects) - 1; i >= 0; i-- {
		p := r.s.projects[i]
		for _, a := range p.Applications {
			if a.Applicant.UserID != userID {
				continue
			}
			out = append(out, &domain.UserApplication{
				Project: domain.ProjectBrief{
					ProjectID: p.ProjectID,
					Title:     p.Title,
					Creator:   p.Creator,
				},
				Application: domain.ApplicationBrief{
					ApplicationID: a.ApplicationID,
					Status:        a.Status,
					AppliedAt:     a.AppliedAt,
				},
			})
		}
	}
	return pageOf(out, page), len(out), nil
}

// --- swipes ---

type fakeSwipeRepo struct{ s *memStore }

var _ repository.SwipeRepository = (*fakeSwipeRepo)(nil)

func (r *fakeSwipeRepo) Skip(_ context.Context, userID, projectID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.project(projectID) == nil {
		return domain.ErrProjectNotFound
	}
	if !contains(r.s.skipped[userID], projectID) {
		r.s.skipped[userID] = append(r.s.skipped[userID], projectID)
	}
	return nil
}

func (r *fakeSwipeRepo) SkippedProjectIDs(_ context.Context, userID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return append([]string{}, r.s.skipped[userID]...), nil
}

func (r *fakeSwipeRepo) Save(_ context.Context, userID, projectID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.project(projectID) == nil {
		return domain.ErrProjectNotFound
	}
	if !contains(r.s.saved[userID], projectID) {
		r.s.saved[userID] = append(r.s.saved[userID], projectID)
	}
	return nil
}

func (r *fakeSwipeRepo) ListSaved(_ context.Context, userID string) ([]*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := r.s.saved[userID]
	out := make([]*domain.Project, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if p := r.s.project(ids[i]); p != nil {
			out = append(out, copyProject(p))
		}
	}
	return out, nil
}

// --- notifications ---

type fakeNotificationRepo struct{ s *memStore }

var _ repository.NotificationRepository = (*fakeNotificationRepo)(nil)

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range r.s.notifications {
		if n.UserID == userID && n.NotificationID == notificationID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	changed := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	unread := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			unread++
		}
	}
	return unread, nil
}

// --- outbox ---

// fakeOutboxRepo delivers events into the mailbox; failures[eventID] forces that many failed attempts
type fakeOutboxRepo struct {
	s        *memStore
	failures map[string]int
}

var _ repository.OutboxRepository = (*fakeOutboxRepo)(nil)

var errDeliveryFailed = errors.New("delivery failed")

func (r *fakeOutboxRepo) DeliverPending(
	_ context.Context,
	limit, maxAttempts int,
	backoff func(attempts int) time.Duration,
) (*repository.DeliveryReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	report := &repository.DeliveryReport{}
	var remaining []*domain.NotificationEvent

	for i, event := range r.s.outbox {
		if i >= limit {
			remaining = append(remaining, r.s.outbox[i:]...)
			break
		}

		if _, ok := r.s.users[event.UserID]; !ok {
			report.Dropped = append(report.Dropped, repository.FailedEvent{Event: event, Err: domain.ErrUserNotFound})
			continue
		}

		if r.failures[event.EventID] > 0 {
			r.failures[event.EventID]--
			event.Attempts++
			if event.Attempts >= maxAttempts {
				report.Dropped = append(report.Dropped, repository.FailedEvent{Event: event, Err: errDeliveryFailed})
				continue
			}
			_ = backoff(event.Attempts)
			report.Retried = append(report.Retried, repository.FailedEvent{Event: event, Err: errDeliveryFailed})
			remaining = append(remaining, event)
			continue
		}

		n := event.Notification()
		exists := false
		for _, existing := range r.s.notifications {
			if existing.NotificationID == n.NotificationID {
				exists = true
				break
			}
		}
		if !exists {
			if p := r.s.project(event.RelatedProjectID); p != nil {
				n.RelatedProject.Title = p.Title
			} else {
				n.RelatedProject = nil
			}
			r.s.notifications = append(r.s.notifications, n)
		}
		cp := *n
		report.Delivered = append(report.Delivered, &cp)
	}

	r.s.outbox = remaining
	return report, nil
}

// --- publisher ---

// MockPublisher is a mock implementation of Publisher for testing
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// countingWaker records Wake calls
type countingWaker struct {
	mu    sync.Mutex
	calls int
}

func (w *countingWaker) Wake() {
	w.mu.Lock()
	w.calls++
	w.mu.Unlock()
}

func (w *countingWaker) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

// --- fixture ---

type fixture struct {
	store         *memStore
	users         *fakeUserRepo
	projects      *fakeProjectRepo
	apps          *fakeApplicationRepo
	swipes        *fakeSwipeRepo
	notifications *fakeNotificationRepo
	outbox        *fakeOutboxRepo
	waker         *countingWaker

	matching *MatchingService
	project  *ProjectService
	inbox    *NotificationService
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{
		store:         s,
		users:         &fakeUserRepo{s: s},
		projects:      &fakeProjectRepo{s: s},
		apps:          &fakeApplicationRepo{s: s},
		swipes:        &fakeSwipeRepo{s: s},
		notifications: &fakeNotificationRepo{s: s},
		outbox:        &fakeOutboxRepo{s: s, failures: make(map[string]int)},
		waker:         &countingWaker{},
	}
	f.matching = NewMatchingService(f.projects, f.apps, f.swipes, f.users, f.waker, nil)
	f.project = NewProjectService(f.projects, f.users)
	f.inbox = NewNotificationService(f.notifications, f.users)
	return f
}

func (f *fixture) addUser(id, name string) *domain.User {
	u := &domain.User{UserID: id, Email: name + "@uni.edu", UserName: name}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) addProject(creatorID, title string) *domain.Project {
	p, err := f.project.Create(context.Background(), creatorID, CreateProjectInput{
		Title:       title,
		Description: title + " description",
	})
	if err != nil {
		panic(err)
	}
	return p
}

func (f *fixture) deliver() *repository.DeliveryReport {
	d := NewDispatcher(f.outbox, nil, DispatcherConfig{}, nil)
	report, err := d.RunOnce(context.Background())
	if err != nil {
		panic(err)
	}
	return report
}

func projectIDs(projects []*domain.Project) []string {
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ProjectID)
	}
	return ids
}
