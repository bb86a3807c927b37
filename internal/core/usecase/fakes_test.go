package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

var errDBDown = errors.New("db down")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func f64(v float64) *float64 { return &v }

// --- saved searches ---

type fakeSavedSearchRepo struct {
	mu       sync.Mutex
	nextID   int64
	items    map[int64]domain.SavedSearch
	failWith error
}

func newFakeSavedSearchRepo() *fakeSavedSearchRepo {
	return &fakeSavedSearchRepo{items: map[int64]domain.SavedSearch{}}
}

func (r *fakeSavedSearchRepo) Create(_ context.Context, s *domain.SavedSearch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.nextID++
	s.ID = r.nextID
	r.items[s.ID] = *s
	return nil
}

func (r *fakeSavedSearchRepo) ListActiveByUser(_ context.Context, userID int64) ([]domain.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SavedSearch
	for _, s := range r.items {
		if s.UserID == userID && s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSavedSearchRepo) GetActiveForUser(_ context.Context, id, userID int64) (*domain.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	s, ok := r.items[id]
	if !ok || s.UserID != userID || !s.Active {
		return nil, domain.ErrSavedSearchNotFound
	}
	return &s, nil
}

func (r *fakeSavedSearchRepo) Deactivate(_ context.Context, id, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || s.UserID != userID || !s.Active {
		return false, nil
	}
	s.Active = false
	r.items[id] = s
	return true, nil
}

func (r *fakeSavedSearchRepo) ListNotifiable(_ context.Context, tt domain.TransactionType) ([]domain.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.SavedSearch
	for _, s := range r.items {
		if s.Active && s.NotifyEnabled && s.TransactionType == tt {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSavedSearchRepo) ListAll(_ context.Context, limit, offset int) ([]domain.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]domain.SavedSearch, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return pageOf(out, limit, offset), nil
}

func (r *fakeSavedSearchRepo) add(s domain.SavedSearch) domain.SavedSearch {
	_ = r.Create(context.Background(), &s)
	return s
}

// --- posts ---

type fakePostRepo struct {
	mu         sync.Mutex
	posts      map[int64]domain.Post
	roles      map[int64]string
	lastFilter *port.PostCandidateFilter
	failWith   error
}

func newFakePostRepo(posts ...domain.Post) *fakePostRepo {
	r := &fakePostRepo{posts: map[int64]domain.Post{}, roles: map[int64]string{}}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *fakePostRepo) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

// FindCandidates намеренно не фильтрует: точный отбор должен делать use case.
func (r *fakePostRepo) FindCandidates(_ context.Context, filter port.PostCandidateFilter) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = &filter
	if r.failWith != nil {
		return nil, r.failWith
	}
	ids := make([]int64, 0, len(r.posts))
	for id := range r.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.posts[id])
	}
	return out, nil
}

func (r *fakePostRepo) UpdateModeration(_ context.Context, id int64, status domain.PostStatus, expiry *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Status = status
	if expiry != nil {
		p.ExpiryDate = expiry
	}
	r.posts[id] = p
	return nil
}

func (r *fakePostRepo) GetOwnerRole(_ context.Context, userID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roles[userID], nil
}

// --- notifications ---

type fakeNotificationRepo struct {
	mu          sync.Mutex
	nextID      int64
	items       map[int64]domain.Notification
	failMatches error
	failCreate  error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{items: map[int64]domain.Notification{}}
}

func (r *fakeNotificationRepo) insertLocked(n *domain.Notification) {
	r.nextID++
	n.ID = r.nextID
	r.items[n.ID] = *n
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.insertLocked(n)
	return nil
}

// CreateSavedSearchMatches повторяет уникальный индекс (saved_search_id, post_id, kind).
func (r *fakeNotificationRepo) CreateSavedSearchMatches(_ context.Context, ns []domain.Notification) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMatches != nil {
		return nil, r.failMatches
	}
	var created []domain.Notification
	for _, n := range ns {
		if r.hasMatchLocked(*n.SavedSearchID, *n.PostID) {
			continue
		}
		r.insertLocked(&n)
		created = append(created, n)
	}
	return created, nil
}

func (r *fakeNotificationRepo) hasMatchLocked(searchID, postID int64) bool {
	for _, existing := range r.items {
		if existing.Kind == domain.KindSavedSearch && existing.SavedSearchID != nil && existing.PostID != nil &&
			*existing.SavedSearchID == searchID && *existing.PostID == postID {
			return true
		}
	}
	return false
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id int64) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return &n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.items[id]
	n.IsRead = true
	r.items[id] = n
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID int64, limit, offset int) (*domain.PaginatedNotifications, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.Notification
	var unread int64
	for _, n := range r.items {
		if n.UserID == userID {
			all = append(all, n)
			if !n.IsRead {
				unread++
			}
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	page := &domain.PaginatedNotifications{TotalCount: int64(len(all)), UnreadCount: unread, CurrentPage: offset/limit + 1, ItemsPerPage: limit}
	if offset < len(all) {
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		page.Items = all[offset:end]
	}
	return page, nil
}

func (r *fakeNotificationRepo) ListAll(_ context.Context, limit, offset int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return pageOf(out, limit, offset), nil
}

func (r *fakeNotificationRepo) byKind(kind domain.NotificationKind) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.items {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- appointments ---

type fakeAppointmentRepo struct {
	mu            sync.Mutex
	nextID        int64
	items         map[int64]domain.Appointment
	notifications *fakeNotificationRepo
	failMark      map[int64]error
}

func newFakeAppointmentRepo(notifications *fakeNotificationRepo) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: map[int64]domain.Appointment{}, notifications: notifications, failMark: map[int64]error{}}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	r.items[a.ID] = *a
	return nil
}

func (r *fakeAppointmentRepo) ListActiveByUser(_ context.Context, userID int64) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Appointment
	for _, a := range r.items {
		if a.UserID == userID && !a.IsCanceled {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime.Before(out[j].AppointmentTime) })
	return out, nil
}

func (r *fakeAppointmentRepo) Cancel(_ context.Context, id, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.UserID != userID {
		return false, nil
	}
	a.IsCanceled = true
	r.items[id] = a
	return true, nil
}

func (r *fakeAppointmentRepo) FindDue(_ context.Context, now time.Time, limit int) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Appointment
	for _, a := range r.items {
		if a.ReminderDue(now) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAppointmentRepo) MarkNotified(ctx context.Context, id int64, reminder *domain.Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failMark[id]; err != nil {
		return false, err
	}
	a, ok := r.items[id]
	if !ok || a.IsNotified || a.IsCanceled {
		return false, nil
	}
	a.IsNotified = true
	r.items[id] = a
	return true, r.notifications.Create(ctx, reminder)
}

func (r *fakeAppointmentRepo) ListAll(_ context.Context, limit, offset int) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Appointment, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return pageOf(out, limit, offset), nil
}

func pageOf[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// --- locations ---

type fakeLocationRepo struct {
	cities    map[int64]domain.City
	districts map[int64]domain.District
	wards     map[int64]domain.Ward
	nextID    int64
	// inUse id записей, на которые ссылаются объявления
	inUse map[int64]bool
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{
		cities:    map[int64]domain.City{},
		districts: map[int64]domain.District{},
		wards:     map[int64]domain.Ward{},
		inUse:     map[int64]bool{},
	}
}

func (r *fakeLocationRepo) ListCities(context.Context) ([]domain.City, error) {
	var out []domain.City
	for _, c := range r.cities {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeLocationRepo) GetCity(_ context.Context, id int64) (*domain.City, error) {
	c, ok := r.cities[id]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	return &c, nil
}

func (r *fakeLocationRepo) ListDistricts(_ context.Context, cityID int64) ([]domain.District, error) {
	var out []domain.District
	for _, d := range r.districts {
		if d.CityID == cityID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) GetDistrict(_ context.Context, id int64) (*domain.District, error) {
	d, ok := r.districts[id]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	return &d, nil
}

func (r *fakeLocationRepo) ListWards(_ context.Context, districtID int64) ([]domain.Ward, error) {
	var out []domain.Ward
	for _, w := range r.wards {
		if w.DistrictID == districtID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) GetWard(_ context.Context, id int64) (*domain.Ward, error) {
	w, ok := r.wards[id]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	return &w, nil
}

func (r *fakeLocationRepo) CreateCity(_ context.Context, c *domain.City) error {
	for _, existing := range r.cities {
		if existing.Name == c.Name {
			return domain.ErrLocationAlreadyExists
		}
	}
	r.nextID++
	c.ID = r.nextID
	r.cities[c.ID] = *c
	return nil
}

func (r *fakeLocationRepo) CreateDistrict(_ context.Context, d *domain.District) error {
	if _, ok := r.cities[d.CityID]; !ok {
		return domain.ErrLocationNotFound
	}
	r.nextID++
	d.ID = r.nextID
	r.districts[d.ID] = *d
	return nil
}

func (r *fakeLocationRepo) CreateWard(_ context.Context, w *domain.Ward) error {
	if _, ok := r.districts[w.DistrictID]; !ok {
		return domain.ErrLocationNotFound
	}
	r.nextID++
	w.ID = r.nextID
	r.wards[w.ID] = *w
	return nil
}

func (r *fakeLocationRepo) UpdateCity(_ context.Context, c *domain.City) error {
	if _, ok := r.cities[c.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	for id, existing := range r.cities {
		if id != c.ID && existing.Name == c.Name {
			return domain.ErrLocationAlreadyExists
		}
	}
	r.cities[c.ID] = *c
	return nil
}

func (r *fakeLocationRepo) UpdateDistrict(_ context.Context, d *domain.District) error {
	if _, ok := r.districts[d.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	if _, ok := r.cities[d.CityID]; !ok {
		return domain.ErrLocationNotFound
	}
	r.districts[d.ID] = *d
	return nil
}

func (r *fakeLocationRepo) UpdateWard(_ context.Context, w *domain.Ward) error {
	if _, ok := r.wards[w.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	if _, ok := r.districts[w.DistrictID]; !ok {
		return domain.ErrLocationNotFound
	}
	r.wards[w.ID] = *w
	return nil
}

// DeleteCity повторяет ON DELETE CASCADE схемы.
func (r *fakeLocationRepo) DeleteCity(ctx context.Context, id int64) error {
	if _, ok := r.cities[id]; !ok {
		return domain.ErrLocationNotFound
	}
	if r.inUse[id] {
		return domain.ErrLocationInUse
	}
	for districtID, d := range r.districts {
		if d.CityID == id {
			_ = r.DeleteDistrict(ctx, districtID)
		}
	}
	delete(r.cities, id)
	return nil
}

func (r *fakeLocationRepo) DeleteDistrict(_ context.Context, id int64) error {
	if _, ok := r.districts[id]; !ok {
		return domain.ErrLocationNotFound
	}
	if r.inUse[id] {
		return domain.ErrLocationInUse
	}
	for wardID, w := range r.wards {
		if w.DistrictID == id {
			delete(r.wards, wardID)
		}
	}
	delete(r.districts, id)
	return nil
}

func (r *fakeLocationRepo) DeleteWard(_ context.Context, id int64) error {
	if _, ok := r.wards[id]; !ok {
		return domain.ErrLocationNotFound
	}
	if r.inUse[id] {
		return domain.ErrLocationInUse
	}
	delete(r.wards, id)
	return nil
}

// --- notifier ---

type fakeNotifier struct {
	mu     sync.Mutex
	events []domain.NotificationEvent
	err    error
	panics bool
}

func (n *fakeNotifier) Notify(_ context.Context, event domain.NotificationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.panics {
		panic("sink exploded")
	}
	n.events = append(n.events, event)
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type stubMatcher struct {
	calls []int64
	err   error
}

func (s *stubMatcher) Execute(_ context.Context, postID int64) error {
	s.calls = append(s.calls, postID)
	return s.err
}
