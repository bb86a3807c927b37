package rest

import (
	"context"
	"net/http"

	"saved-search-service/internal/adapters/notifier"
	"saved-search-service/internal/configs"
	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
)

type stubCreateSavedSearch struct {
	got *domain.NewSavedSearchParams
	err error
}

func (s *stubCreateSavedSearch) Execute(_ context.Context, p domain.NewSavedSearchParams) (*domain.SavedSearch, error) {
	s.got = &p
	if s.err != nil {
		return nil, s.err
	}
	return &domain.SavedSearch{ID: 31, UserID: p.UserID, CenterLatitude: p.CenterLatitude, CenterLongitude: p.CenterLongitude,
		RadiusKm: p.RadiusKm, TransactionType: p.TransactionType, MinPrice: p.MinPrice, MaxPrice: p.MaxPrice, NotifyEnabled: true, Active: true}, nil
}

type stubListSavedSearches struct {
	items []domain.SavedSearch
}

func (s *stubListSavedSearches) Execute(context.Context, int64) ([]domain.SavedSearch, error) {
	return s.items, nil
}

type stubDeleteSavedSearch struct {
	deleted bool
}

func (s *stubDeleteSavedSearch) Execute(context.Context, int64, int64) (bool, error) {
	return s.deleted, nil
}

type stubFindMatches struct {
	matches []domain.MatchedPost
	err     error
}

func (s *stubFindMatches) Execute(context.Context, int64, int64) ([]domain.MatchedPost, error) {
	return s.matches, s.err
}

type stubListNotifications struct {
	page *domain.PaginatedNotifications
}

func (s *stubListNotifications) Execute(_ context.Context, _ int64, limit, offset int) (*domain.PaginatedNotifications, error) {
	return s.page, nil
}

type stubNotificationCommand struct {
	err error
}

func (s *stubNotificationCommand) Execute(context.Context, int64, int64) error { return s.err }

type stubCreateAppointment struct {
	err error
}

func (s *stubCreateAppointment) Execute(_ context.Context, p domain.NewAppointmentParams) (*domain.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Appointment{ID: 4, UserID: p.UserID, Title: p.Title, AppointmentTime: p.AppointmentTime, ReminderMinutes: p.ReminderMinutes}, nil
}

type stubListAppointments struct{}

func (stubListAppointments) Execute(context.Context, int64) ([]domain.Appointment, error) {
	return []domain.Appointment{}, nil
}

type stubCancelAppointment struct {
	canceled bool
}

func (s *stubCancelAppointment) Execute(context.Context, int64, int64) (bool, error) {
	return s.canceled, nil
}

type stubCatalog struct {
	createErr error
	writeErr  error
	deleted   []int64
}

func (stubCatalog) ListCities(context.Context) ([]domain.City, error) {
	return []domain.City{{ID: 1, Name: "Hà Nội"}}, nil
}
func (stubCatalog) GetCity(_ context.Context, id int64) (*domain.City, error) {
	if id != 1 {
		return nil, domain.ErrLocationNotFound
	}
	return &domain.City{ID: 1, Name: "Hà Nội"}, nil
}
func (stubCatalog) ListDistricts(context.Context, int64) ([]domain.District, error) {
	return []domain.District{}, nil
}
func (stubCatalog) GetDistrict(context.Context, int64) (*domain.District, error) {
	return nil, domain.ErrLocationNotFound
}
func (stubCatalog) ListWards(context.Context, int64) ([]domain.Ward, error) { return nil, nil }
func (stubCatalog) GetWard(context.Context, int64) (*domain.Ward, error) {
	return nil, domain.ErrLocationNotFound
}
func (s stubCatalog) CreateCity(_ context.Context, name string) (*domain.City, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.City{ID: 11, Name: name}, nil
}
func (s stubCatalog) CreateDistrict(_ context.Context, cityID int64, name string) (*domain.District, error) {
	return &domain.District{ID: 12, CityID: cityID, Name: name}, s.createErr
}
func (s stubCatalog) CreateWard(_ context.Context, districtID int64, name string) (*domain.Ward, error) {
	return &domain.Ward{ID: 13, DistrictID: districtID, Name: name}, s.createErr
}

func (s *stubCatalog) UpdateCity(_ context.Context, id int64, name string) (*domain.City, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	return &domain.City{ID: id, Name: name}, nil
}
func (s *stubCatalog) UpdateDistrict(_ context.Context, id, cityID int64, name string) (*domain.District, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	return &domain.District{ID: id, CityID: cityID, Name: name}, nil
}
func (s *stubCatalog) UpdateWard(_ context.Context, id, districtID int64, name string) (*domain.Ward, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	return &domain.Ward{ID: id, DistrictID: districtID, Name: name}, nil
}
func (s *stubCatalog) DeleteCity(_ context.Context, id int64) error     { return s.delete(id) }
func (s *stubCatalog) DeleteDistrict(_ context.Context, id int64) error { return s.delete(id) }
func (s *stubCatalog) DeleteWard(_ context.Context, id int64) error     { return s.delete(id) }

func (s *stubCatalog) delete(id int64) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubAdminLists struct {
	limit, offset int
	err           error
}

func (s *stubAdminLists) searches(_ context.Context, limit, offset int) ([]domain.SavedSearch, error) {
	s.limit, s.offset = limit, offset
	return []domain.SavedSearch{{ID: 2, UserID: 9, Active: false}}, s.err
}

func (s *stubAdminLists) notifications(_ context.Context, limit, offset int) ([]domain.Notification, error) {
	s.limit, s.offset = limit, offset
	return []domain.Notification{{ID: 3, UserID: 8, Kind: domain.KindReminder}}, s.err
}

func (s *stubAdminLists) appointments(_ context.Context, limit, offset int) ([]domain.Appointment, error) {
	s.limit, s.offset = limit, offset
	return []domain.Appointment{{ID: 4, UserID: 7, IsCanceled: true}}, s.err
}

type savedSearchesFunc func(context.Context, int, int) ([]domain.SavedSearch, error)

func (f savedSearchesFunc) Execute(ctx context.Context, limit, offset int) ([]domain.SavedSearch, error) {
	return f(ctx, limit, offset)
}

type notificationsFunc func(context.Context, int, int) ([]domain.Notification, error)

func (f notificationsFunc) Execute(ctx context.Context, limit, offset int) ([]domain.Notification, error) {
	return f(ctx, limit, offset)
}

type appointmentsFunc func(context.Context, int, int) ([]domain.Appointment, error)

func (f appointmentsFunc) Execute(ctx context.Context, limit, offset int) ([]domain.Appointment, error) {
	return f(ctx, limit, offset)
}

type stubModeration struct {
	status domain.PostStatus
	err    error
}

func (s *stubModeration) Execute(_ context.Context, postID int64) (*domain.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Post{ID: postID, Status: s.status}, nil
}

type stubTokens struct{}

func (stubTokens) ValidateToken(_ context.Context, token string) (*domain.Principal, error) {
	switch token {
	case "user-token":
		return &domain.Principal{UserID: 5, Role: "User"}, nil
	case "admin-token":
		return &domain.Principal{UserID: 1, Role: domain.RoleAdmin}, nil
	case "expired-token":
		return nil, domain.ErrTokenExpired
	default:
		return nil, domain.ErrTokenInvalid
	}
}

// testEnv роутер со стабами вместо use case'ов.
type testEnv struct {
	router        http.Handler
	sse           *notifier.SSENotifier
	createSearch  *stubCreateSavedSearch
	deleteSearch  *stubDeleteSavedSearch
	matches       *stubFindMatches
	markRead      *stubNotificationCommand
	deleteNotif   *stubNotificationCommand
	cancel        *stubCancelAppointment
	catalog       *stubCatalog
	approve       *stubModeration
	notifications *stubListNotifications
	admin         *stubAdminLists
}

func newTestEnv(trustGateway bool, rateLimit int) *testEnv {
	env := &testEnv{
		sse:          notifier.NewSSENotifier(contextkeys.NoopLogger{}),
		createSearch: &stubCreateSavedSearch{},
		deleteSearch: &stubDeleteSavedSearch{},
		matches:      &stubFindMatches{},
		markRead:     &stubNotificationCommand{},
		deleteNotif:  &stubNotificationCommand{},
		cancel:       &stubCancelAppointment{},
		catalog:      &stubCatalog{},
		approve:      &stubModeration{status: domain.PostActive},
		admin:        &stubAdminLists{},
	}
	env.notifications = &stubListNotifications{page: &domain.PaginatedNotifications{
		Items: []domain.Notification{}, CurrentPage: 1, ItemsPerPage: 20,
	}}

	handlers := Handlers{
		SavedSearches: NewSavedSearchHandler(env.createSearch, &stubListSavedSearches{}, env.deleteSearch, env.matches),
		Notifications: NewNotificationHandler(env.notifications, env.markRead, env.deleteNotif, env.sse),
		Appointments:  NewAppointmentHandler(&stubCreateAppointment{}, stubListAppointments{}, env.cancel),
		Locations:     NewLocationHandler(env.catalog),
		Moderation:    NewModerationHandler(env.approve, &stubModeration{status: domain.PostRejected}),
		Admin:         NewAdminHandler(savedSearchesFunc(env.admin.searches), notificationsFunc(env.admin.notifications), appointmentsFunc(env.admin.appointments)),
	}
	cfg := configs.RESTConfig{
		AllowedOrigins:      []string{"http://localhost:3000"},
		RateLimitPerMinute:  rateLimit,
		TrustGatewayHeaders: trustGateway,
	}
	env.router = NewRouter(cfg, handlers, NewAuthMiddleware(stubTokens{}, trustGateway), contextkeys.NoopLogger{})
	return env
}
