package http

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apimw "github.com/durgapur-services/marketplace-backend/internal/api/http/middleware"
	"github.com/durgapur-services/marketplace-backend/internal/auth"
	authdomain "github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	bookingdomain "github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/partners/service"
	"github.com/durgapur-services/marketplace-backend/internal/platform/validation"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
)

type MockConsole struct{ mock.Mock }

func (m *MockConsole) Dashboard(ctx context.Context, providerID string) (*service.Dashboard, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *MockConsole) Leads(ctx context.Context, providerID string) ([]bookingdomain.Order, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookingdomain.Order), args.Error(1)
}

func (m *MockConsole) TransitionLead(ctx context.Context, providerID, orderID string, to bookingdomain.OrderStatus) (*bookingdomain.Order, error) {
	args := m.Called(ctx, providerID, orderID, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingdomain.Order), args.Error(1)
}

func (m *MockConsole) SaveSettings(ctx context.Context, providerID string, u catalogdomain.ProviderUpdate) (*catalogdomain.Provider, error) {
	args := m.Called(ctx, providerID, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogdomain.Provider), args.Error(1)
}

func (m *MockConsole) ToggleStatus(ctx context.Context, providerID string) (*catalogdomain.Provider, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogdomain.Provider), args.Error(1)
}

func (m *MockConsole) ReplaceImage(ctx context.Context, providerID string, raw []byte) (string, error) {
	args := m.Called(ctx, providerID, raw)
	return args.String(0), args.Error(1)
}

func (m *MockConsole) ExportEarnings(ctx context.Context, providerID string) (*service.EarningsExport, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EarningsExport), args.Error(1)
}

type MockRegistration struct{ mock.Mock }

func (m *MockRegistration) Register(ctx context.Context, req service.RegisterRequest) (*catalogdomain.Provider, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogdomain.Provider), args.Error(1)
}

func (m *MockRegistration) RegisterExisting(ctx context.Context, uid, email string, b service.Business) (*catalogdomain.Provider, error) {
	args := m.Called(ctx, uid, email, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogdomain.Provider), args.Error(1)
}

type MockRoles struct{ mock.Mock }

func (m *MockRoles) Revalidate(ctx context.Context, uid string) (domain.Role, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(domain.Role), args.Error(1)
}

func partnerRole() *MockRoles {
	roles := new(MockRoles)
	roles.On("Revalidate", mock.Anything, "owner").Return(domain.Role{IsPartner: true, ProviderID: "p1"}, nil)
	return roles
}

func setupRouter(t *testing.T, console Console, registration Registration, roles RoleGate, events Subscriber) *gin.Engine {
	t.Helper()
	require.NoError(t, validation.RegisterWithGin())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apimw.ErrorHandler())
	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(func(c *gin.Context) {
		auth.SetPrincipal(c, authdomain.Principal{UID: "owner", Email: "raj@example.com"})
		c.Next()
	})
	New(console, registration, roles, events).Register(api, authed, nil)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPartnerGate(t *testing.T) {
	t.Run("customer is redirected", func(t *testing.T) {
		roles := new(MockRoles)
		roles.On("Revalidate", mock.Anything, "owner").Return(domain.Role{}, nil)
		console := new(MockConsole)

		w := do(setupRouter(t, console, nil, roles, nil), http.MethodGet, "/api/v1/partner/dashboard", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"Access Denied: Partner Profile Required.","redirect":"/register-partner"}`, w.Body.String())
		console.AssertNotCalled(t, "Dashboard", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure denies access", func(t *testing.T) {
		roles := new(MockRoles)
		roles.On("Revalidate", mock.Anything, "owner").
			Return(domain.Role{}, errors.Join(domain.ErrRoleUnavailable, errors.New("connection refused")))

		w := do(setupRouter(t, new(MockConsole), nil, roles, nil), http.MethodGet, "/api/v1/partner/leads", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetDashboard(t *testing.T) {
	console := new(MockConsole)
	console.On("Dashboard", mock.Anything, "p1").Return(&service.Dashboard{
		Provider: &catalogdomain.Provider{ID: "p1", Name: "Raj"},
		Stats:    domain.Stats{Revenue: 450, ActiveJobs: 1},
	}, nil)

	w := do(setupRouter(t, console, nil, partnerRole(), nil), http.MethodGet, "/api/v1/partner/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"revenue":450`)
	assert.Contains(t, w.Body.String(), `"active_jobs":1`)
}

func TestUpdateLead(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"accepted", `{"status":"Accepted"}`, nil, http.StatusOK},
		{"skips a step", `{"status":"Completed"}`, bookingdomain.ErrInvalidTransition, http.StatusConflict},
		{"someone else's order", `{"status":"Accepted"}`, bookingdomain.ErrOrderNotOwned, http.StatusForbidden},
		{"unknown status", `{"status":"Cancelled"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := new(MockConsole)
			if tt.err != nil {
				console.On("TransitionLead", mock.Anything, "p1", "o1", mock.Anything).Return(nil, tt.err)
			} else {
				console.On("TransitionLead", mock.Anything, "p1", "o1", bookingdomain.StatusAccepted).
					Return(&bookingdomain.Order{ID: "o1", Status: bookingdomain.StatusAccepted}, nil)
			}

			w := do(setupRouter(t, console, nil, partnerRole(), nil), http.MethodPatch, "/api/v1/partner/leads/o1", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestUpdateSettings(t *testing.T) {
	update := catalogdomain.ProviderUpdate{Name: "Raju", Price: 500, Category: catalogdomain.Electrician}
	body := `{"name":"Raju","price":500,"category":"Electrician"}`

	t.Run("saved", func(t *testing.T) {
		console := new(MockConsole)
		console.On("SaveSettings", mock.Anything, "p1", update).Return(&catalogdomain.Provider{ID: "p1", Name: "Raju"}, nil)

		w := do(setupRouter(t, console, nil, partnerRole(), nil), http.MethodPut, "/api/v1/partner/settings", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "warning")
	})

	t.Run("name not synced", func(t *testing.T) {
		console := new(MockConsole)
		console.On("SaveSettings", mock.Anything, "p1", update).
			Return(&catalogdomain.Provider{ID: "p1", Name: "Raju"}, errors.New("users table locked"))

		w := do(setupRouter(t, console, nil, partnerRole(), nil), http.MethodPut, "/api/v1/partner/settings", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"warning":"Profile name could not be updated."`)
	})

	t.Run("price missing", func(t *testing.T) {
		console := new(MockConsole)

		w := do(setupRouter(t, console, nil, partnerRole(), nil), http.MethodPut, "/api/v1/partner/settings",
			`{"name":"Raju","category":"Electrician"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		console.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("explicit zero price", func(t *testing.T) {
		free := catalogdomain.ProviderUpdate{Name: "Raju", Price: 0, Category: catalogdomain.Electrician}
		console := new(MockConsole)
		console.On("SaveSettings", mock.Anything, "p1", free).Return(&catalogdomain.Provider{ID: "p1", Name: "Raju"}, nil)

		w := do(setupRouter(t, console, nil, partnerRole(), nil), http.MethodPut, "/api/v1/partner/settings",
			`{"name":"Raju","price":0,"category":"Electrician"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestToggleStatus(t *testing.T) {
	console := new(MockConsole)
	console.On("ToggleStatus", mock.Anything, "p1").Return(&catalogdomain.Provider{ID: "p1", Status: catalogdomain.StatusOffline}, nil)

	w := do(setupRouter(t, console, nil, partnerRole(), nil), http.MethodPost, "/api/v1/partner/status/toggle", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"offline"`)
}

func TestDownloadEarnings(t *testing.T) {
	console := new(MockConsole)
	console.On("ExportEarnings", mock.Anything, "p1").
		Return(&service.EarningsExport{Filename: "earnings_p1.xlsx", Data: []byte("PK")}, nil)

	w := do(setupRouter(t, console, nil, partnerRole(), nil), http.MethodGet, "/api/v1/partner/earnings.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="earnings_p1.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK", w.Body.String())
}

func TestUploadImage(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "shop.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	console := new(MockConsole)
	console.On("ReplaceImage", mock.Anything, "p1", []byte("png-bytes")).Return("https://cdn.test/providers/owner-1", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/partner/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	setupRouter(t, console, nil, partnerRole(), nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "providers/owner-1")
}

func TestRegisterAccount(t *testing.T) {
	body := `{"email":"raj@example.com","password":"secret1","name":"Raj Electric","phone":"9876543210",
		"category":"Electrician","price":450,"address":"City Centre"}`

	t.Run("json without photo", func(t *testing.T) {
		registration := new(MockRegistration)
		registration.On("Register", mock.Anything, mock.MatchedBy(func(req service.RegisterRequest) bool {
			return req.Email == "raj@example.com" && req.Business.Name == "Raj Electric" && req.Business.Image == nil
		})).Return(&catalogdomain.Provider{ID: "p1"}, nil)

		w := do(setupRouter(t, nil, registration, nil, nil), http.MethodPost, "/api/v1/partners/register", body)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("email taken", func(t *testing.T) {
		registration := new(MockRegistration)
		registration.On("Register", mock.Anything, mock.Anything).Return(nil, authdomain.ErrEmailExists)

		w := do(setupRouter(t, nil, registration, nil, nil), http.MethodPost, "/api/v1/partners/register", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing phone", func(t *testing.T) {
		registration := new(MockRegistration)
		w := do(setupRouter(t, nil, registration, nil, nil), http.MethodPost, "/api/v1/partners/register",
			`{"email":"raj@example.com","password":"secret1","name":"Raj","category":"Electrician","address":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		registration.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestRegisterExisting(t *testing.T) {
	registration := new(MockRegistration)
	registration.On("RegisterExisting", mock.Anything, "owner", "raj@example.com", mock.Anything).
		Return(nil, catalogdomain.ErrProviderExists)

	w := do(setupRouter(t, nil, registration, nil, nil), http.MethodPost, "/api/v1/partners",
		`{"name":"Raj Electric","phone":"9876543210","category":"Electrician","price":450,"address":"City Centre"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"You already have a business profile."}`, w.Body.String())
}

func TestConsoleSocket(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	bus := realtime.NewBus(client)

	console := new(MockConsole)
	console.On("Dashboard", mock.Anything, "p1").Return(&service.Dashboard{Stats: domain.Stats{Revenue: 0}}, nil).Once()
	console.On("Dashboard", mock.Anything, "p1").Return(&service.Dashboard{Stats: domain.Stats{Revenue: 450}}, nil)

	srv := httptest.NewServer(setupRouter(t, console, nil, partnerRole(), bus))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/partner/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg struct {
		Type string            `json:"type"`
		Data service.Dashboard `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "initial", msg.Type)

	// edits to other providers do not rebuild this dashboard
	require.NoError(t, bus.Publish(context.Background(), realtime.TopicProviders, realtime.KindUpdated, "p2"))
	require.NoError(t, bus.Publish(context.Background(), realtime.ProviderTopic("p2"), realtime.KindUpdated, "p2"))

	require.NoError(t, bus.Publish(context.Background(), realtime.ProviderOrdersTopic("p1"), realtime.KindCreated, "o1"))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "update", msg.Type)
	assert.Equal(t, 450.0, msg.Data.Stats.Revenue)

	require.NoError(t, bus.Publish(context.Background(), realtime.SessionTopic("owner"), realtime.KindClosed, "owner"))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "closed", msg.Type)
	console.AssertNumberOfCalls(t, "Dashboard", 2)
}
