package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"takeaway-be/internal/menu"
	"takeaway-be/internal/metrics"
	"takeaway-be/internal/middleware"
	"takeaway-be/internal/notify"
	"takeaway-be/internal/order"
	"takeaway-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, input user.RegisterInput) (*user.User, error) {
	args := m.Called(ctx, input)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	args := m.Called(ctx, email, password)
	if u := args.Get(1); u != nil {
		return args.String(0), u.(*user.User), args.Error(2)
	}
	return "", nil, args.Error(2)
}

func (m *MockUserService) Profile(ctx context.Context, userID uint) (*user.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMenuService struct{ mock.Mock }

func (m *MockMenuService) ListAvailable(ctx context.Context) ([]*menu.MenuItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*menu.MenuItem), args.Error(1)
}

func (m *MockMenuService) ListAll(ctx context.Context) ([]*menu.MenuItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*menu.MenuItem), args.Error(1)
}

func (m *MockMenuService) Create(ctx context.Context, input menu.CreateInput) (*menu.MenuItem, error) {
	args := m.Called(ctx, input)
	if it := args.Get(0); it != nil {
		return it.(*menu.MenuItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMenuService) Update(ctx context.Context, id uint, patch menu.UpdateInput) (*menu.MenuItem, error) {
	args := m.Called(ctx, id, patch)
	if it := args.Get(0); it != nil {
		return it.(*menu.MenuItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMenuService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) Create(ctx context.Context, input order.CreateInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) ListForUser(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, orderID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) UpdateSelf(ctx context.Context, orderID uint, patch order.SelfPatch) (*order.Order, error) {
	args := m.Called(ctx, orderID, patch)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) AdminSetStatus(ctx context.Context, orderID uint, newStatus order.Status) (*order.Order, error) {
	args := m.Called(ctx, orderID, newStatus)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type testEnv struct {
	router *gin.Engine
	users  *MockUserService
	menu   *MockMenuService
	orders *MockOrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := new(MockUserService)
	menuSvc := new(MockMenuService)
	orders := new(MockOrderService)

	bus := notify.NewBus(metrics.NewRegistry())
	t.Cleanup(bus.Close)

	hub := notify.NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	router := NewRouter(testSecret, Services{
		Users:  users,
		Menu:   menuSvc,
		Orders: orders,
	}, hub, metrics.NewRegistry(), middleware.NewLimiter())

	return &testEnv{router: router, users: users, menu: menuSvc, orders: orders}
}

func bearer(t *testing.T, role user.Role) string {
	t.Helper()
	token, err := user.GenerateJWT(testSecret, &user.User{ID: 42, Email: "u@x.com", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(env *testEnv, method, path, body, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthRoutes(t *testing.T) {
	t.Run("Register", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("Register", mock.Anything, mock.Anything).
			Return(&user.User{ID: 1, Name: "Dana", Email: "dana@x.com", Role: user.RoleCustomer}, nil)

		w := doJSON(env, http.MethodPost, "/api/auth/register",
			`{"name":"Dana","email":"dana@x.com","password":"secret123"}`, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"dana@x.com"`)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("RegisterDuplicateEmail", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("Register", mock.Anything, mock.Anything).Return(nil, user.ErrEmailExists)

		w := doJSON(env, http.MethodPost, "/api/auth/register",
			`{"name":"Dana","email":"dana@x.com","password":"secret123"}`, "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("LoginBadCredentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("Login", mock.Anything, "dana@x.com", "wrong").
			Return("", nil, user.ErrInvalidCredentials)

		w := doJSON(env, http.MethodPost, "/api/auth/login",
			`{"email":"dana@x.com","password":"wrong"}`, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MeRequiresToken", func(t *testing.T) {
		env := newTestEnv(t)
		w := doJSON(env, http.MethodGet, "/api/auth/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Me", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("Profile", mock.Anything, uint(42)).
			Return(&user.User{ID: 42, Name: "Dana", Email: "u@x.com", Role: user.RoleCustomer}, nil)

		w := doJSON(env, http.MethodGet, "/api/auth/me", "", bearer(t, user.RoleCustomer))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":42`)
	})
}

func TestMenuRoutes(t *testing.T) {
	t.Run("PublicList", func(t *testing.T) {
		env := newTestEnv(t)
		env.menu.On("ListAvailable", mock.Anything).
			Return([]*menu.MenuItem{{ID: 1, Name: "Pad Thai", Price: 9.5, IsAvailable: true}}, nil)

		w := doJSON(env, http.MethodGet, "/api/menu", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Pad Thai")
	})

	t.Run("CreateRequiresStaff", func(t *testing.T) {
		env := newTestEnv(t)
		w := doJSON(env, http.MethodPost, "/api/menu",
			`{"name":"Pad Thai","category":"mains","price":9.5}`, bearer(t, user.RoleCustomer))

		assert.Equal(t, http.StatusForbidden, w.Code)
		env.menu.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("CreateAsWorker", func(t *testing.T) {
		env := newTestEnv(t)
		env.menu.On("Create", mock.Anything, mock.Anything).
			Return(&menu.MenuItem{ID: 3, Name: "Pad Thai", Category: "mains", Price: 9.5, IsAvailable: true}, nil)

		w := doJSON(env, http.MethodPost, "/api/menu",
			`{"name":"Pad Thai","category":"mains","price":9.5}`, bearer(t, user.RoleWorker))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":3`)
	})

	t.Run("UpdateUnknownItem", func(t *testing.T) {
		env := newTestEnv(t)
		env.menu.On("Update", mock.Anything, uint(99), mock.Anything).
			Return(nil, menu.ErrItemNotFound)

		w := doJSON(env, http.MethodPut, "/api/menu/99",
			`{"price":10}`, bearer(t, user.RoleAdmin))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DeleteBadID", func(t *testing.T) {
		env := newTestEnv(t)
		w := doJSON(env, http.MethodDelete, "/api/menu/abc", "", bearer(t, user.RoleAdmin))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderRoutes(t *testing.T) {
	t.Run("CreateRequiresToken", func(t *testing.T) {
		env := newTestEnv(t)
		w := doJSON(env, http.MethodPost, "/api/orders",
			`{"items":[{"menuItemId":1,"qty":2}]}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Create", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.On("Create", mock.Anything, mock.Anything).
			Return(&order.Order{ID: 10, UserID: 42, Status: order.StatusReceived, Subtotal: 18, ServiceCharge: 1.8}, nil)

		w := doJSON(env, http.MethodPost, "/api/orders",
			`{"items":[{"menuItemId":1,"qty":2}]}`, bearer(t, user.RoleCustomer))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"Received"`)
	})

	t.Run("CancelNotOwnedMapsTo404", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.On("Cancel", mock.Anything, uint(5)).Return(nil, order.ErrOrderNotFound)

		w := doJSON(env, http.MethodPut, "/api/orders/5/cancel", "", bearer(t, user.RoleCustomer))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("CancelAfterKitchenStartMapsTo400", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.On("Cancel", mock.Anything, uint(5)).Return(nil, order.ErrInvalidTransition)

		w := doJSON(env, http.MethodPut, "/api/orders/5/cancel", "", bearer(t, user.RoleCustomer))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ListAllRequiresStaff", func(t *testing.T) {
		env := newTestEnv(t)
		w := doJSON(env, http.MethodGet, "/api/orders", "", bearer(t, user.RoleCustomer))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("SetStatusAsAdmin", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.On("AdminSetStatus", mock.Anything, uint(10), order.StatusReady).
			Return(&order.Order{ID: 10, Status: order.StatusReady}, nil)

		w := doJSON(env, http.MethodPut, "/api/orders/10/status",
			`{"status":"Ready"}`, bearer(t, user.RoleAdmin))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"Ready"`)
	})

	t.Run("SetStatusInvalidValue", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.On("AdminSetStatus", mock.Anything, uint(10), order.Status("Burnt")).
			Return(nil, order.ErrInvalidStatus)

		w := doJSON(env, http.MethodPut, "/api/orders/10/status",
			`{"status":"Burnt"}`, bearer(t, user.RoleAdmin))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	w := doJSON(env, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), "orders_created")
}
