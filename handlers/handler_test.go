package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Raza-100/medication-management/middleware"
	"github.com/Raza-100/medication-management/models"
	"github.com/Raza-100/medication-management/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	registered []services.RegisterInput
	regErr     error
	loginErr   error
}

func (f *fakeAuth) Register(_ context.Context, in services.RegisterInput) (uint, error) {
	if f.regErr != nil {
		return 0, f.regErr
	}
	f.registered = append(f.registered, in)
	return uint(len(f.registered)), nil
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (services.LoginResult, error) {
	if f.loginErr != nil {
		return services.LoginResult{}, f.loginErr
	}
	return services.LoginResult{Token: "tok-" + email, UserID: 1}, nil
}

type fakeMeds struct {
	meds      map[uint]models.Medication
	created   []services.CreateMedicationInput
	stockSets map[uint]int
	listErr   error
}

func (f *fakeMeds) List(_ context.Context, userID uint) ([]models.Medication, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Medication{}
	for _, m := range f.meds {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMeds) Get(_ context.Context, userID, id uint) (*models.Medication, error) {
	m, ok := f.meds[id]
	if !ok || m.UserID != userID {
		return nil, services.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMeds) Create(_ context.Context, _ uint, in services.CreateMedicationInput) (uint, error) {
	f.created = append(f.created, in)
	return 42, nil
}

func (f *fakeMeds) UpdateStock(_ context.Context, userID, id uint, qty int) error {
	m, ok := f.meds[id]
	if !ok || m.UserID != userID {
		return services.ErrNotFound
	}
	f.stockSets[id] = qty
	return nil
}

type fakeAdherence struct {
	logged []services.LogDoseInput
	days   int
	stats  services.AdherenceStats
}

func (f *fakeAdherence) LogDose(_ context.Context, _ uint, in services.LogDoseInput) (uint, error) {
	if in.ScheduleID == 404 {
		return 0, services.ErrNotFound
	}
	f.logged = append(f.logged, in)
	return 9, nil
}

func (f *fakeAdherence) History(_ context.Context, _ uint, days int) ([]services.HistoryEntry, error) {
	f.days = days
	return []services.HistoryEntry{}, nil
}

func (f *fakeAdherence) Stats(context.Context, uint) (*services.AdherenceStats, error) {
	return &f.stats, nil
}

type fakeOrders struct {
	created []services.CreateOrderInput
}

func (f *fakeOrders) List(context.Context, uint) ([]models.Order, error) {
	return []models.Order{{ID: 7, Status: "pending", TotalItems: 4, Items: []models.OrderItem{}}}, nil
}

func (f *fakeOrders) Create(_ context.Context, _ uint, in services.CreateOrderInput) (uint, error) {
	f.created = append(f.created, in)
	return 7, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, _, id uint, _ string) error {
	if id != 7 {
		return services.ErrNotFound
	}
	return nil
}

type fakeNotifications struct {
	marked []uint
}

func (f *fakeNotifications) List(context.Context, uint) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, _, id uint) error {
	f.marked = append(f.marked, id)
	return nil
}

type fakeConditions struct {
	created []services.CreateConditionInput
}

func (f *fakeConditions) List(context.Context, uint) ([]models.HealthCondition, error) {
	return []models.HealthCondition{}, nil
}

func (f *fakeConditions) Create(_ context.Context, _ uint, in services.CreateConditionInput) (uint, error) {
	f.created = append(f.created, in)
	return 3, nil
}

type fakeDashboard struct{}

func (fakeDashboard) Get(context.Context, uint) (*services.Dashboard, error) {
	return &services.Dashboard{
		TodayMedications:    []services.TodayDose{},
		PrimaryCondition:    services.NoPrimaryCondition,
		LowStockMedications: []services.LowStockMedication{},
	}, nil
}

type fixture struct {
	h      *Handler
	auth   *fakeAuth
	meds   *fakeMeds
	adh    *fakeAdherence
	orders *fakeOrders
	conds  *fakeConditions
	notes  *fakeNotifications
	router *gin.Engine
}

func newFixture(userID uint) *fixture {
	f := &fixture{
		auth: &fakeAuth{},
		meds: &fakeMeds{
			meds: map[uint]models.Medication{
				10: {ID: 10, UserID: 1, MedicineName: "Metformin", StockQuantity: 30},
			},
			stockSets: map[uint]int{},
		},
		adh:    &fakeAdherence{},
		orders: &fakeOrders{},
		conds:  &fakeConditions{},
		notes:  &fakeNotifications{},
	}
	f.h = &Handler{
		Auth:          f.auth,
		Dashboard:     fakeDashboard{},
		Medications:   f.meds,
		Adherence:     f.adh,
		Orders:        f.orders,
		Conditions:    f.conds,
		Notifications: f.notes,
	}

	r := gin.New()
	r.POST("/register", f.h.Register)
	r.POST("/login", f.h.Login)

	api := r.Group("/api", func(c *gin.Context) {
		if userID != 0 {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})
	api.GET("/dashboard", f.h.GetDashboard)
	api.GET("/medications", f.h.ListMedications)
	api.GET("/medications/:id", f.h.GetMedication)
	api.POST("/medications", f.h.CreateMedication)
	api.PATCH("/medications/:id/stock", f.h.UpdateStock)
	api.POST("/adherence", f.h.LogDose)
	api.GET("/adherence/history", f.h.AdherenceHistory)
	api.GET("/adherence/stats", f.h.AdherenceStats)
	api.GET("/orders", f.h.ListOrders)
	api.POST("/orders", f.h.CreateOrder)
	api.PATCH("/orders/:id/status", f.h.UpdateOrderStatus)
	api.POST("/health-conditions", f.h.CreateHealthCondition)
	api.PATCH("/notifications/:id/read", f.h.MarkNotificationRead)
	f.router = r
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	f := newFixture(0)

	w := f.do(http.MethodPost, "/register", `{"firstName":"Ana","email":"ana@example.com","password":"pw","dateOfBirth":"1990-04-02"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User registered successfully","userId":1}`, w.Body.String())
	require.Len(t, f.auth.registered, 1)
	require.NotNil(t, f.auth.registered[0].DateOfBirth)
	assert.Equal(t, time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC), *f.auth.registered[0].DateOfBirth)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	f := newFixture(0)

	for _, body := range []string{
		`{"email":"not-an-email","password":"pw"}`,
		`{"email":"ana@example.com"}`,
		`{"email":"ana@example.com","password":"pw","dateOfBirth":"02/04/1990"}`,
		`{`,
	} {
		w := f.do(http.MethodPost, "/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, f.auth.registered)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(0)
	f.auth.regErr = services.ErrDuplicate

	w := f.do(http.MethodPost, "/register", `{"email":"ana@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	f := newFixture(0)

	w := f.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"tok-ana@example.com","userId":1}`, w.Body.String())

	f.auth.loginErr = services.ErrInvalidCredentials
	w = f.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
}

func TestLoginInternalErrorIsGeneric(t *testing.T) {
	f := newFixture(0)
	f.auth.loginErr = assert.AnError

	w := f.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Login failed"}`, w.Body.String())
}

func TestProtectedHandlersNeedUser(t *testing.T) {
	f := newFixture(0)

	w := f.do(http.MethodGet, "/api/medications", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardShape(t *testing.T) {
	f := newFixture(1)

	w := f.do(http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"todayMedications": [],
		"primaryCondition": "No condition recorded",
		"lowStockMedications": [],
		"adherenceStats": {"taken_count": 0, "skipped_count": 0, "missed_count": 0}
	}`, w.Body.String())
}

func TestMedicationEndpoints(t *testing.T) {
	f := newFixture(1)

	w := f.do(http.MethodGet, "/api/medications/10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"medicine_name":"Metformin"`)

	w = f.do(http.MethodGet, "/api/medications/11", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Medication not found"}`, w.Body.String())

	w = f.do(http.MethodGet, "/api/medications/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPost, "/api/medications", `{"medicineName":"Lisinopril","stockQuantity":20,"reorderThreshold":5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Medication added successfully","medicationId":42}`, w.Body.String())
	assert.Equal(t, 20, f.meds.created[0].StockQuantity)

	w = f.do(http.MethodPost, "/api/medications", `{"dosage":"10"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPatch, "/api/medications/10/stock", `{"stockQuantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, f.meds.stockSets[10])

	w = f.do(http.MethodPatch, "/api/medications/10/stock", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForeignMedicationIsNotFound(t *testing.T) {
	f := newFixture(2)

	w := f.do(http.MethodPatch, "/api/medications/10/stock", `{"stockQuantity":5}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.meds.stockSets)
}

func TestListMedicationsFailure(t *testing.T) {
	f := newFixture(1)
	f.meds.listErr = assert.AnError

	w := f.do(http.MethodGet, "/api/medications", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch medications"}`, w.Body.String())
}

func TestLogDose(t *testing.T) {
	f := newFixture(1)

	w := f.do(http.MethodPost, "/api/adherence", `{"scheduleId":3,"takenStatus":"taken","notes":"with food"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Adherence logged successfully","adherenceId":9}`, w.Body.String())

	w = f.do(http.MethodPost, "/api/adherence", `{"scheduleId":3,"takenStatus":"late"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/adherence", `{"scheduleId":404,"takenStatus":"skipped"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Len(t, f.adh.logged, 1)
	assert.Equal(t, "with food", f.adh.logged[0].Notes)
}

func TestAdherenceHistoryDays(t *testing.T) {
	f := newFixture(1)

	w := f.do(http.MethodGet, "/api/adherence/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.DefaultHistoryDays, f.adh.days)

	w = f.do(http.MethodGet, "/api/adherence/history?days=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, f.adh.days)

	for _, q := range []string{"0", "-3", "week"} {
		w = f.do(http.MethodGet, "/api/adherence/history?days="+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestAdherenceStatsNullPercentage(t *testing.T) {
	f := newFixture(1)

	w := f.do(http.MethodGet, "/api/adherence/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	v, present := body["adherence_percentage"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestOrderEndpoints(t *testing.T) {
	f := newFixture(1)

	w := f.do(http.MethodPost, "/api/orders", `{
		"items": [{"medicationId":10,"quantity":3,"unitPrice":2.5},{"medicationId":11,"quantity":1,"unitPrice":9}],
		"pharmacyName": "Corner Pharmacy",
		"deliveryAddress": "1 Main St"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Order created successfully","orderId":7}`, w.Body.String())
	require.Len(t, f.orders.created, 1)
	assert.Len(t, f.orders.created[0].Items, 2)

	w = f.do(http.MethodPost, "/api/orders", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	w = f.do(http.MethodPatch, "/api/orders/7/status", `{"status":"shipped"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPatch, "/api/orders/8/status", `{"status":"shipped"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Order not found"}`, w.Body.String())
}

func TestCreateHealthCondition(t *testing.T) {
	f := newFixture(1)

	w := f.do(http.MethodPost, "/api/health-conditions", `{"conditionName":"Asthma","diagnosisDate":"2020-01-15","isPrimary":true}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Health condition added successfully","conditionId":3}`, w.Body.String())
	require.Len(t, f.conds.created, 1)
	assert.True(t, f.conds.created[0].IsPrimary)
	require.NotNil(t, f.conds.created[0].DiagnosisDate)

	w = f.do(http.MethodPost, "/api/health-conditions", `{"notes":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkNotificationRead(t *testing.T) {
	f := newFixture(1)

	w := f.do(http.MethodPatch, "/api/notifications/55/read", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Notification marked as read"}`, w.Body.String())
	assert.Equal(t, []uint{55}, f.notes.marked)
}

func TestMarkNotificationReadNonNumericID(t *testing.T) {
	f := newFixture(1)

	w := f.do(http.MethodPatch, "/api/notifications/latest/read", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Notification marked as read"}`, w.Body.String())
	assert.Empty(t, f.notes.marked)
}
