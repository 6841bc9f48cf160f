package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/sitetrack-api/internal/application/analytics"
	"github.com/jhoicas/sitetrack-api/internal/application/auth"
	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/application/project"
	"github.com/jhoicas/sitetrack-api/internal/application/task"
	"github.com/jhoicas/sitetrack-api/internal/application/usecase"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/excel"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/memory"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/sitetrack-api/internal/interfaces/http"
	"github.com/jhoicas/sitetrack-api/pkg/fileurl"
)

const (
	adminEmail    = "admin@sitetrack.test"
	adminPassword = "admin-password"
)

// apiClient app completa sobre repositorios en memoria.
type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	products := memory.NewProductRepository(store)
	warehouses := memory.NewWarehouseRepository(store)
	stock := memory.NewStockRepository(store)
	logs := memory.NewStockLogRepository(store)
	projects := memory.NewProjectRepository(store)
	tasks := memory.NewTaskRepository(store)
	stats := memory.NewStatsRepository(store)
	tx := memory.NewTxRunner(store)
	resolver := fileurl.NewResolver("https://files.test")

	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 30, Issuer: testIssuer})
	created, err := authUC.EnsureAdmin(context.Background(), adminEmail, adminPassword, "Admin")
	require.NoError(t, err)
	require.True(t, created)

	productUC := usecase.NewProductUseCase(products, stock, warehouses)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(users),
		ProductUC:     productUC,
		WarehouseUC:   usecase.NewWarehouseUseCase(warehouses, stock, products),
		Ledger:        inventory.NewLedgerUseCase(tx, products, warehouses, logs, nil),
		ImportUC:      inventory.NewImportUseCase(productUC, nil, nil),
		ProjectUC:     project.NewProjectUseCase(tx, projects, tasks, products, users, inventory.NewStockCheckUseCase(products, stock), resolver, pdf.NewMarotoReportGenerator()),
		TaskUC:        task.NewTaskUseCase(tx, tasks, users, resolver, nil),
		DashboardUC:   appanalytics.NewDashboardUseCase(stats, nil),
		PerformanceUC: appanalytics.NewPerformanceUseCase(stats, excel.NewPerformanceExporter()),
		JWTSecret:     testJWTSecret,
	})
	return &apiClient{t: t, app: app}
}

func (a *apiClient) do(method, path, token string, body interface{}, out interface{}) int {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *apiClient) login(email, password string) string {
	a.t.Helper()
	var out dto.LoginResponse
	status := a.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password}, &out)
	require.Equal(a.t, http.StatusOK, status)
	return out.Token
}

func (a *apiClient) createUser(token, email, role string, manager *string) dto.UserResponse {
	a.t.Helper()
	var out dto.UserResponse
	status := a.do(http.MethodPost, "/api/users", token, dto.CreateUserRequest{
		Email: email, Password: "password-123", Name: email, Role: role, ManagerID: manager,
	}, &out)
	require.Equal(a.t, http.StatusCreated, status)
	return out
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	api := newAPI(t)
	status := api.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: adminEmail, Password: "otra"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "no-es-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMe(t *testing.T) {
	api := newAPI(t)
	token := api.login(adminEmail, adminPassword)

	var me dto.UserResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/auth/me", token, nil, &me))
	assert.Equal(t, adminEmail, me.Email)
	assert.Equal(t, "admin", me.Role)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", "", nil, nil))
}

func TestUsers_SoloAdmin(t *testing.T) {
	api := newAPI(t)
	admin := api.login(adminEmail, adminPassword)
	api.createUser(admin, "leader@sitetrack.test", "team_leader", nil)
	leader := api.login("leader@sitetrack.test", "password-123")

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/users", leader, nil, nil))

	var leaders []dto.UserResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/users?role=team_leader", admin, nil, &leaders))
	require.Len(t, leaders, 1)
	assert.Equal(t, "leader@sitetrack.test", leaders[0].Email)

	// email duplicado
	status := api.do(http.MethodPost, "/api/users", admin, dto.CreateUserRequest{
		Email: "leader@sitetrack.test", Password: "password-123", Name: "x", Role: "employee",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestStock_AddRemoveTransfer(t *testing.T) {
	api := newAPI(t)
	admin := api.login(adminEmail, adminPassword)

	var product dto.ProductResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/inventory/products", admin,
		dto.CreateProductRequest{Name: "Panel Solar"}, &product))
	var w1, w2 dto.WarehouseResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/inventory/warehouses", admin,
		dto.CreateWarehouseRequest{Name: "Central"}, &w1))
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/inventory/warehouses", admin,
		dto.CreateWarehouseRequest{Name: "Norte"}, &w2))

	add := map[string]interface{}{"productId": product.ID, "warehouseId": w1.ID, "quantity": 10}
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/inventory/stock/add", admin, add, nil))

	tooMuch := map[string]interface{}{"productId": product.ID, "warehouseId": w1.ID, "quantity": 11}
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/inventory/stock/remove", admin, tooMuch, nil))

	transfer := map[string]interface{}{
		"productId": product.ID, "fromWarehouseId": w1.ID, "toWarehouseId": w2.ID, "quantity": 4,
	}
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/inventory/stock/transfer", admin, transfer, nil))

	var got dto.ProductResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/inventory/products/"+product.ID, admin, nil, &got))
	assert.Equal(t, "10", got.TotalStock.String())

	var logs dto.StockLogListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/inventory/logs?productId="+product.ID, admin, nil, &logs))
	assert.Len(t, logs.Items, 2)
}

func TestProyecto_FlujoDeTareas(t *testing.T) {
	api := newAPI(t)
	admin := api.login(adminEmail, adminPassword)
	leaderUser := api.createUser(admin, "leader@sitetrack.test", "team_leader", nil)
	leader := api.login("leader@sitetrack.test", "password-123")
	api.createUser(admin, "employee@sitetrack.test", "employee", &leaderUser.ID)
	employee := api.login("employee@sitetrack.test", "password-123")

	var product dto.ProductResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/inventory/products", admin, dto.CreateProductRequest{
		Name: "Inversor",
		Steps: []dto.ProcessStepDTO{
			{Title: "Montaje", RequiredPhotos: []string{"after"}},
			{Title: "Conexión"},
		},
	}, &product))

	body := map[string]interface{}{
		"name":           "Colegio Norte",
		"assignedLeader": leaderUser.ID,
		"products":       []map[string]interface{}{{"product": product.ID, "plannedQuantity": 2}},
	}
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/projects", leader, body, nil))

	var created dto.CreateProjectResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/projects", admin, body, &created))
	assert.Equal(t, 2, created.TasksCreated)
	require.Len(t, created.StockWarnings, 1, "sin stock debe advertir, no bloquear")

	var details dto.ProjectDetailsResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/projects/"+created.Project.ID, leader, nil, &details))
	require.Len(t, details.Tasks, 2)
	first, second := details.Tasks[0], details.Tasks[1]
	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, "locked", second.Status)

	// paso 2 bloqueado mientras el 1 no esté completo
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/tasks/"+second.ID+"/start", leader, nil, nil))

	var tk dto.TaskResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/tasks/"+first.ID+"/start", leader, nil, &tk))
	assert.Equal(t, "in-progress", tk.Status)

	assert.Equal(t, http.StatusUnprocessableEntity, api.do(http.MethodPost, "/api/tasks/"+first.ID+"/submit", leader, nil, nil))

	photos := dto.PhotosRequest{Photos: map[string]string{"after": "uploads/2026/10/montaje.jpg"}}
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/tasks/"+first.ID+"/submit", leader, photos, &tk))
	assert.Equal(t, "submitted", tk.Status)
	assert.Equal(t, "https://files.test/uploads/2026/10/montaje.jpg", tk.Photos["after"])

	var queue dto.TaskListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/tasks/verification-queue", admin, nil, &queue))
	require.Len(t, queue.Items, 1)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/tasks/"+first.ID+"/verify", employee, nil, nil))
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/tasks/"+first.ID+"/reject", admin, dto.RejectRequest{Reason: "  "}, nil))

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/tasks/"+first.ID+"/verify", admin, nil, &tk))
	assert.Equal(t, "verified", tk.Status)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/tasks/"+second.ID, leader, nil, &tk))
	assert.Equal(t, "pending", tk.Status)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/projects/"+created.Project.ID, admin, nil, &details))
	assert.Equal(t, 50, details.Progress.Percent)

	var stats dto.DashboardStatsDTO
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/dashboard/stats", admin, nil, &stats))
	assert.Equal(t, 1, stats.TotalProjects)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/dashboard/stats", employee, nil, nil))
}

func TestProyecto_ReportePDF(t *testing.T) {
	api := newAPI(t)
	admin := api.login(adminEmail, adminPassword)
	leaderUser := api.createUser(admin, "leader@sitetrack.test", "team_leader", nil)

	var product dto.ProductResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/inventory/products", admin,
		dto.CreateProductRequest{Name: "Luminaria", Steps: []dto.ProcessStepDTO{{Title: "Instalar"}}}, &product))
	var created dto.CreateProjectResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/projects", admin, map[string]interface{}{
		"name":           "Sede Sur",
		"assignedLeader": leaderUser.ID,
		"products":       []map[string]interface{}{{"product": product.ID, "plannedQuantity": 1}},
	}, &created))

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+created.Project.ID+"/report", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/projects/no-existe", admin, nil, nil))
}
