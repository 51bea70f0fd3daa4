package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/taskman-app/taskman-api/controllers"
	"github.com/taskman-app/taskman-api/middleware"
	"github.com/taskman-app/taskman-api/models"
	"github.com/taskman-app/taskman-api/services"
	"github.com/taskman-app/taskman-api/tests/testutil"
)

// TaskFlowAcceptanceTestSuite drives guest service requests and the staff
// task queue through a real HTTP server with JWT auth in place.
type TaskFlowAcceptanceTestSuite struct {
	suite.Suite
	server     *httptest.Server
	db         *gorm.DB
	tokens     *middleware.TokenService
	guestAuth  string
	waiterAuth string
}

func (suite *TaskFlowAcceptanceTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.db = testutil.OpenTestDB(suite.T())
	suite.tokens = testutil.NewTokenService()

	guest := testutil.CreateUser(suite.T(), suite.db, "guest@example.com", models.RoleGuest)
	suite.guestAuth = testutil.BearerToken(suite.T(), suite.tokens, guest)
	waiter := testutil.CreateUser(suite.T(), suite.db, "waiter@example.com", models.RoleWaiter)
	suite.waiterAuth = testutil.BearerToken(suite.T(), suite.tokens, waiter)

	taskService := services.NewTaskService(suite.db, nil)
	taskController := controllers.NewTaskController(taskService)

	router := gin.New()
	tasks := router.Group("/api/v1/tasks", middleware.EnsureValidToken(suite.tokens))
	tasks.GET("", taskController.ListTasks)
	tasks.POST("", taskController.RequestTask)
	tasks.POST("/:id/next", taskController.AdvanceTask)

	suite.server = httptest.NewServer(router)
}

func (suite *TaskFlowAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *TaskFlowAcceptanceTestSuite) request(method, path, auth string, body interface{}) (*http.Response, map[string]interface{}) {
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, suite.server.URL+path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var parsed map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func (suite *TaskFlowAcceptanceTestSuite) TestTalkRequestDeduplication() {
	resp, parsed := suite.request(http.MethodPost, "/api/v1/tasks", suite.guestAuth,
		map[string]interface{}{"type": "talk-requested"})
	suite.Equal(http.StatusCreated, resp.StatusCode)
	taskID := parsed["data"].(map[string]interface{})["id"].(string)

	// A second request while the first is open is rejected.
	resp, _ = suite.request(http.MethodPost, "/api/v1/tasks", suite.guestAuth,
		map[string]interface{}{"type": "talk-requested"})
	suite.Equal(http.StatusConflict, resp.StatusCode)

	// Still rejected while the waiter has it claimed.
	resp, _ = suite.request(http.MethodPost, "/api/v1/tasks/"+taskID+"/next", suite.waiterAuth, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	resp, _ = suite.request(http.MethodPost, "/api/v1/tasks", suite.guestAuth,
		map[string]interface{}{"type": "talk-requested"})
	suite.Equal(http.StatusConflict, resp.StatusCode)

	// Allowed again once the task is done.
	resp, _ = suite.request(http.MethodPost, "/api/v1/tasks/"+taskID+"/next", suite.waiterAuth, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	resp, _ = suite.request(http.MethodPost, "/api/v1/tasks", suite.guestAuth,
		map[string]interface{}{"type": "talk-requested"})
	suite.Equal(http.StatusCreated, resp.StatusCode)
}

func (suite *TaskFlowAcceptanceTestSuite) TestPaymentRequestCoversBothMethods() {
	resp, parsed := suite.request(http.MethodPost, "/api/v1/tasks", suite.guestAuth,
		map[string]interface{}{"type": "payment-requested", "data": map[string]interface{}{"total": 42.90}})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	data := parsed["data"].(map[string]interface{})
	suite.Equal("payment-requested", data["type"])
	suite.Equal(42.90, data["data"].(map[string]interface{})["total"])

	// A card request is blocked by the pending cash request.
	resp, _ = suite.request(http.MethodPost, "/api/v1/tasks", suite.guestAuth,
		map[string]interface{}{"type": "payment-requested-card"})
	suite.Equal(http.StatusConflict, resp.StatusCode)
}

func (suite *TaskFlowAcceptanceTestSuite) TestGuestCannotReadTaskQueue() {
	resp, parsed := suite.request(http.MethodGet, "/api/v1/tasks", suite.guestAuth, nil)
	suite.Equal(http.StatusForbidden, resp.StatusCode)
	suite.Equal(false, parsed["success"])
}

func (suite *TaskFlowAcceptanceTestSuite) TestUnauthenticatedRequestsRejected() {
	resp, _ := suite.request(http.MethodGet, "/api/v1/tasks", "", nil)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestTaskFlowAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskFlowAcceptanceTestSuite))
}
