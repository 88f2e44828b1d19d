package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"qa-workflow-simulator/handlers"
	"qa-workflow-simulator/middleware"
	"qa-workflow-simulator/models"
	"qa-workflow-simulator/repositories"
	"qa-workflow-simulator/services"
)

const validBody = "a body that comfortably clears the twenty character floor"

// IntegrationTestSuite runs the full router against a real postgres
// database. Set TEST_DATABASE_DSN to enable it.
type IntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	token  string
}

func (suite *IntegrationTestSuite) SetupSuite() {
	os.Setenv("JWT_SECRET", "test-secret")

	dsn := os.Getenv("TEST_DATABASE_DSN")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		suite.T().Fatal("Failed to connect to test database:", err)
	}
	suite.db = db

	if err := db.AutoMigrate(&models.User{}, &models.Article{}, &models.Defect{}); err != nil {
		suite.T().Fatal("Failed to migrate test database:", err)
	}
}

func (suite *IntegrationTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM articles")
	suite.db.Exec("DELETE FROM defects")
	suite.db.Exec("DELETE FROM users")
	suite.setupRouter()
	suite.registerAndLoginTestUser()
}

func (suite *IntegrationTestSuite) setupRouter() {
	gin.SetMode(gin.TestMode)

	sessionRepo := repositories.NewSessionRepository(suite.db)
	userRepo := repositories.NewUserRepository(suite.db)

	authService := services.NewAuthService(userRepo)
	workflowService := services.NewWorkflowService(sessionRepo)
	defectService := services.NewDefectService(sessionRepo)

	authHandler := handlers.NewAuthHandler(authService)
	articleHandler := handlers.NewArticleHandler(workflowService, defectService)
	defectHandler := handlers.NewDefectHandler(defectService)

	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", authHandler.GetProfile)

			articles := protected.Group("/articles")
			{
				articles.POST("", articleHandler.CreateArticle)
				articles.GET("", articleHandler.GetArticles)
				articles.GET("/:id", articleHandler.GetArticle)
				articles.PUT("/:id", articleHandler.UpdateArticle)
				articles.POST("/:id/actions", articleHandler.PerformAction)
				articles.DELETE("", articleHandler.ClearArticles)
			}

			defects := protected.Group("/defects")
			{
				defects.GET("", defectHandler.GetDefects)
				defects.POST("", defectHandler.RegisterDefect)
				defects.DELETE("", defectHandler.ResetDefects)
			}
		}
	}

	suite.router = router
}

func (suite *IntegrationTestSuite) registerAndLoginTestUser() {
	registerBody := map[string]string{
		"username": "trainee",
		"email":    "trainee@example.com",
		"password": "password123",
	}
	w := suite.request(http.MethodPost, "/api/v1/auth/register", registerBody, false)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	loginBody := map[string]string{
		"email":    "trainee@example.com",
		"password": "password123",
	}
	w = suite.request(http.MethodPost, "/api/v1/auth/login", loginBody, false)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotEmpty(resp.Data.Token)
	suite.token = resp.Data.Token
}

func (suite *IntegrationTestSuite) request(method, path string, payload interface{}, authed bool) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (suite *IntegrationTestSuite) createArticle(title string) string {
	w := suite.request(http.MethodPost, "/api/v1/articles", models.CreateArticleRequest{
		Title:    title,
		Body:     validBody,
		Category: models.CategoryTechnology,
	}, true)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	resp := suite.decode(w)
	return resp["article"].(map[string]interface{})["id"].(string)
}

func (suite *IntegrationTestSuite) TestAuthRequired() {
	w := suite.request(http.MethodGet, "/api/v1/articles?role=author", nil, false)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestProfile() {
	w := suite.request(http.MethodGet, "/api/v1/profile", nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)

	resp := suite.decode(w)
	data := resp["data"].(map[string]interface{})
	suite.Equal("trainee", data["username"])
}

func (suite *IntegrationTestSuite) TestArticleLifecycle() {
	id := suite.createArticle("Integration lifecycle")

	for _, step := range []struct {
		action models.ActionType
		role   models.Role
		state  string
	}{
		{models.ActionSubmitForReview, models.RoleAuthor, "in_review"},
		{models.ActionApprove, models.RoleModerator, "published"},
		{models.ActionUnpublish, models.RoleModerator, "unpublished"},
		{models.ActionArchive, models.RoleAuthor, "archived"},
	} {
		w := suite.request(http.MethodPost, "/api/v1/articles/"+id+"/actions", models.PerformActionRequest{
			Action: step.action,
			Role:   step.role,
		}, true)
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		resp := suite.decode(w)
		article := resp["article"].(map[string]interface{})
		suite.Equal(step.state, article["state"])
	}
}

// State survives a full rebuild of the service stack because the session
// repository owns the durable copy.
func (suite *IntegrationTestSuite) TestStateSurvivesRestart() {
	id := suite.createArticle("Persistent article")

	w := suite.request(http.MethodPost, "/api/v1/articles/"+id+"/actions", models.PerformActionRequest{
		Action: models.ActionSubmitForReview,
		Role:   models.RoleAuthor,
	}, true)
	suite.Require().Equal(http.StatusOK, w.Code)

	// Simulated restart: fresh router, same database
	suite.setupRouter()

	w = suite.request(http.MethodGet, "/api/v1/articles/"+id+"?role=author", nil, true)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	resp := suite.decode(w)
	article := resp["article"].(map[string]interface{})
	suite.Equal("in_review", article["state"])
}

func (suite *IntegrationTestSuite) TestDefectDiscoveryPersists() {
	id := suite.createArticle("Defect hunting")

	for _, step := range []models.PerformActionRequest{
		{Action: models.ActionSubmitForReview, Role: models.RoleAuthor},
		{Action: models.ActionReject, Role: models.RoleModerator},
	} {
		w := suite.request(http.MethodPost, "/api/v1/articles/"+id+"/actions", step, true)
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}

	// Illegal publish from rejected: engine refuses, detector records
	w := suite.request(http.MethodPost, "/api/v1/articles/"+id+"/actions", models.PerformActionRequest{
		Action: models.ActionPublish,
		Role:   models.RoleModerator,
	}, true)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	resp := suite.decode(w)
	suite.Equal(true, resp["defect_triggered"])

	// Restart; progress is still there
	suite.setupRouter()
	w = suite.request(http.MethodGet, "/api/v1/defects", nil, true)
	suite.Require().Equal(http.StatusOK, w.Code)
	resp = suite.decode(w)
	suite.Equal(float64(1), resp["count"])
}

func (suite *IntegrationTestSuite) TestCapacityBoundary() {
	for i := 0; i < services.MaxArticles; i++ {
		suite.createArticle(fmt.Sprintf("Capacity article %d", i))
	}

	w := suite.request(http.MethodPost, "/api/v1/articles", models.CreateArticleRequest{
		Title:    "One past the cap",
		Body:     validBody,
		Category: models.CategoryTechnology,
	}, true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestIntegrationSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_DSN") == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	suite.Run(t, new(IntegrationTestSuite))
}
