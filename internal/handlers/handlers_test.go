package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/internal/middleware"
	"github.com/ripple-social/backend/internal/models"
	"github.com/ripple-social/backend/internal/repositories"
	"github.com/ripple-social/backend/validators"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeNotificationRepo is an in-memory NotificationRepository standing in for
// the MongoDB implementation. It keeps the same recipient==sender rule and
// records created notifications for assertions.
type fakeNotificationRepo struct {
	mu       sync.Mutex
	created  []models.Notification
	failWith error
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if n.UserID == n.SenderID {
		return nil, nil
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	f.created = append(f.created, *n)
	return n, nil
}

func (f *fakeNotificationRepo) GetByRecipientID(_ context.Context, recipientID uint) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []models.Notification
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].UserID == recipientID {
			out = append(out, f.created[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(_ context.Context, recipientID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.created {
		if n.UserID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, id string, recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for i, n := range f.created {
		if n.ID.Hex() == id {
			if n.UserID != recipientID {
				return repositories.ErrNotOwner
			}
			f.created[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var updated int64
	for i, n := range f.created {
		if n.UserID == recipientID && !n.IsRead {
			f.created[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

// testApp bundles a fully wired Echo instance with direct access to the
// repositories behind it.
type testApp struct {
	e         *echo.Echo
	db        *gorm.DB
	userRepo  repositories.UserRepository
	postRepo  repositories.PostRepository
	notifRepo *fakeNotificationRepo
}

// newTestApp wires the full route table against an in-memory SQLite database
// and the fake notification store, mirroring the production router.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A :memory: SQLite database exists per connection; keep a single one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
	))

	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	notifRepo := &fakeNotificationRepo{}

	authHandler := NewAuthHandler(userRepo)
	userHandler := NewUserHandler(userRepo, followRepo, postRepo, nil)
	postHandler := NewPostHandler(postRepo, userRepo, likeRepo, commentRepo, nil)
	feedHandler := NewFeedHandler(postRepo, userRepo, followRepo, likeRepo, commentRepo)
	followHandler := NewFollowHandler(followRepo, userRepo, notifRepo)
	commentHandler := NewCommentHandler(commentRepo, postRepo, userRepo, notifRepo)
	likeHandler := NewLikeHandler(likeRepo, postRepo, userRepo, notifRepo)
	notificationHandler := NewNotificationHandler(notifRepo, userRepo)

	e := echo.New()
	e.Validator = validators.NewValidator()

	authGroup := e.Group("/api/v1/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware())
	userHandler.RegisterUserRoutes(public)
	postHandler.RegisterPublicPostRoutes(public)
	likeHandler.RegisterPublicLikeRoutes(public)
	commentHandler.RegisterPublicCommentRoutes(public)

	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	userHandler.RegisterProfileRoutes(api)
	postHandler.RegisterPostRoutes(api)
	feedHandler.RegisterFeedRoutes(api)
	followHandler.RegisterFollowRoutes(api)
	commentHandler.RegisterCommentRoutes(api)
	likeHandler.RegisterLikeRoutes(api)
	notificationHandler.RegisterNotificationRoutes(api)

	return &testApp{
		e:         e,
		db:        db,
		userRepo:  userRepo,
		postRepo:  postRepo,
		notifRepo: notifRepo,
	}
}

// signupUser registers a user through the HTTP API and returns the created
// user together with a bearer token for them.
func (a *testApp) signupUser(t *testing.T, name, email string) (models.User, string) {
	t.Helper()

	rec := a.request(t, http.MethodPost, "/api/v1/auth/register", "", echo.Map{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.User, body.Token
}

// signToken builds a token directly, for cases the register flow cannot
// produce (expired tokens, nonexistent subjects).
func signToken(t *testing.T, userID uint, expiresAt time.Time) string {
	t.Helper()

	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("supersecretjwtkey"))
	require.NoError(t, err)
	return signed
}

// request performs a full-stack request through the Echo router. A non-empty
// token is sent as a bearer Authorization header.
func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
