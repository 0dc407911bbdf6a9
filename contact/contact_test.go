package contact

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"codecritical/models"
	"codecritical/store"
)

type fakeNotifier struct {
	sent []*models.ContactMessage
	err  error
}

func (f *fakeNotifier) SendContactNotification(msg *models.ContactMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func setupTestStore(t *testing.T) *store.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal("failed to connect database")
	}

	db.AutoMigrate(&models.Post{}, &models.ContactMessage{}, &models.Review{})
	return store.NewStore(db)
}

func setupTestRouter(module *ContactModule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("secret"))))
	router.LoadHTMLGlob("../*/views/*.html")
	module.RegisterRoutes(router)
	return router
}

func postForm(router *gin.Engine, path string, values url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validContact() url.Values {
	return url.Values{
		"name":    {"Alice"},
		"email":   {"alice@example.com"},
		"subject": {"Hello"},
		"message": {"Nice blog!"},
	}
}

func TestContactPage(t *testing.T) {
	st := setupTestStore(t)
	router := setupTestRouter(NewContactModule(st, &fakeNotifier{}, zap.NewNop().Sugar()))

	req, _ := http.NewRequest("GET", "/contact", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Contact")
}

func TestContactPost_SavesAndNotifies(t *testing.T) {
	st := setupTestStore(t)
	notifier := &fakeNotifier{}
	router := setupTestRouter(NewContactModule(st, notifier, zap.NewNop().Sugar()))

	w := postForm(router, "/contact", validContact())

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/contact", w.Header().Get("Location"))

	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, "alice@example.com", notifier.sent[0].Email)
	assert.NotZero(t, notifier.sent[0].ID)
}

func TestContactPost_NotificationFailureStillSaves(t *testing.T) {
	st := setupTestStore(t)
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	router := setupTestRouter(NewContactModule(st, notifier, zap.NewNop().Sugar()))

	w := postForm(router, "/contact", validContact())

	// still a redirect, never an error page
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/contact", w.Header().Get("Location"))

	msgs, err := st.ListContactMessages()
	assert.NoError(t, err)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "alice@example.com", msgs[0].Email)
}

func TestContactPost_InvalidEmail(t *testing.T) {
	st := setupTestStore(t)
	notifier := &fakeNotifier{}
	router := setupTestRouter(NewContactModule(st, notifier, zap.NewNop().Sugar()))

	form := validContact()
	form.Set("email", "not-an-email")
	w := postForm(router, "/contact", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Enter a valid email address")
	// other inputs survive the re-render
	assert.Contains(t, w.Body.String(), "Alice")
	assert.Empty(t, notifier.sent)
}

func TestContactPost_MissingFields(t *testing.T) {
	st := setupTestStore(t)
	notifier := &fakeNotifier{}
	router := setupTestRouter(NewContactModule(st, notifier, zap.NewNop().Sugar()))

	w := postForm(router, "/contact", url.Values{"name": {"Alice"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required")
	assert.Empty(t, notifier.sent)

	msgs, err := st.ListContactMessages()
	assert.NoError(t, err)
	assert.Empty(t, msgs)
}
