package contact

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codecritical/common"
	"codecritical/models"
	"codecritical/store"
)

// Notifier delivers the best-effort owner notification after a message
// is saved.
type Notifier interface {
	SendContactNotification(msg *models.ContactMessage) error
}

type ContactModule struct {
	store    *store.Store
	notifier Notifier
	logger   *zap.SugaredLogger
}

func NewContactModule(st *store.Store, notifier Notifier, logger *zap.SugaredLogger) *ContactModule {
	return &ContactModule{store: st, notifier: notifier, logger: logger}
}

func (m *ContactModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/contact", m.contactPage)
	router.POST("/contact", m.contactPost)
}

type contactForm struct {
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email" binding:"required,email"`
	Subject string `form:"subject" binding:"required"`
	Message string `form:"message" binding:"required"`
}

func (m *ContactModule) contactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"form":    contactForm{},
		"errors":  map[string]string{},
		"flashes": common.GetFlashes(c),
	})
}

func (m *ContactModule) contactPost(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "contact.html", gin.H{
			"form":   form,
			"errors": common.FieldErrors(err),
		})
		return
	}

	msg := models.ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
	}

	if err := m.store.CreateContactMessage(&msg); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			c.HTML(http.StatusBadRequest, "contact.html", gin.H{
				"form":   form,
				"errors": verr.Fields,
			})
			return
		}
		m.logger.Errorw("save contact message failed", "error", err)
		c.HTML(http.StatusInternalServerError, "contact.html", gin.H{
			"form":    form,
			"errors":  map[string]string{},
			"flashes": []common.Flash{{Category: "danger", Message: "Could not save your message."}},
		})
		return
	}

	// The message is already saved; a failed notification only demotes
	// the notice, it never turns the request into an error.
	if err := m.notifier.SendContactNotification(&msg); err != nil {
		m.logger.Warnw("contact notification failed", "message_id", msg.ID, "error", err)
		common.SetFlash(c, "warning", "Message saved but email failed to send.")
	} else {
		common.SetFlash(c, "success", "Message sent successfully!")
	}

	c.Redirect(http.StatusFound, "/contact")
}
