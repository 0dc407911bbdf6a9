package common

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string // success, warning or danger
	Message  string
}

// Flash categories double as the session flash keys so each category
// keeps its own queue.
var flashCategories = []string{"success", "warning", "danger"}

// SetFlash queues a notice for the next request in this session.
func SetFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, category)
	session.Save()
}

// GetFlashes drains all queued notices. Reading flashes consumes them,
// so the session is saved whenever anything was found.
func GetFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)

	var flashes []Flash
	for _, category := range flashCategories {
		for _, value := range session.Flashes(category) {
			message, ok := value.(string)
			if !ok {
				continue
			}
			flashes = append(flashes, Flash{Category: category, Message: message})
		}
	}

	if len(flashes) > 0 {
		session.Save()
	}
	return flashes
}
