package games

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codecritical/catalog"
	"codecritical/common"
	"codecritical/models"
	"codecritical/store"
)

// GameFetcher is the slice of the catalog client the game pages need.
type GameFetcher interface {
	FetchGameDetails(ctx context.Context, gameID int) (*catalog.GameRecord, error)
	SearchGames(ctx context.Context, query string, limit int) ([]catalog.GameRecord, error)
}

type GamesModule struct {
	store   *store.Store
	catalog GameFetcher
	logger  *zap.SugaredLogger
}

func NewGamesModule(st *store.Store, cat GameFetcher, logger *zap.SugaredLogger) *GamesModule {
	return &GamesModule{store: st, catalog: cat, logger: logger}
}

func (g *GamesModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/games/search", g.searchGames)
	router.GET("/game/:gameID", g.gamePage)
	router.POST("/game/:gameID", g.submitReview)
}

const searchResultsLimit = 10

func (g *GamesModule) searchGames(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	var results []catalog.GameRecord
	var searchFailed bool
	if query != "" {
		var err error
		results, err = g.catalog.SearchGames(c.Request.Context(), query, searchResultsLimit)
		if err != nil {
			g.logger.Warnw("game search failed", "query", query, "error", err)
			results = nil
			searchFailed = true
		}
	}

	c.HTML(http.StatusOK, "game_search.html", gin.H{
		"query":        query,
		"results":      results,
		"searchFailed": searchFailed,
		"flashes":      common.GetFlashes(c),
	})
}

type reviewForm struct {
	UserName string `form:"user_name" binding:"required"`
	Rating   int    `form:"rating" binding:"required,min=1,max=10"`
	Comment  string `form:"comment"`
}

// fetchGame resolves the game id against the catalog. When it cannot,
// it flashes a notice, redirects to the listing and returns false; the
// game page is never rendered without game data.
func (g *GamesModule) fetchGame(c *gin.Context) (*catalog.GameRecord, int, bool) {
	gameID, err := strconv.Atoi(c.Param("gameID"))
	if err != nil {
		common.SetFlash(c, "warning", "Game not found.")
		c.Redirect(http.StatusFound, "/")
		return nil, 0, false
	}

	game, err := g.catalog.FetchGameDetails(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			common.SetFlash(c, "warning", "Game not found.")
		} else {
			g.logger.Errorw("game lookup failed", "game_id", gameID, "error", err)
			common.SetFlash(c, "danger", "Could not load game data. Please try again later.")
		}
		c.Redirect(http.StatusFound, "/")
		return nil, 0, false
	}

	return game, gameID, true
}

func (g *GamesModule) gamePage(c *gin.Context) {
	game, gameID, ok := g.fetchGame(c)
	if !ok {
		return
	}

	g.renderGamePage(c, http.StatusOK, game, gameID, reviewForm{}, nil)
}

func (g *GamesModule) submitReview(c *gin.Context) {
	game, gameID, ok := g.fetchGame(c)
	if !ok {
		return
	}

	var form reviewForm
	if err := c.ShouldBind(&form); err != nil {
		g.renderGamePage(c, http.StatusBadRequest, game, gameID, form, common.FieldErrors(err))
		return
	}

	review := models.Review{
		GameID:   gameID,
		UserName: form.UserName,
		Rating:   form.Rating,
		Comment:  form.Comment,
	}

	if err := g.store.CreateReview(&review); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			g.renderGamePage(c, http.StatusBadRequest, game, gameID, form, verr.Fields)
			return
		}
		g.logger.Errorw("create review failed", "game_id", gameID, "error", err)
		common.SetFlash(c, "danger", "Could not save your review.")
		c.Redirect(http.StatusFound, "/game/"+strconv.Itoa(gameID))
		return
	}

	common.SetFlash(c, "success", "Your review has been submitted!")
	c.Redirect(http.StatusFound, "/game/"+strconv.Itoa(gameID))
}

func (g *GamesModule) renderGamePage(c *gin.Context, status int, game *catalog.GameRecord, gameID int, form reviewForm, fieldErrors map[string]string) {
	reviews, err := g.store.ListReviews(gameID)
	if err != nil {
		g.logger.Errorw("list reviews failed", "game_id", gameID, "error", err)
		reviews = nil
	}

	c.HTML(status, "game_details.html", gin.H{
		"game":    game,
		"gameID":  gameID,
		"reviews": reviews,
		"form":    form,
		"errors":  fieldErrors,
		"flashes": common.GetFlashes(c),
	})
}
