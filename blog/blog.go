package blog

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"codecritical/cache"
	"codecritical/catalog"
	"codecritical/common"
	"codecritical/models"
	"codecritical/store"
)

// GameLister is the slice of the catalog client the blog pages need:
// the featured strip on the front page.
type GameLister interface {
	FetchUpcoming(ctx context.Context, limit int) ([]catalog.GameRecord, error)
}

type BlogModule struct {
	store   *store.Store
	catalog GameLister
	logger  *zap.SugaredLogger
}

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // allow raw HTML passthrough in Markdown
	),
)

const featuredGamesLimit = 4

func NewBlogModule(st *store.Store, cat GameLister, logger *zap.SugaredLogger) *BlogModule {
	return &BlogModule{store: st, catalog: cat, logger: logger}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", b.index)
	router.GET("/about", b.about)
	router.GET("/sample-post", b.samplePost)
	router.GET("/post/:id", b.showPost)
	router.GET("/new", b.newPost)
	router.POST("/new", b.createPost)
	router.GET("/edit/:id", b.editPost)
	router.POST("/edit/:id", b.updatePost)
	router.POST("/delete/:id", b.deletePost)
	router.GET("/sitemap.xml", b.sitemap)
}

type postForm struct {
	Title    string `form:"title" binding:"required"`
	Subtitle string `form:"subtitle"`
	Author   string `form:"author" binding:"required"`
	Content  string `form:"content" binding:"required"`
}

type postEditForm struct {
	Title    string `form:"title" binding:"required"`
	Subtitle string `form:"subtitle"`
	Content  string `form:"content" binding:"required"`
}

func (b *BlogModule) index(c *gin.Context) {
	posts, err := b.store.ListPosts()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Could not load posts",
		})
		return
	}

	// The featured strip is decoration. Any catalog failure degrades to
	// an empty list and the page still renders.
	games, err := b.catalog.FetchUpcoming(c.Request.Context(), featuredGamesLimit)
	if err != nil {
		b.logger.Warnw("featured games unavailable", "error", err)
		games = nil
	}

	c.HTML(http.StatusOK, "blog_index.html", gin.H{
		"posts":   posts,
		"games":   games,
		"flashes": common.GetFlashes(c),
	})
}

func (b *BlogModule) about(c *gin.Context) {
	c.HTML(http.StatusOK, "blog_about.html", gin.H{
		"flashes": common.GetFlashes(c),
	})
}

func (b *BlogModule) samplePost(c *gin.Context) {
	post, err := b.store.EnsureSamplePost()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Could not load sample post",
		})
		return
	}

	b.renderPost(c, post)
}

func (b *BlogModule) showPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	post, err := b.store.GetPost(id)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Could not load post"
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
			message = "Post not found"
		}
		c.HTML(status, "blog_error.html", gin.H{"error": message})
		return
	}

	b.renderPost(c, post)
}

func (b *BlogModule) renderPost(c *gin.Context, post *models.Post) {
	flashes := common.GetFlashes(c)
	if len(flashes) > 0 {
		// Keep one-shot notices out of the page cache.
		c.Header("Cache-Control", "no-store")
	}

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"post":        post,
		"contentHTML": template.HTML(renderMarkdown(post.Content)),
		"flashes":     flashes,
	})
}

func (b *BlogModule) newPost(c *gin.Context) {
	c.HTML(http.StatusOK, "blog_new_post.html", gin.H{
		"form":    postForm{},
		"errors":  map[string]string{},
		"flashes": common.GetFlashes(c),
	})
}

func (b *BlogModule) createPost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "blog_new_post.html", gin.H{
			"form":   form,
			"errors": common.FieldErrors(err),
		})
		return
	}

	post := models.Post{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Author:   form.Author,
		Content:  form.Content,
	}

	if err := b.store.CreatePost(&post); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			c.HTML(http.StatusBadRequest, "blog_new_post.html", gin.H{
				"form":   form,
				"errors": verr.Fields,
			})
			return
		}
		b.logger.Errorw("create post failed", "error", err)
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Could not create post",
		})
		return
	}

	common.SetFlash(c, "success", "New post created!")
	c.Redirect(http.StatusFound, "/")
}

func (b *BlogModule) editPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{"error": "Post not found"})
		return
	}

	post, err := b.store.GetPost(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.HTML(http.StatusNotFound, "blog_error.html", gin.H{"error": "Post not found"})
			return
		}
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{"error": "Could not load post"})
		return
	}

	c.HTML(http.StatusOK, "blog_edit_post.html", gin.H{
		"post": post,
		"form": postEditForm{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			Content:  post.Content,
		},
		"errors":  map[string]string{},
		"flashes": common.GetFlashes(c),
	})
}

func (b *BlogModule) updatePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{"error": "Post not found"})
		return
	}

	var form postEditForm
	if err := c.ShouldBind(&form); err != nil {
		post, getErr := b.store.GetPost(id)
		if getErr != nil {
			c.HTML(http.StatusNotFound, "blog_error.html", gin.H{"error": "Post not found"})
			return
		}
		c.HTML(http.StatusBadRequest, "blog_edit_post.html", gin.H{
			"post":   post,
			"form":   form,
			"errors": common.FieldErrors(err),
		})
		return
	}

	// Author and date_posted stay as created; only these three change.
	_, err = b.store.UpdatePost(id, store.PostUpdate{
		Title:    &form.Title,
		Subtitle: &form.Subtitle,
		Content:  &form.Content,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.HTML(http.StatusNotFound, "blog_error.html", gin.H{"error": "Post not found"})
			return
		}
		b.logger.Errorw("update post failed", "post_id", id, "error", err)
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{"error": "Could not update post"})
		return
	}

	cache.ClearPage(strconv.Itoa(id))

	common.SetFlash(c, "success", "Post updated!")
	c.Redirect(http.StatusFound, "/post/"+strconv.Itoa(id))
}

func (b *BlogModule) deletePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{"error": "Post not found"})
		return
	}

	if err := b.store.DeletePost(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.HTML(http.StatusNotFound, "blog_error.html", gin.H{"error": "Post not found"})
			return
		}
		b.logger.Errorw("delete post failed", "post_id", id, "error", err)
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{"error": "Could not delete post"})
		return
	}

	cache.ClearPage(strconv.Itoa(id))

	common.SetFlash(c, "success", "Post deleted!")
	c.Redirect(http.StatusFound, "/")
}

func (b *BlogModule) sitemap(c *gin.Context) {
	domain := os.Getenv("DOMAIN")
	if domain == "" {
		domain = "http://localhost:8080"
	}
	domain = strings.TrimSuffix(domain, "/")

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	writeURL := func(loc, changefreq, priority, lastmod string) {
		sitemap.WriteString("  <url>\n")
		sitemap.WriteString("    <loc>" + loc + "</loc>\n")
		if lastmod != "" {
			sitemap.WriteString("    <lastmod>" + lastmod + "</lastmod>\n")
		}
		sitemap.WriteString("    <changefreq>" + changefreq + "</changefreq>\n")
		sitemap.WriteString("    <priority>" + priority + "</priority>\n")
		sitemap.WriteString("  </url>\n")
	}

	writeURL(domain+"/", "daily", "1.0", "")
	writeURL(domain+"/about", "monthly", "0.5", "")
	writeURL(domain+"/contact", "monthly", "0.5", "")

	posts, err := b.store.ListPosts()
	if err == nil {
		for _, post := range posts {
			writeURL(domain+"/post/"+strconv.Itoa(int(post.ID)), "monthly", "0.7",
				post.DatePosted.Format(time.RFC3339))
		}
	}

	gameIDs, err := b.store.ReviewedGameIDs()
	if err == nil {
		for _, gameID := range gameIDs {
			writeURL(domain+"/game/"+strconv.Itoa(gameID), "weekly", "0.6", "")
		}
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// On render failure, fall back to the raw content so the page
		// still shows something.
		return content
	}
	return buf.String()
}
