package http

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/postforge"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown renders post bodies. Raw HTML in the source is not passed through.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var templateFuncs = template.FuncMap{
	"markdown": renderMarkdown,
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"score": func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', 1, 64)
	},
	"dict": func(kv ...any) map[string]any {
		m := make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			k, _ := kv[i].(string)
			m[k] = kv[i+1]
		}
		return m
	},
}

func renderMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

func (s *Server) registerWebRoutes(r *gin.Engine) {
	r.GET("/", s.handleHome)
	r.POST("/generate", s.handleGenerateForm)
	r.GET("/posts", s.handlePostsPage)
	r.GET("/posts/:id", s.handlePostPage)
	r.POST("/posts/:id/improve", s.handleImproveForm)
	r.POST("/posts/:id/status", s.handleStatusForm)
	r.GET("/templates", s.handleTemplatesPage)
	r.POST("/templates/:id/revise", s.handleReviseForm)
}

// renderHome renders the submission form with the given status and error.
func (s *Server) renderHome(c *gin.Context, status int, form gin.H, errMsg string) {
	ctx := c.Request.Context()

	tmpls, err := s.TemplateService.FindTemplates(ctx, postforge.TemplateFilter{})
	if err != nil {
		s.Error(c, err)
		return
	}
	posts, _, err := s.PostService.FindPosts(ctx, postforge.PostFilter{Limit: 10})
	if err != nil {
		s.Error(c, err)
		return
	}

	c.HTML(status, "index.html", gin.H{
		"Templates": tmpls,
		"Posts":     posts,
		"Form":      form,
		"Error":     errMsg,
	})
}

func (s *Server) handleHome(c *gin.Context) {
	s.renderHome(c, http.StatusOK, gin.H{
		"URL":                "",
		"TemplateID":         postforge.DefaultTemplateID,
		"CustomInstructions": "",
		"Tags":               "",
	}, "")
}

func (s *Server) handleGenerateForm(c *gin.Context) {
	form := gin.H{
		"URL":                c.PostForm("url"),
		"TemplateID":         c.PostForm("template_id"),
		"CustomInstructions": c.PostForm("custom_instructions"),
		"Tags":               c.PostForm("tags"),
	}

	post, err := s.Generator.Generate(c.Request.Context(), postforge.GenerateRequest{
		URL:                strings.TrimSpace(c.PostForm("url")),
		TemplateID:         c.PostForm("template_id"),
		CustomInstructions: c.PostForm("custom_instructions"),
		Tags:               strings.Split(c.PostForm("tags"), ","),
	})
	if err != nil {
		code := postforge.ErrorCode(err)
		if code == postforge.EINTERNAL {
			s.Error(c, err)
			return
		}
		s.renderHome(c, ErrorStatusCode(code), form, postforge.ErrorMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/posts/"+url.PathEscape(post.ID))
}

func (s *Server) handlePostsPage(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}

	filter := postforge.PostFilter{
		Limit:  DefaultPageSize,
		Offset: (page - 1) * DefaultPageSize,
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filter.Query = &q
	}
	if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
		filter.Tag = &tag
	}

	posts, total, err := s.PostService.FindPosts(c.Request.Context(), filter)
	if err != nil {
		s.Error(c, err)
		return
	}

	query := url.Values{}
	for _, key := range []string{"q", "tag"} {
		if v := c.Query(key); v != "" {
			query.Set(key, v)
		}
	}
	data := gin.H{
		"Posts": posts,
		"Total": total,
		"Query": c.Query("q"),
		"Tag":   c.Query("tag"),
	}
	if page > 1 {
		query.Set("page", strconv.Itoa(page-1))
		data["PrevURL"] = "/posts?" + query.Encode()
	}
	if page*DefaultPageSize < total {
		query.Set("page", strconv.Itoa(page+1))
		data["NextURL"] = "/posts?" + query.Encode()
	}
	c.HTML(http.StatusOK, "posts.html", data)
}

func (s *Server) handlePostPage(c *gin.Context) {
	post, err := s.PostService.FindPostByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.Error(c, err)
		return
	}
	c.HTML(http.StatusOK, "post.html", gin.H{"Post": post})
}

func (s *Server) handleImproveForm(c *gin.Context) {
	post, err := s.Generator.Improve(c.Request.Context(), c.Param("id"), strings.TrimSpace(c.PostForm("feedback")))
	if err != nil {
		s.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/posts/"+url.PathEscape(post.ID))
}

func (s *Server) handleStatusForm(c *gin.Context) {
	status := postforge.PostStatus(c.PostForm("status"))
	post, err := s.PostService.UpdatePost(c.Request.Context(), c.Param("id"), postforge.PostUpdate{Status: &status})
	if err != nil {
		s.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/posts/"+url.PathEscape(post.ID))
}

func (s *Server) handleTemplatesPage(c *gin.Context) {
	tmpls, err := s.TemplateService.FindTemplates(c.Request.Context(), postforge.TemplateFilter{})
	if err != nil {
		s.Error(c, err)
		return
	}
	c.HTML(http.StatusOK, "templates.html", gin.H{"Templates": tmpls})
}

func (s *Server) handleReviseForm(c *gin.Context) {
	if _, err := s.Reviser.Revise(c.Request.Context(), c.Param("id"), c.PostForm("feedback")); err != nil {
		s.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/templates")
}
