package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/postforge"
	"github.com/gin-gonic/gin"
)

// Pagination limits for post listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (s *Server) registerAPIRoutes(r *gin.RouterGroup) {
	r.POST("/generate-post", s.handleGeneratePost)
	r.POST("/improve-post/:id", s.handleImprovePost)
	r.POST("/update-template", s.handleUpdateTemplate)

	r.GET("/posts", s.handlePostIndex)
	r.GET("/posts/:id", s.handlePostView)
	r.POST("/posts/:id/status", s.handlePostStatus)

	r.GET("/templates", s.handleTemplateIndex)
	r.POST("/templates", s.handleTemplateCreate)
	r.GET("/templates/:id", s.handleTemplateView)
	r.GET("/templates/:id/versions", s.handleTemplateVersions)
	r.DELETE("/templates/:id", s.handleTemplateDelete)
}

// bindJSON decodes the request body, reporting malformed input as EINVALID.
func (s *Server) bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		s.Error(c, postforge.Errorf(postforge.EINVALID, "invalid JSON body: %v", err))
		return false
	}
	return true
}

func (s *Server) handleGeneratePost(c *gin.Context) {
	var req postforge.GenerateRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if _, err := postforge.ParseArticleURL(req.URL); err != nil {
		s.Error(c, err)
		return
	}

	post, err := s.Generator.Generate(c.Request.Context(), req)
	if err != nil {
		s.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (s *Server) handleImprovePost(c *gin.Context) {
	var req struct {
		Feedback string `json:"feedback"`
	}
	if !s.bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Feedback) == "" {
		s.Error(c, postforge.Errorf(postforge.EINVALID, "feedback required"))
		return
	}

	post, err := s.Generator.Improve(c.Request.Context(), c.Param("id"), req.Feedback)
	if err != nil {
		s.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) handleUpdateTemplate(c *gin.Context) {
	var req struct {
		TemplateID string   `json:"template_id"`
		Feedback   string   `json:"feedback"`
		Rating     *float64 `json:"rating"`
	}
	if !s.bindJSON(c, &req) {
		return
	}
	if req.TemplateID == "" {
		s.Error(c, postforge.Errorf(postforge.EINVALID, "template_id required"))
		return
	}

	entry := &postforge.Feedback{
		Target:   postforge.FeedbackTemplate,
		TargetID: req.TemplateID,
		Content:  req.Feedback,
		Rating:   req.Rating,
	}
	if err := entry.Validate(); err != nil {
		s.Error(c, err)
		return
	}

	tmpl, err := s.Reviser.Revise(c.Request.Context(), req.TemplateID, req.Feedback)
	if err != nil {
		s.Error(c, err)
		return
	}

	if err := s.FeedbackService.CreateFeedback(c.Request.Context(), entry); err != nil {
		s.Logger.Warn("record template feedback", "template", tmpl.ID, "err", err)
	}
	c.JSON(http.StatusOK, tmpl)
}

// PostIndexResponse is the body of a post listing.
type PostIndexResponse struct {
	Posts []*postforge.BlogPost `json:"posts"`
	Total int                   `json:"total"`
}

func (s *Server) handlePostIndex(c *gin.Context) {
	filter, err := parsePostFilter(c)
	if err != nil {
		s.Error(c, err)
		return
	}

	posts, total, err := s.PostService.FindPosts(c.Request.Context(), filter)
	if err != nil {
		s.Error(c, err)
		return
	}
	if posts == nil {
		posts = []*postforge.BlogPost{}
	}
	c.JSON(http.StatusOK, &PostIndexResponse{Posts: posts, Total: total})
}

// parsePostFilter reads a PostFilter from the query string.
func parsePostFilter(c *gin.Context) (postforge.PostFilter, error) {
	var filter postforge.PostFilter

	str := func(key string) *string {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			return &v
		}
		return nil
	}
	filter.TemplateID = str("template_id")
	filter.Tag = str("tag")
	filter.Query = str("q")

	if v := str("status"); v != nil {
		status := postforge.PostStatus(*v)
		if !status.Valid() {
			return filter, postforge.Errorf(postforge.EINVALID, "invalid status %q", *v)
		}
		filter.Status = &status
	}

	var err error
	if filter.CreatedAfter, err = parseTimeParam(c, "since"); err != nil {
		return filter, err
	}
	if filter.CreatedBefore, err = parseTimeParam(c, "until"); err != nil {
		return filter, err
	}

	switch order := postforge.PostOrder(c.Query("order")); order {
	case "", postforge.NewestFirst, postforge.OldestFirst:
		filter.Order = order
	default:
		return filter, postforge.Errorf(postforge.EINVALID, "invalid order %q", order)
	}

	if filter.Limit, err = parseIntParam(c, "limit", DefaultPageSize); err != nil {
		return filter, err
	}
	if filter.Limit < 1 || filter.Limit > MaxPageSize {
		return filter, postforge.Errorf(postforge.EINVALID, "limit must be between 1 and %d", MaxPageSize)
	}
	if filter.Offset, err = parseIntParam(c, "offset", 0); err != nil {
		return filter, err
	}
	if filter.Offset < 0 {
		return filter, postforge.Errorf(postforge.EINVALID, "offset must not be negative")
	}
	return filter, nil
}

// parseTimeParam accepts RFC 3339 timestamps and plain dates.
func parseTimeParam(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, postforge.Errorf(postforge.EINVALID, "invalid %s %q: use RFC 3339 or YYYY-MM-DD", key, v)
}

func parseIntParam(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, postforge.Errorf(postforge.EINVALID, "invalid %s %q", key, v)
	}
	return n, nil
}

func (s *Server) handlePostView(c *gin.Context) {
	post, err := s.PostService.FindPostByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) handlePostStatus(c *gin.Context) {
	var req struct {
		Status postforge.PostStatus `json:"status"`
	}
	if !s.bindJSON(c, &req) {
		return
	}
	if !req.Status.Valid() {
		s.Error(c, postforge.Errorf(postforge.EINVALID, "invalid status %q", req.Status))
		return
	}

	post, err := s.PostService.UpdatePost(c.Request.Context(), c.Param("id"), postforge.PostUpdate{Status: &req.Status})
	if err != nil {
		s.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) handleTemplateIndex(c *gin.Context) {
	tmpls, err := s.TemplateService.FindTemplates(c.Request.Context(), postforge.TemplateFilter{})
	if err != nil {
		s.Error(c, err)
		return
	}
	if tmpls == nil {
		tmpls = []*postforge.Template{}
	}
	c.JSON(http.StatusOK, tmpls)
}

func (s *Server) handleTemplateCreate(c *gin.Context) {
	var req struct {
		ID          string                      `json:"id"`
		Name        string                      `json:"name"`
		Description string                      `json:"description"`
		Sections    []postforge.TemplateSection `json:"sections"`
	}
	if !s.bindJSON(c, &req) {
		return
	}

	tmpl := &postforge.Template{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Sections:    req.Sections,
	}
	if err := s.TemplateService.CreateTemplate(c.Request.Context(), tmpl); err != nil {
		s.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

func (s *Server) handleTemplateView(c *gin.Context) {
	tmpl, err := s.TemplateService.FindTemplateByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (s *Server) handleTemplateVersions(c *gin.Context) {
	versions, err := s.TemplateService.FindTemplateVersions(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func (s *Server) handleTemplateDelete(c *gin.Context) {
	if err := s.TemplateService.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		s.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
