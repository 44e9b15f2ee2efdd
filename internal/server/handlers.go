package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/loykin/frontc/internal/constants"
	"github.com/loykin/frontc/internal/store"
)

const (
	statusIncomplete = "error: incomplete credentials"
	statusSuccess    = "success"
)

type formRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// encodeLinks writes links as one JSON object in the given order.
func encodeLinks(links []Link) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range links {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(l.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(l.URL)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Server) handleDirectory(c *gin.Context) {
	links := s.opts.Links
	if term, ok := c.GetQuery(constants.SearchQueryParam); ok {
		links = nil
		for _, l := range s.opts.Links {
			if l.Key == term {
				links = []Link{l}
				break
			}
		}
		if links == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
	}
	body, err := encodeLinks(links)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, constants.ContentTypeJSON, body)
}

func (s *Server) handleForm(c *gin.Context) {
	var req formRequest
	// an unreadable body counts as missing fields
	_ = c.ShouldBindJSON(&req)
	if req.Name == "" || req.Email == "" {
		s.metrics.submission("incomplete")
		c.JSON(http.StatusBadRequest, gin.H{"status": statusIncomplete})
		return
	}

	err := s.opts.Contacts.SaveContact(c.Request.Context(), store.Contact{Name: req.Name, Email: req.Email})
	if err != nil {
		s.metrics.submission("rejected")
		s.logger.Warn("contact rejected", "email", req.Email, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"status": err.Error()})
		return
	}
	s.metrics.submission("success")
	s.logger.Info("contact saved", "name", req.Name, "email", req.Email, "request_id", c.GetString(RequestIDKey))
	c.JSON(http.StatusCreated, gin.H{"status": statusSuccess})
}
