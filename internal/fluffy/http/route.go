package http

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/internal/model"

	"github.com/cespare/xxhash"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type processView struct {
	model.Process
	HasIcon bool `json:"has_icon"`
}

func (s *Service) initRouter() {
	s.router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api/v1")
	{
		api.GET("/process", s.checkReadyMiddleware(), s.handleProcesses)
		api.GET("/process/:pid", s.checkReadyMiddleware(), s.handleProcess)
		api.GET("/icon/:pid", s.handleIcon)
		api.GET("/library", s.handleLibraries)
	}

	s.router.NoRoute(s.NoRoute)
}

// NoRoute handles 404 Not Found errors.
func (s *Service) NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func (s *Service) view(p model.Process) processView {
	_, ok := s.ctx.Icon(p.PID)
	return processView{Process: p, HasIcon: ok}
}

func (s *Service) handleProcesses(c *gin.Context) {
	q := struct {
		Keyword string `form:"keyword"`
		Format  string `form:"format"`
	}{}

	if err := c.BindQuery(&q); err != nil {
		errors.Err(c, err)
		return
	}

	list := s.ctx.Search(q.Keyword)

	switch strings.ToLower(q.Format) {
	case "csv", "text":
		if strings.EqualFold(q.Format, "csv") {
			c.Writer.Header().Set("Content-Type", "text/csv; charset=utf-8")
		} else {
			c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Status(http.StatusOK)

		w := csv.NewWriter(c.Writer)
		w.Write([]string{"Name", "PID", "ExePath"})
		for _, p := range list {
			w.Write([]string{p.Name, strconv.FormatUint(uint64(p.PID), 10), p.ExePath})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			log.Debug().Err(err).Msg("write process csv failed")
		}
	default:
		items := make([]processView, 0, len(list))
		for _, p := range list {
			items = append(items, s.view(p))
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func (s *Service) handleProcess(c *gin.Context) {
	pid, err := parsePID(c.Param("pid"))
	if err != nil {
		errors.Err(c, err)
		return
	}

	p, ok := s.ctx.Process(pid)
	if !ok {
		errors.Err(c, errors.NotFound(fmt.Sprintf("process %d", pid), nil))
		return
	}
	c.JSON(http.StatusOK, s.view(p))
}

func (s *Service) handleIcon(c *gin.Context) {
	pid, err := parsePID(c.Param("pid"))
	if err != nil {
		errors.Err(c, err)
		return
	}

	icon, ok := s.ctx.Icon(pid)
	if !ok {
		errors.Err(c, errors.NotFound(fmt.Sprintf("icon of process %d", pid), nil))
		return
	}

	etag := iconETag(icon)
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.AbortWithStatus(http.StatusNotModified)
		return
	}

	data, err := encodePNG(icon)
	if err != nil {
		errors.Err(c, errors.Internal("encode icon", err))
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Service) handleLibraries(c *gin.Context) {
	libs := s.ctx.Libraries()
	c.JSON(http.StatusOK, gin.H{"items": libs, "total": len(libs)})
}

func parsePID(text string) (uint32, error) {
	pid, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, errors.InvalidParam("pid", "must be an unsigned 32-bit integer")
	}
	return uint32(pid), nil
}

// iconETag hashes the dimensions and pixels of icon.
func iconETag(icon *model.Icon) string {
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[:4], icon.Width)
	binary.LittleEndian.PutUint32(dims[4:], icon.Height)

	h := xxhash.New()
	h.Write(dims[:])
	h.Write(icon.Pixels)
	return fmt.Sprintf("\"%016x\"", h.Sum64())
}

// encodePNG writes the straight alpha buffer as a non-premultiplied PNG.
func encodePNG(icon *model.Icon) ([]byte, error) {
	img := &image.NRGBA{
		Pix:    icon.Pixels,
		Stride: int(icon.Width) * model.BytesPerPixel,
		Rect:   image.Rect(0, 0, int(icon.Width), int(icon.Height)),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
