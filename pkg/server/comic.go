package server

import (
	"cmp"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"storyflip/pkg/comic"
	"storyflip/pkg/schema"
	"storyflip/pkg/utils"
)

// maxUploadBytes caps one uploaded photo. Vision models don't benefit from
// anything larger and oversized parts blow up the request body.
const maxUploadBytes = 8 << 20

type comicResponse struct {
	Success bool                   `json:"success"`
	ComicID string                 `json:"comicId"`
	Title   string                 `json:"title"`
	Panels  []schema.RenderedPanel `json:"panels"`
}

// POST /api/create-comic
func (s *Server) handleCreateComic(c echo.Context) error {
	req := schema.ComicRequest{
		Mode:  schema.ParseMode(c.FormValue("mode")),
		Name1: strings.TrimSpace(c.FormValue("name1")),
		Name2: strings.TrimSpace(c.FormValue("name2")),
		Genre: cmp.Or(strings.TrimSpace(c.FormValue("genre")), "romantic"),
		Style: cmp.Or(strings.TrimSpace(c.FormValue("style")), "comic"),
		Plot:  strings.TrimSpace(c.FormValue("plot")),
	}

	var err error
	if req.Image1, err = readUpload(c, "img1"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.Solo() {
		if req.Image2, err = readUpload(c, "img2"); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	result, err := s.Pipeline.Generate(c.Request().Context(), req)
	if err != nil {
		kind := comic.KindOf(err)
		log.Error("comic generation failed", "kind", kind, "error", err)
		return c.JSON(statusFor(kind), utils.ErrJSON(string(kind), comic.MessageOf(err)))
	}

	return c.JSON(http.StatusOK, comicResponse{
		Success: true,
		ComicID: result.ComicID,
		Title:   result.Title,
		Panels:  result.Panels,
	})
}

func statusFor(kind comic.Kind) int {
	switch kind {
	case comic.KindValidation:
		return http.StatusBadRequest
	case comic.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// readUpload reads one optional multipart image field. An absent field is
// not an error; the analyzer degrades on its own.
func readUpload(c echo.Context, field string) (*schema.ImageInput, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	if fh.Size > maxUploadBytes {
		return nil, fmt.Errorf("%s exceeds the %dMB upload limit", field, maxUploadBytes>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed reading %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed reading %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &schema.ImageInput{Data: data, MIME: fh.Header.Get("Content-Type")}, nil
}
