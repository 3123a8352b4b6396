package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"folio/pkg/character"
	"folio/pkg/imagegen"
	"folio/pkg/schema"
	"folio/pkg/utils"
)

const generateTimeout = 3 * time.Minute

func (s *Server) handleGetCharacterSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, schema.CharacterRequestSchema)
}

// parseCharacter validates the wizard payload. Only unknown enum values are
// rejected; an unusable photo is dropped.
func (s *Server) parseCharacter(c echo.Context) (character.Input, *character.Engine, error) {
	var req schema.CharacterRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid JSON in character request", "error", err)
		return character.Input{}, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	species, err := character.ParseSpecies(req.Species)
	if err != nil {
		return character.Input{}, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	gender, err := character.ParseGender(req.Gender)
	if err != nil {
		return character.Input{}, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in := character.Input{Species: species, Gender: gender, Name: req.Name}

	if strings.TrimSpace(req.PhotoGender) != "" {
		if in.ReferenceGender, err = character.ParseGender(req.PhotoGender); err != nil {
			return character.Input{}, nil, echo.NewHTTPError(http.StatusBadRequest, "photoGender: "+err.Error())
		}
	}
	if req.Photo != "" {
		data, _, err := utils.DecodeDataURL(req.Photo)
		switch {
		case err != nil:
			log.Warn("dropping undecodable photo", "error", err)
		case !character.UsablePhoto(data):
			log.Warn("dropping photo that is not an image", "bytes", len(data))
		default:
			in.ReferencePhoto = data
		}
	}

	engine := s.Engine
	if req.Seed != nil {
		engine = character.NewEngine(
			character.WithRand(character.NewSeeded(*req.Seed)),
			character.WithReservedReference(s.ReservedReference),
		)
	}
	return in, engine, nil
}

func (s *Server) buildCharacter(c echo.Context) (character.Input, schema.CharacterResponse, error) {
	in, engine, err := s.parseCharacter(c)
	if err != nil {
		return in, schema.CharacterResponse{}, err
	}
	start := time.Now()
	res := engine.Build(in)
	go logTokens(res.Prompt, start)

	log.Info("character prompt built", "name", res.DisplayName, "species", res.Species, "rule", res.Rule, "photo", in.ReferencePhoto != nil)
	return in, schema.CharacterResponse{
		Result:   res,
		NameDiff: character.NameDiff(in.Name, res.DisplayName),
	}, nil
}

// POST /api/character/prompt
func (s *Server) handlePostCharacterPrompt(c echo.Context) error {
	_, resp, err := s.buildCharacter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// POST /api/character/generate
func (s *Server) handlePostCharacterGenerate(c echo.Context) error {
	in, resp, err := s.buildCharacter(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), generateTimeout)
	defer cancel()

	if err := s.generateCharacter(ctx, in, &resp); err != nil {
		log.Error("character generation failed", "name", resp.DisplayName, "error", err)
		return c.JSON(generationStatus(err), utils.ErrJSON(err.Error()))
	}
	return c.JSON(http.StatusOK, resp)
}

// POST /api/character/stream
// events: prompt, queued, image | error, close
func (s *Server) handlePostCharacterStream(c echo.Context) error {
	in, resp, err := s.buildCharacter(c)
	if err != nil {
		return err
	}
	w, err := utils.NewSSEWriter(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON(err.Error()))
	}
	defer w.Close()

	if err := w.Event("prompt", resp); err != nil {
		return err
	}
	_ = w.Event("queued", map[string]string{"name": resp.DisplayName})

	ctx, cancel := context.WithTimeout(c.Request().Context(), generateTimeout)
	defer cancel()
	if err := s.generateCharacter(ctx, in, &resp); err != nil {
		log.Error("character generation failed", "name", resp.DisplayName, "error", err)
		return w.Event("error", utils.ErrJSON(err.Error()))
	}
	return w.Event("image", map[string]string{"id": resp.ID, "imageUrl": resp.ImageURL})
}

func (s *Server) generateCharacter(ctx context.Context, in character.Input, resp *schema.CharacterResponse) error {
	req := imagegen.Request{Prompt: resp.Prompt}
	switch {
	case resp.ReferenceImage != "":
		// the reserved character is always drawn from its stored portrait
		req.Reference = s.storedReference(ctx, resp.ReferenceImage)
	case in.ReferencePhoto != nil:
		req.Reference = imagegen.NewReference(in.ReferencePhoto)
	}

	img, err := s.render(ctx, req)
	if err != nil {
		return err
	}
	id, url, err := s.store(ctx, img)
	if err != nil {
		return err
	}
	resp.ID, resp.ImageURL = id, url

	entry := schema.GalleryEntry{
		ID:          id,
		Name:        in.Name,
		DisplayName: resp.DisplayName,
		Species:     resp.Species,
		Gender:      in.Gender,
		Prompt:      resp.Prompt,
		ImageURL:    url,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	err = s.Gallery.Update(func(history []schema.GalleryEntry) []schema.GalleryEntry {
		history = append([]schema.GalleryEntry{entry}, history...)
		if len(history) > maxGalleryEntries {
			history = history[:maxGalleryEntries]
		}
		return history
	})
	if err != nil {
		log.Warn("failed saving gallery", "error", err)
	}
	log.Info("character generated", "id", id, "name", resp.DisplayName)
	return nil
}

// GET /api/character/gallery
func (s *Server) handleGetGallery(c echo.Context) error {
	entries := s.Gallery.Get()
	if entries == nil {
		entries = []schema.GalleryEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// POST /api/generate-image
func (s *Server) handlePostGenerateImage(c echo.Context) error {
	var req schema.GenerateImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, schema.GenerateImageResponse{Error: "invalid json"})
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return c.JSON(http.StatusBadRequest, schema.GenerateImageResponse{Error: "prompt is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), generateTimeout)
	defer cancel()

	log.Info("generate-image", "prompt", utils.LimitStr(req.Prompt, 50), "timestamp", req.Timestamp)
	img, err := s.render(ctx, imagegen.Request{
		Prompt:    req.Prompt,
		Reference: s.referenceFromURL(ctx, req.ImageURL),
	})
	if err == nil {
		var url string
		if _, url, err = s.store(ctx, img); err == nil {
			return c.JSON(http.StatusOK, schema.GenerateImageResponse{ImageURL: url})
		}
	}
	log.Error("generate-image failed", "error", err)
	return c.JSON(generationStatus(err), schema.GenerateImageResponse{Error: err.Error()})
}
