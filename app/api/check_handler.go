package api

import (
	"github.com/gofiber/fiber/v2"

	"embedviz/store"
)

type CheckHandler struct {
	store store.ChunkStorer
}

func NewCheckHandler(storer store.ChunkStorer) *CheckHandler {
	return &CheckHandler{store: storer}
}

func (h CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	resp := fiber.Map{
		"result":     "ok",
		"embeddings": h.store.Path(),
	}
	if _, err := h.store.ModTime(); err != nil {
		resp["embeddings_ready"] = false
	} else {
		resp["embeddings_ready"] = true
	}
	return c.JSON(resp)
}
