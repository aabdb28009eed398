package main

import (
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/jtejido/gbmscapture/errcode"
)

func newApp(s *scanner) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(ResponseError{
				Error: err.Error(),
			})
		},
	})

	app.Use(logger.New(logger.Config{Output: os.Stderr}))
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		dev := s.dev.Context()
		return c.JSON(HealthResponse{
			Status: "ok",
			Device: dev.Type,
			Serial: dev.Serial,
			Mock:   s.cfg.Mock.Enabled,
		})
	})

	app.Post("/capture", s.handleCapture)
	return app
}

func (s *scanner) handleCapture(c *fiber.Ctx) error {
	var req CaptureRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
		}
	}
	if req.Timeout < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "timeout must not be negative")
	}
	timeout := s.cfg.Capture.Timeout
	if req.Timeout > 0 {
		timeout = time.Duration(req.Timeout) * time.Second
	}

	res, err := s.tryCapture(c.UserContext(), timeout)
	if errors.Is(err, errBusy) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	doc, ok := s.respond(res, err)
	if ok {
		return c.JSON(doc)
	}
	code := errcode.As(err)
	if err == nil {
		code = errcode.NoFingerprint
	}
	return c.Status(httpStatus(code)).JSON(doc)
}
