package handler

import (
	"context"
	"net/http"

	"ssf-backend/bootstrap"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

var fiberApp *fiber.App

func init() {
	srv, err := bootstrap.New(context.Background())
	if err != nil {
		panic("app create: " + err.Error())
	}
	fiberApp = srv.App
}

// Handler is the Vercel serverless entry point. All requests are rewritten here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()
	adaptor.FiberApp(fiberApp)(w, r)
}
