// Package server exposes the solvers over HTTP.
package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/tidwall/bessel"
	"github.com/tidwall/bessel/dms"
	"github.com/tidwall/gjson"
)

// Solver is implemented by *bessel.Ellipsoid and *metrics.Solver.
type Solver interface {
	Direct(lat1, lon1, azi1, s12 float64) (bessel.DirectResult, error)
	Inverse(lat1, lon1, lat2, lon2 float64) (bessel.InverseResult, error)
}

type DirectResponse struct {
	Lat2    float64 `json:"lat2"`
	Lon2    float64 `json:"lon2"`
	Azi2    float64 `json:"azi2"`
	Lat2DMS string  `json:"lat2Dms"`
	Lon2DMS string  `json:"lon2Dms"`
	Azi2DMS string  `json:"azi2Dms"`
}

// InverseResponse leaves the azimuths out when the points coincide.
type InverseResponse struct {
	Azi1           *float64 `json:"azi1,omitempty"`
	Azi2           *float64 `json:"azi2,omitempty"`
	S12            float64  `json:"s12"`
	Iterations     int      `json:"iterations"`
	Azi1DMS        string   `json:"azi1Dms,omitempty"`
	Azi2DMS        string   `json:"azi2Dms,omitempty"`
	AzimuthDefined bool     `json:"azimuthDefined"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

var errBadRequest = errors.New("bad request")

type handlers struct {
	solver Solver
	logger *zerolog.Logger
}

// New builds the HTTP app. It does not start listening.
func New(s Solver, logger *zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	h := &handlers{solver: s, logger: logger}

	app.Use(h.logRequests)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")
	v1.Post("/direct", h.direct)
	v1.Post("/inverse", h.inverse)
	return app
}

func (h *handlers) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.logger.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("Request handled.")
	return err
}

func (h *handlers) direct(c *fiber.Ctx) error {
	body := c.Body()
	if !gjson.ValidBytes(body) {
		return fail(c, fmt.Errorf("%w: body is not valid JSON", errBadRequest))
	}
	lat1, err := angleField(body, "lat1", dms.Latitude)
	if err != nil {
		return fail(c, err)
	}
	lon1, err := angleField(body, "lon1", dms.Longitude)
	if err != nil {
		return fail(c, err)
	}
	azi1, err := angleField(body, "azi1", dms.Azimuth)
	if err != nil {
		return fail(c, err)
	}
	s12, err := distanceField(body, "s12")
	if err != nil {
		return fail(c, err)
	}

	r, err := h.solver.Direct(lat1, lon1, azi1, s12)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(DirectResponse{
		Lat2:    r.Lat2,
		Lon2:    r.Lon2,
		Azi2:    r.Azi2,
		Lat2DMS: dms.FromDecimal(r.Lat2).String(),
		Lon2DMS: dms.FromDecimal(r.Lon2).String(),
		Azi2DMS: dms.FromDecimal(r.Azi2).String(),
	})
}

func (h *handlers) inverse(c *fiber.Ctx) error {
	body := c.Body()
	if !gjson.ValidBytes(body) {
		return fail(c, fmt.Errorf("%w: body is not valid JSON", errBadRequest))
	}
	var in [4]float64
	for i, f := range []struct {
		name string
		kind dms.Kind
	}{
		{"lat1", dms.Latitude},
		{"lon1", dms.Longitude},
		{"lat2", dms.Latitude},
		{"lon2", dms.Longitude},
	} {
		v, err := angleField(body, f.name, f.kind)
		if err != nil {
			return fail(c, err)
		}
		in[i] = v
	}

	r, err := h.solver.Inverse(in[0], in[1], in[2], in[3])
	var de *bessel.DegenerateInputError
	if errors.As(err, &de) && de.Reason == bessel.Coincident {
		return c.JSON(InverseResponse{})
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(InverseResponse{
		Azi1:           &r.Azi1,
		Azi2:           &r.Azi2,
		S12:            r.S12,
		Iterations:     r.Iterations,
		Azi1DMS:        dms.FromDecimal(r.Azi1).String(),
		Azi2DMS:        dms.FromDecimal(r.Azi2).String(),
		AzimuthDefined: true,
	})
}

// angleField reads a number of decimal degrees or a DMS string. Numbers are
// passed to the solver as is so that range errors name the parameter.
func angleField(body []byte, name string, kind dms.Kind) (float64, error) {
	v := gjson.GetBytes(body, name)
	switch v.Type {
	case gjson.Number:
		return v.Float(), nil
	case gjson.String:
		d, err := dms.ParseDecimal(v.Str, kind)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", errBadRequest, name, err)
		}
		return d, nil
	case gjson.Null:
		if !v.Exists() {
			return 0, fmt.Errorf("%w: missing field %s", errBadRequest, name)
		}
	}
	return 0, fmt.Errorf("%w: %s must be a number or a DMS string", errBadRequest, name)
}

func distanceField(body []byte, name string) (float64, error) {
	v := gjson.GetBytes(body, name)
	switch v.Type {
	case gjson.Number:
		return v.Float(), nil
	case gjson.String:
		d, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", errBadRequest, name, err)
		}
		return d, nil
	case gjson.Null:
		if !v.Exists() {
			return 0, fmt.Errorf("%w: missing field %s", errBadRequest, name)
		}
	}
	return 0, fmt.Errorf("%w: %s must be a number of meters", errBadRequest, name)
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusOf(err)).JSON(ErrorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, bessel.ErrDomain):
		return fiber.StatusBadRequest
	case errors.Is(err, bessel.ErrDegenerate), errors.Is(err, bessel.ErrConvergence):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}
