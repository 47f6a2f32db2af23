package web

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chrisdamba/vendorcast/internal/memory"
	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PredictRequest is the body of POST /api/predict. Blank date means today;
// blank weather and a missing temperature take the configured defaults.
type PredictRequest struct {
	VendorID    string `json:"vendor_id"`
	Date        string `json:"date"`
	Weather     string `json:"weather"`
	Temperature *int   `json:"temperature"`
	IsFestival  bool   `json:"is_festival"`
	IsPayday    bool   `json:"is_payday"`
}

type vendorOption struct {
	ID           string              `json:"id"`
	DisplayName  string              `json:"display_name"`
	Name         string              `json:"name"`
	Location     string              `json:"location"`
	LocationType models.LocationType `json:"location_type"`
}

type resultView struct {
	Vendor            string
	Date              string
	DayOfWeek         string
	Weather           models.Weather
	Temperature       int
	RevenueMin        int
	RevenueMax        int
	PeakHours         string
	Confidence        string
	ConfidencePercent string
	Items             models.ItemDemand
	Notes             []string
}

type pageView struct {
	Vendors     []vendorOption
	Selected    string
	Weather     []models.Weather
	Temperature int
	Error       string
	Result      *resultView
}

func (s *Server) vendorOptions() []vendorOption {
	ids := s.pred.VendorIDs()
	out := make([]vendorOption, 0, len(ids))
	for _, id := range ids {
		p, err := s.pred.Vendor(id)
		if err != nil {
			continue
		}
		out = append(out, vendorOption{
			ID:           id,
			DisplayName:  models.DisplayName(id),
			Name:         p.Name,
			Location:     p.Location,
			LocationType: p.LocationType,
		})
	}
	return out
}

func (s *Server) render(c *fiber.Ctx, status int, view pageView) error {
	view.Vendors = s.vendorOptions()
	view.Weather = models.WeatherConditions
	view.Temperature = s.defaults.Temperature

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, view); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, pageView{})
}

func (s *Server) handleFormPredict(c *fiber.Ctx) error {
	req := PredictRequest{
		VendorID:   c.FormValue("vendor_id"),
		Date:       c.FormValue("date"),
		Weather:    c.FormValue("weather"),
		IsFestival: c.FormValue("is_festival") != "",
		IsPayday:   c.FormValue("is_payday") != "",
	}
	if raw := strings.TrimSpace(c.FormValue("temperature")); raw != "" {
		t, err := strconv.Atoi(raw)
		if err != nil {
			return s.render(c, fiber.StatusBadRequest, pageView{Selected: req.VendorID, Error: fmt.Sprintf("invalid temperature %q", raw)})
		}
		req.Temperature = &t
	}

	profile, day, ferr := s.resolve(req)
	if ferr != nil {
		return s.render(c, ferr.Code, pageView{Selected: req.VendorID, Error: ferr.Message})
	}

	out, err := s.pred.Predict(c.UserContext(), profile, day)
	if err != nil {
		s.logger.Error("prediction failed", zap.String("vendor_id", req.VendorID), zap.Error(err))
		return s.render(c, fiber.StatusInternalServerError, pageView{Selected: req.VendorID, Error: "Prediction failed. Check the server log."})
	}

	return s.render(c, fiber.StatusOK, pageView{
		Selected: req.VendorID,
		Result: &resultView{
			Vendor:            profile.Name,
			Date:              day.Date,
			DayOfWeek:         day.DayOfWeek,
			Weather:           day.Weather,
			Temperature:       day.Temperature,
			RevenueMin:        out.ExpectedRevenue.Min,
			RevenueMax:        out.ExpectedRevenue.Max,
			PeakHours:         models.JoinHours(out.PeakHours),
			Confidence:        fmt.Sprintf("%.2f", out.ConfidenceLevel),
			ConfidencePercent: fmt.Sprintf("%.1f", out.ConfidenceLevel*100),
			Items:             out.RecommendedItems,
			Notes:             out.SpecialNotes,
		},
	})
}

func (s *Server) handleAPIPredict(c *fiber.Ctx) error {
	var req PredictRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}

	profile, day, ferr := s.resolve(req)
	if ferr != nil {
		return c.Status(ferr.Code).JSON(fiber.Map{"success": false, "message": ferr.Message})
	}

	out, err := s.pred.Predict(c.UserContext(), profile, day)
	if err != nil {
		s.logger.Error("prediction failed", zap.String("vendor_id", req.VendorID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "prediction failed"})
	}
	return c.JSON(out)
}

// resolve turns loosely typed request fields into core inputs. All string
// parsing for the web front end happens here.
func (s *Server) resolve(req PredictRequest) (models.VendorProfile, models.DayContext, *fiber.Error) {
	if req.VendorID == "" {
		return models.VendorProfile{}, models.DayContext{}, fiber.NewError(fiber.StatusBadRequest, "vendor_id is required")
	}
	profile, err := s.pred.Vendor(req.VendorID)
	if errors.Is(err, memory.ErrVendorNotFound) {
		return models.VendorProfile{}, models.DayContext{}, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown vendor %q", req.VendorID))
	}
	if err != nil {
		s.logger.Error("vendor lookup failed", zap.String("vendor_id", req.VendorID), zap.Error(err))
		return models.VendorProfile{}, models.DayContext{}, fiber.NewError(fiber.StatusInternalServerError, "vendor lookup failed")
	}

	date, err := models.ParseDate(req.Date, s.now())
	if err != nil {
		return models.VendorProfile{}, models.DayContext{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	weather := s.defaults.Weather
	if strings.TrimSpace(req.Weather) != "" {
		if weather, err = models.ParseWeather(req.Weather); err != nil {
			return models.VendorProfile{}, models.DayContext{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	temperature := s.defaults.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	return profile, models.NewDayContext(date, weather, temperature, req.IsFestival, req.IsPayday), nil
}

func (s *Server) handleListVendors(c *fiber.Ctx) error {
	return c.JSON(s.vendorOptions())
}

func (s *Server) handleGuidance(c *fiber.Ctx) error {
	return c.JSON(s.prompts)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "vendors": len(s.pred.VendorIDs())})
}
