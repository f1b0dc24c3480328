package server

import (
	"strings"

	"pickmypit/internal/models"
	"pickmypit/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type addressRequest struct {
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode string   `json:"postalCode"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Landmark   string   `json:"landmark"`
	IsDefault  bool     `json:"isDefault"`
}

func (r *addressRequest) validate() error {
	fields := map[string]string{}
	for name, value := range map[string]string{
		"street": r.Street, "city": r.City, "state": r.State, "country": r.Country,
	} {
		if strings.TrimSpace(value) == "" {
			fields[name] = name + " is required"
		}
	}
	if err := validation.ValidatePostalCode(r.PostalCode); err != nil {
		fields["postalCode"] = err.Error()
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		fields["latitude"] = "latitude and longitude must be provided together"
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError("Invalid input", fields)
	}
	return nil
}

// GetAddresses handles GET /api/addresses
func (s *Server) GetAddresses(c *fiber.Ctx) error {
	addresses, err := s.addressRepo.ListByUser(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Addresses retrieved", addresses)
}

// GetDefaultAddress handles GET /api/addresses/default
func (s *Server) GetDefaultAddress(c *fiber.Ctx) error {
	address, err := s.addressRepo.GetDefault(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Default address retrieved", address)
}

// GetAddress handles GET /api/addresses/:id
func (s *Server) GetAddress(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	address, err := s.addressRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	if address.UserID != currentUserID(c) {
		// Present foreign addresses as missing rather than forbidden.
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Address", id))
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Address retrieved", address)
}

// CreateAddress handles POST /api/addresses
func (s *Server) CreateAddress(c *fiber.Ctx) error {
	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := req.validate(); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	address := &models.Address{
		UserID:     currentUserID(c),
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Landmark:   req.Landmark,
		IsDefault:  req.IsDefault,
	}
	if err := s.addressRepo.Create(c.Context(), address); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusCreated, "Address created", address)
}

// UpdateAddress handles PUT /api/addresses/:id
func (s *Server) UpdateAddress(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := req.validate(); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	address, err := s.addressRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	if address.UserID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Address", id))
	}

	address.Street = req.Street
	address.City = req.City
	address.State = req.State
	address.PostalCode = req.PostalCode
	address.Country = req.Country
	address.Latitude = req.Latitude
	address.Longitude = req.Longitude
	address.Landmark = req.Landmark
	address.IsDefault = address.IsDefault || req.IsDefault

	if err := s.addressRepo.Update(c.Context(), address); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Address updated", address)
}

// SetDefaultAddress handles PUT /api/addresses/:id/default
func (s *Server) SetDefaultAddress(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.addressRepo.SetDefault(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	address, err := s.addressRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Default address updated", address)
}

// DeleteAddress handles DELETE /api/addresses/:id
func (s *Server) DeleteAddress(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.addressRepo.Delete(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Address deleted", nil)
}
