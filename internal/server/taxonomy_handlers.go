package server

import (
	"strings"

	"pickmypit/internal/models"
	"pickmypit/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetSpecies handles GET /api/species (admin sees inactive entries too).
func (s *Server) GetSpecies(c *fiber.Ctx) error {
	species, err := s.speciesRepo.List(c.Context(), false)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Species retrieved", species)
}

// GetActiveSpecies handles GET /api/species/active
func (s *Server) GetActiveSpecies(c *fiber.Ctx) error {
	species, err := s.speciesRepo.List(c.Context(), true)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Species retrieved", species)
}

// GetSpeciesByName handles GET /api/species/name/:name
func (s *Server) GetSpeciesByName(c *fiber.Ctx) error {
	name := strings.ToLower(c.Params("name"))
	species, err := s.speciesRepo.GetByName(c.Context(), name)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Species retrieved", species)
}

// GetSpeciesByID handles GET /api/species/:id
func (s *Server) GetSpeciesByID(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	species, err := s.speciesRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Species retrieved", species)
}

// CreateSpecies handles POST /api/species
func (s *Server) CreateSpecies(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("name is required"))
	}

	species := &models.Species{
		Name:        validation.Slugify(req.Name),
		DisplayName: req.DisplayName,
		Description: req.Description,
		Icon:        req.Icon,
		Active:      true,
	}
	if species.DisplayName == "" {
		species.DisplayName = req.Name
	}
	if err := s.speciesRepo.Create(c.Context(), species); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusCreated, "Species created", species)
}

// UpdateSpecies handles PUT /api/species/:id
func (s *Server) UpdateSpecies(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	species, err := s.speciesRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	var req struct {
		DisplayName *string `json:"displayName"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
		Active      *bool   `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.DisplayName != nil {
		species.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		species.Description = *req.Description
	}
	if req.Icon != nil {
		species.Icon = *req.Icon
	}
	if req.Active != nil {
		species.Active = *req.Active
	}

	if err := s.speciesRepo.Update(c.Context(), species); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Species updated", species)
}

// DeleteSpecies handles DELETE /api/species/:id
func (s *Server) DeleteSpecies(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.speciesRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Species deleted", nil)
}

// GetBreeds handles GET /api/breeds?species=dog
func (s *Server) GetBreeds(c *fiber.Ctx) error {
	speciesName := strings.ToLower(c.Query("species"))
	if speciesName == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("species query parameter is required"))
	}
	breeds, err := s.breedRepo.ListBySpecies(c.Context(), speciesName, !c.QueryBool("all"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Breeds retrieved", breeds)
}

// GetBreedsBySpecies handles GET /api/breeds/species/:speciesId
func (s *Server) GetBreedsBySpecies(c *fiber.Ctx) error {
	speciesID, err := s.parseID(c, "speciesId")
	if err != nil {
		return nil
	}
	breeds, err := s.breedRepo.ListBySpeciesID(c.Context(), speciesID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Breeds retrieved", breeds)
}

// GetBreedByName handles GET /api/breeds/name/:name?species=dog
func (s *Server) GetBreedByName(c *fiber.Ctx) error {
	speciesName := strings.ToLower(c.Query("species"))
	if speciesName == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("species query parameter is required"))
	}
	breed, err := s.breedRepo.GetByName(c.Context(), speciesName, c.Params("name"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Breed retrieved", breed)
}

// GetBreedByID handles GET /api/breeds/:id
func (s *Server) GetBreedByID(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	breed, err := s.breedRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Breed retrieved", breed)
}

// CreateBreed handles POST /api/breeds
func (s *Server) CreateBreed(c *fiber.Ctx) error {
	var req struct {
		Name            string   `json:"name"`
		Species         string   `json:"species"`
		Description     string   `json:"description"`
		Characteristics []string `json:"characteristics"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.Species == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("name and species are required"))
	}

	species, err := s.speciesRepo.GetByName(c.Context(), strings.ToLower(req.Species))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	breed := &models.Breed{
		Name:            req.Name,
		SpeciesID:       species.ID,
		SpeciesName:     species.Name,
		Description:     req.Description,
		Characteristics: req.Characteristics,
		Active:          true,
	}
	if err := s.breedRepo.Create(c.Context(), breed); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusCreated, "Breed created", breed)
}

// UpdateBreed handles PUT /api/breeds/:id
func (s *Server) UpdateBreed(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	breed, err := s.breedRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	var req struct {
		Description     *string   `json:"description"`
		Characteristics *[]string `json:"characteristics"`
		Active          *bool     `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Description != nil {
		breed.Description = *req.Description
	}
	if req.Characteristics != nil {
		breed.Characteristics = *req.Characteristics
	}
	if req.Active != nil {
		breed.Active = *req.Active
	}

	if err := s.breedRepo.Update(c.Context(), breed); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Breed updated", breed)
}

// DeleteBreed handles DELETE /api/breeds/:id
func (s *Server) DeleteBreed(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.breedRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Breed deleted", nil)
}
