package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pickmypit/internal/cache"
	"pickmypit/internal/featureflags"
	"pickmypit/internal/integrations"
	"pickmypit/internal/models"
	"pickmypit/internal/observability"
	"pickmypit/internal/repository"
	"pickmypit/internal/validation"

	"github.com/shopspring/decimal"
)

// AutoApprovePostsFlag switches new listings straight to available, skipping
// the moderation queue.
const AutoApprovePostsFlag = "auto_approve_posts"

type PostService struct {
	postRepo repository.PostRepository
	images   integrations.ImageHost
	flags    *featureflags.Manager
}

type CreatePostInput struct {
	OwnerID     uint
	Title       string
	Description string
	Images      []string
	Amount      decimal.Decimal
	Type        string
	Species     string
	Category    string
	AgeValue    int
	AgeUnit     string
	AddressID   *uint
}

type UpdatePostInput struct {
	PostID      uint
	OwnerID     uint
	Title       string
	Description string
	Images      []string
	Amount      *decimal.Decimal
	Category    string
	AgeValue    *int
	AgeUnit     string
	AddressID   *uint
}

type UpdateStatusInput struct {
	PostID    uint
	ActorID   uint
	ActorRole string
	Status    string
	Reason    string
}

func NewPostService(
	postRepo repository.PostRepository,
	images integrations.ImageHost,
	flags *featureflags.Manager,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		images:   images,
		flags:    flags,
	}
}

func isAdminRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}

// Statuses a listing owner may set directly. Making a listing available is
// never owner-settable; that transition belongs to moderation.
func ownerSettableStatus(status string) bool {
	switch status {
	case models.PostStatusSold, models.PostStatusAdopted:
		return true
	}
	return false
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validateListingInput(in.Title, in.Description); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Species) == "" {
		return nil, models.NewFieldValidationError("Invalid input", map[string]string{"species": "species is required"})
	}
	if in.AgeUnit != "" && !models.ValidAgeUnit(in.AgeUnit) {
		return nil, models.NewFieldValidationError("Invalid input", map[string]string{"age_unit": "age_unit must be one of days, weeks, months, years"})
	}

	postType := in.Type
	if postType == "" {
		postType = models.PostTypeFree
	}
	amount := in.Amount
	switch postType {
	case models.PostTypeFree:
		amount = decimal.Zero
	case models.PostTypePaid:
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, models.NewFieldValidationError("Invalid input", map[string]string{"amount": "paid listings need an amount greater than zero"})
		}
	default:
		return nil, models.NewFieldValidationError("Invalid input", map[string]string{"type": "type must be free or paid"})
	}

	images, err := s.resolveImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}

	status := models.PostStatusPending
	if s.flags.Enabled(AutoApprovePostsFlag, in.OwnerID) {
		status = models.PostStatusAvailable
	}

	post := &models.Post{
		Title:       in.Title,
		Slug:        newSlug(in.Title),
		Description: in.Description,
		Images:      images,
		Amount:      amount,
		Type:        postType,
		Category:    in.Category,
		Species:     in.Species,
		SpeciesSlug: validation.Slugify(in.Species),
		BreedSlug:   validation.Slugify(in.Category),
		AgeValue:    in.AgeValue,
		AgeUnit:     in.AgeUnit,
		Status:      status,
		OwnerID:     in.OwnerID,
		AddressID:   in.AddressID,
	}

	err = s.postRepo.Create(ctx, post)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "CONFLICT" {
			// Slug collision within the same timestamp window. One retry with a
			// fresh suffix.
			post.Slug = newSlug(in.Title)
			err = s.postRepo.Create(ctx, post)
		}
	}
	if err != nil {
		return nil, err
	}

	observability.PostStatusTransitions.WithLabelValues(status).Inc()
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.postRepo.GetBySlug(ctx, slug)
}

func (s *PostService) FilterPosts(ctx context.Context, f repository.PostFilter) ([]models.Post, int64, error) {
	return s.postRepo.Filter(ctx, f)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != in.OwnerID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	oldSlug := post.Slug
	if in.Title != "" && in.Title != post.Title {
		if err := validateListingInput(in.Title, post.Description); err != nil {
			return nil, err
		}
		post.Title = in.Title
		post.Slug = newSlug(in.Title)
	}
	if in.Description != "" {
		if validation.ContainsContactInfo(in.Description) {
			return nil, models.NewFieldValidationError("Invalid input", map[string]string{"description": "contact details are not allowed in listings"})
		}
		post.Description = in.Description
	}
	if in.Images != nil {
		images, err := s.resolveImages(ctx, in.Images)
		if err != nil {
			return nil, err
		}
		post.Images = images
	}
	if in.Amount != nil {
		if post.Type == models.PostTypePaid && in.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, models.NewFieldValidationError("Invalid input", map[string]string{"amount": "paid listings need an amount greater than zero"})
		}
		post.Amount = *in.Amount
	}
	if in.Category != "" {
		post.Category = in.Category
		post.BreedSlug = validation.Slugify(in.Category)
	}
	if in.AgeValue != nil {
		post.AgeValue = *in.AgeValue
	}
	if in.AgeUnit != "" {
		if !models.ValidAgeUnit(in.AgeUnit) {
			return nil, models.NewFieldValidationError("Invalid input", map[string]string{"age_unit": "age_unit must be one of days, weeks, months, years"})
		}
		post.AgeUnit = in.AgeUnit
	}
	if in.AddressID != nil {
		post.AddressID = in.AddressID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	if oldSlug != post.Slug {
		cache.InvalidatePost(ctx, oldSlug)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, postID, actorID uint, actorRole string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.OwnerID != actorID && !isAdminRole(actorRole) {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// Approve moves a pending listing to available.
func (s *PostService) Approve(ctx context.Context, actorRole string, postID uint) (*models.Post, error) {
	return s.moderate(ctx, actorRole, postID, models.PostStatusAvailable, "")
}

// Reject moves a pending listing to rejected with an optional reason.
func (s *PostService) Reject(ctx context.Context, actorRole string, postID uint, reason string) (*models.Post, error) {
	return s.moderate(ctx, actorRole, postID, models.PostStatusRejected, reason)
}

// Ban removes a listing from circulation regardless of its current status.
func (s *PostService) Ban(ctx context.Context, actorRole string, postID uint) (*models.Post, error) {
	return s.moderate(ctx, actorRole, postID, models.PostStatusBanned, "")
}

func (s *PostService) moderate(ctx context.Context, actorRole string, postID uint, status, reason string) (*models.Post, error) {
	if !isAdminRole(actorRole) {
		return nil, models.NewForbiddenError("Moderation requires an admin role")
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.UpdateStatus(ctx, postID, status, reason); err != nil {
		return nil, err
	}
	observability.PostStatusTransitions.WithLabelValues(status).Inc()
	cache.InvalidatePost(ctx, post.Slug)
	return s.postRepo.GetByID(ctx, postID)
}

// UpdateListingStatus is the generic status change used by owners marking
// listings sold or adopted. Admins may set any valid status through it.
func (s *PostService) UpdateListingStatus(ctx context.Context, in UpdateStatusInput) (*models.Post, error) {
	if !models.ValidPostStatus(in.Status) {
		return nil, models.NewFieldValidationError("Invalid input", map[string]string{"status": "unknown status"})
	}
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !isAdminRole(in.ActorRole) {
		if post.OwnerID != in.ActorID {
			return nil, models.NewForbiddenError("You can only update your own posts")
		}
		if !ownerSettableStatus(in.Status) {
			return nil, models.NewForbiddenError("This status change requires a moderator")
		}
		if post.Status != models.PostStatusAvailable {
			return nil, models.NewForbiddenError("Only live listings can be marked sold or adopted")
		}
	}
	if err := s.postRepo.UpdateStatus(ctx, in.PostID, in.Status, in.Reason); err != nil {
		return nil, err
	}
	observability.PostStatusTransitions.WithLabelValues(in.Status).Inc()
	cache.InvalidatePost(ctx, post.Slug)
	return s.postRepo.GetByID(ctx, in.PostID)
}

// resolveImages uploads inline data URIs to the image host and passes plain
// URLs through untouched.
func (s *PostService) resolveImages(ctx context.Context, images []string) ([]string, error) {
	resolved := make([]string, 0, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		if !strings.HasPrefix(img, "data:") {
			resolved = append(resolved, img)
			continue
		}
		if s.images == nil {
			return nil, models.NewValidationError("Image uploads are not configured")
		}
		uploaded, err := s.images.Upload(ctx, img)
		if err != nil {
			slog.ErrorContext(ctx, "image upload failed", "error", err)
			return nil, err
		}
		resolved = append(resolved, uploaded.SecureURL)
	}
	return resolved, nil
}

func validateListingInput(title, description string) error {
	fields := map[string]string{}
	trimmed := strings.TrimSpace(title)
	if len(trimmed) < 3 || len(trimmed) > 100 {
		fields["title"] = "title must be between 3 and 100 characters"
	}
	if len(description) > 2000 {
		fields["description"] = "description must be at most 2000 characters"
	}
	if validation.ContainsContactInfo(title) {
		fields["title"] = "contact details are not allowed in listings"
	}
	if validation.ContainsContactInfo(description) {
		fields["description"] = "contact details are not allowed in listings"
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError("Invalid input", fields)
	}
	return nil
}

// newSlug derives a URL slug from the title plus a timestamp suffix for
// collision avoidance.
func newSlug(title string) string {
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return validation.Slugify(title) + "-" + suffix
}
