package service

import (
	"context"
	"strings"

	"pickmypit/internal/models"
	"pickmypit/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AdminService struct {
	adminRepo repository.AdminRepository
	userRepo  repository.UserRepository
	postRepo  repository.PostRepository
}

type CreateAdminInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Gender    string
}

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	TotalUsers    int64            `json:"totalUsers"`
	TotalPosts    int64            `json:"totalPosts"`
	TotalAdmins   int64            `json:"totalAdmins"`
	PostsByStatus map[string]int64 `json:"postsByStatus"`
	NewUsers30d   int64            `json:"newUsers30d"`
	NewPosts30d   int64            `json:"newPosts30d"`
}

func NewAdminService(
	adminRepo repository.AdminRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		userRepo:  userRepo,
		postRepo:  postRepo,
	}
}

func (s *AdminService) Login(ctx context.Context, email, password string) (*models.Admin, error) {
	invalid := models.NewUnauthorizedError("Invalid credentials")

	admin, err := s.adminRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	hashed := missingUserHash
	if admin != nil {
		hashed = admin.Password
	}
	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) != nil || admin == nil {
		return nil, invalid
	}
	if !admin.Active() {
		return nil, models.NewForbiddenError("Account is " + admin.Status)
	}
	if err := s.adminRepo.RecordLogin(ctx, admin.ID); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*models.Admin, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.FirstName) == "" {
		fields["firstname"] = "firstname is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields["lastname"] = "lastname is required"
	}
	if in.Email == "" {
		fields["email"] = "email is required"
	}
	if len(in.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	role := in.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		fields["role"] = "role must be admin or superadmin"
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError("Invalid input", fields)
	}

	existing, err := s.adminRepo.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("An admin with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	admin := &models.Admin{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(in.Email),
		Password:  string(hash),
		Role:      role,
		Gender:    in.Gender,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) GetAdmin(ctx context.Context, id uint) (*models.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

func (s *AdminService) ListAdmins(ctx context.Context, limit, offset int) ([]models.Admin, int64, error) {
	return s.adminRepo.List(ctx, limit, offset)
}

func (s *AdminService) DeleteAdmin(ctx context.Context, id uint) error {
	return s.adminRepo.Delete(ctx, id)
}

// Stats aggregates the dashboard counters across users, posts and admins.
func (s *AdminService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{PostsByStatus: map[string]int64{}}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalPosts, err = s.postRepo.CountByStatus(ctx, repository.StatusAll); err != nil {
		return nil, err
	}
	if _, stats.TotalAdmins, err = s.adminRepo.List(ctx, 1, 0); err != nil {
		return nil, err
	}

	for _, status := range []string{
		models.PostStatusPending, models.PostStatusAvailable, models.PostStatusSold,
		models.PostStatusAdopted, models.PostStatusRejected, models.PostStatusBanned,
	} {
		n, err := s.postRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		stats.PostsByStatus[status] = n
	}

	if stats.NewUsers30d, err = s.userRepo.CountCreatedSince(ctx, 30); err != nil {
		return nil, err
	}
	if stats.NewPosts30d, err = s.postRepo.CountCreatedSince(ctx, 30); err != nil {
		return nil, err
	}
	return stats, nil
}
