package service

import (
	"context"
	"log/slog"
	"strings"

	"pickmypit/internal/integrations"
	"pickmypit/internal/models"
	"pickmypit/internal/repository"
	"pickmypit/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	google   integrations.GoogleVerifier
}

type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Gender       string
	ReferralCode string
}

type UpdateProfileInput struct {
	UserID    uint
	FirstName string
	LastName  string
	Gender    string
	Phone     string
	About     string
	Picture   string
}

func NewUserService(userRepo repository.UserRepository, google integrations.GoogleVerifier) *UserService {
	return &UserService{userRepo: userRepo, google: google}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fields := map[string]string{}
	if err := validation.ValidateName("firstname", in.FirstName); err != nil {
		fields["firstname"] = err.Error()
	}
	if err := validation.ValidateName("lastname", in.LastName); err != nil {
		fields["lastname"] = err.Error()
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		fields["email"] = err.Error()
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = err.Error()
	}
	if err := validation.ValidateGender(in.Gender); err != nil {
		fields["gender"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError("Invalid input", fields)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Password:  string(hash),
		Gender:    in.Gender,
	}
	s.applyReferral(ctx, user, in.ReferralCode)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.grantReferrerBonus(ctx, user)
	return user, nil
}

// Login verifies credentials and returns the account. The not-found and
// wrong-password paths return the same error so callers cannot probe for
// registered emails.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Invalid credentials")

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	// Verify against a constant hash on the miss path so both branches cost a
	// bcrypt comparison.
	hashed := missingUserHash
	if user != nil && user.Password != "" {
		hashed = user.Password
	}
	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) != nil || user == nil {
		return nil, invalid
	}
	if user.Status != models.UserStatusActive {
		return nil, models.NewForbiddenError("Account is " + user.Status)
	}
	return user, nil
}

// missingUserHash is a bcrypt hash of an unguessable value, compared against
// when the email has no account.
const missingUserHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// GoogleAuth verifies the access token upstream and finds or creates the
// matching account. The second return is true when a new account was created.
func (s *UserService) GoogleAuth(ctx context.Context, accessToken, referralCode string) (*models.User, bool, error) {
	if s.google == nil {
		return nil, false, models.NewValidationError("Google sign-in is not configured")
	}
	info, err := s.google.FetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, false, err
	}

	email := strings.ToLower(info.Email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		if user.Status != models.UserStatusActive {
			return nil, false, models.NewForbiddenError("Account is " + user.Status)
		}
		// Late referral attribution for accounts that signed up without one.
		if user.ReferredByID == nil && referralCode != "" {
			s.applyReferral(ctx, user, referralCode)
			if user.ReferredByID != nil {
				if err := s.userRepo.Update(ctx, user); err != nil {
					return nil, false, err
				}
				s.grantReferrerBonus(ctx, user)
			}
		}
		return user, false, nil
	}

	user = &models.User{
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		Email:     email,
		Picture:   info.Picture,
	}
	if user.FirstName == "" {
		user.FirstName = info.Name
	}
	s.applyReferral(ctx, user, referralCode)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	s.grantReferrerBonus(ctx, user)
	return user, true, nil
}

// applyReferral resolves the code to a referrer and credits the new user.
// Invalid or self-referencing codes are ignored, never an error.
func (s *UserService) applyReferral(ctx context.Context, user *models.User, code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return
	}
	referrer, err := s.userRepo.GetByReferralCode(ctx, code)
	if err != nil || referrer == nil {
		return
	}
	user.ReferredByID = &referrer.ID
	user.Coins += repository.ReferralBonusNewUser
}

// grantReferrerBonus credits the referrer after the new account persists.
// Failures are logged, never surfaced to the registering user.
func (s *UserService) grantReferrerBonus(ctx context.Context, user *models.User) {
	if user.ReferredByID == nil {
		return
	}
	if err := s.userRepo.GrantReferralBonus(ctx, *user.ReferredByID); err != nil {
		slog.WarnContext(ctx, "referral bonus grant failed",
			"referrer_id", *user.ReferredByID, "user_id", user.ID, "error", err)
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != "" {
		if err := validation.ValidateName("firstname", in.FirstName); err != nil {
			return nil, models.NewFieldValidationError("Invalid input", map[string]string{"firstname": err.Error()})
		}
		user.FirstName = strings.TrimSpace(in.FirstName)
	}
	if in.LastName != "" {
		if err := validation.ValidateName("lastname", in.LastName); err != nil {
			return nil, models.NewFieldValidationError("Invalid input", map[string]string{"lastname": err.Error()})
		}
		user.LastName = strings.TrimSpace(in.LastName)
	}
	if in.Gender != "" {
		if err := validation.ValidateGender(in.Gender); err != nil {
			return nil, models.NewFieldValidationError("Invalid input", map[string]string{"gender": err.Error()})
		}
		user.Gender = in.Gender
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.About != "" {
		user.About = in.About
	}
	if in.Picture != "" {
		user.Picture = in.Picture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account. Non-admin callers may only delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, targetID, actorID uint, actorRole string) error {
	if targetID != actorID && !isAdminRole(actorRole) {
		return models.NewForbiddenError("You can only delete your own account")
	}
	return s.userRepo.Delete(ctx, targetID)
}
