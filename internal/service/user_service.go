package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const profilePostLimit = 20

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	// Identifier is a username or an email address.
	Identifier string
	Password   string
}

type UpdateSettingsInput struct {
	UserID    uint
	Theme     string
	AvatarURL string
}

// Availability reports format validity and uniqueness for a proposed
// username or email.
type Availability struct {
	Valid     bool `json:"valid"`
	Available bool `json:"available"`
}

type Profile struct {
	User  *models.User   `json:"user"`
	Posts []*models.Post `json:"posts"`
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

// Register validates all fields before touching the database; a request with
// several bad fields reports all of them at once, and no user row is created
// unless everything passes.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	fields := map[string]string{}
	if err := validation.ValidateUsername(username); err != nil {
		fields["username"] = err.Error()
	}
	if err := validation.ValidateEmail(email); err != nil {
		fields["email"] = err.Error()
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = err.Error()
	}

	if _, ok := fields["username"]; !ok {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if existing != nil {
			fields["username"] = "Username is already taken"
		}
	}
	if _, ok := fields["email"]; !ok {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if existing != nil {
			fields["email"] = "Email is already registered"
		}
	}

	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:        username,
		Email:           email,
		Password:        string(hashed),
		ThemePreference: models.ThemeSystem,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login resolves the identifier as username or email. Unknown accounts and
// wrong passwords return the same error so the response never reveals which
// part failed.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, strings.TrimSpace(in.Identifier))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateSettings(ctx context.Context, in UpdateSettingsInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Theme != "" {
		if !models.ValidTheme(in.Theme) {
			return nil, models.NewValidationError("Theme must be light, dark or system")
		}
		user.ThemePreference = in.Theme
	}
	if in.AvatarURL != "" {
		user.AvatarURL = in.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile returns a user together with their most recent posts.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByAuthor(ctx, userID, profilePostLimit)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Posts: posts}, nil
}

func (s *UserService) CheckUsername(ctx context.Context, username string) (*Availability, error) {
	username = strings.TrimSpace(username)
	if err := validation.ValidateUsername(username); err != nil {
		return &Availability{Valid: false, Available: false}, nil
	}
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Availability{Valid: true, Available: existing == nil}, nil
}

func (s *UserService) CheckEmail(ctx context.Context, email string) (*Availability, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return &Availability{Valid: false, Available: false}, nil
	}
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Availability{Valid: true, Available: existing == nil}, nil
}
