package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"b2b-catalog/models"
	"b2b-catalog/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserInput is the admin form for a user. Nil fields are left unchanged on update.
type UserInput struct {
	Email    *string  `json:"email"`
	Name     *string  `json:"name"`
	Role     *string  `json:"role"`
	Password *string  `json:"password"`
	Company  *string  `json:"company"`
	Phone    *string  `json:"phone"`
	Discount *float64 `json:"discount"`
	// ClearDiscount removes the discount; Discount alone cannot express that.
	ClearDiscount bool    `json:"clearDiscount"`
	Status        *string `json:"status"`
}

// IUserService defines the user directory and authentication logic.
type IUserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, input UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id string, input UserInput) (*models.User, error)
	// DeactivateUser is the delete operation: the user is kept with status inactive.
	DeactivateUser(ctx context.Context, id string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// UserService implements IUserService. Returned users never carry the password hash.
type UserService struct {
	repo repository.IUserRepository
	now  func() time.Time
}

// NewUserService creates a new UserService instance.
func NewUserService(repo repository.IUserRepository) IUserService {
	return &UserService{repo: repo, now: time.Now}
}

func publicUser(u *models.User) *models.User {
	p := u.Public()
	return &p
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return publicUser(u), nil
}

func (s *UserService) CreateUser(ctx context.Context, input UserInput) (*models.User, error) {
	if input.Email == nil || input.Name == nil || input.Password == nil {
		return nil, newValidationError("", "email, name and password are required")
	}
	user := models.User{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Status:    models.UserActive,
		CreatedAt: s.now().UTC(),
	}
	if err := applyUserInput(&user, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return publicUser(&user), nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, input UserInput) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyUserInput(user, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return publicUser(user), nil
}

func applyUserInput(u *models.User, in UserInput) error {
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validate.Var(email, "required,email"); err != nil {
			return newValidationError("email", "invalid email address %q", email)
		}
		u.Email = email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return newValidationError("name", "name is required")
		}
		u.Name = name
	}
	if in.Role != nil {
		if *in.Role != models.RoleAdmin && *in.Role != models.RoleUser {
			return newValidationError("role", "unknown role %q", *in.Role)
		}
		u.Role = *in.Role
	}
	if in.Status != nil {
		if *in.Status != models.UserActive && *in.Status != models.UserInactive {
			return newValidationError("status", "unknown status %q", *in.Status)
		}
		u.Status = *in.Status
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return newValidationError("password", "password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hash)
	}
	if in.Company != nil {
		u.Company = strings.TrimSpace(*in.Company)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.ClearDiscount {
		u.Discount = nil
	} else if in.Discount != nil {
		d := *in.Discount
		if d < 0 || d > 100 {
			return newValidationError("discount", "discount must be between 0 and 100, got %v", d)
		}
		u.Discount = &d
	}
	return nil
}

func (s *UserService) DeactivateUser(ctx context.Context, id string) (*models.User, error) {
	inactive := models.UserInactive
	return s.UpdateUser(ctx, id, UserInput{Status: &inactive})
}

// Authenticate checks the credentials and stamps LastLogin. Unknown emails,
// wrong passwords and inactive users all yield ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, ErrUnauthorized
	}
	now := s.now().UTC()
	user.LastLogin = &now
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return publicUser(user), nil
}
