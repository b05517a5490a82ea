package services

import (
	"context"
	"fmt"
	"strings"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users      ports.UserRepository
	bcryptCost int
}

func NewUserService(users ports.UserRepository, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// EnsureGroups creates the Funcionario and Administrador groups if missing.
func (s *UserService) EnsureGroups(ctx context.Context) ([]domain.Group, error) {
	groups := make([]domain.Group, 0, 2)
	for _, name := range domain.StaffGroups {
		g, created, err := s.users.UpsertGroup(ctx, name)
		if err != nil {
			return nil, err
		}
		if created {
			log.WithField("group", name).Info("group created")
		}
		groups = append(groups, *g)
	}
	return groups, nil
}

// Save creates or updates the user. A non-empty password is hashed and
// stored. Group membership is always recomputed from the role.
func (s *UserService) Save(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)
	if user.Username == "" {
		return nil, domain.ErrUsernameRequired
	}
	if user.Email == "" {
		return nil, domain.ErrCredentialsRequired
	}

	if user.RUT != "" {
		if err := domain.ValidateRUT(user.RUT); err != nil {
			return nil, err
		}
	}

	if user.Role == "" {
		user.Role = domain.RoleFuncionario
	}
	role, err := domain.ParseRole(string(user.Role))
	if err != nil {
		return nil, err
	}
	user.Role = role

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if user.ID == 0 {
		if user.PasswordHash == "" {
			return nil, domain.ErrCredentialsRequired
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	group, _, err := s.users.UpsertGroup(ctx, role.GroupName())
	if err != nil {
		return nil, err
	}
	if err := s.users.SetGroups(ctx, user.ID, []domain.Group{*group}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": user.ID, "role": user.Role}).Info("user saved")
	return s.users.GetByID(ctx, user.ID)
}
