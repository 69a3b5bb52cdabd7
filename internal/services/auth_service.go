/**
 * @description
 * Auth service.
 * Verifies dashboard credentials and issues signed session tokens.
 *
 * @dependencies
 * - golang.org/x/crypto/bcrypt: password hashes
 * - golang.org/x/crypto/pbkdf2, scrypt: legacy werkzeug hashes (password.go)
 * - github.com/golang-jwt/jwt/v5: session tokens
 * - gorm.io/gorm: users table
 *
 * @notes
 * - Unknown user and wrong password return the same error.
 * - Only accounts whose project is in the allowed list may sign in.
 */

package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/jojuma-project/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrProjectNotAllowed  = errors.New("account project is not allowed on this dashboard")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// UserRepository loads and stores dashboard accounts
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// GormUserRepository reads the users table
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByUsername returns ErrUserNotFound when no row matches
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Create inserts a user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// MemoryUserRepository keeps users in memory (tests and local runs)
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]*models.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*models.User)}
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return ErrUserExists
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.Username] = &cp
	return nil
}

// SessionClaims is the payload of an issued token
type SessionClaims struct {
	Username string `json:"username"`
	Project  string `json:"project"`
	Type     string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// LoginResult is returned to the client after a successful login
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// AuthService handles dashboard sign-in
type AuthService struct {
	users    UserRepository
	secret   []byte
	ttl      time.Duration
	projects []string
	now      func() time.Time
}

// NewAuthService creates an AuthService
func NewAuthService(users UserRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.TokenTTL,
		projects: cfg.AllowedProjects,
		now:      time.Now,
	}
}

// ProjectAllowed reports whether accounts from project may use the dashboard
func (s *AuthService) ProjectAllowed(project string) bool {
	return slices.Contains(s.projects, project)
}

// Login checks the credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		// Same bcrypt cost as a wrong password
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := CheckPassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !s.ProjectAllowed(user.Project) {
		logger.Warn("AuthService: login refused for %s (project %q)", user.Username, user.Project)
		return nil, ErrProjectNotAllowed
	}

	if len(s.secret) == 0 {
		return nil, errors.New("token signing secret is not configured")
	}

	now := s.now().UTC()
	expires := now.Add(s.ttl)
	claims := SessionClaims{
		Username: user.Username,
		Project:  user.Project,
		Type:     user.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Subject(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("AuthService: %s signed in", user.Username)
	return &LoginResult{Token: token, ExpiresAt: expires, User: user}, nil
}

// Register hashes the password and stores a new account
func (s *AuthService) Register(ctx context.Context, user *models.User, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hash
	return s.users.Create(ctx, user)
}

// HashPassword returns a bcrypt hash suitable for the users table
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
