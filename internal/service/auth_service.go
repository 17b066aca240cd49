package service

import (
	"time"

	"go-cms-admin/internal/apperr"
	"go-cms-admin/internal/audit"
	"go-cms-admin/internal/catalog"
	"go-cms-admin/internal/model"
	"go-cms-admin/internal/repository"
	"go-cms-admin/pkg/jwt"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(req *LoginRequest, ip string) (*LoginResponse, error)
	Logout(actor audit.Actor) error
}

type LoginRequest struct {
	Identifier string `json:"identifier"` // username or email
	Password   string `json:"password"`
	Remember   bool   `json:"remember"`
}

type LoginResponse struct {
	Token        string             `json:"token"`
	ExpiresIn    int64              `json:"expires_in"` // seconds
	User         model.UserResponse `json:"user"`
	AllowedPaths []string           `json:"allowed_paths"`
}

type authService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	cache    *catalog.Cache
	auditor  *audit.Auditor
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, cache *catalog.Cache, auditor *audit.Auditor, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		cache:    cache,
		auditor:  auditor,
		logger:   logger,
	}
}

// Login resolves the user's permission snapshot into allowed route prefixes
// and bakes them into the credential. Everything authorization needs for the
// rest of the session is decided here; role edits only take effect at the
// next login.
func (s *authService) Login(req *LoginRequest, ip string) (*LoginResponse, error) {
	var resp *LoginResponse

	actor := audit.Actor{Username: req.Identifier, IP: ip}
	err := s.auditor.Run(actor, "auth", "LOGIN", "user login", map[string]string{"identifier": req.Identifier}, func() error {
		if req.Identifier == "" || req.Password == "" {
			return apperr.Validation("username and password are required")
		}

		user, err := s.userRepo.FindByIdentifier(req.Identifier)
		if err != nil {
			return apperr.Permission("invalid username or password")
		}

		if user.Status != model.UserActive {
			return apperr.Permission("user account is disabled")
		}

		// a disabled role refuses new logins but does not invalidate
		// credentials already out there
		if user.RoleCode != "" {
			role, err := s.roleRepo.FindByCode(user.RoleCode)
			if err == nil && role.Status == model.RoleDisabled {
				return apperr.Permission("role is disabled")
			}
		}

		if !user.CheckPassword(req.Password) {
			return apperr.Permission("invalid username or password")
		}

		codes := user.PermissionCodes()
		allowedPaths := s.cache.AllowedPaths(codes)

		ttl := jwt.DefaultTTL
		if req.Remember {
			ttl = jwt.RememberMeTTL
		}

		token, err := jwt.GenerateToken(user.ID, user.Username, user.RoleCode, codes, allowedPaths, ttl)
		if err != nil {
			s.logger.Error("failed to sign credential", zap.Error(err))
			return apperr.Transaction("failed to generate token")
		}

		resp = &LoginResponse{
			Token:        token,
			ExpiresIn:    int64(ttl / time.Second),
			User:         user.ToResponse(),
			AllowedPaths: allowedPaths,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout only audits; the handler clears the cookie. The credential itself
// stays valid until expiry.
func (s *authService) Logout(actor audit.Actor) error {
	return s.auditor.Run(actor, "auth", "LOGOUT", "user logout", nil, func() error {
		return nil
	})
}
