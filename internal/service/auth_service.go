package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/artmart-next/internal/cache"
	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSessionExpireHours = 24 * 7
	minNameLength             = 3
)

// AuthService 用户注册登录与会话服务
type AuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, sessionRepo repository.SessionRepository) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// SessionClaims 会话 JWT 声明，sid 指向 sessions 表
type SessionClaims struct {
	UserID       uint   `json:"user_id"`
	SessionID    string `json:"sid"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// SessionIdentity 已解析的会话身份
type SessionIdentity struct {
	UserID    uint
	SessionID string
	ExpiresAt time.Time
}

// SignUpInput 注册参数
type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// SignInInput 登录参数
type SignInInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// AuthResult 登录或注册结果
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// SignUp 注册新用户并直接建立会话
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput, ip, userAgent string) (*AuthResult, error) {
	name := strings.Join(strings.Fields(input.Name), " ")
	errs := fieldErrors{}
	if len([]rune(name)) < minNameLength {
		errs.add("name", "Name must be at least 3 characters")
	} else if len(strings.Fields(name)) < 2 {
		errs.add("name", "Please enter your first and last name")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		errs.add("email", "Please enter a valid email")
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		errs.add("password", "Password must be at least 8 characters")
	}
	if input.Password != input.ConfirmPassword {
		errs.add("confirmPassword", "Passwords do not match")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Infow("user_signed_up", "user_id", user.ID)
	return s.openSession(ctx, user, ip, userAgent)
}

// SignIn 邮箱密码登录
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*AuthResult, error) {
	errs := fieldErrors{}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		errs.add("email", "Please enter a valid email")
	}
	if len([]rune(input.Password)) < minPasswordLength {
		errs.add("password", "Password must be at least 8 characters")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	if err := s.userRepo.TouchLastLogin(user.ID, s.now()); err != nil {
		logger.Warnw("user_touch_last_login_failed", "user_id", user.ID, "error", err)
	}
	return s.openSession(ctx, user, input.IPAddress, input.UserAgent)
}

// SignOut 注销会话
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(sessionID); err != nil {
		return err
	}
	if err := cache.DelSessionAuthState(ctx, sessionID); err != nil {
		logger.Warnw("session_auth_state_delete_failed", "session_id", sessionID, "error", err)
	}
	return nil
}

// ResolveSession 解析 token 并校验会话仍然有效
func (s *AuthService) ResolveSession(ctx context.Context, tokenString string) (*SessionIdentity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.parseToken(tokenString)
	if err != nil || claims.SessionID == "" {
		return nil, ErrUnauthenticated
	}
	now := s.now()

	state, hit, err := cache.GetSessionAuthState(ctx, claims.SessionID)
	if err != nil {
		logger.Warnw("session_auth_state_read_failed", "session_id", claims.SessionID, "error", err)
	}
	if !hit || state == nil {
		state, err = s.loadAuthState(ctx, claims.SessionID)
		if err != nil {
			return nil, err
		}
	}
	if state.Expired(now) || state.UserID != claims.UserID || state.TokenVersion != claims.TokenVersion {
		return nil, ErrUnauthenticated
	}
	if state.Status != constants.UserStatusActive {
		return nil, ErrUnauthenticated
	}
	return &SessionIdentity{
		UserID:    state.UserID,
		SessionID: state.SessionID,
		ExpiresAt: time.Unix(state.ExpiresAt, 0),
	}, nil
}

// GetUser 获取用户
func (s *AuthService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// PurgeExpiredSessions 清理过期会话
func (s *AuthService) PurgeExpiredSessions() (int64, error) {
	return s.sessionRepo.DeleteExpired(s.now())
}

func (s *AuthService) loadAuthState(ctx context.Context, sessionID string) (*cache.SessionAuthState, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	state := cache.BuildSessionAuthState(session, user)
	if !state.Expired(s.now()) {
		if err := cache.SetSessionAuthState(ctx, state); err != nil {
			logger.Warnw("session_auth_state_write_failed", "session_id", sessionID, "error", err)
		}
	}
	return state, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, ip, userAgent string) (*AuthResult, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL()),
		IPAddress: strings.TrimSpace(ip),
		UserAgent: truncateRunes(strings.TrimSpace(userAgent), 255),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	token, err := s.signToken(user, session, now)
	if err != nil {
		return nil, err
	}
	if err := cache.SetSessionAuthState(ctx, cache.BuildSessionAuthState(session, user)); err != nil {
		logger.Warnw("session_auth_state_write_failed", "session_id", session.ID, "error", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

func (s *AuthService) sessionTTL() time.Duration {
	hours := s.cfg.Session.ExpireHours
	if hours <= 0 {
		hours = s.cfg.UserJWT.ExpireHours
	}
	if hours <= 0 {
		hours = defaultSessionExpireHours
	}
	return time.Duration(hours) * time.Hour
}

func (s *AuthService) signToken(user *models.User, session *models.Session, now time.Time) (string, error) {
	claims := SessionClaims{
		UserID:       user.ID,
		SessionID:    session.ID,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
}

func (s *AuthService) parseToken(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func truncateRunes(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
