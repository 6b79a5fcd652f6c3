package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/frostcart/frostcart-api/internal/dto"
	"github.com/frostcart/frostcart-api/internal/model"
	"github.com/frostcart/frostcart-api/internal/repository"
)

var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidCode          = errors.New("invalid or expired verification code")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrUserNotFound         = errors.New("user not found")
	ErrVendorAlreadyApplied = errors.New("vendor application already pending")
)

// Mailer delivers one-time codes. Production wiring is deployment-specific;
// the default implementation only logs.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// pendingRegistration is what sits in Redis between initiate and verify.
// Only the bcrypt hash of the password is staged.
type pendingRegistration struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Code         string `json:"code"`
}

type AuthService struct {
	userRepo    repository.UserRepository
	redisClient *redis.Client
	mailer      Mailer
	jwtSecret   []byte
	jwtExpiry   time.Duration
	otpTTL      time.Duration
	resetTTL    time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	redisClient *redis.Client,
	mailer Mailer,
	jwtSecret string,
	jwtExpiry, otpTTL, resetTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		redisClient: redisClient,
		mailer:      mailer,
		jwtSecret:   []byte(jwtSecret),
		jwtExpiry:   jwtExpiry,
		otpTTL:      otpTTL,
		resetTTL:    resetTTL,
	}
}

func registerKey(email string) string { return "register:" + email }
func resetKey(email string) string    { return "pwreset:" + email }
func denyKey(jti string) string       { return "jwt_denied:" + jti }

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RegisterInitiate stages the registration in Redis and mails a 6-digit code.
// Re-initiating overwrites any previous pending registration for the email.
func (s *AuthService) RegisterInitiate(ctx context.Context, req dto.RegisterInitiateRequest) error {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if existing != nil {
		return ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	pending := pendingRegistration{
		Email: req.Email, PasswordHash: string(hashed),
		FirstName: req.FirstName, LastName: req.LastName, Code: code,
	}
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal pending registration: %w", err)
	}
	if err := s.redisClient.Set(ctx, registerKey(req.Email), data, s.otpTTL).Err(); err != nil {
		return fmt.Errorf("stage registration: %w", err)
	}

	if err := s.mailer.Send(ctx, req.Email, "Verify your account",
		"Your verification code is "+code); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// RegisterVerify matches the code, creates the user, and logs them in.
func (s *AuthService) RegisterVerify(ctx context.Context, req dto.RegisterVerifyRequest) (*dto.AuthResponse, error) {
	data, err := s.redisClient.Get(ctx, registerKey(req.Email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("load pending registration: %w", err)
	}

	var pending pendingRegistration
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return nil, fmt.Errorf("unmarshal pending registration: %w", err)
	}
	if pending.Code != req.Code {
		return nil, ErrInvalidCode
	}

	user := &model.User{
		Email: pending.Email, Password: pending.PasswordHash,
		FirstName: pending.FirstName, LastName: pending.LastName,
		Role: model.RoleCustomer, VendorStatus: model.VendorStatusNone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	_ = s.redisClient.Del(ctx, registerKey(req.Email)).Err()

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

// Logout denylists the token's jti until the token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.redisClient.Set(ctx, denyKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("denylist token: %w", err)
	}
	return nil
}

// TokenDenied reports whether a jti has been logged out.
func (s *AuthService) TokenDenied(ctx context.Context, jti string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, denyKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check denylist: %w", err)
	}
	return n > 0, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ForgotPassword stores a single-use reset token. An unknown email returns
// nil so the endpoint does not leak which addresses exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.redisClient.Set(ctx, resetKey(email), token, s.resetTTL).Err(); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if err := s.mailer.Send(ctx, email, "Reset your password",
		"Your password reset token is "+token); err != nil {
		return fmt.Errorf("send reset token: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	stored, err := s.redisClient.Get(ctx, resetKey(req.Email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("load reset token: %w", err)
	}
	if stored != req.Token {
		return ErrInvalidResetToken
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	_ = s.redisClient.Del(ctx, resetKey(req.Email)).Err()
	return nil
}

// ApplyVendor files a vendor application for review.
func (s *AuthService) ApplyVendor(ctx context.Context, userID uuid.UUID, businessName string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.VendorStatus == model.VendorStatusPending {
		return ErrVendorAlreadyApplied
	}
	return s.userRepo.UpdateVendorApplication(ctx, userID, businessName, model.VendorStatusPending)
}

// ReviewVendor is the admin decision; approval promotes the user to vendor.
func (s *AuthService) ReviewVendor(ctx context.Context, userID uuid.UUID, approve bool) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	status := model.VendorStatusRejected
	if approve {
		status = model.VendorStatusApproved
	}
	if err := s.userRepo.UpdateVendorApplication(ctx, userID, user.BusinessName, status); err != nil {
		return fmt.Errorf("update vendor status: %w", err)
	}
	if approve {
		return s.userRepo.UpdateRole(ctx, userID, model.RoleVendor)
	}
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]dto.UserResponse, int, error) {
	users, total, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	return resp, total, nil
}

func (s *AuthService) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(s.jwtExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID: user.ID, Email: user.Email,
		FirstName: user.FirstName, LastName: user.LastName,
		Role: user.Role, BusinessName: user.BusinessName, VendorStatus: user.VendorStatus,
	}
}
