package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/frostcart/frostcart-api/internal/dto"
	"github.com/frostcart/frostcart-api/internal/model"
)

type noopMailer struct{ sent []string }

func (m *noopMailer) Send(_ context.Context, to, _, body string) error {
	m.sent = append(m.sent, to+": "+body)
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := newMockUserRepo()
	svc := NewAuthService(repo, rdb, &noopMailer{}, "test-secret", time.Hour, 10*time.Minute, 30*time.Minute)
	return svc, repo, mr
}

func stagedCode(t *testing.T, mr *miniredis.Miniredis, email string) string {
	t.Helper()
	data, err := mr.Get("register:" + email)
	require.NoError(t, err)
	var pending struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &pending))
	return pending.Code
}

func TestAuthService_RegisterInitiateAndVerify(t *testing.T) {
	svc, repo, mr := newTestAuthService(t)
	ctx := context.Background()

	err := svc.RegisterInitiate(ctx, dto.RegisterInitiateRequest{
		Email: "test@example.com", Password: "password123",
		FirstName: "John", LastName: "Doe",
	})
	require.NoError(t, err)

	resp, err := svc.RegisterVerify(ctx, dto.RegisterVerifyRequest{
		Email: "test@example.com", Code: stagedCode(t, mr, "test@example.com"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "test@example.com", resp.User.Email)
	assert.Equal(t, model.RoleCustomer, resp.User.Role)
	assert.NotNil(t, repo.users["test@example.com"])

	// the staged registration is consumed
	_, err = svc.RegisterVerify(ctx, dto.RegisterVerifyRequest{
		Email: "test@example.com", Code: "000000",
	})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAuthService_RegisterInitiate_Duplicate(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	repo.users["test@example.com"] = &model.User{Email: "test@example.com"}

	err := svc.RegisterInitiate(context.Background(), dto.RegisterInitiateRequest{
		Email: "test@example.com", Password: "password123",
		FirstName: "John", LastName: "Doe",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_RegisterVerify_WrongCode(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.RegisterInitiate(ctx, dto.RegisterInitiateRequest{
		Email: "test@example.com", Password: "password123",
		FirstName: "John", LastName: "Doe",
	}))

	_, err := svc.RegisterVerify(ctx, dto.RegisterVerifyRequest{
		Email: "test@example.com", Code: "999999",
	})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAuthService_Login(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.users["test@example.com"] = &model.User{
		ID: uuid.New(), Email: "test@example.com", Password: string(hashed), Role: model.RoleCustomer,
	}

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "test@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.users["test@example.com"] = &model.User{
		ID: uuid.New(), Email: "test@example.com", Password: string(hashed),
	}

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "test@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LogoutDenylist(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	jti := uuid.NewString()
	require.NoError(t, svc.Logout(ctx, jti, time.Now().Add(time.Hour)))

	denied, err := svc.TokenDenied(ctx, jti)
	require.NoError(t, err)
	assert.True(t, denied)

	denied, err = svc.TokenDenied(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, denied)
}

func TestAuthService_PasswordReset(t *testing.T) {
	svc, repo, mr := newTestAuthService(t)
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := &model.User{ID: uuid.New(), Email: "test@example.com", Password: string(hashed)}
	repo.users[user.Email] = user
	repo.byID[user.ID] = user

	require.NoError(t, svc.ForgotPassword(ctx, "test@example.com"))

	token, err := mr.Get("pwreset:test@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, dto.ResetPasswordRequest{
		Email: "test@example.com", Token: token, Password: "newpassword1",
	}))

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "test@example.com", Password: "newpassword1"})
	require.NoError(t, err)

	// the token is single-use
	err = svc.ResetPassword(ctx, dto.ResetPasswordRequest{
		Email: "test@example.com", Token: token, Password: "another1234",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ForgotPassword_UnknownEmailSilent(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	assert.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
}

func TestAuthService_VendorApplication(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	user := &model.User{ID: uuid.New(), Email: "v@example.com", Role: model.RoleCustomer, VendorStatus: model.VendorStatusNone}
	repo.byID[user.ID] = user
	repo.users[user.Email] = user

	require.NoError(t, svc.ApplyVendor(ctx, user.ID, "Scoop Shop"))
	assert.Equal(t, model.VendorStatusPending, user.VendorStatus)

	assert.ErrorIs(t, svc.ApplyVendor(ctx, user.ID, "Scoop Shop"), ErrVendorAlreadyApplied)

	require.NoError(t, svc.ReviewVendor(ctx, user.ID, true))
	assert.Equal(t, model.VendorStatusApproved, user.VendorStatus)
	assert.Equal(t, model.RoleVendor, user.Role)
}

func TestAuthService_VendorApplication_Rejected(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	user := &model.User{ID: uuid.New(), Email: "v@example.com", Role: model.RoleCustomer, VendorStatus: model.VendorStatusPending, BusinessName: "Scoop Shop"}
	repo.byID[user.ID] = user

	require.NoError(t, svc.ReviewVendor(ctx, user.ID, false))
	assert.Equal(t, model.VendorStatusRejected, user.VendorStatus)
	assert.Equal(t, model.RoleCustomer, user.Role)
}
