package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmancer/server/internal/models"
	"github.com/mealmancer/server/internal/service"
	"github.com/mealmancer/server/internal/testhelpers"
)

func TestRegister(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)

	user, consumption, err := auth.Register(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)

	assert.Equal(t, "cook@example.com", user.Email)
	assert.Equal(t, models.RoleGeneral, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.Equal(t, service.StartingTokens, consumption.Tokens)
	assert.Equal(t, int64(0), consumption.HTTPRequests)
	assert.Equal(t, user.ID, consumption.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)
	metering := service.NewMeteringService(db)

	user, _, err := auth.Register(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, metering.SetBalance(context.Background(), user.ID, 7))

	_, _, err = auth.Register(context.Background(), "cook@example.com", "different-password")
	assert.ErrorIs(t, err, service.ErrEmailUsed)

	// The existing account and its balance are untouched.
	balance, err := metering.Balance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, balance.Tokens)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "cook@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)

	// Two signups racing on the same email: exactly one account wins, the
	// loser gets the duplicate-email error off the unique index rather
	// than a raw constraint failure.
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := auth.Register(context.Background(), "cook@example.com", "password123")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var created, refused int
	for err := range results {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, service.ErrEmailUsed)
			refused++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, refused)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
	var consumptions int64
	require.NoError(t, db.Model(&models.APIConsumption{}).Count(&consumptions).Error)
	assert.Equal(t, int64(1), consumptions)
}

func TestLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)

	registered, _, err := auth.Register(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)

	user, consumption, err := auth.Login(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, service.StartingTokens, consumption.Tokens)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)

	_, _, err := auth.Register(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)

	_, _, err = auth.Login(context.Background(), "cook@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = auth.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)

	user, _, err := auth.Register(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)

	token, expiresAt, err := auth.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, time.Minute)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleGeneral, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)
	other := service.NewAuthService(db, "other-secret", 2*time.Hour)

	user, _, err := auth.Register(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)

	token, _, err := other.GenerateToken(user)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", -time.Minute)

	user, _, err := auth.Register(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)

	token, _, err := auth.GenerateToken(user)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenPinsSigningMethod(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)

	// A token signed with "none" must fail even though its payload is
	// otherwise well formed.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid":   "00000000-0000-0000-0000-000000000001",
		"email": "cook@example.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)

	// Likewise HS512, a valid HMAC method but not the pinned one.
	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"uid": "00000000-0000-0000-0000-000000000001",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err = hs512.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestListUsers(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)

	_, _, err := auth.Register(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
	_, _, err = auth.Register(context.Background(), "b@example.com", "password123")
	require.NoError(t, err)

	users, err := auth.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, service.StartingTokens, u.Tokens)
	}
}

func TestDeleteUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", 2*time.Hour)
	favorites := service.NewFavoriteService(db)

	user, _, err := auth.Register(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)
	_, err = favorites.Add(context.Background(), user.ID, service.Recipe{
		Title:       "Toast",
		Ingredients: service.SectionValue{Scalar: "bread"},
		Directions:  service.SectionValue{Scalar: "toast it"},
	})
	require.NoError(t, err)

	require.NoError(t, auth.DeleteUser(context.Background(), user.ID))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(0), users)

	var consumptions int64
	require.NoError(t, db.Model(&models.APIConsumption{}).Count(&consumptions).Error)
	assert.Equal(t, int64(0), consumptions)

	var favs int64
	require.NoError(t, db.Model(&models.FavoriteRecipe{}).Count(&favs).Error)
	assert.Equal(t, int64(0), favs)

	assert.ErrorIs(t, auth.DeleteUser(context.Background(), user.ID), service.ErrNotFound)
}
