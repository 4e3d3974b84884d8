package handlers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lifefashion/internal/auth"
	"lifefashion/internal/mailer"
	"lifefashion/internal/models"
)

const (
	minPasswordLength = 8
	otpTTL            = 10 * time.Minute
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type otpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// RegisterUser creates a storefront account and returns a signed token so the
// client is logged in immediately.
func RegisterUser(db *mongo.Database, tokens *auth.Service, mail mailer.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/register"
		defer handlePanic(c, route)

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if len(req.Password) < minPasswordLength {
			respondError(c, http.StatusBadRequest, "Please enter a strong password")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			zap.L().Error("user register lookup failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, "User already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "password hash failed")
			return
		}

		now := time.Now()
		user := models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			Role:         auth.RoleUser,
			CartData:     models.CartData{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, "User already exists")
				return
			}
			zap.L().Error("user register insert failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		token, err := tokens.IssueUser(id, email)
		if err != nil {
			zap.L().Error("token generation failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "token generation failed")
			return
		}

		// Registration must not fail on a mail outage.
		go func() {
			mailCtx, mailCancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer mailCancel()
			if err := mail.SendWelcome(mailCtx, email, user.Name); err != nil {
				zap.L().Warn("welcome email failed", zap.String("email", email), zap.Error(err))
			}
		}()

		zap.L().Info("user registered", zap.String("email", email))
		c.JSON(http.StatusCreated, gin.H{"success": true, "token": token})
	}
}

// LoginUser authenticates a storefront account.
func LoginUser(db *mongo.Database, tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusUnauthorized, "User doesn't exist")
				return
			}
			zap.L().Error("login lookup failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := tokens.IssueUser(user.ID, user.Email)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "token generation failed")
			return
		}

		zap.L().Info("user login succeeded", zap.String("email", email))
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
	}
}

// AdminCredentials are the environment-configured back office logins.
type AdminCredentials struct {
	AdminEmail         string
	AdminPassword      string
	StockAdminEmail    string
	StockAdminPassword string
}

// AdminLogin resolves a back office principal. Environment credentials win;
// otherwise the email must belong to a user with the employee role.
func AdminLogin(db *mongo.Database, tokens *auth.Service, creds AdminCredentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/admin"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		if creds.AdminEmail != "" && email == strings.ToLower(creds.AdminEmail) && req.Password == creds.AdminPassword {
			token, err := tokens.IssueEnvAdmin(auth.RoleMainAdmin)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "token generation failed")
				return
			}
			zap.L().Info("main admin login succeeded")
			c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "role": auth.RoleMainAdmin})
			return
		}

		if creds.StockAdminEmail != "" && email == strings.ToLower(creds.StockAdminEmail) && req.Password == creds.StockAdminPassword {
			token, err := tokens.IssueEnvAdmin(auth.RoleStockAdmin)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "token generation failed")
				return
			}
			zap.L().Info("stock admin login succeeded")
			c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "role": auth.RoleStockAdmin})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email, "role": auth.RoleEmployee}).Decode(&user)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			zap.L().Error("admin login lookup failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := tokens.Issue(user.ID.Hex(), auth.RoleEmployee, user.Email)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "token generation failed")
			return
		}

		zap.L().Info("employee login succeeded", zap.String("email", email))
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "role": auth.RoleEmployee})
	}
}

// SendResetOTP stores a fresh code on the account and emails it. The response
// never reveals whether the email exists.
func SendResetOTP(db *mongo.Database, mail mailer.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/send-otp"
		defer handlePanic(c, route)

		var req otpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the account exists, an OTP has been sent"})
				return
			}
			zap.L().Error("otp lookup failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		code, err := generateOTP()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "otp generation failed")
			return
		}
		expires := time.Now().Add(otpTTL)

		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{"otpCode": code, "otpExpires": expires, "updatedAt": time.Now()},
		})
		if err != nil {
			zap.L().Error("otp store failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		mailCtx, mailCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer mailCancel()
		if err := mail.SendOTP(mailCtx, email, user.Name, code); err != nil {
			zap.L().Error("otp email failed", zap.String("email", email), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to send OTP email")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the account exists, an OTP has been sent"})
	}
}

// VerifyOTP checks a code without consuming it, so the client can gate the
// reset form.
func VerifyOTP(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/verify-otp"
		defer handlePanic(c, route)

		var req verifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := lookupUserWithValidOTP(ctx, db, req.Email, req.OTP); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified"})
	}
}

// ResetPassword consumes a valid code and replaces the password hash.
func ResetPassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/reset-password"
		defer handlePanic(c, route)

		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if len(req.NewPassword) < minPasswordLength {
			respondError(c, http.StatusBadRequest, "Please enter a strong password")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		user, err := lookupUserWithValidOTP(ctx, db, req.Email, req.OTP)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "password hash failed")
			return
		}

		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set":   bson.M{"password": string(hash), "updatedAt": time.Now()},
			"$unset": bson.M{"otpCode": "", "otpExpires": ""},
		})
		if err != nil {
			zap.L().Error("password reset failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		zap.L().Info("password reset", zap.String("email", user.Email))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
	}
}

func lookupUserWithValidOTP(ctx context.Context, db *mongo.Database, email, code string) (*models.User, error) {
	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{
		"email": strings.ToLower(strings.TrimSpace(email)),
	}).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("Invalid OTP")
	}

	if err := validateOTP(user, code, time.Now()); err != nil {
		return nil, err
	}

	return &user, nil
}

// validateOTP checks a submitted code against the stored one. A reset clears
// the stored code, so a consumed OTP fails the empty-code check here.
func validateOTP(user models.User, code string, now time.Time) error {
	if user.OTPCode == "" || user.OTPCode != strings.TrimSpace(code) {
		return fmt.Errorf("Invalid OTP")
	}
	if user.OTPExpires == nil || now.After(*user.OTPExpires) {
		return fmt.Errorf("OTP has expired")
	}
	return nil
}

// generateOTP draws a uniform 6-digit code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
