package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"ejournal/internal/db"
	"ejournal/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrEmailTaken = errors.New("an account with this email already exists")
var ErrMissingFields = errors.New("email, password and username are required")
var ErrWeakPassword = errors.New("password must be at least 6 characters")

const CookieName = "ejournal_token"

type Auth struct {
	db        *db.DB
	jwtSecret []byte
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func New(database *db.DB, secret string) *Auth {
	return &Auth{
		db:        database,
		jwtSecret: []byte(secret),
	}
}

// Signup creates the account and writes the profile row: email, username,
// empty profile-image placeholder, creation time and the free-text birthday
// fields. Birthday values are stored as entered; no validation is applied.
func (a *Auth) Signup(email, password, username string, birthday models.Birthday) (*models.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || password == "" || username == "" {
		return nil, ErrMissingFields
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	if existing, _, err := a.db.GetUserByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           hex.EncodeToString(idBytes),
		Email:        email,
		Username:     username,
		ProfileImage: "",
		Birthday:     birthday,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.db.CreateUser(user, string(hash)); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a session token. Failures are
// deliberately indistinguishable between unknown email and wrong password.
func (a *Auth) Login(email, password string) (string, *models.User, error) {
	user, hash, err := a.db.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := a.GenerateJWT(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (a *Auth) GenerateJWT(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(90 * 24 * time.Hour)), // 3 months
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "ejournal",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Middleware resolves the session from the Authorization header or the
// session cookie. With requireAuth false the request proceeds either way;
// authenticated requests carry the user id in X-User-ID.
func (a *Auth) Middleware(next http.HandlerFunc, requireAuth bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			cookie, err := r.Cookie(CookieName)
			if err == nil {
				authHeader = "Bearer " + cookie.Value
			}
		}

		if authHeader == "" {
			if requireAuth {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			if requireAuth {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}
			next(w, r)
			return
		}

		claims, err := a.ValidateJWT(parts[1])
		if err != nil {
			if requireAuth {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			next(w, r)
			return
		}

		r.Header.Set("X-User-ID", claims.UserID)
		next(w, r)
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}
