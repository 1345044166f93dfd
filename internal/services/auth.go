package services

import (
	"errors"
	"time"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret)}
}

func (s *AuthService) Register(username, password, fullName string) (string, error) {
	var existing models.Staff
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return "", errors.New("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	staff := models.Staff{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.db.Create(&staff).Error; err != nil {
		return "", err
	}

	return s.GenerateToken(staff.ID)
}

func (s *AuthService) Login(username, password string) (string, error) {
	var staff models.Staff
	if err := s.db.Where("username = ?", username).First(&staff).Error; err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	return s.GenerateToken(staff.ID)
}

func (s *AuthService) GenerateToken(staffID uint) (string, error) {
	claims := jwt.MapClaims{
		"staff_id": staffID,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	staffIDFloat, ok := claims["staff_id"].(float64)
	if !ok {
		return 0, errors.New("invalid staff_id in token")
	}

	return uint(staffIDFloat), nil
}
