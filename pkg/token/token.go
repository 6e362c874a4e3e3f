package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken подпись, формат или срок действия токена некорректны
	ErrInvalidToken = errors.New("token: invalid token")

	// ErrEmptySecret секрет подписи не задан
	ErrEmptySecret = errors.New("token: empty signing secret")
)

// Claims данные, которые несет токен
type Claims struct {
	UserID    int64
	Email     string
	TokenID   string // jti, используется для отзыва при выходе
	ExpiresAt time.Time
}

// Manager выпускает и проверяет HS256 токены
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создает менеджер токенов
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Generate выпускает токен для пользователя
func (m *Manager) Generate(userID int64, email string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(m.ttl),
	}

	jwtClaims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        claims.TokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, emailClaims{
		RegisteredClaims: jwtClaims,
		Email:            email,
	}).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("token: sign: %w", err)
	}

	return signed, claims, nil
}

// Parse проверяет подпись и срок действия, возвращает данные токена
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	var parsed emailClaims
	token, err := jwt.ParseWithClaims(tokenString, &parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// Срок действия проверяем сами, чтобы время было подменяемым в тестах
	if parsed.ExpiresAt == nil || !m.now().Before(parsed.ExpiresAt.Time) {
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}

	userID, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, parsed.Subject)
	}

	return &Claims{
		UserID:    userID,
		Email:     parsed.Email,
		TokenID:   parsed.ID,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

type emailClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}
