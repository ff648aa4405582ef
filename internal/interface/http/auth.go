// Package http implements the REST API for Gyaan Arena Hub.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/kv"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN GATE
// A deliberately shallow gate in front of the API: the first login enrolls
// the student and school IDs, later logins must match them. School IDs are
// stored as bcrypt hashes; sessions are in-process tokens with a TTL.
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidCredentials is returned when the IDs do not match the enrolled ones.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMalformedCredentials is returned when the IDs fail basic shape checks.
	ErrMalformedCredentials = errors.New("student id must be non-empty and school id at least 6 characters")
)

// MinSchoolIDLength is the minimum accepted school ID length.
const MinSchoolIDLength = 6

// DefaultSessionTTL is how long a login session stays valid.
const DefaultSessionTTL = 24 * time.Hour

// authDocument is the persisted enrollment record.
type authDocument struct {
	StudentID    string    `json:"studentId"`
	SchoolIDHash string    `json:"schoolIdHash"`
	EnrolledAt   time.Time `json:"enrolledAt"`
}

// Session is an issued login session.
type Session struct {
	Token     string
	StudentID string
	ExpiresAt time.Time
}

// AuthGate implements the login gate over the document store.
type AuthGate struct {
	store      kv.Store
	sessionTTL time.Duration
	log        *logger.Logger

	mu       sync.Mutex
	sessions map[string]Session
}

// NewAuthGate creates a login gate backed by the given store.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewAuthGate(store kv.Store, ttl time.Duration, log *logger.Logger) *AuthGate {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logger.Default()
	}
	return &AuthGate{
		store:      store,
		sessionTTL: ttl,
		log:        log.With(logger.String("component", "auth_gate")),
		sessions:   make(map[string]Session),
	}
}

// Login verifies the IDs and issues a session token.
// The first successful login enrolls the credentials.
func (g *AuthGate) Login(ctx context.Context, studentID, schoolID string) (Session, error) {
	studentID = strings.TrimSpace(studentID)
	schoolID = strings.TrimSpace(schoolID)

	if studentID == "" || len(schoolID) < MinSchoolIDLength {
		return Session{}, ErrMalformedCredentials
	}

	doc, err := g.loadDocument(ctx)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			return Session{}, fmt.Errorf("auth: load enrollment: %w", err)
		}
		doc, err = g.enroll(ctx, studentID, schoolID)
		if err != nil {
			return Session{}, err
		}
	} else {
		if doc.StudentID != studentID {
			return Session{}, ErrInvalidCredentials
		}
		if bcrypt.CompareHashAndPassword([]byte(doc.SchoolIDHash), []byte(schoolID)) != nil {
			return Session{}, ErrInvalidCredentials
		}
	}

	session := Session{
		Token:     uuid.NewString(),
		StudentID: doc.StudentID,
		ExpiresAt: time.Now().Add(g.sessionTTL),
	}

	g.mu.Lock()
	g.pruneExpiredLocked()
	g.sessions[session.Token] = session
	g.mu.Unlock()

	g.log.Info("login succeeded", logger.String("student_id", doc.StudentID))

	return session, nil
}

// ValidateToken reports whether the token belongs to a live session.
func (g *AuthGate) ValidateToken(token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, ok := g.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(g.sessions, token)
		return false
	}
	return true
}

// Logout invalidates a session token.
func (g *AuthGate) Logout(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, token)
}

// enroll stores the first credentials seen.
func (g *AuthGate) enroll(ctx context.Context, studentID, schoolID string) (authDocument, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(schoolID), bcrypt.DefaultCost)
	if err != nil {
		return authDocument{}, fmt.Errorf("auth: hash school id: %w", err)
	}

	doc := authDocument{
		StudentID:    studentID,
		SchoolIDHash: string(hash),
		EnrolledAt:   time.Now(),
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return authDocument{}, fmt.Errorf("auth: marshal enrollment: %w", err)
	}
	if err := g.store.Set(ctx, kv.KeyAuth, data); err != nil {
		return authDocument{}, fmt.Errorf("auth: store enrollment: %w", err)
	}

	g.log.Info("student enrolled", logger.String("student_id", studentID))

	return doc, nil
}

func (g *AuthGate) loadDocument(ctx context.Context) (authDocument, error) {
	data, err := g.store.Get(ctx, kv.KeyAuth)
	if err != nil {
		return authDocument{}, err
	}

	var doc authDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		// A corrupt enrollment document behaves like a missing one.
		return authDocument{}, kv.ErrNotFound
	}
	if doc.StudentID == "" || doc.SchoolIDHash == "" {
		return authDocument{}, kv.ErrNotFound
	}
	return doc, nil
}

// pruneExpiredLocked drops expired sessions. Caller holds g.mu.
func (g *AuthGate) pruneExpiredLocked() {
	now := time.Now()
	for token, session := range g.sessions {
		if now.After(session.ExpiresAt) {
			delete(g.sessions, token)
		}
	}
}
