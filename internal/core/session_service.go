package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/device"
	"reviewdesk-backend-go/internal/entitlement"
	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/observability"
	"reviewdesk-backend-go/internal/session"
)

// ClientMeta is what the request tells us about the client.
type ClientMeta struct {
	UserAgent      string
	AcceptLanguage string
	TimeZone       string
	ClientIP       string
}

// LoginInput identifies a verified identity signing in.
type LoginInput struct {
	UID    string
	Email  string
	Method string
	ClientMeta
}

// LoginResult is returned for an allowed login.
type LoginResult struct {
	Session  session.Session      `json:"session"`
	Decision entitlement.Decision `json:"decision"`
	Route    Destination          `json:"route"`
	User     *models.User         `json:"user"`
	Record   *models.LoginRecord  `json:"record,omitempty"`
}

// PasswordLoginResult adds the tokens minted by an email/password sign-in.
type PasswordLoginResult struct {
	*LoginResult
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// SessionServiceConfig holds tunables for SessionService.
type SessionServiceConfig struct {
	TrialLength  time.Duration
	HistoryLimit int
	EventsQueue  string
}

type sessionService struct {
	users     db.UserRepository
	identity  identity.Provider
	passwords PasswordAuthenticator
	resolver  LocationResolver
	publisher EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
	cfg       SessionServiceConfig
	now       func() time.Time
}

// NewSessionService creates a SessionService. passwords, publisher and metrics may be nil.
func NewSessionService(
	users db.UserRepository,
	idp identity.Provider,
	passwords PasswordAuthenticator,
	resolver LocationResolver,
	publisher EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
	cfg SessionServiceConfig,
) SessionService {
	if cfg.TrialLength <= 0 {
		cfg.TrialLength = entitlement.DefaultTrialLength
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = session.DefaultHistoryLimit
	}
	return &sessionService{
		users:     users,
		identity:  idp,
		passwords: passwords,
		resolver:  resolver,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Login runs the account-status precheck, then the entitlement gate, then applies its effects.
func (s *sessionService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Method != models.LoginMethodEmail && in.Method != models.LoginMethodGoogle {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogin, in.Method)
	}
	now := s.now().UTC()

	user, err := s.users.GetByID(ctx, in.UID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		s.metrics.ObserveLogin(observability.OutcomeError, "")
		return nil, fmt.Errorf("failed to load user '%s': %w", in.UID, err)
	}
	if err != nil {
		user = nil
	}

	if user != nil && user.Status != models.StatusActive {
		s.deny(ctx, in, entitlement.Classify(user, now), "account_inactive")
		return nil, ErrAccountInactive
	}

	decision := entitlement.Evaluate(user, now)
	if !decision.Allowed {
		s.deny(ctx, in, decision.From, reasonCode(decision.Reason))
		return nil, denialError(decision.Reason)
	}

	if decision.Has(entitlement.CreateAccount) {
		return s.bootstrap(ctx, in, decision, now)
	}

	rec := s.newRecord(ctx, in, now)
	updated, err := s.users.Mutate(ctx, in.UID, func(u *models.User) error {
		// Re-evaluate on the transactional read; the document may have changed.
		if u.Status != models.StatusActive {
			return ErrAccountInactive
		}
		d := entitlement.Evaluate(u, now)
		if !d.Allowed {
			return denialError(d.Reason)
		}
		if d.Has(entitlement.GrantTrial) {
			entitlement.StartTrial(u, now, s.cfg.TrialLength)
		}
		if d.Has(entitlement.RecordLogin) {
			u.LoginHistory = session.AppendLogin(u.LoginHistory, rec, s.cfg.HistoryLimit)
			last := u.LoginHistory[len(u.LoginHistory)-1]
			u.LastLogin = &last
		}
		u.UpdatedAt = now
		decision = d
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAccountInactive) || errors.Is(err, ErrTrialExpired) || errors.Is(err, ErrSubscriptionExpired) {
			s.deny(ctx, in, decision.From, reasonForError(err))
			return nil, unwrapDenial(err)
		}
		s.metrics.ObserveLogin(observability.OutcomeError, "")
		return nil, err
	}

	s.metrics.ObserveLogin(observability.OutcomeAllowed, "")
	s.publish(ctx, models.LoginEvent{
		UID: in.UID, Email: in.Email, SessionID: rec.SessionID, Method: in.Method,
		Allowed: true, State: string(decision.To), Device: rec.Device, Location: rec.Location, Timestamp: now,
	})
	s.logger.Info("User signed in",
		zap.String("uid", in.UID),
		zap.String("method", in.Method),
		zap.String("state", string(decision.To)),
		zap.String("session_id", rec.SessionID),
	)

	return &LoginResult{
		Session:  session.Session{UID: updated.ID, Email: updated.Email, Role: updated.Role, SessionID: rec.SessionID},
		Decision: decision,
		Route:    Route(updated),
		User:     updated,
		Record:   updated.LastLogin,
	}, nil
}

// bootstrap creates the account on a first sign-in. No login record is written.
func (s *sessionService) bootstrap(ctx context.Context, in LoginInput, decision entitlement.Decision, now time.Time) (*LoginResult, error) {
	user := entitlement.NewAccount(in.UID, in.Email, now, s.cfg.TrialLength)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			// A concurrent first login won the race; run the regular path.
			return s.Login(ctx, in)
		}
		s.metrics.ObserveLogin(observability.OutcomeError, "")
		return nil, err
	}

	s.metrics.ObserveLogin(observability.OutcomeAllowed, "created")
	s.publish(ctx, models.LoginEvent{
		UID: in.UID, Email: in.Email, Method: in.Method, Allowed: true,
		State: string(decision.To), Timestamp: now,
	})
	s.logger.Info("Created account on first sign-in", zap.String("uid", in.UID), zap.String("method", in.Method))

	return &LoginResult{
		Session:  session.Session{UID: user.ID, Email: user.Email, Role: user.Role},
		Decision: decision,
		Route:    Route(user),
		User:     user,
	}, nil
}

// LoginWithPassword signs in through the identity provider, then runs Login.
func (s *sessionService) LoginWithPassword(ctx context.Context, email, password string, meta ClientMeta) (*PasswordLoginResult, error) {
	if s.passwords == nil {
		return nil, ErrPasswordLoginUnavailable
	}
	signIn, err := s.passwords.SignIn(ctx, email, password)
	if err != nil {
		s.metrics.ObserveLogin(observability.OutcomeDenied, "credentials")
		return nil, err
	}
	res, err := s.Login(ctx, LoginInput{UID: signIn.UID, Email: signIn.Email, Method: models.LoginMethodEmail, ClientMeta: meta})
	if err != nil {
		return nil, err
	}
	return &PasswordLoginResult{
		LoginResult:  res,
		IDToken:      signIn.IDToken,
		RefreshToken: signIn.RefreshToken,
		ExpiresIn:    signIn.ExpiresIn,
	}, nil
}

// Logout marks the session's record inactive and revokes the user's refresh tokens.
func (s *sessionService) Logout(ctx context.Context, sess session.Session) error {
	if sess.SessionID != "" {
		_, err := s.users.Mutate(ctx, sess.UID, func(u *models.User) error {
			session.EndSession(u.LoginHistory, sess.SessionID)
			if u.LastLogin != nil && u.LastLogin.SessionID == sess.SessionID {
				u.LastLogin.IsActive = false
			}
			return nil
		})
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return err
		}
	}
	if err := s.identity.RevokeSessions(ctx, sess.UID); err != nil {
		return err
	}
	s.logger.Info("User signed out", zap.String("uid", sess.UID), zap.String("session_id", sess.SessionID))
	return nil
}

// History returns the login history, newest first.
func (s *sessionService) History(ctx context.Context, uid string) ([]models.LoginRecord, error) {
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return session.NewestFirst(user.LoginHistory), nil
}

// UpdatePreciseLocation stores opt-in GPS coordinates on the caller's login record.
func (s *sessionService) UpdatePreciseLocation(ctx context.Context, sess session.Session, req models.PreciseLocationRequest) (*models.LoginRecord, error) {
	if sess.SessionID == "" {
		return nil, ErrSessionNotFound
	}
	var updated models.LoginRecord
	_, err := s.users.Mutate(ctx, sess.UID, func(u *models.User) error {
		rec, ok := session.SetPreciseLocation(u.LoginHistory, sess.SessionID, req.Latitude, req.Longitude, req.Accuracy)
		if !ok {
			return ErrSessionNotFound
		}
		if u.LastLogin != nil && u.LastLogin.SessionID == sess.SessionID {
			last := *rec
			u.LastLogin = &last
		}
		updated = *rec
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *sessionService) newRecord(ctx context.Context, in LoginInput, now time.Time) models.LoginRecord {
	var loc models.LocationInfo
	if s.resolver != nil {
		loc = s.resolver.Resolve(ctx, in.ClientIP, in.TimeZone)
	} else {
		loc = models.UnknownLocation(in.TimeZone)
	}
	return models.LoginRecord{
		SessionID:   session.NewSessionID(now),
		Timestamp:   now,
		Device:      device.Probe(in.UserAgent, in.AcceptLanguage),
		Location:    loc,
		LoginMethod: in.Method,
		IsActive:    true,
	}
}

// deny signs the user out of the identity provider and records the attempt.
func (s *sessionService) deny(ctx context.Context, in LoginInput, state entitlement.State, reason string) {
	if err := s.identity.RevokeSessions(ctx, in.UID); err != nil {
		s.logger.Warn("Failed to revoke sessions for denied login", zap.String("uid", in.UID), zap.Error(err))
	}
	s.metrics.ObserveLogin(observability.OutcomeDenied, reason)
	s.publish(ctx, models.LoginEvent{
		UID: in.UID, Email: in.Email, Method: in.Method, Allowed: false,
		Reason: reason, State: string(state), Timestamp: s.now().UTC(),
	})
	s.logger.Info("Login denied", zap.String("uid", in.UID), zap.String("reason", reason))
}

func (s *sessionService) publish(ctx context.Context, event models.LoginEvent) {
	if s.publisher == nil || s.cfg.EventsQueue == "" {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("Failed to encode login event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.cfg.EventsQueue, body); err != nil {
		s.logger.Warn("Failed to publish login event", zap.String("uid", event.UID), zap.Error(err))
	}
}

func denialError(reason entitlement.Reason) error {
	if reason == entitlement.ReasonSubscriptionExpired {
		return ErrSubscriptionExpired
	}
	return ErrTrialExpired
}

// reasonCode is the machine-readable form used in metrics, events and API responses.
func reasonCode(reason entitlement.Reason) string {
	switch reason {
	case entitlement.ReasonSubscriptionExpired:
		return "subscription_expired"
	case entitlement.ReasonTrialExpired:
		return "trial_expired"
	}
	return ""
}

func reasonForError(err error) string {
	switch {
	case errors.Is(err, ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, ErrSubscriptionExpired):
		return "subscription_expired"
	default:
		return "trial_expired"
	}
}

func unwrapDenial(err error) error {
	for _, target := range []error{ErrAccountInactive, ErrSubscriptionExpired, ErrTrialExpired} {
		if errors.Is(err, target) {
			return target
		}
	}
	return err
}
