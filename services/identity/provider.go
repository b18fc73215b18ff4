package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"schedulify/config"
	flowRepo "schedulify/database/repository/authflow"
	hostRepo "schedulify/database/repository/host"
	"schedulify/models"
	"schedulify/utils"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// Scopes requested from the Microsoft identity platform. offline_access is
// what yields the refresh token the silent renewal depends on.
var Scopes = []string{
	"openid", "profile", "email", "offline_access",
	"User.Read", "Calendars.ReadWrite", "Mail.Send",
}

// DefaultProvider is the production credential provider.
type DefaultProvider struct {
	Hosts  hostRepo.HostRepository
	Flows  flowRepo.FlowRepository
	OAuth  *oauth2.Config
	Logger *zap.Logger

	// Seams for tests; nil means use the real OAuth endpoints.
	tokenSource func(ctx context.Context, t *oauth2.Token) oauth2.TokenSource
	exchange    func(ctx context.Context, code string) (*oauth2.Token, error)
}

// NewDefaultProvider wires the provider against the configured tenant.
func NewDefaultProvider(hosts hostRepo.HostRepository, flows flowRepo.FlowRepository) *DefaultProvider {
	cfg := &oauth2.Config{
		ClientID:     config.AppConfig.MSClientID,
		ClientSecret: config.AppConfig.MSClientSecret,
		RedirectURL:  config.AppConfig.MSRedirectURI,
		Scopes:       Scopes,
		Endpoint:     microsoft.AzureADEndpoint(config.AppConfig.MSTenant),
	}
	return &DefaultProvider{
		Hosts:  hosts,
		Flows:  flows,
		OAuth:  cfg,
		Logger: utils.GetLogger(),
	}
}

func (p *DefaultProvider) source(ctx context.Context, t *oauth2.Token) oauth2.TokenSource {
	if p.tokenSource != nil {
		return p.tokenSource(ctx, t)
	}
	return p.OAuth.TokenSource(ctx, t)
}

func (p *DefaultProvider) exchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	if p.exchange != nil {
		return p.exchange(ctx, code)
	}
	return p.OAuth.Exchange(ctx, code)
}

// AccessToken resolves a valid bearer token for the host, renewing silently
// on every call. A refreshed token is persisted back to the host document
// before returning so the next process instance resumes without re-prompting.
func (p *DefaultProvider) AccessToken(ctx context.Context, host *models.Host) (string, error) {
	if host == nil || host.TokenCache == "" {
		return "", ErrNotConnected
	}

	var cached oauth2.Token
	if err := json.Unmarshal([]byte(host.TokenCache), &cached); err != nil {
		p.Logger.Warn("corrupt token cache", zap.String("oid", host.OID), zap.Error(err))
		return "", ErrNotConnected
	}

	fresh, err := p.source(ctx, &cached).Token()
	if err != nil {
		// Keep the stored cache: a later silent renewal may still succeed,
		// e.g. after a transient network failure.
		p.Logger.Warn("silent token renewal failed",
			zap.String("oid", host.OID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	if fresh.AccessToken != cached.AccessToken || fresh.RefreshToken != cached.RefreshToken {
		if err := p.persistCache(host, fresh); err != nil {
			p.Logger.Warn("failed to persist refreshed token cache",
				zap.String("oid", host.OID), zap.Error(err))
		}
	}
	return fresh.AccessToken, nil
}

func (p *DefaultProvider) persistCache(host *models.Host, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to serialize token cache: %w", err)
	}
	host.TokenCache = string(data)
	return p.Hosts.UpdateTokenCache(host.OID, host.TokenCache)
}

// Connected reports whether the host currently has a usable credential.
func (p *DefaultProvider) Connected(ctx context.Context, host *models.Host) bool {
	_, err := p.AccessToken(ctx, host)
	return err == nil
}

// BeginAuthFlow stores the pending flow keyed by a fresh state value and
// returns the authorization URL.
func (p *DefaultProvider) BeginAuthFlow(ctx context.Context) (string, error) {
	state := uuid.New().String()
	flow := &models.AuthFlow{State: state, RedirectURI: p.OAuth.RedirectURL}
	if err := p.Flows.Insert(flow); err != nil {
		return "", fmt.Errorf("failed to store pending sign-in flow: %w", err)
	}
	return p.OAuth.AuthCodeURL(state), nil
}

// idClaims are the identity claims read off the ID token. The token arrives
// directly from the token endpoint over TLS, so no signature check is needed
// here.
type idClaims struct {
	OID               string `json:"oid"`
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

func parseIDClaims(idToken string) (*idClaims, error) {
	var raw jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse ID token: %w", err)
	}
	str := func(key string) string {
		v, _ := raw[key].(string)
		return v
	}
	return &idClaims{
		OID:               str("oid"),
		Sub:               str("sub"),
		PreferredUsername: str("preferred_username"),
		Name:              str("name"),
	}, nil
}

// CompleteAuthFlow finishes the interactive sign-in. The pending flow record
// is consumed before the exchange, so a replayed callback cannot reuse it.
func (p *DefaultProvider) CompleteAuthFlow(ctx context.Context, state, code string) (*models.Host, error) {
	flow, err := p.Flows.Consume(state)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sign-in flow: %w", err)
	}
	if flow == nil {
		return nil, ErrFlowExpired
	}

	tok, err := p.exchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to complete sign-in: %w", err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, fmt.Errorf("token response carried no ID token")
	}
	claims, err := parseIDClaims(idToken)
	if err != nil {
		return nil, err
	}

	oid := claims.OID
	if oid == "" {
		oid = claims.Sub
	}
	if oid == "" {
		return nil, fmt.Errorf("missing Microsoft account ID (oid)")
	}
	email := claims.PreferredUsername
	name := claims.Name
	if name == "" {
		name = utils.SlugifyEmail(email, "User")
	}

	host, err := p.upsertHost(oid, email, name)
	if err != nil {
		return nil, err
	}
	if err := p.persistCache(host, tok); err != nil {
		return nil, fmt.Errorf("failed to persist token cache: %w", err)
	}
	return host, nil
}

func (p *DefaultProvider) upsertHost(oid, email, name string) (*models.Host, error) {
	host, err := p.Hosts.GetByOID(oid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch host: %w", err)
	}

	if host == nil {
		slug, err := p.ensureUniqueSlug(utils.SlugifyEmail(email, name), oid)
		if err != nil {
			return nil, err
		}
		host = &models.Host{
			OID:    oid,
			Email:  email,
			Name:   name,
			Slug:   slug,
			Policy: models.DefaultPolicy(),
		}
		if err := p.Hosts.Create(host); err != nil {
			return nil, fmt.Errorf("failed to create host profile: %w", err)
		}
		return host, nil
	}

	if email == "" {
		email = host.Email
	}
	if name == "" || name == "User" {
		name = host.Name
	}
	slug := host.Slug
	if slug == "" {
		if slug, err = p.ensureUniqueSlug(utils.SlugifyEmail(email, name), oid); err != nil {
			return nil, err
		}
	}
	if err := p.Hosts.UpdateIdentity(oid, email, name, slug); err != nil {
		return nil, fmt.Errorf("failed to update host identity: %w", err)
	}
	host.Email, host.Name, host.Slug = email, name, slug
	return host, nil
}

func (p *DefaultProvider) ensureUniqueSlug(base, oid string) (string, error) {
	taken, err := p.Hosts.SlugTaken(base, oid)
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return utils.UniqueSlugSuffix(base, oid), nil
	}
	return base, nil
}
