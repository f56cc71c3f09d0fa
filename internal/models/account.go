package models

import (
	"fmt"
	"time"
)

// Account links a media server user to an AniList access token and sync policy.
// Implements [Model].
type Account struct {
	id        string
	sequence  int
	userID    string
	token     string
	policy    SyncPolicy
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewAccount creates an Account for the given media server user with the provided policy.
func NewAccount(sequence int, userID, token string, policy SyncPolicy) *Account {
	now := time.Now()
	return &Account{
		sequence:  sequence,
		userID:    userID,
		token:     token,
		policy:    policy,
		createdAt: now,
		updatedAt: now,
	}
}

func (a *Account) ID() string            { return a.id }
func (a *Account) Sequence() int         { return a.sequence }
func (a *Account) UserID() string        { return a.userID }
func (a *Account) AccessToken() string   { return a.token }
func (a *Account) Policy() SyncPolicy    { return a.policy }
func (a *Account) CreatedAt() time.Time  { return a.createdAt }
func (a *Account) UpdatedAt() time.Time  { return a.updatedAt }
func (a *Account) DeletedAt() *time.Time { return a.deletedAt }

func (a *Account) SetID(id string)             { a.id = id }
func (a *Account) SetSequence(sequence int)    { a.sequence = sequence }
func (a *Account) SetAccessToken(token string) { a.token = token }
func (a *Account) SetPolicy(policy SyncPolicy) { a.policy = policy }
func (a *Account) SetCreatedAt(t time.Time)    { a.createdAt = t }
func (a *Account) SetUpdatedAt(t time.Time)    { a.updatedAt = t }
func (a *Account) SetDeletedAt(t *time.Time)   { a.deletedAt = t }

// Authenticated reports whether the account has a stored AniList access token.
func (a *Account) Authenticated() bool { return a.token != "" }

// Validate checks that the account's data is valid.
func (a *Account) Validate() error {
	if a.userID == "" {
		return fmt.Errorf("account user id must not be empty")
	}
	return a.policy.Validate()
}
