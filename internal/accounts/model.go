// Package accounts implements the account service that owns user profiles:
// the persisted record holding a user's credential digests. The vault core
// only ever reads profiles and requests partial updates through Service.
package accounts

import "time"

// Profile is the persisted credential record for one vault owner. Hash
// fields hold lowercase hex digests; an empty string means the credential
// was never configured.
type Profile struct {
	Owner string

	PasswordHash     string
	AnswerSchoolHash string
	AnswerCityHash   string
	AnswerFoodHash   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PasswordConfigured reports whether the vault password has been set up.
func (p *Profile) PasswordConfigured() bool {
	return p.PasswordHash != ""
}

// SecurityConfigured reports whether all three security answers are set.
// Answer setup is only meaningful after the password exists.
func (p *Profile) SecurityConfigured() bool {
	return p.AnswerSchoolHash != "" && p.AnswerCityHash != "" && p.AnswerFoodHash != ""
}

// Clone returns a copy so callers can keep a snapshot that later updates
// will not mutate.
func (p *Profile) Clone() *Profile {
	c := *p
	return &c
}

// ProfileUpdate carries a partial profile change. Nil fields are left
// untouched; the whole update is applied atomically per call.
type ProfileUpdate struct {
	PasswordHash     *string
	AnswerSchoolHash *string
	AnswerCityHash   *string
	AnswerFoodHash   *string
}

// Empty reports whether the update contains no changes.
func (u *ProfileUpdate) Empty() bool {
	return u.PasswordHash == nil && u.AnswerSchoolHash == nil &&
		u.AnswerCityHash == nil && u.AnswerFoodHash == nil
}
