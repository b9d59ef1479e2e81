package vault

import (
	"context"
	"crypto/subtle"
	"sync"

	"github.com/dmitrijs2005/filevault/internal/accounts"
	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/cryptox"
	"github.com/dmitrijs2005/filevault/internal/files"
	"github.com/dmitrijs2005/filevault/internal/logging"
)

// AccountService is the external collaborator owning profile persistence.
// Updates are applied atomically per call.
type AccountService interface {
	Load(ctx context.Context, owner string) (*accounts.Profile, error)
	Update(ctx context.Context, owner string, upd *accounts.ProfileUpdate) error
}

// Gateway is the file-store collaborator. The controller is the only caller
// and invokes it strictly behind the vault gate.
type Gateway interface {
	List(ctx context.Context, owner string) ([]*files.SecureFile, error)
	Upload(ctx context.Context, owner, path string) (*files.SecureFile, error)
	Download(ctx context.Context, owner, id, destDir string) (string, error)
	Delete(ctx context.Context, owner, id string) error
	ShareURL(ctx context.Context, owner, id string) (string, error)
}

/// HasherFunc is the digest provider: a deterministic one-way mapping from a
// secret to its lowercase-hex representation.
type HasherFunc func(secret string) string

// Option customizes a Controller.
type Option func(*Controller)

// WithHasher substitutes the digest provider, mainly for tests.
func WithHasher(h HasherFunc) Option {
	return func(c *Controller) { c.hash = h }
}

// Controller owns the session flags and the current phase, performs every
// hash comparison, and is the only component allowed to flip the
// authenticated flag. A single mutex serializes all operations: each
// user-initiated call runs to completion before the next one is accepted,
// so no two writers ever race on the profile or the reset flag.
type Controller struct {
	mu sync.Mutex

	owner    string
	accounts AccountService
	gateway  Gateway
	hash     HasherFunc
	logger   logging.Logger

	loaded  bool
	profile *accounts.Profile
	phase   Phase
	session Session
}

// NewController builds a Controller for one owner. The phase starts at
// PhaseLoading until Load has fetched the profile.
func NewController(owner string, svc AccountService, gw Gateway, logger logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		owner:    owner,
		accounts: svc,
		gateway:  gw,
		hash:     cryptox.HashSecret,
		logger:   logger,
		phase:    PhaseLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the profile and derives the initial phase. Starting a new
// session always resets both flags.
func (c *Controller) Load(ctx context.Context) (Phase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	profile, err := c.accounts.Load(ctx, c.owner)
	if err != nil {
		return PhaseLoading, err
	}

	c.profile = profile
	c.loaded = true
	c.session = Session{}
	c.phase = DerivePhase(true, profile)

	c.logger.Info(ctx, "profile loaded", "owner", c.owner, "phase", c.phase.String())
	return c.phase, nil
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Authenticated reports whether the session is unlocked.
func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.authenticated
}

// ResetVerified reports whether the current reset flow has passed answer
// verification.
func (c *Controller) ResetVerified() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.resetVerified
}

// SetPassword performs first-time password setup. There is no prior value
// to compare against; changing an existing password goes through the reset
// flow instead. On success the machine moves to security-question setup,
// never straight to the vault.
func (c *Controller) SetPassword(ctx context.Context, secret string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.require(PhaseSetupPassword); err != nil {
		return err
	}

	digest := c.hash(secret)
	if err := c.accounts.Update(ctx, c.owner, &accounts.ProfileUpdate{PasswordHash: &digest}); err != nil {
		return err
	}

	c.profile.PasswordHash = digest
	c.transition(ctx, PhaseSetupSecurity, "password configured")
	return nil
}

// SetSecurityAnswers stores all three answer digests in one atomic profile
// update and completes setup: the session becomes authenticated and the
// vault unlocks.
func (c *Controller) SetSecurityAnswers(ctx context.Context, school, city, food string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.require(PhaseSetupSecurity); err != nil {
		return err
	}

	schoolHash := c.hash(school)
	cityHash := c.hash(city)
	foodHash := c.hash(food)

	upd := &accounts.ProfileUpdate{
		AnswerSchoolHash: &schoolHash,
		AnswerCityHash:   &cityHash,
		AnswerFoodHash:   &foodHash,
	}
	if err := c.accounts.Update(ctx, c.owner, upd); err != nil {
		return err
	}

	c.profile.AnswerSchoolHash = schoolHash
	c.profile.AnswerCityHash = cityHash
	c.profile.AnswerFoodHash = foodHash
	c.session.authenticated = true
	c.transition(ctx, PhaseVault, "security answers configured")
	return nil
}

// AttemptLogin verifies the password. A mismatch leaves session and phase
// untouched and simply returns false; every attempt is independent.
func (c *Controller) AttemptLogin(ctx context.Context, secret string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.require(PhaseLogin); err != nil {
		return false, err
	}

	if !hashEqual(c.hash(secret), c.profile.PasswordHash) {
		c.logger.Warn(ctx, "login attempt failed", "owner", c.owner)
		return false, nil
	}

	c.session.authenticated = true
	c.transition(ctx, PhaseVault, "login succeeded")
	return true, nil
}

// ForgotPassword enters the reset flow from the login phase.
func (c *Controller) ForgotPassword(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.require(PhaseLogin); err != nil {
		return err
	}
	c.transition(ctx, PhaseReset, "forgot password")
	return nil
}

// CancelReset abandons the reset flow and discards any verification that
// already happened in it.
func (c *Controller) CancelReset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.require(PhaseReset); err != nil {
		return err
	}
	c.session.resetVerified = false
	c.transition(ctx, PhaseLogin, "reset cancelled")
	return nil
}

// VerifyResetAnswers checks all three candidate answers against the stored
// digests. All three must match; there is no partial credit. On success the
// session is marked reset-verified and the machine stays in PhaseReset for
// the completion step. A failed attempt leaves the flag as it was.
func (c *Controller) VerifyResetAnswers(ctx context.Context, school, city, food string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.require(PhaseReset); err != nil {
		return false, err
	}

	ok := hashEqual(c.hash(school), c.profile.AnswerSchoolHash) &&
		hashEqual(c.hash(city), c.profile.AnswerCityHash) &&
		hashEqual(c.hash(food), c.profile.AnswerFoodHash)
	if !ok {
		c.logger.Warn(ctx, "reset verification failed", "owner", c.owner)
		return false, nil
	}

	c.session.resetVerified = true
	return true, nil
}

// CompleteReset replaces the vault password after a successful answer
// verification and unlocks the vault in the same step. Calling it without
// verification is a contract violation and is rejected explicitly rather
// than ignored.
func (c *Controller) CompleteReset(ctx context.Context, newPassword string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.require(PhaseReset); err != nil {
		return err
	}
	if !c.session.resetVerified {
		return common.ErrResetNotVerified
	}

	digest := c.hash(newPassword)
	if err := c.accounts.Update(ctx, c.owner, &accounts.ProfileUpdate{PasswordHash: &digest}); err != nil {
		return err
	}

	c.profile.PasswordHash = digest
	c.session.resetVerified = false
	c.session.authenticated = true
	c.transition(ctx, PhaseVault, "password reset completed")
	return nil
}

// Logout locks the vault again.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.authenticated {
		return common.ErrInvalidPhase
	}
	c.session.authenticated = false
	c.transition(ctx, PhaseLogin, "logout")
	return nil
}

// ListFiles lists the owner's files. Gated.
func (c *Controller) ListFiles(ctx context.Context) ([]*files.SecureFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.gateUnlocked(); err != nil {
		return nil, err
	}
	return c.gateway.List(ctx, c.owner)
}

// UploadFile uploads a local file into the vault. Gated.
func (c *Controller) UploadFile(ctx context.Context, path string) (*files.SecureFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.gateUnlocked(); err != nil {
		return nil, err
	}
	return c.gateway.Upload(ctx, c.owner, path)
}

// DownloadFile fetches a vault file into destDir. Gated.
func (c *Controller) DownloadFile(ctx context.Context, id, destDir string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.gateUnlocked(); err != nil {
		return "", err
	}
	return c.gateway.Download(ctx, c.owner, id, destDir)
}

// DeleteFile removes a vault file. Gated.
func (c *Controller) DeleteFile(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.gateUnlocked(); err != nil {
		return err
	}
	return c.gateway.Delete(ctx, c.owner, id)
}

// ShareFile returns a temporary link to the sealed object. Gated.
func (c *Controller) ShareFile(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.gateUnlocked(); err != nil {
		return "", err
	}
	return c.gateway.ShareURL(ctx, c.owner, id)
}

// require checks that the machine sits in the expected phase.
func (c *Controller) require(phase Phase) error {
	if !c.loaded {
		return common.ErrProfileNotLoaded
	}
	if c.phase != phase {
		return common.ErrInvalidPhase
	}
	return nil
}

// gateUnlocked is the vault-gate precondition: file operations are
// permitted only in the unlocked phase with an authenticated session.
func (c *Controller) gateUnlocked() error {
	if !c.loaded {
		return common.ErrProfileNotLoaded
	}
	if c.phase != PhaseVault || !c.session.authenticated {
		return common.ErrVaultLocked
	}
	return nil
}

// transition is the single place the phase field is assigned after Load.
func (c *Controller) transition(ctx context.Context, to Phase, reason string) {
	from := c.phase
	c.phase = to
	c.logger.Info(ctx, "phase transition",
		"owner", c.owner, "from", from.String(), "to", to.String(), "reason", reason)
}

// hashEqual compares two digests without leaking the position of the first
// differing byte.
func hashEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
