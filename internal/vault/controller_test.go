package vault

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/accounts"
	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/cryptox"
	"github.com/dmitrijs2005/filevault/internal/files"
	"github.com/dmitrijs2005/filevault/internal/logging"
)

// ---- fakes ----

// fakeAccounts keeps one profile in memory and applies updates the way the
// real service does: whole update or nothing.
type fakeAccounts struct {
	profile   *accounts.Profile
	loadErr   error
	updateErr error
	updates   []*accounts.ProfileUpdate
}

func (f *fakeAccounts) Load(ctx context.Context, owner string) (*accounts.Profile, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.profile.Clone(), nil
}

func (f *fakeAccounts) Update(ctx context.Context, owner string, upd *accounts.ProfileUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, upd)
	if upd.PasswordHash != nil {
		f.profile.PasswordHash = *upd.PasswordHash
	}
	if upd.AnswerSchoolHash != nil {
		f.profile.AnswerSchoolHash = *upd.AnswerSchoolHash
	}
	if upd.AnswerCityHash != nil {
		f.profile.AnswerCityHash = *upd.AnswerCityHash
	}
	if upd.AnswerFoodHash != nil {
		f.profile.AnswerFoodHash = *upd.AnswerFoodHash
	}
	return nil
}

// fakeGateway counts how often the collaborator is actually reached.
type fakeGateway struct {
	calls int
}

func (f *fakeGateway) List(ctx context.Context, owner string) ([]*files.SecureFile, error) {
	f.calls++
	return []*files.SecureFile{}, nil
}

func (f *fakeGateway) Upload(ctx context.Context, owner, path string) (*files.SecureFile, error) {
	f.calls++
	return &files.SecureFile{ID: "f1", Owner: owner}, nil
}

func (f *fakeGateway) Download(ctx context.Context, owner, id, destDir string) (string, error) {
	f.calls++
	return destDir + "/file", nil
}

func (f *fakeGateway) Delete(ctx context.Context, owner, id string) error {
	f.calls++
	return nil
}

func (f *fakeGateway) ShareURL(ctx context.Context, owner, id string) (string, error) {
	f.calls++
	return "https://example.test/signed", nil
}

// ---- helpers ----

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func emptyProfile() *accounts.Profile {
	return &accounts.Profile{Owner: "alice"}
}

func completeProfile(password, school, city, food string) *accounts.Profile {
	return &accounts.Profile{
		Owner:            "alice",
		PasswordHash:     cryptox.HashSecret(password),
		AnswerSchoolHash: cryptox.HashSecret(school),
		AnswerCityHash:   cryptox.HashSecret(city),
		AnswerFoodHash:   cryptox.HashSecret(food),
	}
}

func newTestController(t *testing.T, profile *accounts.Profile) (*Controller, *fakeAccounts, *fakeGateway) {
	t.Helper()
	svc := &fakeAccounts{profile: profile}
	gw := &fakeGateway{}
	c := NewController("alice", svc, gw, discardLogger())
	return c, svc, gw
}

func loadedController(t *testing.T, profile *accounts.Profile) (*Controller, *fakeAccounts, *fakeGateway) {
	t.Helper()
	c, svc, gw := newTestController(t, profile)
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	return c, svc, gw
}

// ---- load & derivation ----

func TestController_StartsInLoading(t *testing.T) {
	c, _, _ := newTestController(t, emptyProfile())
	assert.Equal(t, PhaseLoading, c.Phase())
	assert.False(t, c.Authenticated())
}

func TestController_LoadDerivesPhase(t *testing.T) {
	tests := []struct {
		name    string
		profile *accounts.Profile
		want    Phase
	}{
		{"no password", emptyProfile(), PhaseSetupPassword},
		{"password only", &accounts.Profile{Owner: "alice", PasswordHash: "h"}, PhaseSetupSecurity},
		{"complete", completeProfile("pw", "a", "b", "c"), PhaseLogin},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(t, tt.profile)
			phase, err := c.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, phase)
		})
	}
}

func TestController_LoadErrorStaysLoading(t *testing.T) {
	c, svc, _ := newTestController(t, emptyProfile())
	svc.loadErr = errors.New("backend down")

	_, err := c.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, PhaseLoading, c.Phase())

	_, err = c.ListFiles(context.Background())
	assert.True(t, errors.Is(err, common.ErrProfileNotLoaded))
}

// ---- setup ----

func TestController_SetupOrdering(t *testing.T) {
	c, svc, _ := loadedController(t, emptyProfile())
	ctx := context.Background()

	require.NoError(t, c.SetPassword(ctx, "MyPass123"))

	assert.Equal(t, PhaseSetupSecurity, c.Phase(),
		"password setup must land in security setup, never straight in the vault")
	assert.False(t, c.Authenticated())
	assert.Equal(t, cryptox.HashSecret("MyPass123"), svc.profile.PasswordHash)

	require.NoError(t, c.SetSecurityAnswers(ctx, "Lincoln", "Paris", "Pizza"))

	assert.Equal(t, PhaseVault, c.Phase())
	assert.True(t, c.Authenticated())
	assert.Equal(t, cryptox.HashSecret("Lincoln"), svc.profile.AnswerSchoolHash)
	assert.Equal(t, cryptox.HashSecret("Paris"), svc.profile.AnswerCityHash)
	assert.Equal(t, cryptox.HashSecret("Pizza"), svc.profile.AnswerFoodHash)
}

func TestController_SetSecurityAnswers_SingleAtomicUpdate(t *testing.T) {
	c, svc, _ := loadedController(t, &accounts.Profile{Owner: "alice", PasswordHash: "h"})

	require.NoError(t, c.SetSecurityAnswers(context.Background(), "a", "b", "c"))

	require.Len(t, svc.updates, 1, "all three answers must go in one update call")
	upd := svc.updates[0]
	assert.NotNil(t, upd.AnswerSchoolHash)
	assert.NotNil(t, upd.AnswerCityHash)
	assert.NotNil(t, upd.AnswerFoodHash)
	assert.Nil(t, upd.PasswordHash)
}

func TestController_SetPassword_WrongPhase(t *testing.T) {
	c, _, _ := loadedController(t, completeProfile("pw", "a", "b", "c"))

	err := c.SetPassword(context.Background(), "again")
	assert.True(t, errors.Is(err, common.ErrInvalidPhase))
}

func TestController_SetPassword_UpstreamFailureLeavesStateUnchanged(t *testing.T) {
	c, svc, _ := loadedController(t, emptyProfile())
	ctx := context.Background()

	svc.updateErr = errors.New("backend down")
	require.Error(t, c.SetPassword(ctx, "MyPass123"))

	assert.Equal(t, PhaseSetupPassword, c.Phase())
	assert.Empty(t, svc.profile.PasswordHash)

	// hashing is deterministic, so the operation is safely retryable
	svc.updateErr = nil
	require.NoError(t, c.SetPassword(ctx, "MyPass123"))
	assert.Equal(t, PhaseSetupSecurity, c.Phase())
}

// ---- login ----

func TestController_AttemptLogin_Success(t *testing.T) {
	c, _, _ := loadedController(t, completeProfile("MyPass123", "a", "b", "c"))

	ok, err := c.AttemptLogin(context.Background(), "MyPass123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, PhaseVault, c.Phase())
	assert.True(t, c.Authenticated())
}

func TestController_AttemptLogin_RepeatedFailuresArePure(t *testing.T) {
	c, svc, _ := loadedController(t, completeProfile("MyPass123", "a", "b", "c"))
	ctx := context.Background()

	before := svc.profile.Clone()
	for i := 0; i < 3; i++ {
		ok, err := c.AttemptLogin(ctx, "WrongPass")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	assert.Equal(t, PhaseLogin, c.Phase())
	assert.False(t, c.Authenticated())
	assert.Equal(t, *before, *svc.profile, "failed logins must not mutate the profile")
	assert.Empty(t, svc.updates)
}

func TestController_AttemptLogin_CaseSensitive(t *testing.T) {
	c, _, _ := loadedController(t, completeProfile("MyPass123", "a", "b", "c"))

	ok, err := c.AttemptLogin(context.Background(), "mypass123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestController_AttemptLogin_WrongPhase(t *testing.T) {
	c, _, _ := loadedController(t, emptyProfile())

	_, err := c.AttemptLogin(context.Background(), "x")
	assert.True(t, errors.Is(err, common.ErrInvalidPhase))
}

// ---- reset flow ----

func TestController_ForgotPasswordEntersReset(t *testing.T) {
	c, _, _ := loadedController(t, completeProfile("pw", "a", "b", "c"))

	require.NoError(t, c.ForgotPassword(context.Background()))
	assert.Equal(t, PhaseReset, c.Phase())
	assert.False(t, c.ResetVerified())
}

func TestController_ResetEndToEnd(t *testing.T) {
	c, svc, _ := loadedController(t, completeProfile("OldPass", "Lincoln", "Paris", "Pizza"))
	ctx := context.Background()

	require.NoError(t, c.ForgotPassword(ctx))

	ok, err := c.VerifyResetAnswers(ctx, "Lincoln", "Paris", "Pizza")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, c.ResetVerified())
	assert.Equal(t, PhaseReset, c.Phase(), "verification alone must not unlock the vault")

	require.NoError(t, c.CompleteReset(ctx, "NewPass123"))

	assert.Equal(t, cryptox.HashSecret("NewPass123"), svc.profile.PasswordHash)
	assert.False(t, c.ResetVerified())
	assert.True(t, c.Authenticated())
	assert.Equal(t, PhaseVault, c.Phase())
}

func TestController_VerifyResetAnswers_AllThreeMustMatch(t *testing.T) {
	c, _, _ := loadedController(t, completeProfile("pw", "Lincoln", "Paris", "Pizza"))
	ctx := context.Background()
	require.NoError(t, c.ForgotPassword(ctx))

	tests := []struct {
		name                string
		school, city, food  string
	}{
		{"one wrong", "Lincoln", "Paris", "Burger"},
		{"two wrong", "Lincoln", "London", "Burger"},
		{"all wrong", "x", "y", "z"},
		{"case mismatch", "lincoln", "Paris", "Pizza"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ok, err := c.VerifyResetAnswers(ctx, tt.school, tt.city, tt.food)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.False(t, c.ResetVerified())
		})
	}
}

func TestController_VerifyResetAnswers_FailureKeepsEarlierVerification(t *testing.T) {
	c, _, _ := loadedController(t, completeProfile("pw", "Lincoln", "Paris", "Pizza"))
	ctx := context.Background()
	require.NoError(t, c.ForgotPassword(ctx))

	ok, err := c.VerifyResetAnswers(ctx, "Lincoln", "Paris", "Pizza")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.VerifyResetAnswers(ctx, "wrong", "wrong", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, c.ResetVerified(), "a later failed attempt must not clear an earlier success")
}

func TestController_CompleteReset_RejectedWithoutVerification(t *testing.T) {
	c, svc, _ := loadedController(t, completeProfile("OldPass", "a", "b", "c"))
	ctx := context.Background()
	require.NoError(t, c.ForgotPassword(ctx))

	err := c.CompleteReset(ctx, "NewPass123")
	assert.True(t, errors.Is(err, common.ErrResetNotVerified))

	assert.Equal(t, cryptox.HashSecret("OldPass"), svc.profile.PasswordHash,
		"rejected reset must not change the stored hash")
	assert.Equal(t, PhaseReset, c.Phase())
	assert.False(t, c.Authenticated())
	assert.Empty(t, svc.updates)
}

func TestController_CancelResetClearsVerification(t *testing.T) {
	c, _, _ := loadedController(t, completeProfile("pw", "Lincoln", "Paris", "Pizza"))
	ctx := context.Background()

	require.NoError(t, c.ForgotPassword(ctx))
	ok, err := c.VerifyResetAnswers(ctx, "wrong", "wrong", "wrong")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.CancelReset(ctx))
	assert.Equal(t, PhaseLogin, c.Phase())
	assert.False(t, c.ResetVerified())
}

func TestController_CancelReset_DiscardsSuccessfulVerification(t *testing.T) {
	c, _, _ := loadedController(t, completeProfile("pw", "Lincoln", "Paris", "Pizza"))
	ctx := context.Background()

	require.NoError(t, c.ForgotPassword(ctx))
	ok, err := c.VerifyResetAnswers(ctx, "Lincoln", "Paris", "Pizza")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.CancelReset(ctx))
	assert.False(t, c.ResetVerified())

	// re-entering reset must require a fresh verification
	require.NoError(t, c.ForgotPassword(ctx))
	err = c.CompleteReset(ctx, "NewPass123")
	assert.True(t, errors.Is(err, common.ErrResetNotVerified))
}

func TestController_CompleteReset_UpstreamFailureKeepsResetState(t *testing.T) {
	c, svc, _ := loadedController(t, completeProfile("OldPass", "Lincoln", "Paris", "Pizza"))
	ctx := context.Background()

	require.NoError(t, c.ForgotPassword(ctx))
	ok, err := c.VerifyResetAnswers(ctx, "Lincoln", "Paris", "Pizza")
	require.NoError(t, err)
	require.True(t, ok)

	svc.updateErr = errors.New("backend down")
	require.Error(t, c.CompleteReset(ctx, "NewPass123"))

	assert.Equal(t, PhaseReset, c.Phase())
	assert.True(t, c.ResetVerified(), "verification survives an upstream failure for retry")
	assert.Equal(t, cryptox.HashSecret("OldPass"), svc.profile.PasswordHash)

	svc.updateErr = nil
	require.NoError(t, c.CompleteReset(ctx, "NewPass123"))
	assert.Equal(t, PhaseVault, c.Phase())
}

// ---- vault gate ----

func TestController_VaultGate_RejectsOutsideVaultPhase(t *testing.T) {
	profiles := map[string]*accounts.Profile{
		"setup-password": emptyProfile(),
		"setup-security": {Owner: "alice", PasswordHash: "h"},
		"login":          completeProfile("pw", "a", "b", "c"),
	}

	for name, profile := range profiles {
		profile := profile
		t.Run(name, func(t *testing.T) {
			c, _, gw := loadedController(t, profile)
			ctx := context.Background()

			_, err := c.ListFiles(ctx)
			assert.True(t, errors.Is(err, common.ErrVaultLocked))
			_, err = c.UploadFile(ctx, "/tmp/x")
			assert.True(t, errors.Is(err, common.ErrVaultLocked))
			err = c.DeleteFile(ctx, "f1")
			assert.True(t, errors.Is(err, common.ErrVaultLocked))
			_, err = c.DownloadFile(ctx, "f1", "downloads")
			assert.True(t, errors.Is(err, common.ErrVaultLocked))
			_, err = c.ShareFile(ctx, "f1")
			assert.True(t, errors.Is(err, common.ErrVaultLocked))

			assert.Zero(t, gw.calls, "the collaborator must never be reached while locked")
		})
	}
}

func TestController_VaultGate_RejectsInResetPhase(t *testing.T) {
	c, _, gw := loadedController(t, completeProfile("pw", "a", "b", "c"))
	ctx := context.Background()
	require.NoError(t, c.ForgotPassword(ctx))

	_, err := c.ListFiles(ctx)
	assert.True(t, errors.Is(err, common.ErrVaultLocked))
	assert.Zero(t, gw.calls)
}

func TestController_VaultGate_AllowsWhenUnlocked(t *testing.T) {
	c, _, gw := loadedController(t, completeProfile("pw", "a", "b", "c"))
	ctx := context.Background()

	ok, err := c.AttemptLogin(ctx, "pw")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = c.ListFiles(ctx)
	require.NoError(t, err)

	_, err = c.UploadFile(ctx, "/tmp/x")
	require.NoError(t, err)

	assert.Equal(t, 2, gw.calls)
}

func TestController_LogoutLocksTheVaultAgain(t *testing.T) {
	c, _, gw := loadedController(t, completeProfile("pw", "a", "b", "c"))
	ctx := context.Background()

	ok, err := c.AttemptLogin(ctx, "pw")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, PhaseLogin, c.Phase())
	assert.False(t, c.Authenticated())

	_, err = c.ListFiles(ctx)
	assert.True(t, errors.Is(err, common.ErrVaultLocked))
	assert.Zero(t, gw.calls)
}

func TestController_LogoutWhileLocked(t *testing.T) {
	c, _, _ := loadedController(t, completeProfile("pw", "a", "b", "c"))

	err := c.Logout(context.Background())
	assert.True(t, errors.Is(err, common.ErrInvalidPhase))
}

// ---- independent sessions ----

func TestController_SessionsAreIndependent(t *testing.T) {
	profile := completeProfile("pw", "a", "b", "c")
	ctx := context.Background()

	c1, _, _ := loadedController(t, profile.Clone())
	c2, _, _ := loadedController(t, profile.Clone())

	ok, err := c1.AttemptLogin(ctx, "pw")
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, c1.Authenticated())
	assert.False(t, c2.Authenticated(), "authenticating one session must not unlock another")
	assert.Equal(t, PhaseLogin, c2.Phase())
}

// ---- custom hasher injection ----

func TestController_WithHasher(t *testing.T) {
	calls := 0
	identity := func(s string) string {
		calls++
		return "digest:" + s
	}

	svc := &fakeAccounts{profile: emptyProfile()}
	c := NewController("alice", svc, &fakeGateway{}, discardLogger(), WithHasher(identity))

	_, err := c.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.SetPassword(context.Background(), "pw"))

	assert.Equal(t, "digest:pw", svc.profile.PasswordHash)
	assert.Equal(t, 1, calls)
}
