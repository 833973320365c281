package keeper_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/meterd-ai/meterd/testutil/keeper"
	"github.com/meterd-ai/meterd/x/settlement/types"
)

const testDenom = "umtr"

func testAddr(seed byte) sdk.AccAddress {
	return sdk.AccAddress(bytes.Repeat([]byte{seed}, 20))
}

// registerHost marks a host active in the stub registry and gives it a
// fresh attestation keypair, returning the private key for signing.
func registerHost(t *testing.T, f *keepertest.Fixture, host sdk.AccAddress) ed25519.PrivateKey {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	f.StakeRegistry.Active[host.String()] = true
	f.StakeRegistry.AttestationKeys[host.String()] = pub
	return priv
}

func proofHash(seed string) []byte {
	sum := sha256.Sum256([]byte(seed))
	return sum[:]
}

// signProof produces the host attestation over one proof submission
func signProof(priv ed25519.PrivateKey, hash []byte, host sdk.AccAddress, claimedTokens uint64) []byte {
	return ed25519.Sign(priv, types.ProofCommitmentHash(hash, host, claimedTokens))
}

// openSession funds the depositor and opens a standard inline-funded
// session: 100000umtr deposit at one base unit per token.
func openSession(t *testing.T, f *keepertest.Fixture, depositor, host sdk.AccAddress) uint64 {
	t.Helper()

	f.ModelRegistry.Approved["llama-70b"] = true
	f.FundAccount(t, depositor, sdk.NewCoins(sdk.NewCoin(testDenom, math.NewInt(1000000))))

	sessionID, err := f.Keeper.CreateSession(f.Ctx, types.NewMsgCreateSession(
		depositor.String(),
		host.String(),
		"llama-70b",
		sdk.NewCoin(testDenom, math.NewInt(100000)),
		math.NewInt(types.PriceScale), // one base unit per token
		86400,
		60,
		types.FundingSourceInline,
	))
	require.NoError(t, err)
	return sessionID
}

// submitProof advances block time by elapsed seconds and submits a
// signed proof for claimedTokens, requiring acceptance.
func submitProof(t *testing.T, f *keepertest.Fixture, sessionID uint64, host sdk.AccAddress, priv ed25519.PrivateKey, claimedTokens uint64, seed string, elapsedSeconds int64) {
	t.Helper()

	advanceTime(f, elapsedSeconds)
	hash := proofHash(seed)
	_, err := f.Keeper.SubmitProof(f.Ctx, types.NewMsgSubmitProof(
		sessionID, host.String(), claimedTokens, hash, signProof(priv, hash, host, claimedTokens), nil,
	))
	require.NoError(t, err)
}

func advanceTime(f *keepertest.Fixture, seconds int64) {
	f.Ctx = f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(time.Duration(seconds) * time.Second))
}
