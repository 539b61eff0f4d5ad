package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nexus-protocol/nexus-contracts/common"
	"github.com/stretchr/testify/require"
)

const riskLow = 1

type vaultEnv struct {
	e           *neotest.Executor
	vault       *neotest.ContractInvoker
	token       *neotest.ContractInvoker
	yieldSource *neotest.ContractInvoker

	vaultHash util.Uint160
	tokenHash util.Uint160
	ysHash    util.Uint160
}

func newVaultEnv(t *testing.T) *vaultEnv {
	e := newExecutor(t)
	tokenHash := deployTokenContract(t, e, "USDN", 8)
	ysHash := deployYieldSourceContract(t, e, tokenHash)
	vaultHash := deployVaultContract(t, e, tokenHash, ysHash)
	return &vaultEnv{
		e:           e,
		vault:       e.CommitteeInvoker(vaultHash),
		token:       e.CommitteeInvoker(tokenHash),
		yieldSource: e.CommitteeInvoker(ysHash),
		vaultHash:   vaultHash,
		tokenHash:   tokenHash,
		ysHash:      ysHash,
	}
}

func (v *vaultEnv) fundedAccount(t *testing.T, amount int) neotest.Signer {
	acc := v.e.NewAccount(t)
	v.token.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), amount)
	return acc
}

// accrueYield increases the yield source's reported balance of the vault and
// mints the tokens backing that yield to the yield source.
func (v *vaultEnv) accrueYield(t *testing.T, amount int) {
	v.yieldSource.Invoke(t, stackitem.Null{}, "accrue", v.vaultHash, amount)
	v.token.Invoke(t, stackitem.Null{}, "mint", v.ysHash, amount)
}

func TestVaultViews(t *testing.T) {
	v := newVaultEnv(t)

	v.vault.Invoke(t, "nxUSD", "symbol")
	v.vault.Invoke(t, 8, "decimals")
	v.vault.Invoke(t, "Test vault", "vaultDescription")
	v.vault.Invoke(t, riskLow, "riskLevel")
	v.vault.Invoke(t, 380, "getCurrentAPY")

	// The hash comes back as a buffer stack item, compare raw bytes.
	s, err := v.vault.TestInvoke(t, "asset")
	require.NoError(t, err)
	assetBytes, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, v.tokenHash.BytesBE(), assetBytes)

	v.vault.Invoke(t, 0, "totalSupply")
	v.vault.Invoke(t, 0, "totalAssets")
	v.vault.Invoke(t, 0, "depositFeeBps")
	v.vault.Invoke(t, 0, "withdrawFeeBps")
	v.vault.Invoke(t, 0, "accruedFees")
	v.vault.Invoke(t, common.Version, "version")
}

func TestVaultDeposit(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()
	cUser := v.vault.WithSigners(user)

	cUser.InvokeFail(t, "zero amount", "deposit", userHash, 0, userHash)
	cUser.InvokeFail(t, "invalid receiver", "deposit", userHash, 1000, []byte{1, 2, 3})

	// Bootstrap deposit mints shares 1:1.
	cUser.Invoke(t, 1000, "deposit", userHash, 1000, userHash)
	v.vault.Invoke(t, 1000, "totalSupply")
	v.vault.Invoke(t, 1000, "totalAssets")
	v.vault.Invoke(t, 1000, "balanceOf", userHash)
	v.token.Invoke(t, 9000, "balanceOf", userHash)
	v.token.Invoke(t, 1000, "balanceOf", v.ysHash)
	v.token.Invoke(t, 0, "balanceOf", v.vaultHash)

	// Depositing on someone else's behalf requires their witness.
	stranger := v.e.NewAccount(t)
	v.vault.WithSigners(stranger).InvokeFail(t, common.ErrWitnessFailed,
		"deposit", userHash, 1000, userHash)
}

func TestVaultDepositFee(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()
	cUser := v.vault.WithSigners(user)

	cUser.InvokeFail(t, common.ErrOwnerWitnessFailed, "setFees", 100, 0)
	v.vault.InvokeFail(t, "fee rate out of range", "setFees", 1001, 0)
	v.vault.Invoke(t, stackitem.Null{}, "setFees", 100, 0)
	v.vault.Invoke(t, 100, "depositFeeBps")

	// 1% fee: 1000 in, 990 at work, 10 retained.
	v.vault.Invoke(t, 990, "previewDeposit", 1000)
	cUser.Invoke(t, 990, "deposit", userHash, 1000, userHash)
	v.vault.Invoke(t, 990, "balanceOf", userHash)
	v.vault.Invoke(t, 990, "totalAssets")
	v.vault.Invoke(t, 10, "accruedFees")
	v.token.Invoke(t, 990, "balanceOf", v.ysHash)
	v.token.Invoke(t, 10, "balanceOf", v.vaultHash)
}

func TestVaultWithdrawRedeem(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()
	cUser := v.vault.WithSigners(user)

	cUser.Invoke(t, 1000, "deposit", userHash, 1000, userHash)

	cUser.InvokeFail(t, "zero amount", "withdraw", userHash, 0, userHash)
	cUser.InvokeFail(t, "insufficient shares", "redeem", userHash, 1001, userHash)

	cUser.Invoke(t, 400, "withdraw", userHash, 400, userHash)
	v.vault.Invoke(t, 600, "balanceOf", userHash)
	v.token.Invoke(t, 9400, "balanceOf", userHash)

	// Without accrued yield the round trip returns exactly the deposit.
	cUser.Invoke(t, 600, "redeem", userHash, 600, userHash)
	v.vault.Invoke(t, 0, "balanceOf", userHash)
	v.vault.Invoke(t, 0, "totalSupply")
	v.token.Invoke(t, 10_000, "balanceOf", userHash)

	cUser.InvokeFail(t, "vault has no assets", "withdraw", userHash, 100, userHash)
}

func TestVaultShareRounding(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()
	cUser := v.vault.WithSigners(user)

	cUser.Invoke(t, 1000, "deposit", userHash, 1000, userHash)
	v.accrueYield(t, 500)
	v.vault.Invoke(t, 1500, "totalAssets")

	// Withdrawing exact assets burns shares rounded up: 100*1000/1500 = 67.
	v.vault.Invoke(t, 67, "previewWithdraw", 100)
	cUser.Invoke(t, 67, "withdraw", userHash, 100, userHash)
	v.vault.Invoke(t, 933, "balanceOf", userHash)
	v.token.Invoke(t, 9100, "balanceOf", userHash)

	// Dust deposit mints no shares and fails.
	cUser.InvokeFail(t, "deposit too small for a share", "deposit", userHash, 1, userHash)
}

func TestVaultRedeemRounding(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()
	cUser := v.vault.WithSigners(user)

	cUser.Invoke(t, 1000, "deposit", userHash, 1000, userHash)
	v.accrueYield(t, 500)

	// Redeemed assets round down: 333*1500/1000 = 499.
	v.vault.Invoke(t, 499, "convertToAssets", 333)
	cUser.Invoke(t, 499, "redeem", userHash, 333, userHash)
	v.token.Invoke(t, 9499, "balanceOf", userHash)
}

func TestVaultYieldAccrual(t *testing.T) {
	v := newVaultEnv(t)
	alice := v.fundedAccount(t, 10_000)
	bob := v.fundedAccount(t, 10_000)
	aliceHash := alice.ScriptHash()
	bobHash := bob.ScriptHash()
	cAlice := v.vault.WithSigners(alice)
	cBob := v.vault.WithSigners(bob)

	cAlice.Invoke(t, 1000, "deposit", aliceHash, 1000, aliceHash)
	v.accrueYield(t, 100)

	// The late depositor pays the inflated rate and takes no part of the
	// yield accrued before them.
	cBob.Invoke(t, 1000, "deposit", bobHash, 1100, bobHash)
	v.vault.Invoke(t, 2000, "totalSupply")
	v.vault.Invoke(t, 2200, "totalAssets")

	cAlice.Invoke(t, 1100, "redeem", aliceHash, 1000, aliceHash)
	cBob.Invoke(t, 1100, "redeem", bobHash, 1000, bobHash)
	v.token.Invoke(t, 10_100, "balanceOf", aliceHash)
	v.token.Invoke(t, 10_000, "balanceOf", bobHash)
}

func TestVaultIlliquidYieldSource(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()
	cUser := v.vault.WithSigners(user)

	cUser.Invoke(t, 1000, "deposit", userHash, 1000, userHash)
	v.yieldSource.Invoke(t, stackitem.Null{}, "setLiquidityCap", 300)

	// The failed withdrawal leaves no trace: the fault rolls back every
	// write of the transaction.
	cUser.InvokeFail(t, "yield source withdraw failed", "withdraw", userHash, 500, userHash)
	v.vault.Invoke(t, 1000, "balanceOf", userHash)
	v.vault.Invoke(t, 1000, "totalSupply")
	v.token.Invoke(t, 9000, "balanceOf", userHash)

	cUser.Invoke(t, 300, "withdraw", userHash, 300, userHash)
}

func TestVaultCollectFees(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()
	cUser := v.vault.WithSigners(user)
	receiver := v.e.NewAccount(t)
	receiverHash := receiver.ScriptHash()

	v.vault.InvokeFail(t, "zero amount", "collectFees", receiverHash)

	v.vault.Invoke(t, stackitem.Null{}, "setFees", 100, 200)
	cUser.Invoke(t, 990, "deposit", userHash, 1000, userHash)
	// 2% of the 490 gross rounds down to 9.
	cUser.Invoke(t, 481, "redeem", userHash, 490, userHash)
	v.vault.Invoke(t, 19, "accruedFees")
	v.token.Invoke(t, 19, "balanceOf", v.vaultHash)

	cUser.InvokeFail(t, common.ErrOwnerWitnessFailed, "collectFees", receiverHash)
	v.vault.Invoke(t, stackitem.Null{}, "collectFees", receiverHash)
	v.vault.Invoke(t, 0, "accruedFees")
	v.token.Invoke(t, 19, "balanceOf", receiverHash)
	v.token.Invoke(t, 0, "balanceOf", v.vaultHash)
}

func TestVaultUserPosition(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()
	cUser := v.vault.WithSigners(user)

	cUser.Invoke(t, 1000, "deposit", userHash, 1000, userHash)
	v.accrueYield(t, 100)

	s, err := v.vault.TestInvoke(t, "getUserPosition", userHash)
	require.NoError(t, err)
	pos := s.Pop().Array()
	require.Equal(t, int64(1000), itemToInt64(t, pos[0])) // shares
	require.Equal(t, int64(1100), itemToInt64(t, pos[1])) // assets
	require.Equal(t, int64(100), itemToInt64(t, pos[2]))  // pending yield
}

func TestVaultInfo(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()
	v.vault.WithSigners(user).Invoke(t, 1000, "deposit", userHash, 1000, userHash)

	s, err := v.vault.TestInvoke(t, "getVaultInfo")
	require.NoError(t, err)
	info := s.Pop().Array()
	name, err := info[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, "Nexus USD Vault", string(name))
	asset, err := info[3].TryBytes()
	require.NoError(t, err)
	require.Equal(t, v.tokenHash.BytesBE(), asset)
	require.Equal(t, int64(1000), itemToInt64(t, info[4])) // TVL
	require.Equal(t, int64(380), itemToInt64(t, info[5]))  // APY
	require.Equal(t, int64(riskLow), itemToInt64(t, info[6]))
	require.Equal(t, int64(1000), itemToInt64(t, info[7])) // total shares
}

func TestVaultUnsolicitedTransfer(t *testing.T) {
	v := newVaultEnv(t)
	user := v.fundedAccount(t, 10_000)
	userHash := user.ScriptHash()

	cToken := v.token.WithSigners(user)
	cToken.InvokeFail(t, "unexpected token transfer", "transfer",
		userHash, v.vaultHash, 100, nil)
	cToken.InvokeFail(t, "unexpected token transfer", "transfer",
		userHash, v.vaultHash, 100, []byte("wrong marker"))
}
