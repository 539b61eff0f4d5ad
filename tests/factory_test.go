package tests

import (
	"encoding/json"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nexus-protocol/nexus-contracts/common"
	"github.com/stretchr/testify/require"
)

type factoryEnv struct {
	e       *neotest.Executor
	factory *neotest.ContractInvoker

	factoryHash util.Uint160
	vaultCtr    *neotest.Contract
}

func newFactoryEnv(t *testing.T) *factoryEnv {
	e := newExecutor(t)
	factoryHash := deployFactoryContract(t, e)
	vaultCtr := neotest.CompileFile(t, e.CommitteeHash, vaultPath, path.Join(vaultPath, "config.yml"))
	return &factoryEnv{
		e:           e,
		factory:     e.CommitteeInvoker(factoryHash),
		factoryHash: factoryHash,
		vaultCtr:    vaultCtr,
	}
}

// vaultArtifacts returns the compiled vault NEF together with its manifest
// renamed to the given contract name. The deployed contract hash depends on
// the name, so every vault needs a fresh one. Native Management derives the
// hash from the sender of the deploying transaction, which for the committee
// invoker is the committee account.
func (f *factoryEnv) vaultArtifacts(t *testing.T, name string) ([]byte, []byte, util.Uint160) {
	nefBytes, err := f.vaultCtr.NEF.Bytes()
	require.NoError(t, err)

	m := *f.vaultCtr.Manifest
	m.Name = name
	manifestBytes, err := json.Marshal(&m)
	require.NoError(t, err)

	h := state.CreateContractHash(f.e.CommitteeHash, f.vaultCtr.NEF.Checksum, name)
	return nefBytes, manifestBytes, h
}

func TestFactoryDeployVault(t *testing.T) {
	f := newFactoryEnv(t)
	tokenHash := deployTokenContract(t, f.e, "USDN", 8)
	ysHash := deployYieldSourceContract(t, f.e, tokenHash)
	nefBytes, manifestBytes, vaultHash := f.vaultArtifacts(t, "Nexus Vault USDN")

	f.factory.Invoke(t, 0, "getVaultCount")
	f.factory.Invoke(t, stackitem.Null{}, "getVaultForAsset", tokenHash)
	f.factory.Invoke(t, common.Version, "version")

	f.factory.WithSigners(f.e.NewAccount(t)).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"deployVault", tokenHash, ysHash, "Nexus USDN", "nxUSDN", "USDN vault", riskLow,
		nefBytes, manifestBytes)

	f.factory.Invoke(t, vaultHash.BytesBE(), "deployVault",
		tokenHash, ysHash, "Nexus USDN", "nxUSDN", "USDN vault", riskLow,
		nefBytes, manifestBytes)

	f.factory.Invoke(t, 1, "getVaultCount")

	s, err := f.factory.TestInvoke(t, "getVaultForAsset", tokenHash)
	require.NoError(t, err)
	h, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, vaultHash.BytesBE(), h)

	s, err = f.factory.TestInvoke(t, "vaults", 0)
	require.NoError(t, err)
	h, err = s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, vaultHash.BytesBE(), h)

	f.factory.InvokeFail(t, "vault index out of range", "vaults", 1)

	// One vault per asset, no matter the name.
	nefBytes2, manifestBytes2, _ := f.vaultArtifacts(t, "Nexus Vault USDN two")
	f.factory.InvokeFail(t, "vault already exists for asset", "deployVault",
		tokenHash, ysHash, "Nexus USDN", "nxUSDN", "USDN vault", riskLow,
		nefBytes2, manifestBytes2)
}

func TestFactoryDeployedVaultWorks(t *testing.T) {
	f := newFactoryEnv(t)
	tokenHash := deployTokenContract(t, f.e, "USDN", 8)
	ysHash := deployYieldSourceContract(t, f.e, tokenHash)
	nefBytes, manifestBytes, vaultHash := f.vaultArtifacts(t, "Nexus Vault USDN")

	f.factory.Invoke(t, vaultHash.BytesBE(), "deployVault",
		tokenHash, ysHash, "Nexus USDN", "nxUSDN", "USDN vault", riskLow,
		nefBytes, manifestBytes)

	vault := f.e.CommitteeInvoker(vaultHash)
	vault.Invoke(t, "nxUSDN", "symbol")

	s, err := vault.TestInvoke(t, "asset")
	require.NoError(t, err)
	assetBytes, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, tokenHash.BytesBE(), assetBytes)

	vault.Invoke(t, 0, "totalSupply")

	token := f.e.CommitteeInvoker(tokenHash)
	user := f.e.NewAccount(t)
	userHash := user.ScriptHash()
	token.Invoke(t, stackitem.Null{}, "mint", userHash, 10_000)
	vault.WithSigners(user).Invoke(t, 1000, "deposit", userHash, 1000, userHash)
	vault.Invoke(t, 1000, "balanceOf", userHash)
	token.Invoke(t, 1000, "balanceOf", ysHash)

	// The factory owner administers the deployed vault.
	vault.Invoke(t, stackitem.Null{}, "setFees", 100, 0)
	vault.WithSigners(user).InvokeFail(t, common.ErrOwnerWitnessFailed, "setFees", 0, 0)
}

func TestFactoryMultipleVaults(t *testing.T) {
	f := newFactoryEnv(t)
	tokenHash := deployTokenContract(t, f.e, "USDN", 8)
	ysHash := deployYieldSourceContract(t, f.e, tokenHash)
	gasHash := f.e.NativeHash(t, nativenames.Gas)

	var hashes []util.Uint160
	for i, asset := range []util.Uint160{tokenHash, gasHash} {
		symbol := []string{"USDN", "GAS"}[i]
		nefBytes, manifestBytes, vaultHash := f.vaultArtifacts(t, "Nexus Vault "+symbol)
		f.factory.Invoke(t, vaultHash.BytesBE(), "deployVault",
			asset, ysHash, "Nexus "+symbol, "nx"+symbol, symbol+" vault", riskLow,
			nefBytes, manifestBytes)
		hashes = append(hashes, vaultHash)
	}

	f.factory.Invoke(t, 2, "getVaultCount")

	s, err := f.factory.TestInvoke(t, "getAllVaults")
	require.NoError(t, err)
	vaults := s.Pop().Array()
	require.Len(t, vaults, 2)
	for i := range vaults {
		h, err := vaults[i].TryBytes()
		require.NoError(t, err)
		require.Equal(t, hashes[i].BytesBE(), h)
	}
}
