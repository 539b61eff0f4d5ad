package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	vaultPath       = "../vault"
	factoryPath     = "../factory"
	registryPath    = "../registry"
	tokenPath       = "../internal/testcontracts/token"
	yieldSourcePath = "../internal/testcontracts/yieldsource"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func iteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

func randomBytes(n int) []byte {
	a := make([]byte, n)
	for i := range a {
		a[i] = byte(i * 7)
	}
	return a
}

func itemToInt64(t *testing.T, item stackitem.Item) int64 {
	i, err := item.TryInteger()
	require.NoError(t, err)
	return i.Int64()
}

// deployTokenContract deploys the mintable NEP-17 token used as the
// underlying asset in vault and registry scenarios.
func deployTokenContract(t *testing.T, e *neotest.Executor, symbol string, decimals int) util.Uint160 {
	ctr := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, ctr, []interface{}{symbol, decimals})
	return ctr.Hash
}

// deployYieldSourceContract deploys the yield source stub bound to the given
// underlying token.
func deployYieldSourceContract(t *testing.T, e *neotest.Executor, asset util.Uint160) util.Uint160 {
	ctr := neotest.CompileFile(t, e.CommitteeHash, yieldSourcePath, path.Join(yieldSourcePath, "config.yml"))
	e.DeployContract(t, ctr, []interface{}{asset})
	return ctr.Hash
}

func deployVaultContract(t *testing.T, e *neotest.Executor, asset, yieldSource util.Uint160) util.Uint160 {
	ctr := neotest.CompileFile(t, e.CommitteeHash, vaultPath, path.Join(vaultPath, "config.yml"))
	args := []interface{}{
		e.CommitteeHash,
		asset,
		yieldSource,
		"Nexus USD Vault",
		"nxUSD",
		"Test vault",
		riskLow,
	}
	e.DeployContract(t, ctr, args)
	return ctr.Hash
}

func deployRegistryContract(t *testing.T, e *neotest.Executor, fee int64) util.Uint160 {
	ctr := neotest.CompileFile(t, e.CommitteeHash, registryPath, path.Join(registryPath, "config.yml"))
	e.DeployContract(t, ctr, []interface{}{e.CommitteeHash, fee})
	return ctr.Hash
}

func deployFactoryContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	ctr := neotest.CompileFile(t, e.CommitteeHash, factoryPath, path.Join(factoryPath, "config.yml"))
	e.DeployContract(t, ctr, []interface{}{e.CommitteeHash})
	return ctr.Hash
}
