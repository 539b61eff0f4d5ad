/*
Package yieldsource contains a stand-in for an external lending market used
by Nexus vault tests. It keeps a per-supplier principal ledger, accepts
supply legs through OnNEP17Payment, releases assets through Withdraw and
reports principal plus accrued yield through BalanceOf. Accrue and
SetLiquidityCap are test hooks for simulating yield and illiquidity.
*/
package yieldsource

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nexus-protocol/nexus-contracts/common"
)

const (
	assetKey        = "asset"
	liquidityCapKey = "liquidityCap"

	// prefixPrincipal contains map from supplier to their principal plus
	// simulated accrued yield.
	prefixPrincipal byte = 0x01

	// noCap disables the liquidity cap.
	noCap = -1
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		asset interop.Hash160
	})
	if !common.IsValidAddress(args.asset) {
		panic("invalid asset")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, assetKey, args.asset)
	storage.Put(ctx, liquidityCapKey, noCap)
}

// BalanceOf returns the supplier's principal plus accrued yield.
func BalanceOf(supplier interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, principalKey(supplier))
}

// Withdraw releases amount of the asset back to receiver on behalf of the
// calling supplier. Returns false when the supplier's balance or the
// configured liquidity cap cannot cover the amount.
func Withdraw(asset interop.Hash160, amount int, receiver interop.Hash160) bool {
	ctx := storage.GetContext()
	if !common.BytesEqual(asset, storage.Get(ctx, assetKey).(interop.Hash160)) {
		panic("unknown asset")
	}
	if amount <= 0 {
		panic("zero amount")
	}

	supplier := runtime.GetCallingScriptHash()
	principal := common.GetIntOrZero(ctx, principalKey(supplier))
	if principal < amount {
		return false
	}
	limit := storage.Get(ctx, liquidityCapKey).(int)
	if limit != noCap && amount > limit {
		return false
	}

	storage.Put(ctx, principalKey(supplier), principal-amount)

	if !contract.Call(asset, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), receiver, amount, []byte(common.YieldMarker)).(bool) {
		panic("asset transfer failed")
	}
	return true
}

// Accrue simulates yield by growing the supplier's reported balance. The
// matching tokens must be minted to the yield source separately so payouts
// stay backed.
func Accrue(supplier interop.Hash160, amount int) {
	if amount <= 0 {
		panic("zero amount")
	}
	ctx := storage.GetContext()
	storage.Put(ctx, principalKey(supplier), common.GetIntOrZero(ctx, principalKey(supplier))+amount)
}

// SetLiquidityCap limits single-withdrawal size to simulate an illiquid
// market. Pass -1 to remove the cap.
func SetLiquidityCap(limit int) {
	ctx := storage.GetContext()
	storage.Put(ctx, liquidityCapKey, limit)
}

// OnNEP17Payment accepts supply legs of the configured asset and credits the
// sending supplier's principal.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	ctx := storage.GetContext()
	caller := runtime.GetCallingScriptHash()
	if !common.BytesEqual(caller, storage.Get(ctx, assetKey).(interop.Hash160)) {
		panic("only the configured asset is accepted")
	}
	if !common.IsMarker(data, common.YieldMarker) {
		// Direct mints used to back simulated yield carry no marker.
		return
	}
	storage.Put(ctx, principalKey(from), common.GetIntOrZero(ctx, principalKey(from))+amount)
}

func principalKey(supplier interop.Hash160) []byte {
	return append([]byte{prefixPrincipal}, supplier...)
}
