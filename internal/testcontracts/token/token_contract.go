/*
Package token contains a minimal mintable NEP-17 token used by Nexus
contract tests as the underlying vault asset and as the payment token of the
stealth registry. Not for production use: anyone can mint.
*/
package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nexus-protocol/nexus-contracts/common"
)

const (
	symbolKey   = "symbol"
	decimalsKey = "decimals"
	supplyKey   = "supply"

	// prefixBalance contains map from holder to their token balance.
	prefixBalance byte = 0x01
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		symbol   string
		decimals int
	})

	ctx := storage.GetContext()
	storage.Put(ctx, symbolKey, args.symbol)
	storage.Put(ctx, decimalsKey, args.decimals)
	storage.Put(ctx, supplyKey, 0)
}

// Symbol is a NEP-17 standard method that returns the token symbol.
func Symbol() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, symbolKey).(string)
}

// Decimals is a NEP-17 standard method that returns the token precision.
func Decimals() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, decimalsKey).(int)
}

// TotalSupply is a NEP-17 standard method that returns the amount of minted
// tokens.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, supplyKey)
}

// BalanceOf is a NEP-17 standard method that returns the balance of the
// specified holder.
func BalanceOf(holder interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, balanceKey(holder))
}

// Transfer is a NEP-17 standard method that moves tokens between accounts.
// Can be invoked by the holder or by a contract acting as the holder.
//
// Produces Transfer notification.
func Transfer(from, to interop.Hash160, amount int, data interface{}) bool {
	if amount < 0 || !common.IsValidAddress(from) || !common.IsValidAddress(to) {
		panic("invalid transfer arguments")
	}
	if !isUsableAddress(from) {
		return false
	}

	ctx := storage.GetContext()
	fromBalance := common.GetIntOrZero(ctx, balanceKey(from))
	if fromBalance < amount {
		return false
	}

	storage.Put(ctx, balanceKey(from), fromBalance-amount)
	storage.Put(ctx, balanceKey(to), common.GetIntOrZero(ctx, balanceKey(to))+amount)

	runtime.Notify("Transfer", from, to, amount)
	postTransfer(from, to, amount, data)
	return true
}

// Mint credits amount of new tokens to the specified holder. Test-only: no
// authorization.
func Mint(to interop.Hash160, amount int) {
	if amount <= 0 || !common.IsValidAddress(to) {
		panic("invalid mint arguments")
	}
	ctx := storage.GetContext()
	storage.Put(ctx, balanceKey(to), common.GetIntOrZero(ctx, balanceKey(to))+amount)
	storage.Put(ctx, supplyKey, common.GetIntOrZero(ctx, supplyKey)+amount)
	var minter interop.Hash160
	runtime.Notify("Transfer", minter, to, amount)
}

// postTransfer calls onNEP17Payment method of a contract recipient.
func postTransfer(from, to interop.Hash160, amount int, data interface{}) {
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

// isUsableAddress checks if the transfer sender is either the witnessed
// account or the calling contract.
func isUsableAddress(addr interop.Hash160) bool {
	if runtime.CheckWitness(addr) {
		return true
	}
	return common.BytesEqual(runtime.GetCallingScriptHash(), addr)
}

func balanceKey(holder interop.Hash160) []byte {
	return append([]byte{prefixBalance}, holder...)
}
