package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nexus-protocol/nexus-contracts/common"
)

// VaultInfo groups static and live vault parameters returned by GetVaultInfo.
type VaultInfo struct {
	Name        string
	Symbol      string
	Description string
	Asset       interop.Hash160
	TVL         int
	APY         int
	RiskLevel   int
	TotalShares int
}

// UserPosition groups a single holder's view of the vault returned by
// GetUserPosition.
type UserPosition struct {
	Shares       int
	Assets       int
	PendingYield int
}

// Storage keys for singleton vault parameters.
const (
	ownerKey       = "owner"
	assetKey       = "asset"
	yieldSourceKey = "yieldSource"
	nameKey        = "name"
	symbolKey      = "symbol"
	descriptionKey = "description"
	riskLevelKey   = "riskLevel"
	decimalsKey    = "decimals"
	depositFeeKey  = "depositFeeBps"
	withdrawFeeKey = "withdrawFeeBps"
	totalSharesKey = "totalShares"
	accruedFeesKey = "accruedFees"
)

// Prefixes used for per-holder contract data storage.
const (
	// prefixShares contains map from holder to their share balance.
	prefixShares byte = 0x01
	// prefixCostBasis contains map from holder to the net assets they
	// deposited. Used only to report pending yield, never for share
	// accounting.
	prefixCostBasis byte = 0x02
)

// Risk level classification. Informational, does not affect accounting.
const (
	RiskLow    = 1
	RiskMedium = 2
	RiskHigh   = 3
)

// Static APY estimates per risk level, in basis points. The live rate set by
// the yield source is visible through the floating exchange rate instead.
const (
	apyLowBps    = 380
	apyMediumBps = 620
	apyHighBps   = 910
)

// Error messages forming the vault failure taxonomy. Tests assert these
// exact strings.
const (
	ErrZeroAmount          = "zero amount"
	ErrInvalidReceiver     = "invalid receiver"
	ErrInsufficientShares  = "insufficient shares"
	ErrAssetTransferFailed = "asset transfer failed"
	ErrYieldWithdrawFailed = "yield source withdraw failed"
	ErrEmptyVault          = "vault has no assets"
	ErrDustDeposit         = "deposit too small for a share"
	ErrUnexpectedTransfer  = "unexpected token transfer"
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner       interop.Hash160
		asset       interop.Hash160
		yieldSource interop.Hash160
		name        string
		symbol      string
		description string
		riskLevel   int
	})

	if !common.IsValidAddress(args.owner) {
		panic("invalid owner")
	}
	if !common.IsValidAddress(args.asset) || !common.IsValidAddress(args.yieldSource) {
		panic("incorrect length of contract script hash")
	}
	if args.riskLevel < RiskLow || args.riskLevel > RiskHigh {
		panic("invalid risk level")
	}

	decimals := contract.Call(args.asset, "decimals", contract.ReadOnly).(int)

	ctx := storage.GetContext()
	storage.Put(ctx, ownerKey, args.owner)
	storage.Put(ctx, assetKey, args.asset)
	storage.Put(ctx, yieldSourceKey, args.yieldSource)
	storage.Put(ctx, nameKey, args.name)
	storage.Put(ctx, symbolKey, args.symbol)
	storage.Put(ctx, descriptionKey, args.description)
	storage.Put(ctx, riskLevelKey, args.riskLevel)
	storage.Put(ctx, decimalsKey, decimals)
	storage.Put(ctx, depositFeeKey, 0)
	storage.Put(ctx, withdrawFeeKey, 0)
	storage.Put(ctx, totalSharesKey, 0)
	storage.Put(ctx, accruedFeesKey, 0)

	runtime.Log("nexus vault contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by the vault owner.
func Update(script []byte, manifest []byte, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("nexus vault contract updated")
}

// Deposit pulls assets of the underlying token from the depositor, forwards
// the net-of-fee amount to the yield source and mints shares to receiver at
// the exchange rate in effect before the deposit. The first deposit into an
// empty vault mints shares 1:1 with the net amount. Must be invoked by the
// depositor.
//
// Produces NexusDeposit notification and returns the amount of minted shares.
func Deposit(from interop.Hash160, assets int, receiver interop.Hash160) int {
	if assets <= 0 {
		panic(ErrZeroAmount)
	}
	if !common.IsValidAddress(receiver) {
		panic(ErrInvalidReceiver)
	}
	common.CheckWitness(from)

	ctx := storage.GetContext()
	asset := storage.Get(ctx, assetKey).(interop.Hash160)
	yieldSource := storage.Get(ctx, yieldSourceKey).(interop.Hash160)
	vaultHash := runtime.GetExecutingScriptHash()

	// Exchange rate is fixed before any balance moves.
	totalAssetsBefore := yieldBalance(yieldSource, vaultHash)
	totalShares := common.GetIntOrZero(ctx, totalSharesKey)

	fee := common.FeeAmount(assets, common.GetIntOrZero(ctx, depositFeeKey))
	net := assets - fee

	shares := net
	if totalShares != 0 {
		if totalAssetsBefore == 0 {
			panic(ErrEmptyVault)
		}
		shares = net * totalShares / totalAssetsBefore
	}
	if shares <= 0 {
		panic(ErrDustDeposit)
	}

	storage.Put(ctx, sharesKey(receiver), getShares(ctx, receiver)+shares)
	storage.Put(ctx, totalSharesKey, totalShares+shares)
	storage.Put(ctx, costBasisKey(receiver), getCostBasis(ctx, receiver)+net)
	if fee != 0 {
		storage.Put(ctx, accruedFeesKey, common.GetIntOrZero(ctx, accruedFeesKey)+fee)
	}

	if !contract.Call(asset, "transfer", contract.All,
		from, vaultHash, assets, []byte(common.EscrowMarker)).(bool) {
		panic(ErrAssetTransferFailed)
	}
	if !contract.Call(asset, "transfer", contract.All,
		vaultHash, yieldSource, net, []byte(common.YieldMarker)).(bool) {
		panic(ErrAssetTransferFailed)
	}

	runtime.Notify("NexusDeposit", receiver, assets, shares, fee)
	return shares
}

// Withdraw pulls the exact gross assets amount back from the yield source,
// burning the required shares from owner rounded up, and pays the net-of-fee
// amount to receiver. Must be invoked by the share owner.
//
// Produces NexusWithdraw notification and returns the amount of burnt shares.
func Withdraw(owner interop.Hash160, assets int, receiver interop.Hash160) int {
	if assets <= 0 {
		panic(ErrZeroAmount)
	}
	ctx := storage.GetContext()
	totalAssets := TotalAssets()
	totalShares := common.GetIntOrZero(ctx, totalSharesKey)
	if totalShares == 0 || totalAssets == 0 {
		panic(ErrEmptyVault)
	}
	// Round shares up so a withdrawal can never extract more value than
	// the burnt shares represent.
	shares := (assets*totalShares + totalAssets - 1) / totalAssets
	withdrawInternal(ctx, owner, shares, assets, totalShares, receiver)
	return shares
}

// Redeem burns the exact shares amount from owner and pays the net-of-fee
// asset equivalent at the current exchange rate to receiver. Must be invoked
// by the share owner.
//
// Produces NexusWithdraw notification and returns the net assets paid out.
func Redeem(owner interop.Hash160, shares int, receiver interop.Hash160) int {
	if shares <= 0 {
		panic(ErrZeroAmount)
	}
	ctx := storage.GetContext()
	totalAssets := TotalAssets()
	totalShares := common.GetIntOrZero(ctx, totalSharesKey)
	if totalShares == 0 {
		panic(ErrEmptyVault)
	}
	// Assets round down, in the vault's favor.
	gross := shares * totalAssets / totalShares
	return withdrawInternal(ctx, owner, shares, gross, totalShares, receiver)
}

// withdrawInternal burns shares and releases gross assets from the yield
// source, retaining the withdrawal fee. All ledger writes happen before any
// token leaves the vault. Returns the net amount paid to receiver.
func withdrawInternal(ctx storage.Context, owner interop.Hash160, shares, gross, totalShares int, receiver interop.Hash160) int {
	if !common.IsValidAddress(receiver) {
		panic(ErrInvalidReceiver)
	}
	common.CheckWitness(owner)

	balance := getShares(ctx, owner)
	if balance < shares {
		panic(ErrInsufficientShares)
	}

	fee := common.FeeAmount(gross, common.GetIntOrZero(ctx, withdrawFeeKey))
	net := gross - fee

	// Balances are zeroed, not deleted, on full withdrawal.
	storage.Put(ctx, sharesKey(owner), balance-shares)
	storage.Put(ctx, totalSharesKey, totalShares-shares)
	basis := getCostBasis(ctx, owner)
	storage.Put(ctx, costBasisKey(owner), basis*(balance-shares)/balance)
	if fee != 0 {
		storage.Put(ctx, accruedFeesKey, common.GetIntOrZero(ctx, accruedFeesKey)+fee)
	}

	asset := storage.Get(ctx, assetKey).(interop.Hash160)
	yieldSource := storage.Get(ctx, yieldSourceKey).(interop.Hash160)
	vaultHash := runtime.GetExecutingScriptHash()

	if !contract.Call(yieldSource, "withdraw", contract.All,
		asset, gross, vaultHash).(bool) {
		panic(ErrYieldWithdrawFailed)
	}
	if !contract.Call(asset, "transfer", contract.All,
		vaultHash, receiver, net, nil).(bool) {
		panic(ErrAssetTransferFailed)
	}

	runtime.Notify("NexusWithdraw", owner, gross, shares, fee)
	return net
}

// TotalAssets returns the amount of underlying assets under management as
// reported live by the yield source. Never cached: accrued yield changes it
// continuously.
func TotalAssets() int {
	ctx := storage.GetReadOnlyContext()
	yieldSource := storage.Get(ctx, yieldSourceKey).(interop.Hash160)
	return yieldBalance(yieldSource, runtime.GetExecutingScriptHash())
}

// TotalSupply returns the total amount of outstanding vault shares.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, totalSharesKey)
}

// BalanceOf returns the share balance of the specified holder.
func BalanceOf(holder interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getShares(ctx, holder)
}

// ConvertToShares returns the amount of shares the given assets are worth at
// the current exchange rate, 1:1 for an empty vault.
func ConvertToShares(assets int) int {
	ctx := storage.GetReadOnlyContext()
	totalShares := common.GetIntOrZero(ctx, totalSharesKey)
	if totalShares == 0 {
		return assets
	}
	totalAssets := TotalAssets()
	if totalAssets == 0 {
		panic(ErrEmptyVault)
	}
	return assets * totalShares / totalAssets
}

// ConvertToAssets returns the amount of assets the given shares are worth at
// the current exchange rate, 1:1 for an empty vault.
func ConvertToAssets(shares int) int {
	ctx := storage.GetReadOnlyContext()
	totalShares := common.GetIntOrZero(ctx, totalSharesKey)
	if totalShares == 0 {
		return shares
	}
	return shares * TotalAssets() / totalShares
}

// PreviewDeposit returns the amount of shares a deposit of the given assets
// would mint after the deposit fee.
func PreviewDeposit(assets int) int {
	ctx := storage.GetReadOnlyContext()
	return ConvertToShares(common.NetOfFee(assets, common.GetIntOrZero(ctx, depositFeeKey)))
}

// PreviewWithdraw returns the amount of shares a withdrawal of the given
// gross assets would burn, rounded up.
func PreviewWithdraw(assets int) int {
	ctx := storage.GetReadOnlyContext()
	totalShares := common.GetIntOrZero(ctx, totalSharesKey)
	if totalShares == 0 {
		return assets
	}
	totalAssets := TotalAssets()
	if totalAssets == 0 {
		panic(ErrEmptyVault)
	}
	return (assets*totalShares + totalAssets - 1) / totalAssets
}

// Asset returns the script hash of the underlying token.
func Asset() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, assetKey).(interop.Hash160)
}

// Symbol returns the vault share symbol.
func Symbol() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, symbolKey).(string)
}

// Decimals returns the share precision, which mirrors the underlying asset.
func Decimals() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, decimalsKey).(int)
}

// VaultDescription returns the human-readable vault description.
func VaultDescription() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, descriptionKey).(string)
}

// RiskLevel returns the static risk classification, 1 (low) to 3 (high).
func RiskLevel() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, riskLevelKey).(int)
}

// DepositFeeBps returns the deposit fee rate in basis points.
func DepositFeeBps() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, depositFeeKey)
}

// WithdrawFeeBps returns the withdrawal fee rate in basis points.
func WithdrawFeeBps() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, withdrawFeeKey)
}

// AccruedFees returns the amount of collected-but-unclaimed protocol fees in
// underlying asset units.
func AccruedFees() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, accruedFeesKey)
}

// GetCurrentAPY returns a static yield estimate for the vault's risk level,
// in basis points.
func GetCurrentAPY() int {
	switch RiskLevel() {
	case RiskMedium:
		return apyMediumBps
	case RiskHigh:
		return apyHighBps
	default:
		return apyLowBps
	}
}

// GetVaultInfo returns the static vault parameters together with the live
// TVL and share supply.
func GetVaultInfo() VaultInfo {
	ctx := storage.GetReadOnlyContext()
	return VaultInfo{
		Name:        storage.Get(ctx, nameKey).(string),
		Symbol:      storage.Get(ctx, symbolKey).(string),
		Description: storage.Get(ctx, descriptionKey).(string),
		Asset:       storage.Get(ctx, assetKey).(interop.Hash160),
		TVL:         TotalAssets(),
		APY:         GetCurrentAPY(),
		RiskLevel:   storage.Get(ctx, riskLevelKey).(int),
		TotalShares: common.GetIntOrZero(ctx, totalSharesKey),
	}
}

// GetUserPosition returns the holder's share balance, its current asset
// value and the yield accrued above the holder's deposited cost basis.
func GetUserPosition(holder interop.Hash160) UserPosition {
	ctx := storage.GetReadOnlyContext()
	shares := getShares(ctx, holder)
	assets := ConvertToAssets(shares)
	basis := getCostBasis(ctx, holder)
	pending := 0
	if assets > basis {
		pending = assets - basis
	}
	return UserPosition{
		Shares:       shares,
		Assets:       assets,
		PendingYield: pending,
	}
}

// SetFees updates deposit and withdrawal fee rates. Rates apply from the next
// transaction on, never retroactively. Can be invoked only by the vault
// owner.
func SetFees(depositBps, withdrawBps int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))
	common.CheckFeeBps(depositBps)
	common.CheckFeeBps(withdrawBps)
	storage.Put(ctx, depositFeeKey, depositBps)
	storage.Put(ctx, withdrawFeeKey, withdrawBps)
	runtime.Log("nexus vault fees updated")
}

// CollectFees transfers all accrued protocol fees to receiver. Can be
// invoked only by the vault owner.
func CollectFees(receiver interop.Hash160) {
	if !common.IsValidAddress(receiver) {
		panic(ErrInvalidReceiver)
	}
	ctx := storage.GetContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))

	amount := common.GetIntOrZero(ctx, accruedFeesKey)
	if amount == 0 {
		panic(ErrZeroAmount)
	}
	storage.Put(ctx, accruedFeesKey, 0)

	asset := storage.Get(ctx, assetKey).(interop.Hash160)
	if !contract.Call(asset, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), receiver, amount, nil).(bool) {
		panic(ErrAssetTransferFailed)
	}
	runtime.Notify("FeesCollected", receiver, amount)
}

// OnNEP17Payment accepts incoming transfers of the underlying asset that the
// vault itself initiated: escrow pulls from depositors and return legs from
// the yield source. Anything else aborts the transfer.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	caller := runtime.GetCallingScriptHash()
	asset := storage.Get(ctx, assetKey).(interop.Hash160)
	if !common.BytesEqual(caller, asset) {
		panic(ErrUnexpectedTransfer)
	}
	if !common.IsMarker(data, common.EscrowMarker) && !common.IsMarker(data, common.YieldMarker) {
		panic(ErrUnexpectedTransfer)
	}
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func sharesKey(holder interop.Hash160) []byte {
	return append([]byte{prefixShares}, holder...)
}

func costBasisKey(holder interop.Hash160) []byte {
	return append([]byte{prefixCostBasis}, holder...)
}

func getShares(ctx storage.Context, holder interop.Hash160) int {
	return common.GetIntOrZero(ctx, sharesKey(holder))
}

func getCostBasis(ctx storage.Context, holder interop.Hash160) int {
	return common.GetIntOrZero(ctx, costBasisKey(holder))
}

// yieldBalance queries the yield source for the supplier's principal plus
// accrued yield.
func yieldBalance(yieldSource, supplier interop.Hash160) int {
	return contract.Call(yieldSource, "balanceOf", contract.ReadOnly, supplier).(int)
}
