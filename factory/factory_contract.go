package factory

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nexus-protocol/nexus-contracts/common"
)

// Storage layout.
const (
	ownerKey  = "owner"
	vaultsKey = "vaults"

	// prefixAssetVault contains map from underlying asset hash to the
	// vault deployed for it.
	prefixAssetVault byte = 0x01
)

// Error messages forming the factory failure taxonomy. Tests assert these
// exact strings.
const (
	ErrVaultExists     = "vault already exists for asset"
	ErrIndexOutOfRange = "vault index out of range"
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner interop.Hash160
	})
	if !common.IsValidAddress(args.owner) {
		panic("invalid owner")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, ownerKey, args.owner)

	runtime.Log("nexus factory contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by the factory owner.
func Update(script []byte, manifest []byte, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("nexus factory contract updated")
}

// DeployVault deploys a new vault bound to the given underlying asset and
// yield source, owned by the factory owner, and records it in the asset
// directory. At most one vault exists per asset: the binding is enforced at
// creation time and is immutable afterwards. The caller supplies the
// compiled vault NEF and a manifest whose contract name must be unique per
// vault: native Management derives the deployed hash from the transaction
// sender, the NEF checksum and the manifest name. Can be invoked only by the
// factory owner.
//
// Produces VaultDeployed notification and returns the vault contract hash.
func DeployVault(asset, yieldSource interop.Hash160, name, symbol, description string, riskLevel int, nef []byte, manifest []byte) interop.Hash160 {
	if !common.IsValidAddress(asset) || !common.IsValidAddress(yieldSource) {
		panic("incorrect length of contract script hash")
	}

	ctx := storage.GetContext()
	owner := storage.Get(ctx, ownerKey).(interop.Hash160)
	common.CheckOwnerWitness(owner)

	if storage.Get(ctx, assetVaultKey(asset)) != nil {
		panic(ErrVaultExists)
	}

	deployData := []interface{}{owner, asset, yieldSource, name, symbol, description, riskLevel}
	deployed := management.DeployWithData(nef, manifest, deployData)
	hash := deployed.Hash

	storage.Put(ctx, assetVaultKey(asset), hash)
	vaults := common.GetList(ctx, vaultsKey)
	vaults = append(vaults, hash)
	common.SetSerialized(ctx, vaultsKey, vaults)

	runtime.Notify("VaultDeployed", asset, hash)
	return hash
}

// GetAllVaults returns hashes of every vault the factory deployed, in
// deployment order.
func GetAllVaults() [][]byte {
	ctx := storage.GetReadOnlyContext()
	return common.GetList(ctx, vaultsKey)
}

// GetVaultCount returns the number of vaults the factory deployed.
func GetVaultCount() int {
	ctx := storage.GetReadOnlyContext()
	return len(common.GetList(ctx, vaultsKey))
}

// GetVaultForAsset returns the hash of the vault bound to the given asset or
// nil when no vault exists for it. Never panics on a miss.
func GetVaultForAsset(asset interop.Hash160) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	val := storage.Get(ctx, assetVaultKey(asset))
	if val == nil {
		return nil
	}
	return val.(interop.Hash160)
}

// Vaults returns the hash of the vault at the given index of the deployment
// list.
func Vaults(index int) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	vaults := common.GetList(ctx, vaultsKey)
	if index < 0 || index >= len(vaults) {
		panic(ErrIndexOutOfRange)
	}
	return vaults[index]
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func assetVaultKey(asset interop.Hash160) []byte {
	return append([]byte{prefixAssetVault}, asset...)
}
