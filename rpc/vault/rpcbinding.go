// Package vault contains RPC wrappers for Nexus Vault contract.
package vault

import (
	"errors"
	"fmt"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// VaultUserPosition is a contract-specific vault.UserPosition type used by its methods.
type VaultUserPosition struct {
	Shares *big.Int
	Assets *big.Int
	PendingYield *big.Int
}

// VaultVaultInfo is a contract-specific vault.VaultInfo type used by its methods.
type VaultVaultInfo struct {
	Name string
	Symbol string
	Description string
	Asset util.Uint160
	TVL *big.Int
	APY *big.Int
	RiskLevel *big.Int
	TotalShares *big.Int
}

// NexusDepositEvent represents "NexusDeposit" event emitted by the contract.
type NexusDepositEvent struct {
	Receiver util.Uint160
	Assets *big.Int
	Shares *big.Int
	Fee *big.Int
}

// NexusWithdrawEvent represents "NexusWithdraw" event emitted by the contract.
type NexusWithdrawEvent struct {
	Owner util.Uint160
	Assets *big.Int
	Shares *big.Int
	Fee *big.Int
}

// FeesCollectedEvent represents "FeesCollected" event emitted by the contract.
type FeesCollectedEvent struct {
	Receiver util.Uint160
	Amount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// AccruedFees invokes `accruedFees` method of contract.
func (c *ContractReader) AccruedFees() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "accruedFees"))
}

// Asset invokes `asset` method of contract.
func (c *ContractReader) Asset() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "asset"))
}

// BalanceOf invokes `balanceOf` method of contract.
func (c *ContractReader) BalanceOf(holder util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balanceOf", holder))
}

// ConvertToAssets invokes `convertToAssets` method of contract.
func (c *ContractReader) ConvertToAssets(shares *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "convertToAssets", shares))
}

// ConvertToShares invokes `convertToShares` method of contract.
func (c *ContractReader) ConvertToShares(assets *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "convertToShares", assets))
}

// Decimals invokes `decimals` method of contract.
func (c *ContractReader) Decimals() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "decimals"))
}

// DepositFeeBps invokes `depositFeeBps` method of contract.
func (c *ContractReader) DepositFeeBps() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "depositFeeBps"))
}

// GetCurrentAPY invokes `getCurrentAPY` method of contract.
func (c *ContractReader) GetCurrentAPY() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getCurrentAPY"))
}

// GetUserPosition invokes `getUserPosition` method of contract.
func (c *ContractReader) GetUserPosition(holder util.Uint160) (*VaultUserPosition, error) {
	return itemToVaultUserPosition(unwrap.Item(c.invoker.Call(c.hash, "getUserPosition", holder)))
}

// GetVaultInfo invokes `getVaultInfo` method of contract.
func (c *ContractReader) GetVaultInfo() (*VaultVaultInfo, error) {
	return itemToVaultVaultInfo(unwrap.Item(c.invoker.Call(c.hash, "getVaultInfo")))
}

// PreviewDeposit invokes `previewDeposit` method of contract.
func (c *ContractReader) PreviewDeposit(assets *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "previewDeposit", assets))
}

// PreviewWithdraw invokes `previewWithdraw` method of contract.
func (c *ContractReader) PreviewWithdraw(assets *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "previewWithdraw", assets))
}

// RiskLevel invokes `riskLevel` method of contract.
func (c *ContractReader) RiskLevel() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "riskLevel"))
}

// Symbol invokes `symbol` method of contract.
func (c *ContractReader) Symbol() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "symbol"))
}

// TotalAssets invokes `totalAssets` method of contract.
func (c *ContractReader) TotalAssets() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalAssets"))
}

// TotalSupply invokes `totalSupply` method of contract.
func (c *ContractReader) TotalSupply() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalSupply"))
}

// VaultDescription invokes `vaultDescription` method of contract.
func (c *ContractReader) VaultDescription() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "vaultDescription"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// WithdrawFeeBps invokes `withdrawFeeBps` method of contract.
func (c *ContractReader) WithdrawFeeBps() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "withdrawFeeBps"))
}

// CollectFees creates a transaction invoking `collectFees` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CollectFees(receiver util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "collectFees", receiver)
}

// CollectFeesTransaction creates a transaction invoking `collectFees` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CollectFeesTransaction(receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "collectFees", receiver)
}

// CollectFeesUnsigned creates a transaction invoking `collectFees` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CollectFeesUnsigned(receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "collectFees", nil, receiver)
}

// Deposit creates a transaction invoking `deposit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Deposit(from util.Uint160, assets *big.Int, receiver util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deposit", from, assets, receiver)
}

// DepositTransaction creates a transaction invoking `deposit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DepositTransaction(from util.Uint160, assets *big.Int, receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deposit", from, assets, receiver)
}

// DepositUnsigned creates a transaction invoking `deposit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DepositUnsigned(from util.Uint160, assets *big.Int, receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deposit", nil, from, assets, receiver)
}

// Redeem creates a transaction invoking `redeem` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Redeem(owner util.Uint160, shares *big.Int, receiver util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "redeem", owner, shares, receiver)
}

// RedeemTransaction creates a transaction invoking `redeem` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RedeemTransaction(owner util.Uint160, shares *big.Int, receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "redeem", owner, shares, receiver)
}

// RedeemUnsigned creates a transaction invoking `redeem` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RedeemUnsigned(owner util.Uint160, shares *big.Int, receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "redeem", nil, owner, shares, receiver)
}

// SetFees creates a transaction invoking `setFees` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetFees(depositBps *big.Int, withdrawBps *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setFees", depositBps, withdrawBps)
}

// SetFeesTransaction creates a transaction invoking `setFees` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetFeesTransaction(depositBps *big.Int, withdrawBps *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setFees", depositBps, withdrawBps)
}

// SetFeesUnsigned creates a transaction invoking `setFees` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetFeesUnsigned(depositBps *big.Int, withdrawBps *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setFees", nil, depositBps, withdrawBps)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(owner util.Uint160, assets *big.Int, receiver util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", owner, assets, receiver)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(owner util.Uint160, assets *big.Int, receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", owner, assets, receiver)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned(owner util.Uint160, assets *big.Int, receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, owner, assets, receiver)
}

// itemToVaultUserPosition converts stack item into *VaultUserPosition.
func itemToVaultUserPosition(item stackitem.Item, err error) (*VaultUserPosition, error) {
	if err != nil {
		return nil, err
	}
	var res = new(VaultUserPosition)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of VaultUserPosition from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *VaultUserPosition) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Shares, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Shares: %w", err)
	}

	index++
	res.Assets, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Assets: %w", err)
	}

	index++
	res.PendingYield, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field PendingYield: %w", err)
	}

	return nil
}

// itemToVaultVaultInfo converts stack item into *VaultVaultInfo.
func itemToVaultVaultInfo(item stackitem.Item, err error) (*VaultVaultInfo, error) {
	if err != nil {
		return nil, err
	}
	var res = new(VaultVaultInfo)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of VaultVaultInfo from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *VaultVaultInfo) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 8 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Name, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Symbol, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	res.Description, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	index++
	res.Asset, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Asset: %w", err)
	}

	index++
	res.TVL, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TVL: %w", err)
	}

	index++
	res.APY, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field APY: %w", err)
	}

	index++
	res.RiskLevel, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field RiskLevel: %w", err)
	}

	index++
	res.TotalShares, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalShares: %w", err)
	}

	return nil
}

// NexusDepositEventsFromApplicationLog retrieves a set of all emitted events
// with "NexusDeposit" name from the provided [result.ApplicationLog].
func NexusDepositEventsFromApplicationLog(log *result.ApplicationLog) ([]*NexusDepositEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*NexusDepositEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "NexusDeposit" {
				continue
			}
			event := new(NexusDepositEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize NexusDepositEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to NexusDepositEvent or
// returns an error if it's not possible to do to so.
func (e *NexusDepositEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Receiver, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Receiver: %w", err)
	}

	index++
	e.Assets, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Assets: %w", err)
	}

	index++
	e.Shares, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Shares: %w", err)
	}

	index++
	e.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	return nil
}

// NexusWithdrawEventsFromApplicationLog retrieves a set of all emitted events
// with "NexusWithdraw" name from the provided [result.ApplicationLog].
func NexusWithdrawEventsFromApplicationLog(log *result.ApplicationLog) ([]*NexusWithdrawEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*NexusWithdrawEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "NexusWithdraw" {
				continue
			}
			event := new(NexusWithdrawEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize NexusWithdrawEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to NexusWithdrawEvent or
// returns an error if it's not possible to do to so.
func (e *NexusWithdrawEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Owner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Assets, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Assets: %w", err)
	}

	index++
	e.Shares, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Shares: %w", err)
	}

	index++
	e.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	return nil
}

// FeesCollectedEventsFromApplicationLog retrieves a set of all emitted events
// with "FeesCollected" name from the provided [result.ApplicationLog].
func FeesCollectedEventsFromApplicationLog(log *result.ApplicationLog) ([]*FeesCollectedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*FeesCollectedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "FeesCollected" {
				continue
			}
			event := new(FeesCollectedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize FeesCollectedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to FeesCollectedEvent or
// returns an error if it's not possible to do to so.
func (e *FeesCollectedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Receiver, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Receiver: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}
