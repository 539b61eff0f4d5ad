// Package registry contains RPC wrappers for Nexus Stealth Registry contract.
package registry

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// RegistryPendingSummary is a contract-specific registry.PendingSummary type used by its methods.
type RegistryPendingSummary struct {
	PaymentIDs [][]byte
	TotalPending *big.Int
}

// RegistryStealthPayment is a contract-specific registry.StealthPayment type used by its methods.
type RegistryStealthPayment struct {
	Sender util.Uint160
	RecipientUsername string
	Token util.Uint160
	Amount *big.Int
	EphemeralPubKeyHash []byte
	EncryptedNote string
	Claimed bool
	Timestamp *big.Int
}

// RegistryStealthProfile is a contract-specific registry.StealthProfile type used by its methods.
type RegistryStealthProfile struct {
	Username string
	Owner util.Uint160
	StealthMetaAddressHash []byte
	RegisteredAt *big.Int
	IsActive bool
}

// UsernameRegisteredEvent represents "UsernameRegistered" event emitted by the contract.
type UsernameRegisteredEvent struct {
	Username string
	Owner util.Uint160
}

// UsernameTransferredEvent represents "UsernameTransferred" event emitted by the contract.
type UsernameTransferredEvent struct {
	Username string
	From util.Uint160
	To util.Uint160
}

// UsernameDeregisteredEvent represents "UsernameDeregistered" event emitted by the contract.
type UsernameDeregisteredEvent struct {
	Username string
	Owner util.Uint160
}

// PaymentCreatedEvent represents "PaymentCreated" event emitted by the contract.
type PaymentCreatedEvent struct {
	PaymentID []byte
	Sender util.Uint160
	RecipientUsername string
	Token util.Uint160
	Amount *big.Int
}

// PaymentClaimedEvent represents "PaymentClaimed" event emitted by the contract.
type PaymentClaimedEvent struct {
	PaymentID []byte
	Receiver util.Uint160
	Amount *big.Int
}

// FeesCollectedEvent represents "FeesCollected" event emitted by the contract.
type FeesCollectedEvent struct {
	Receiver util.Uint160
	Amount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
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

// AddressToUsername invokes `addressToUsername` method of contract.
func (c *ContractReader) AddressToUsername(owner util.Uint160) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "addressToUsername", owner))
}

// CollectedFees invokes `collectedFees` method of contract.
func (c *ContractReader) CollectedFees() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "collectedFees"))
}

// GetPayment invokes `getPayment` method of contract.
func (c *ContractReader) GetPayment(paymentId []byte) (*RegistryStealthPayment, error) {
	return itemToRegistryStealthPayment(unwrap.Item(c.invoker.Call(c.hash, "getPayment", paymentId)))
}

// GetPendingPayments invokes `getPendingPayments` method of contract.
func (c *ContractReader) GetPendingPayments(username string) (*RegistryPendingSummary, error) {
	return itemToRegistryPendingSummary(unwrap.Item(c.invoker.Call(c.hash, "getPendingPayments", username)))
}

// GetProfile invokes `getProfile` method of contract.
func (c *ContractReader) GetProfile(username string) (*RegistryStealthProfile, error) {
	return itemToRegistryStealthProfile(unwrap.Item(c.invoker.Call(c.hash, "getProfile", username)))
}

// GetReceivedPayments invokes `getReceivedPayments` method of contract.
func (c *ContractReader) GetReceivedPayments(username string) ([][]byte, error) {
	return unwrap.ArrayOfBytes(c.invoker.Call(c.hash, "getReceivedPayments", username))
}

// GetSentPayments invokes `getSentPayments` method of contract.
func (c *ContractReader) GetSentPayments(sender util.Uint160) ([][]byte, error) {
	return unwrap.ArrayOfBytes(c.invoker.Call(c.hash, "getSentPayments", sender))
}

// IsUsernameAvailable invokes `isUsernameAvailable` method of contract.
func (c *ContractReader) IsUsernameAvailable(username string) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isUsernameAvailable", username))
}

// PaymentsOf invokes `paymentsOf` method of contract.
func (c *ContractReader) PaymentsOf(username string) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "paymentsOf", username))
}

// PaymentsOfExpanded is similar to PaymentsOf (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) PaymentsOfExpanded(username string, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "paymentsOf", _numOfIteratorItems, username))
}

// PendingAmountOf invokes `pendingAmountOf` method of contract.
func (c *ContractReader) PendingAmountOf(username string, token util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "pendingAmountOf", username, token))
}

// RegistrationFee invokes `registrationFee` method of contract.
func (c *ContractReader) RegistrationFee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "registrationFee"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// ClaimPayment creates a transaction invoking `claimPayment` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ClaimPayment(paymentId []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claimPayment", paymentId)
}

// ClaimPaymentTransaction creates a transaction invoking `claimPayment` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ClaimPaymentTransaction(paymentId []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "claimPayment", paymentId)
}

// ClaimPaymentUnsigned creates a transaction invoking `claimPayment` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ClaimPaymentUnsigned(paymentId []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "claimPayment", nil, paymentId)
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

// DeregisterUsername creates a transaction invoking `deregisterUsername` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DeregisterUsername(username string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deregisterUsername", username)
}

// DeregisterUsernameTransaction creates a transaction invoking `deregisterUsername` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeregisterUsernameTransaction(username string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deregisterUsername", username)
}

// DeregisterUsernameUnsigned creates a transaction invoking `deregisterUsername` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeregisterUsernameUnsigned(username string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deregisterUsername", nil, username)
}

// RegisterUsername creates a transaction invoking `registerUsername` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RegisterUsername(owner util.Uint160, username string, stealthMetaAddressHash []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "registerUsername", owner, username, stealthMetaAddressHash)
}

// RegisterUsernameTransaction creates a transaction invoking `registerUsername` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterUsernameTransaction(owner util.Uint160, username string, stealthMetaAddressHash []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "registerUsername", owner, username, stealthMetaAddressHash)
}

// RegisterUsernameUnsigned creates a transaction invoking `registerUsername` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterUsernameUnsigned(owner util.Uint160, username string, stealthMetaAddressHash []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "registerUsername", nil, owner, username, stealthMetaAddressHash)
}

// SendPayment creates a transaction invoking `sendPayment` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SendPayment(sender util.Uint160, recipientUsername string, token util.Uint160, amount *big.Int, ephemeralPubKeyHash []byte, encryptedNote string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "sendPayment", sender, recipientUsername, token, amount, ephemeralPubKeyHash, encryptedNote)
}

// SendPaymentTransaction creates a transaction invoking `sendPayment` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SendPaymentTransaction(sender util.Uint160, recipientUsername string, token util.Uint160, amount *big.Int, ephemeralPubKeyHash []byte, encryptedNote string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "sendPayment", sender, recipientUsername, token, amount, ephemeralPubKeyHash, encryptedNote)
}

// SendPaymentUnsigned creates a transaction invoking `sendPayment` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SendPaymentUnsigned(sender util.Uint160, recipientUsername string, token util.Uint160, amount *big.Int, ephemeralPubKeyHash []byte, encryptedNote string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "sendPayment", nil, sender, recipientUsername, token, amount, ephemeralPubKeyHash, encryptedNote)
}

// SetRegistrationFee creates a transaction invoking `setRegistrationFee` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetRegistrationFee(fee *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setRegistrationFee", fee)
}

// SetRegistrationFeeTransaction creates a transaction invoking `setRegistrationFee` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetRegistrationFeeTransaction(fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setRegistrationFee", fee)
}

// SetRegistrationFeeUnsigned creates a transaction invoking `setRegistrationFee` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetRegistrationFeeUnsigned(fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setRegistrationFee", nil, fee)
}

// TransferUsername creates a transaction invoking `transferUsername` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferUsername(username string, to util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferUsername", username, to)
}

// TransferUsernameTransaction creates a transaction invoking `transferUsername` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferUsernameTransaction(username string, to util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferUsername", username, to)
}

// TransferUsernameUnsigned creates a transaction invoking `transferUsername` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferUsernameUnsigned(username string, to util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferUsername", nil, username, to)
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

// itemToRegistryPendingSummary converts stack item into *RegistryPendingSummary.
func itemToRegistryPendingSummary(item stackitem.Item, err error) (*RegistryPendingSummary, error) {
	if err != nil {
		return nil, err
	}
	var res = new(RegistryPendingSummary)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of RegistryPendingSummary from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *RegistryPendingSummary) FromStackItem(item stackitem.Item) error {
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
	res.PaymentIDs, err = func (item stackitem.Item) ([][]byte, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([][]byte, len(arr))
		for i := range arr {
			res[i], err = arr[i].TryBytes()
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field PaymentIDs: %w", err)
	}

	index++
	res.TotalPending, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalPending: %w", err)
	}

	return nil
}

// itemToRegistryStealthPayment converts stack item into *RegistryStealthPayment.
func itemToRegistryStealthPayment(item stackitem.Item, err error) (*RegistryStealthPayment, error) {
	if err != nil {
		return nil, err
	}
	var res = new(RegistryStealthPayment)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of RegistryStealthPayment from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *RegistryStealthPayment) FromStackItem(item stackitem.Item) error {
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
	res.Sender, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Sender: %w", err)
	}

	index++
	res.RecipientUsername, err = func (item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field RecipientUsername: %w", err)
	}

	index++
	res.Token, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Token: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	res.EphemeralPubKeyHash, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field EphemeralPubKeyHash: %w", err)
	}

	index++
	res.EncryptedNote, err = func (item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field EncryptedNote: %w", err)
	}

	index++
	res.Claimed, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Claimed: %w", err)
	}

	index++
	res.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}

// itemToRegistryStealthProfile converts stack item into *RegistryStealthProfile.
func itemToRegistryStealthProfile(item stackitem.Item, err error) (*RegistryStealthProfile, error) {
	if err != nil {
		return nil, err
	}
	var res = new(RegistryStealthProfile)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of RegistryStealthProfile from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *RegistryStealthProfile) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Username, err = func (item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field Username: %w", err)
	}

	index++
	res.Owner, err = func (item stackitem.Item) (util.Uint160, error) {
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
	res.StealthMetaAddressHash, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field StealthMetaAddressHash: %w", err)
	}

	index++
	res.RegisteredAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field RegisteredAt: %w", err)
	}

	index++
	res.IsActive, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field IsActive: %w", err)
	}

	return nil
}

// PaymentCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "PaymentCreated" name from the provided [result.ApplicationLog].
func PaymentCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PaymentCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PaymentCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "PaymentCreated" {
				continue
			}
			event := new(PaymentCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PaymentCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PaymentCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *PaymentCreatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.PaymentID, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field PaymentID: %w", err)
	}

	index++
	e.Sender, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Sender: %w", err)
	}

	index++
	e.RecipientUsername, err = func (item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field RecipientUsername: %w", err)
	}

	index++
	e.Token, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Token: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// PaymentClaimedEventsFromApplicationLog retrieves a set of all emitted events
// with "PaymentClaimed" name from the provided [result.ApplicationLog].
func PaymentClaimedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PaymentClaimedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PaymentClaimedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "PaymentClaimed" {
				continue
			}
			event := new(PaymentClaimedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PaymentClaimedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PaymentClaimedEvent or
// returns an error if it's not possible to do to so.
func (e *PaymentClaimedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
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
	e.PaymentID, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field PaymentID: %w", err)
	}

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

// UsernameRegisteredEventsFromApplicationLog retrieves a set of all emitted events
// with "UsernameRegistered" name from the provided [result.ApplicationLog].
func UsernameRegisteredEventsFromApplicationLog(log *result.ApplicationLog) ([]*UsernameRegisteredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*UsernameRegisteredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "UsernameRegistered" {
				continue
			}
			event := new(UsernameRegisteredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize UsernameRegisteredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to UsernameRegisteredEvent or
// returns an error if it's not possible to do to so.
func (e *UsernameRegisteredEvent) FromStackItem(item *stackitem.Array) error {
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
	e.Username, err = func (item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field Username: %w", err)
	}

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

	return nil
}

// UsernameTransferredEventsFromApplicationLog retrieves a set of all emitted events
// with "UsernameTransferred" name from the provided [result.ApplicationLog].
func UsernameTransferredEventsFromApplicationLog(log *result.ApplicationLog) ([]*UsernameTransferredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*UsernameTransferredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "UsernameTransferred" {
				continue
			}
			event := new(UsernameTransferredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize UsernameTransferredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to UsernameTransferredEvent or
// returns an error if it's not possible to do to so.
func (e *UsernameTransferredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
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
	e.Username, err = func (item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field Username: %w", err)
	}

	index++
	e.From, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.To, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field To: %w", err)
	}

	return nil
}

// UsernameDeregisteredEventsFromApplicationLog retrieves a set of all emitted events
// with "UsernameDeregistered" name from the provided [result.ApplicationLog].
func UsernameDeregisteredEventsFromApplicationLog(log *result.ApplicationLog) ([]*UsernameDeregisteredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*UsernameDeregisteredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "UsernameDeregistered" {
				continue
			}
			event := new(UsernameDeregisteredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize UsernameDeregisteredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to UsernameDeregisteredEvent or
// returns an error if it's not possible to do to so.
func (e *UsernameDeregisteredEvent) FromStackItem(item *stackitem.Array) error {
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
	e.Username, err = func (item stackitem.Item) (string, error) {
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
		return fmt.Errorf("field Username: %w", err)
	}

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
