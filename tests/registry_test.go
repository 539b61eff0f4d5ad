package tests

import (
	"bytes"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nexus-protocol/nexus-contracts/common"
	"github.com/stretchr/testify/require"
)

const registrationFee = 1_0000_0000

type registryEnv struct {
	e        *neotest.Executor
	registry *neotest.ContractInvoker
	token    *neotest.ContractInvoker
	gas      *neotest.ContractInvoker

	registryHash util.Uint160
	tokenHash    util.Uint160
	gasHash      util.Uint160
}

func newRegistryEnv(t *testing.T, fee int64) *registryEnv {
	e := newExecutor(t)
	registryHash := deployRegistryContract(t, e, fee)
	tokenHash := deployTokenContract(t, e, "USDN", 8)
	gasHash := e.NativeHash(t, nativenames.Gas)
	return &registryEnv{
		e:            e,
		registry:     e.CommitteeInvoker(registryHash),
		token:        e.CommitteeInvoker(tokenHash),
		gas:          e.CommitteeInvoker(gasHash),
		registryHash: registryHash,
		tokenHash:    tokenHash,
		gasHash:      gasHash,
	}
}

// register creates a fresh account and registers the given username for it.
func (r *registryEnv) register(t *testing.T, username string) neotest.Signer {
	acc := r.e.NewAccount(t)
	r.registry.WithSigners(acc).Invoke(t, stackitem.Null{}, "registerUsername",
		acc.ScriptHash(), username, randomBytes(32))
	return acc
}

func (r *registryEnv) gasBalance(t *testing.T, acc util.Uint160) int64 {
	s, err := r.gas.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	return itemToInt64(t, s.Pop().Item())
}

// expectedPaymentID mirrors the on-chain payment ID derivation: SHA-256 over
// the sender hash, the length-prefixed username and the VM byte form of the
// nonce.
func expectedPaymentID(sender util.Uint160, username string, nonce int64) []byte {
	data := append(sender.BytesBE(), byte(len(username)))
	data = append(data, []byte(username)...)
	data = append(data, bigint.ToBytes(big.NewInt(nonce))...)
	id := sha256.Sum256(data)
	return id[:]
}

func TestRegistryRegisterUsername(t *testing.T) {
	r := newRegistryEnv(t, registrationFee)
	user := r.e.NewAccount(t)
	userHash := user.ScriptHash()
	cUser := r.registry.WithSigners(user)
	commitment := randomBytes(32)

	r.registry.Invoke(t, registrationFee, "registrationFee")
	r.registry.Invoke(t, common.Version, "version")

	cUser.InvokeFail(t, "invalid username", "registerUsername", userHash, "al", commitment)
	cUser.InvokeFail(t, "invalid username", "registerUsername", userHash,
		"a23456789012345678901", commitment)
	cUser.InvokeFail(t, "invalid username", "registerUsername", userHash, "Alice", commitment)
	cUser.InvokeFail(t, "invalid username", "registerUsername", userHash, "al ice", commitment)
	cUser.InvokeFail(t, "invalid commitment length", "registerUsername", userHash,
		"alice", randomBytes(31))

	stranger := r.e.NewAccount(t)
	r.registry.WithSigners(stranger).InvokeFail(t, common.ErrWitnessFailed,
		"registerUsername", userHash, "alice", commitment)

	r.registry.Invoke(t, true, "isUsernameAvailable", "alice")
	r.registry.Invoke(t, false, "isUsernameAvailable", "Alice")
	r.registry.Invoke(t, false, "isUsernameAvailable", "al")
	cUser.Invoke(t, stackitem.Null{}, "registerUsername", userHash, "alice", commitment)
	registeredAt := r.e.TopBlock(t).Timestamp

	r.registry.Invoke(t, false, "isUsernameAvailable", "alice")
	r.registry.Invoke(t, "alice", "addressToUsername", userHash)
	require.Equal(t, int64(registrationFee), r.gasBalance(t, r.registryHash))
	r.registry.Invoke(t, registrationFee, "collectedFees")

	s, err := r.registry.TestInvoke(t, "getProfile", "alice")
	require.NoError(t, err)
	profile := s.Pop().Array()
	name, err := profile[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, "alice", string(name))
	owner, err := profile[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, userHash.BytesBE(), owner)
	meta, err := profile[2].TryBytes()
	require.NoError(t, err)
	require.Equal(t, commitment, meta)
	require.Equal(t, int64(registeredAt), itemToInt64(t, profile[3]))
	active, err := profile[4].TryBool()
	require.NoError(t, err)
	require.True(t, active)

	other := r.e.NewAccount(t)
	r.registry.WithSigners(other).InvokeFail(t, "username taken",
		"registerUsername", other.ScriptHash(), "alice", commitment)
	cUser.InvokeFail(t, "address already owns a username",
		"registerUsername", userHash, "alice2", commitment)

	r.registry.InvokeFail(t, "username not found", "getProfile", "bob")
	r.registry.Invoke(t, "", "addressToUsername", other.ScriptHash())
}

func TestRegistryTransferUsername(t *testing.T) {
	r := newRegistryEnv(t, 0)
	alice := r.register(t, "alice")
	aliceHash := alice.ScriptHash()
	bob := r.e.NewAccount(t)
	bobHash := bob.ScriptHash()

	r.registry.WithSigners(bob).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"transferUsername", "alice", bobHash)
	r.registry.WithSigners(alice).InvokeFail(t, "username not found",
		"transferUsername", "carol", bobHash)

	r.registry.WithSigners(alice).Invoke(t, stackitem.Null{},
		"transferUsername", "alice", bobHash)
	r.registry.Invoke(t, "alice", "addressToUsername", bobHash)
	r.registry.Invoke(t, "", "addressToUsername", aliceHash)
	r.registry.Invoke(t, false, "isUsernameAvailable", "alice")

	// The receiving address must not hold a name already.
	carol := r.register(t, "carol")
	r.registry.WithSigners(bob).InvokeFail(t, "address already owns a username",
		"transferUsername", "alice", carol.ScriptHash())
}

func TestRegistryDeregisterUsername(t *testing.T) {
	r := newRegistryEnv(t, 0)
	alice := r.register(t, "alice")
	aliceHash := alice.ScriptHash()
	cAlice := r.registry.WithSigners(alice)

	r.registry.WithSigners(r.e.NewAccount(t)).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"deregisterUsername", "alice")
	cAlice.InvokeFail(t, "username not found", "deregisterUsername", "bob")

	cAlice.Invoke(t, stackitem.Null{}, "deregisterUsername", "alice")
	r.registry.Invoke(t, true, "isUsernameAvailable", "alice")
	r.registry.Invoke(t, "", "addressToUsername", aliceHash)
	cAlice.InvokeFail(t, "username not active", "deregisterUsername", "alice")

	// The freed address can pick a new name and the freed name a new owner.
	cAlice.Invoke(t, stackitem.Null{}, "registerUsername", aliceHash, "alice2", randomBytes(32))
	r.register(t, "alice")
	r.registry.Invoke(t, false, "isUsernameAvailable", "alice")
}

func TestRegistrySendPayment(t *testing.T) {
	r := newRegistryEnv(t, 0)
	r.register(t, "alice")
	bob := r.e.NewAccount(t)
	bobHash := bob.ScriptHash()
	r.token.Invoke(t, stackitem.Null{}, "mint", bobHash, 10_000)
	cBob := r.registry.WithSigners(bob)
	ephemeral := randomBytes(32)

	cBob.InvokeFail(t, "zero amount", "sendPayment",
		bobHash, "alice", r.tokenHash, 0, ephemeral, "note")
	cBob.InvokeFail(t, "invalid commitment length", "sendPayment",
		bobHash, "alice", r.tokenHash, 500, randomBytes(16), "note")
	cBob.InvokeFail(t, "username not found", "sendPayment",
		bobHash, "carol", r.tokenHash, 500, ephemeral, "note")
	r.registry.WithSigners(r.e.NewAccount(t)).InvokeFail(t, common.ErrWitnessFailed,
		"sendPayment", bobHash, "alice", r.tokenHash, 500, ephemeral, "note")

	id := expectedPaymentID(bobHash, "alice", 0)
	cBob.Invoke(t, id, "sendPayment", bobHash, "alice", r.tokenHash, 500, ephemeral, "note")
	sentAt := r.e.TopBlock(t).Timestamp
	r.token.Invoke(t, 500, "balanceOf", r.registryHash)
	r.token.Invoke(t, 9500, "balanceOf", bobHash)

	s, err := r.registry.TestInvoke(t, "getPayment", id)
	require.NoError(t, err)
	payment := s.Pop().Array()
	sender, err := payment[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, bobHash.BytesBE(), sender)
	username, err := payment[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, "alice", string(username))
	token, err := payment[2].TryBytes()
	require.NoError(t, err)
	require.Equal(t, r.tokenHash.BytesBE(), token)
	require.Equal(t, int64(500), itemToInt64(t, payment[3]))
	eph, err := payment[4].TryBytes()
	require.NoError(t, err)
	require.Equal(t, ephemeral, eph)
	note, err := payment[5].TryBytes()
	require.NoError(t, err)
	require.Equal(t, "note", string(note))
	claimed, err := payment[6].TryBool()
	require.NoError(t, err)
	require.False(t, claimed)
	require.Equal(t, int64(sentAt), itemToInt64(t, payment[7]))

	s, err = r.registry.TestInvoke(t, "getSentPayments", bobHash)
	require.NoError(t, err)
	sent := s.Pop().Array()
	require.Len(t, sent, 1)
	sentID, err := sent[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, id, sentID)

	s, err = r.registry.TestInvoke(t, "getReceivedPayments", "alice")
	require.NoError(t, err)
	require.Len(t, s.Pop().Array(), 1)

	// Insufficient balance faults and leaves no payment record behind.
	cBob.InvokeFail(t, "token transfer failed", "sendPayment",
		bobHash, "alice", r.tokenHash, 100_000, ephemeral, "note")
	s, err = r.registry.TestInvoke(t, "getSentPayments", bobHash)
	require.NoError(t, err)
	require.Len(t, s.Pop().Array(), 1)
}

func TestRegistryPaymentIDUniqueness(t *testing.T) {
	r := newRegistryEnv(t, 0)
	abc1 := r.register(t, "abc1")
	abc := r.register(t, "abc")
	r.register(t, "filler")

	bob := r.e.NewAccount(t)
	bobHash := bob.ScriptHash()
	r.token.Invoke(t, stackitem.Null{}, "mint", bobHash, 10_000)
	cBob := r.registry.WithSigners(bob)

	// Usernames "abc1" at nonce 0 and "abc" at nonce 49 concatenate to the
	// same bytes when the username is not length-prefixed in the ID
	// preimage: 0x31 ('1') doubles as the byte form of 49.
	id1 := expectedPaymentID(bobHash, "abc1", 0)
	cBob.Invoke(t, id1, "sendPayment",
		bobHash, "abc1", r.tokenHash, 700, randomBytes(32), "first")

	for nonce := int64(1); nonce < 49; nonce++ {
		cBob.Invoke(t, expectedPaymentID(bobHash, "filler", nonce), "sendPayment",
			bobHash, "filler", r.tokenHash, 1, randomBytes(32), "")
	}

	id2 := expectedPaymentID(bobHash, "abc", 49)
	cBob.Invoke(t, id2, "sendPayment",
		bobHash, "abc", r.tokenHash, 5, randomBytes(32), "second")
	require.NotEqual(t, id1, id2)

	// The first payment record survived the second send intact.
	s, err := r.registry.TestInvoke(t, "getPayment", id1)
	require.NoError(t, err)
	payment := s.Pop().Array()
	username, err := payment[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, "abc1", string(username))
	require.Equal(t, int64(700), itemToInt64(t, payment[3]))

	r.registry.WithSigners(abc).InvokeFail(t, "not the username owner", "claimPayment", id1)
	r.registry.WithSigners(abc1).Invoke(t, stackitem.Null{}, "claimPayment", id1)
	r.token.Invoke(t, 700, "balanceOf", abc1.ScriptHash())
	r.registry.WithSigners(abc).Invoke(t, stackitem.Null{}, "claimPayment", id2)
	r.token.Invoke(t, 5, "balanceOf", abc.ScriptHash())
}

func TestRegistryClaimPayment(t *testing.T) {
	r := newRegistryEnv(t, 0)
	alice := r.register(t, "alice")
	aliceHash := alice.ScriptHash()
	bob := r.e.NewAccount(t)
	bobHash := bob.ScriptHash()
	r.token.Invoke(t, stackitem.Null{}, "mint", bobHash, 10_000)

	id := expectedPaymentID(bobHash, "alice", 0)
	r.registry.WithSigners(bob).Invoke(t, id, "sendPayment",
		bobHash, "alice", r.tokenHash, 500, randomBytes(32), "")

	r.registry.WithSigners(bob).InvokeFail(t, "not the username owner", "claimPayment", id)
	r.registry.WithSigners(alice).InvokeFail(t, "payment not found",
		"claimPayment", randomBytes(32))

	r.registry.WithSigners(alice).Invoke(t, stackitem.Null{}, "claimPayment", id)
	r.token.Invoke(t, 500, "balanceOf", aliceHash)
	r.token.Invoke(t, 0, "balanceOf", r.registryHash)

	// A payment is claimable exactly once.
	r.registry.WithSigners(alice).InvokeFail(t, "payment already claimed", "claimPayment", id)
	r.token.Invoke(t, 500, "balanceOf", aliceHash)
}

func TestRegistryClaimFollowsUsernameTransfer(t *testing.T) {
	r := newRegistryEnv(t, 0)
	alice := r.register(t, "alice")
	bob := r.e.NewAccount(t)
	bobHash := bob.ScriptHash()
	carol := r.e.NewAccount(t)
	carolHash := carol.ScriptHash()
	r.token.Invoke(t, stackitem.Null{}, "mint", bobHash, 10_000)

	id := expectedPaymentID(bobHash, "alice", 0)
	r.registry.WithSigners(bob).Invoke(t, id, "sendPayment",
		bobHash, "alice", r.tokenHash, 500, randomBytes(32), "")

	// Ownership is resolved at claim time: after the username moves, only
	// the new owner can claim, the payment does not follow the old one.
	r.registry.WithSigners(alice).Invoke(t, stackitem.Null{},
		"transferUsername", "alice", carolHash)
	r.registry.WithSigners(alice).InvokeFail(t, "not the username owner", "claimPayment", id)
	r.registry.WithSigners(carol).Invoke(t, stackitem.Null{}, "claimPayment", id)
	r.token.Invoke(t, 500, "balanceOf", carolHash)
	r.token.Invoke(t, 0, "balanceOf", alice.ScriptHash())
}

func TestRegistryPendingPayments(t *testing.T) {
	r := newRegistryEnv(t, 0)
	alice := r.register(t, "alice")
	bob := r.e.NewAccount(t)
	bobHash := bob.ScriptHash()
	r.token.Invoke(t, stackitem.Null{}, "mint", bobHash, 10_000)
	cBob := r.registry.WithSigners(bob)

	tokenID := expectedPaymentID(bobHash, "alice", 0)
	cBob.Invoke(t, tokenID, "sendPayment",
		bobHash, "alice", r.tokenHash, 500, randomBytes(32), "")
	// GAS doubles as a payment token.
	gasID := expectedPaymentID(bobHash, "alice", 1)
	cBob.Invoke(t, gasID, "sendPayment",
		bobHash, "alice", r.gasHash, 300, randomBytes(32), "")

	r.registry.Invoke(t, 500, "pendingAmountOf", "alice", r.tokenHash)
	r.registry.Invoke(t, 300, "pendingAmountOf", "alice", r.gasHash)

	s, err := r.registry.TestInvoke(t, "paymentsOf", "alice")
	require.NoError(t, err)
	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok)
	require.Len(t, iteratorToArray(iter), 2)

	// The pending total covers a single token: the one of the first
	// unclaimed payment in index order.
	firstAmount := int64(500)
	if bytes.Compare(gasID, tokenID) < 0 {
		firstAmount = 300
	}
	s, err = r.registry.TestInvoke(t, "getPendingPayments", "alice")
	require.NoError(t, err)
	pending := s.Pop().Array()
	require.Len(t, pending[0].Value().([]stackitem.Item), 2)
	require.Equal(t, firstAmount, itemToInt64(t, pending[1]))

	// Claimed payments drop out of every pending view.
	r.registry.WithSigners(alice).Invoke(t, stackitem.Null{}, "claimPayment", tokenID)
	r.registry.Invoke(t, 0, "pendingAmountOf", "alice", r.tokenHash)
	r.registry.Invoke(t, 300, "pendingAmountOf", "alice", r.gasHash)
	s, err = r.registry.TestInvoke(t, "getPendingPayments", "alice")
	require.NoError(t, err)
	pending = s.Pop().Array()
	require.Len(t, pending[0].Value().([]stackitem.Item), 1)
	require.Equal(t, int64(300), itemToInt64(t, pending[1]))
}

func TestRegistryFees(t *testing.T) {
	r := newRegistryEnv(t, registrationFee)
	receiver := r.e.NewAccount(t)
	receiverHash := receiver.ScriptHash()

	r.registry.WithSigners(receiver).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"setRegistrationFee", 5)
	r.registry.InvokeFail(t, "registration fee out of range",
		"setRegistrationFee", 101_0000_0000)
	r.registry.InvokeFail(t, "zero amount", "collectFees", receiverHash)

	r.register(t, "alice")
	r.register(t, "bob12")
	r.registry.Invoke(t, 2*registrationFee, "collectedFees")
	require.Equal(t, int64(2*registrationFee), r.gasBalance(t, r.registryHash))

	r.registry.WithSigners(receiver).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"collectFees", receiverHash)

	before := r.gasBalance(t, receiverHash)
	r.registry.Invoke(t, stackitem.Null{}, "collectFees", receiverHash)
	r.registry.Invoke(t, 0, "collectedFees")
	require.Equal(t, int64(0), r.gasBalance(t, r.registryHash))
	require.Equal(t, before+2*registrationFee, r.gasBalance(t, receiverHash))

	r.registry.Invoke(t, stackitem.Null{}, "setRegistrationFee", 5)
	r.registry.Invoke(t, 5, "registrationFee")
}

func TestRegistryUnsolicitedTransfer(t *testing.T) {
	r := newRegistryEnv(t, 0)
	user := r.e.NewAccount(t)
	userHash := user.ScriptHash()
	r.token.Invoke(t, stackitem.Null{}, "mint", userHash, 1000)

	cToken := r.token.WithSigners(user)
	cToken.InvokeFail(t, "unexpected token transfer", "transfer",
		userHash, r.registryHash, 100, nil)
	cToken.InvokeFail(t, "unexpected token transfer", "transfer",
		userHash, r.registryHash, 100, []byte(common.FeeMarker))
}
