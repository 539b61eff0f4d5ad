package registry

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nexus-protocol/nexus-contracts/common"
)

type (
	// StealthProfile binds a username to its owning address and to the
	// commitment of an off-chain stealth meta-address. The commitment is
	// opaque to the contract and never validated beyond its length.
	StealthProfile struct {
		Username               string
		Owner                  interop.Hash160
		StealthMetaAddressHash []byte
		RegisteredAt           int
		IsActive               bool
	}

	// StealthPayment is an escrowed payment addressed to a username. All
	// fields except Claimed are immutable once created. The ephemeral key
	// hash and the encrypted note are an opaque payload for the
	// recipient's off-chain decryption.
	StealthPayment struct {
		Sender              interop.Hash160
		RecipientUsername   string
		Token               interop.Hash160
		Amount              int
		EphemeralPubKeyHash []byte
		EncryptedNote       string
		Claimed             bool
		Timestamp           int
	}

	// PendingSummary is returned by GetPendingPayments.
	PendingSummary struct {
		PaymentIDs   [][]byte
		TotalPending int
	}
)

// Prefixes used for contract data storage.
const (
	// prefixProfile contains map from ripemd160(username) to serialized
	// StealthProfile.
	prefixProfile byte = 0x01
	// prefixOwnerIndex contains map from owner address to their active
	// username. Kept consistent with prefixProfile on every mutation.
	prefixOwnerIndex byte = 0x02
	// prefixPayment contains map from payment ID to serialized
	// StealthPayment.
	prefixPayment byte = 0x10
	// prefixSent contains map from (sender + payment ID) to payment ID.
	prefixSent byte = 0x11
	// prefixReceived contains map from (ripemd160(username) + payment ID)
	// to payment ID. Append-only: claimed payments are filtered at read
	// time via the Claimed flag.
	prefixReceived byte = 0x12
)

// Storage keys for singleton registry parameters.
const (
	ownerKey           = "owner"
	registrationFeeKey = "registrationFee"
	paymentNonceKey    = "paymentNonce"
	collectedFeesKey   = "collectedFees"
)

// Username and fee constraints.
const (
	// minUsernameLength is the minimum username length.
	minUsernameLength = 3
	// maxUsernameLength is the maximum username length.
	maxUsernameLength = 20
	// maxRegistrationFee is the maximum configurable registration fee,
	// 100 GAS.
	maxRegistrationFee = 100_0000_0000
)

// Error messages forming the registry failure taxonomy. Tests assert these
// exact strings.
const (
	ErrInvalidUsername    = "invalid username"
	ErrUsernameTaken      = "username taken"
	ErrAlreadyRegistered  = "address already owns a username"
	ErrUsernameNotFound   = "username not found"
	ErrUsernameInactive   = "username not active"
	ErrZeroAmount         = "zero amount"
	ErrInvalidCommitment  = "invalid commitment length"
	ErrPaymentNotFound    = "payment not found"
	ErrAlreadyClaimed     = "payment already claimed"
	ErrNotUsernameOwner   = "not the username owner"
	ErrTransferFailed     = "token transfer failed"
	ErrFeeTransferFailed  = "registration fee transfer failed"
	ErrFeeOutOfRange      = "registration fee out of range"
	ErrUnexpectedTransfer = "unexpected token transfer"
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner           interop.Hash160
		registrationFee int
	})

	if !common.IsValidAddress(args.owner) {
		panic("invalid owner")
	}
	if args.registrationFee < 0 || args.registrationFee > maxRegistrationFee {
		panic(ErrFeeOutOfRange)
	}

	ctx := storage.GetContext()
	storage.Put(ctx, ownerKey, args.owner)
	storage.Put(ctx, registrationFeeKey, args.registrationFee)
	storage.Put(ctx, paymentNonceKey, 0)
	storage.Put(ctx, collectedFeesKey, 0)

	runtime.Log("stealth registry contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by the registry owner.
func Update(script []byte, manifest []byte, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("stealth registry contract updated")
}

// RegisterUsername registers a username for the specified owner together
// with the commitment of the owner's stealth meta-address. The username must
// be 3 to 20 characters of lowercase letters, digits and underscores, and
// either unused or previously deregistered. An address holds at most one
// active username at a time. The contract pulls exactly the registration fee
// in GAS from the owner, so overpayment is impossible. Must be invoked by
// the owner.
//
// Produces UsernameRegistered notification.
func RegisterUsername(owner interop.Hash160, username string, stealthMetaAddressHash []byte) {
	if !checkUsername(username) {
		panic(ErrInvalidUsername)
	}
	if len(stealthMetaAddressHash) != interop.Hash256Len {
		panic(ErrInvalidCommitment)
	}
	common.CheckWitness(owner)

	ctx := storage.GetContext()
	key := profileKey(username)
	data := storage.Get(ctx, key)
	if data != nil {
		p := std.Deserialize(data.([]byte)).(StealthProfile)
		if p.IsActive {
			panic(ErrUsernameTaken)
		}
	}
	if storage.Get(ctx, ownerIndexKey(owner)) != nil {
		panic(ErrAlreadyRegistered)
	}

	profile := StealthProfile{
		Username:               username,
		Owner:                  owner,
		StealthMetaAddressHash: stealthMetaAddressHash,
		RegisteredAt:           runtime.GetTime(),
		IsActive:               true,
	}
	common.SetSerialized(ctx, key, profile)
	storage.Put(ctx, ownerIndexKey(owner), username)

	fee := common.GetIntOrZero(ctx, registrationFeeKey)
	if fee > 0 {
		storage.Put(ctx, collectedFeesKey, common.GetIntOrZero(ctx, collectedFeesKey)+fee)
		if !gas.Transfer(owner, runtime.GetExecutingScriptHash(), fee, []byte(common.FeeMarker)) {
			panic(ErrFeeTransferFailed)
		}
	}

	runtime.Notify("UsernameRegistered", username, owner)
}

// TransferUsername transfers an active username to a new owner, rewriting
// both directions of the owner index. The new owner must not already hold an
// active username. Payments escrowed for the username before the transfer
// become claimable by the new owner. Must be invoked by the current owner.
//
// Produces UsernameTransferred notification.
func TransferUsername(username string, to interop.Hash160) {
	if !common.IsValidAddress(to) {
		panic("invalid receiver")
	}

	ctx := storage.GetContext()
	key := profileKey(username)
	profile := getActiveProfile(ctx, key)
	common.CheckOwnerWitness(profile.Owner)
	if storage.Get(ctx, ownerIndexKey(to)) != nil {
		panic(ErrAlreadyRegistered)
	}

	from := profile.Owner
	storage.Delete(ctx, ownerIndexKey(from))
	profile.Owner = to
	common.SetSerialized(ctx, key, profile)
	storage.Put(ctx, ownerIndexKey(to), username)

	runtime.Notify("UsernameTransferred", username, from, to)
}

// DeregisterUsername marks an active username inactive and clears its owner
// index entry, freeing the owner to register another name. Unclaimed
// payments addressed to the username stay escrowed and become claimable
// again only by whoever re-registers the name. Must be invoked by the
// current owner.
//
// Produces UsernameDeregistered notification.
func DeregisterUsername(username string) {
	ctx := storage.GetContext()
	key := profileKey(username)
	profile := getActiveProfile(ctx, key)
	common.CheckOwnerWitness(profile.Owner)

	profile.IsActive = false
	common.SetSerialized(ctx, key, profile)
	storage.Delete(ctx, ownerIndexKey(profile.Owner))

	runtime.Notify("UsernameDeregistered", username, profile.Owner)
}

// SendPayment escrows amount of the NEP-17 token for the recipient username
// and records the opaque stealth payload. The recipient's address is never
// read at send time: the payment is claimable by whoever owns the username
// at claim time. The payment ID is derived from the sender, the username and
// a global nonce, so IDs never collide. Must be invoked by the sender.
//
// Produces PaymentCreated notification and returns the payment ID.
func SendPayment(sender interop.Hash160, recipientUsername string, token interop.Hash160, amount int, ephemeralPubKeyHash []byte, encryptedNote string) []byte {
	if amount <= 0 {
		panic(ErrZeroAmount)
	}
	if !common.IsValidAddress(token) {
		panic("invalid token")
	}
	if len(ephemeralPubKeyHash) != interop.Hash256Len {
		panic(ErrInvalidCommitment)
	}
	common.CheckWitness(sender)

	ctx := storage.GetContext()
	recipientKey := profileKey(recipientUsername)
	getActiveProfile(ctx, recipientKey)

	nonce := common.GetIntOrZero(ctx, paymentNonceKey)
	storage.Put(ctx, paymentNonceKey, nonce+1)
	id := paymentID(sender, recipientUsername, nonce)

	payment := StealthPayment{
		Sender:              sender,
		RecipientUsername:   recipientUsername,
		Token:               token,
		Amount:              amount,
		EphemeralPubKeyHash: ephemeralPubKeyHash,
		EncryptedNote:       encryptedNote,
		Claimed:             false,
		Timestamp:           runtime.GetTime(),
	}
	common.SetSerialized(ctx, paymentKey(id), payment)
	storage.Put(ctx, sentIndexKey(sender, id), id)
	storage.Put(ctx, receivedIndexKey(recipientKey, id), id)

	if !contract.Call(token, "transfer", contract.All,
		sender, runtime.GetExecutingScriptHash(), amount, []byte(common.EscrowMarker)).(bool) {
		panic(ErrTransferFailed)
	}

	runtime.Notify("PaymentCreated", id, sender, recipientUsername, token, amount)
	return id
}

// ClaimPayment releases an escrowed payment to the current owner of its
// recipient username. Ownership is resolved fresh at claim time, not cached
// from send time: if the username changed hands after the payment was sent,
// the new owner claims it. The Claimed flag is stored strictly before the
// escrow transfer, so a payment can be claimed exactly once. Must be invoked
// by the current username owner.
//
// Produces PaymentClaimed notification.
func ClaimPayment(paymentId []byte) {
	ctx := storage.GetContext()
	payment := getPayment(ctx, paymentId)
	if payment.Claimed {
		panic(ErrAlreadyClaimed)
	}

	profile := getActiveProfile(ctx, profileKey(payment.RecipientUsername))
	if !runtime.CheckWitness(profile.Owner) {
		panic(ErrNotUsernameOwner)
	}

	payment.Claimed = true
	common.SetSerialized(ctx, paymentKey(paymentId), payment)

	if !contract.Call(payment.Token, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), profile.Owner, payment.Amount, nil).(bool) {
		panic(ErrTransferFailed)
	}

	runtime.Notify("PaymentClaimed", paymentId, profile.Owner, payment.Amount)
}

// IsUsernameAvailable checks whether the provided username can be
// registered: it is well-formed and either unused or inactive. A malformed
// username is reported as unavailable rather than faulting, so clients can
// probe candidate names without special-casing validation errors.
func IsUsernameAvailable(username string) bool {
	if !checkUsername(username) {
		return false
	}
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, profileKey(username))
	if data == nil {
		return true
	}
	p := std.Deserialize(data.([]byte)).(StealthProfile)
	return !p.IsActive
}

// GetProfile returns the stealth profile of the specified username, active
// or not.
func GetProfile(username string) StealthProfile {
	ctx := storage.GetReadOnlyContext()
	return getProfileOrPanic(ctx, profileKey(username))
}

// AddressToUsername returns the active username owned by the specified
// address or an empty string if there is none.
func AddressToUsername(owner interop.Hash160) string {
	ctx := storage.GetReadOnlyContext()
	val := storage.Get(ctx, ownerIndexKey(owner))
	if val == nil {
		return ""
	}
	return val.(string)
}

// GetPayment returns the escrowed payment with the specified ID.
func GetPayment(paymentId []byte) StealthPayment {
	ctx := storage.GetReadOnlyContext()
	return getPayment(ctx, paymentId)
}

// GetSentPayments returns IDs of all payments the specified address has
// sent, claimed ones included.
func GetSentPayments(sender interop.Hash160) [][]byte {
	ctx := storage.GetReadOnlyContext()
	prefix := append([]byte{prefixSent}, sender...)
	result := [][]byte{}
	it := storage.Find(ctx, prefix, storage.ValuesOnly)
	for iterator.Next(it) {
		result = append(result, iterator.Value(it).([]byte))
	}
	return result
}

// GetReceivedPayments returns IDs of all payments addressed to the specified
// username, claimed ones included. The index is append-only; use the Claimed
// flag of each payment to filter.
func GetReceivedPayments(username string) [][]byte {
	ctx := storage.GetReadOnlyContext()
	prefix := receivedPrefix(profileKey(username))
	result := [][]byte{}
	it := storage.Find(ctx, prefix, storage.ValuesOnly)
	for iterator.Next(it) {
		result = append(result, iterator.Value(it).([]byte))
	}
	return result
}

// PaymentsOf returns an iterator over IDs of all payments addressed to the
// specified username, claimed ones included.
func PaymentsOf(username string) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, receivedPrefix(profileKey(username)), storage.ValuesOnly)
}

// GetPendingPayments returns IDs of unclaimed payments addressed to the
// username together with their total amount. Amounts are summed only for
// payments in the same token as the first unclaimed one, since a single
// total across different tokens would mix units; use PendingAmountOf for a
// per-token aggregate.
func GetPendingPayments(username string) PendingSummary {
	ctx := storage.GetReadOnlyContext()
	var (
		ids        = [][]byte{}
		total      int
		totalToken interop.Hash160
	)
	prefix := receivedPrefix(profileKey(username))
	it := storage.Find(ctx, prefix, storage.ValuesOnly)
	for iterator.Next(it) {
		id := iterator.Value(it).([]byte)
		p := getPayment(ctx, id)
		if p.Claimed {
			continue
		}
		ids = append(ids, id)
		if totalToken == nil {
			totalToken = p.Token
		}
		if common.BytesEqual(p.Token, totalToken) {
			total += p.Amount
		}
	}
	return PendingSummary{
		PaymentIDs:   ids,
		TotalPending: total,
	}
}

// PendingAmountOf returns the total unclaimed amount escrowed for the
// username in the specified token.
func PendingAmountOf(username string, token interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	var total int
	prefix := receivedPrefix(profileKey(username))
	it := storage.Find(ctx, prefix, storage.ValuesOnly)
	for iterator.Next(it) {
		p := getPayment(ctx, iterator.Value(it).([]byte))
		if !p.Claimed && common.BytesEqual(p.Token, token) {
			total += p.Amount
		}
	}
	return total
}

// RegistrationFee returns the GAS fee charged for username registration.
func RegistrationFee() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, registrationFeeKey)
}

// SetRegistrationFee updates the registration fee. Can be invoked only by
// the registry owner.
func SetRegistrationFee(fee int) {
	if fee < 0 || fee > maxRegistrationFee {
		panic(ErrFeeOutOfRange)
	}
	ctx := storage.GetContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))
	storage.Put(ctx, registrationFeeKey, fee)
	runtime.Log("registration fee updated")
}

// CollectedFees returns the amount of registration fees accumulated and not
// yet collected, in GAS.
func CollectedFees() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, collectedFeesKey)
}

// CollectFees transfers all accumulated registration fees to receiver. Can
// be invoked only by the registry owner.
func CollectFees(receiver interop.Hash160) {
	if !common.IsValidAddress(receiver) {
		panic("invalid receiver")
	}
	ctx := storage.GetContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))

	amount := common.GetIntOrZero(ctx, collectedFeesKey)
	if amount == 0 {
		panic(ErrZeroAmount)
	}
	storage.Put(ctx, collectedFeesKey, 0)

	if !gas.Transfer(runtime.GetExecutingScriptHash(), receiver, amount, nil) {
		panic(ErrFeeTransferFailed)
	}
	runtime.Notify("FeesCollected", receiver, amount)
}

// OnNEP17Payment accepts GAS registration fees and token pulls into escrow
// that the registry itself initiated. GAS can also be a payment token, so
// both markers are allowed for it. Anything else aborts the transfer.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	if common.IsMarker(data, common.EscrowMarker) {
		return
	}
	caller := runtime.GetCallingScriptHash()
	if common.BytesEqual(caller, interop.Hash160(gas.Hash)) && common.IsMarker(data, common.FeeMarker) {
		return
	}
	panic(ErrUnexpectedTransfer)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// profileKey computes the storage key of a username's profile.
func profileKey(username string) []byte {
	return append([]byte{prefixProfile}, crypto.Ripemd160([]byte(username))...)
}

func ownerIndexKey(owner interop.Hash160) []byte {
	return append([]byte{prefixOwnerIndex}, owner...)
}

func paymentKey(id []byte) []byte {
	return append([]byte{prefixPayment}, id...)
}

func sentIndexKey(sender interop.Hash160, id []byte) []byte {
	return append(append([]byte{prefixSent}, sender...), id...)
}

// receivedPrefix computes the received-index scan prefix from an already
// computed profile key. Both the writer and all readers of the index must
// build keys through it.
func receivedPrefix(recipientKey []byte) []byte {
	return append([]byte{prefixReceived}, recipientKey[1:]...)
}

func receivedIndexKey(recipientKey []byte, id []byte) []byte {
	return append(receivedPrefix(recipientKey), id...)
}

// paymentID derives a globally unique payment ID from the sender, the
// recipient username and the registry-wide payment nonce. The username is
// length-prefixed so that no two (username, nonce) pairs can produce the
// same preimage.
func paymentID(sender interop.Hash160, username string, nonce int) []byte {
	data := append([]byte{}, sender...)
	data = append(data, byte(len(username)))
	data = append(data, []byte(username)...)
	var buf interface{} = nonce
	data = append(data, buf.([]byte)...)
	return crypto.Sha256(data)
}

// getProfileOrPanic returns the stored profile under the given key or panics
// when the username was never registered.
func getProfileOrPanic(ctx storage.Context, key []byte) StealthProfile {
	data := storage.Get(ctx, key)
	if data == nil {
		panic(ErrUsernameNotFound)
	}
	return std.Deserialize(data.([]byte)).(StealthProfile)
}

// getActiveProfile is getProfileOrPanic restricted to active profiles.
func getActiveProfile(ctx storage.Context, key []byte) StealthProfile {
	p := getProfileOrPanic(ctx, key)
	if !p.IsActive {
		panic(ErrUsernameInactive)
	}
	return p
}

func getPayment(ctx storage.Context, id []byte) StealthPayment {
	data := storage.Get(ctx, paymentKey(id))
	if data == nil {
		panic(ErrPaymentNotFound)
	}
	return std.Deserialize(data.([]byte)).(StealthPayment)
}

// checkUsername validates the username format: 3 to 20 characters of
// lowercase letters, digits and underscores.
func checkUsername(username string) bool {
	l := len(username)
	if l < minUsernameLength || l > maxUsernameLength {
		return false
	}
	for i := 0; i < l; i++ {
		if !isUsernameChar(username[i]) {
			return false
		}
	}
	return true
}

// isUsernameChar checks whether the provided char is a lowercase letter, a
// digit or an underscore.
func isUsernameChar(c uint8) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
